package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("No category named \"Rent\"", ErrNotFound)
	wrapped := fmt.Errorf("budget limit: %w", err)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "No category named \"Rent\"", UserMessage(wrapped))
	assert.Equal(t, "No category named \"Rent\": not found", err.Error())
	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "", "warn", "error"} {
		_, err := ParseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewHandler(nil, 0, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
