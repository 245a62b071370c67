package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgressBar(&out, 3, "Importing")

	require.NoError(t, bar.Add(3))
	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Importing")
}
