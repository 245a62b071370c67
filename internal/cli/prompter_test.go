package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      string
		expected string
	}{
		{name: "answer", input: "Groceries\n", expected: "Groceries"},
		{name: "trims whitespace", input: "  Groceries  \n", expected: "Groceries"},
		{name: "empty uses default", input: "\n", def: "Food", expected: "Food"},
		{name: "last line without newline", input: "Rent", expected: "Rent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Ask(context.Background(), "Category", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Contains(t, out.String(), "Category")
		})
	}
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), io.Discard)
			got, err := p.Confirm(context.Background(), "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrompter_Choose(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("9\nabc\n2\n"), &out)

	idx, err := p.Choose(context.Background(), "Pick", []string{"Food", "Rent"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number between 1 and 2"))

	_, err = p.Choose(context.Background(), "Pick", nil)
	assert.Error(t, err)
}

func TestPrompter_ChooseEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard)
	_, err := p.Choose(context.Background(), "Pick", []string{"Food"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	p := NewPrompter(pr, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
