package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Prompter asks the user questions on a terminal.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: bufio.NewReader(reader), writer: writer}
}

// ReadLine reads a trimmed line, returning ErrInputCancelled if ctx ends first.
// The pending read keeps running in the background after cancellation.
func (p *Prompter) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		value, err := p.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.value != "") {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Ask prints question and returns the answer, or def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, question, def string) (string, error) {
	label := question
	if def != "" {
		label = fmt.Sprintf("%s [%s]", question, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose lists options and returns the index of the one picked. It asks
// again until the answer is a valid number.
func (p *Prompter) Choose(ctx context.Context, question string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("no options to choose from")
	}
	for i, opt := range options {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, opt); err != nil {
			return -1, fmt.Errorf("failed to write option: %w", err)
		}
	}

	for {
		answer, err := p.Ask(ctx, question, "")
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Enter a number between 1 and %d", len(options)))); err != nil {
			return -1, fmt.Errorf("failed to write warning: %w", err)
		}
	}
}
