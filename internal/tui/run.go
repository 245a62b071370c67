package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/events"
	tea "github.com/charmbracelet/bubbletea"
)

// changeBuffer bounds queued change events. Reloads are pull-based, so a
// dropped event only skips a redundant reload.
const changeBuffer = 32

// Run starts the TUI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Ledger == nil {
		return errors.New("ledger is required")
	}

	var changes <-chan events.Event
	if cfg.Bus != nil {
		var stop func()
		changes, stop = subscribeChanges(cfg.Bus)
		defer stop()
	}

	p := tea.NewProgram(newModel(cfg, changes), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// subscribeChanges feeds every bus event into a buffered channel. stop
// unsubscribes and closes the channel; events published afterwards are
// ignored.
func subscribeChanges(bus *events.Bus) (<-chan events.Event, func()) {
	changes := make(chan events.Event, changeBuffer)
	var (
		mu     sync.Mutex
		closed bool
	)

	unsubscribe := bus.SubscribeAll(func(_ context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case changes <- e:
		default:
			slog.Debug("change queue full, dropping event", "topic", e.Topic, "action", e.Action)
		}
	})

	var once sync.Once
	stop := func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(changes)
			mu.Unlock()
		})
	}
	return changes, stop
}
