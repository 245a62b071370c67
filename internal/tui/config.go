package tui

import (
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Period    model.Period
	Ledger    *ledger.Ledger
	Bus       *events.Bus
	Formatter *cli.Formatter
	Width     int
	Height    int
	ShowHelp  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Period:    model.CurrentPeriod(),
		Formatter: cli.NewFormatter("$", "en"),
		Width:     100,
		Height:    30,
	}
}

// WithLedger sets the services the views read from.
func WithLedger(l *ledger.Ledger) Option {
	return func(c *Config) {
		c.Ledger = l
	}
}

// WithBus subscribes the views to change events on bus.
func WithBus(bus *events.Bus) Option {
	return func(c *Config) {
		c.Bus = bus
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithPeriod sets the month shown first.
func WithPeriod(p model.Period) Option {
	return func(c *Config) {
		c.Period = p
	}
}

// WithFormatter sets how amounts are rendered.
func WithFormatter(f *cli.Formatter) Option {
	return func(c *Config) {
		c.Formatter = f
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
