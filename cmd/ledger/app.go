package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/dynamo"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/spf13/cobra"
)

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg       *config.Config
	store     service.Storage
	bus       *events.Bus
	forwarder *events.AMQPForwarder
	ledger    *ledger.Ledger
	format    *cli.Formatter
	out       io.Writer
}

// openApp loads configuration, opens and migrates the store, and wires the
// services to an event bus. Close must be called when done.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(opts.v)
	if err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		bus:    events.NewBus(),
		format: cli.NewFormatter(cfg.Display.Currency, cfg.Display.Language),
		out:    cmd.OutOrStdout(),
	}

	if cfg.Notify.AMQPURL != "" {
		forwarder, err := events.DialAMQP(cfg.Notify.AMQPURL, cfg.Notify.Exchange)
		if err != nil {
			slog.Warn("event forwarding disabled", "error", err)
		} else {
			forwarder.Attach(a.bus)
			a.forwarder = forwarder
		}
	}

	a.ledger = ledger.New(store, a.bus)
	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverDynamoDB:
		store, err := dynamo.New(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DynamoDB: %w", err)
		}
		return store, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := storage.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return store, nil
	}
}

// Close releases the store and the broker connection.
func (a *app) Close() {
	if a.forwarder != nil {
		if err := a.forwarder.Close(); err != nil {
			slog.Warn("failed to close event forwarder", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}

// checkpoints returns the checkpoint manager of a SQLite store.
func (a *app) checkpoints() (*storage.CheckpointManager, error) {
	sqliteStore, ok := a.store.(*storage.SQLiteStorage)
	if !ok {
		return nil, fmt.Errorf("checkpoints are only available with the %s driver", config.DriverSQLite)
	}
	manager, err := sqliteStore.NewCheckpointManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return manager, nil
}

// printf writes to the command output, ignoring write errors like fmt.Printf.
func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
