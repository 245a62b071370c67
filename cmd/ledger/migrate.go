package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the storage schema to the latest version.

Every command migrates on startup, so this is only needed to prepare a
database ahead of time or to check its schema version. For DynamoDB it
creates the tables when they do not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(opts.v)
			if err != nil {
				return err
			}

			store, err := openStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			slog.Info("Starting migration", "driver", cfg.Database.Driver, "database", cfg.Database.Path)
			sqliteStore, isSQLite := store.(*storage.SQLiteStorage)

			if status {
				if !isSQLite {
					return fmt.Errorf("schema versions are only tracked by the %s driver", config.DriverSQLite)
				}
				version, err := sqliteStore.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Schema version %d (latest %d)\n", cli.FolderIcon, version, storage.ExpectedSchemaVersion)
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Migrations completed"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the schema version without migrating")
	return cmd
}
