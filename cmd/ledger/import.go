package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/csvio"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from files",
		Long: `Import transactions from CSV exports or OFX/QFX bank statements.

A checkpoint is created before every import on the SQLite backend, so an
import can be undone with "ledger checkpoint restore".`,
	}

	cmd.AddCommand(importCSVCmd(opts))
	cmd.AddCommand(importOFXCmd(opts))

	return cmd
}

// autoCheckpoint snapshots a SQLite database before a bulk change.
func (a *app) autoCheckpoint(cmd *cobra.Command, operation string) {
	manager, err := a.checkpoints()
	if err != nil {
		common.LogDebug(cmd.Context(), "skipping automatic checkpoint", common.Fields{"reason": err.Error()})
		return
	}
	if err := manager.AutoCheckpoint(cmd.Context(), operation); err != nil {
		common.LogError(cmd.Context(), err, "automatic checkpoint failed", common.Fields{"operation": operation})
	}
}

func importCSVCmd(opts *rootOptions) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Import a CSV file",
		Long: `Import a CSV file with a header row. The date, amount, and type columns
are required; category_name or category_id, payment_method, note, and tags
are optional. Unknown category names leave the transaction uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.autoCheckpoint(cmd, "csv-import")

			var importerOpts []csvio.Option
			if !noProgress {
				importerOpts = append(importerOpts, csvio.WithProgress(cli.NewProgressBar(cmd.ErrOrStderr(), -1, "Reading rows")))
			}
			importer := csvio.NewImporter(a.store, a.ledger.Transactions, importerOpts...)

			result, err := importer.Import(cmd.Context(), f)
			if result != nil {
				a.printImportResult(result.Imported, result.Skipped, result.Errors)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress indicator")
	return cmd
}

func importOFXCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import OFX or QFX bank statements",
		Long: `Import OFX or QFX statements. Debits become expenses and credits become
income. Re-importing a statement skips the transactions already stored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			a.autoCheckpoint(cmd, "ofx-import")

			parser := ofx.NewParser()
			var txns []*model.Transaction
			var errs []error
			for _, path := range args {
				stmt, err := parseStatement(cmd, parser, path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				common.LogInfo(ctx, "parsed statement", common.Fields{
					"file":         path,
					"accounts":     len(stmt.Accounts),
					"transactions": len(stmt.Transactions),
				})
				txns = append(txns, stmt.Transactions...)
			}

			imported, err := a.ledger.Transactions.Import(ctx, txns)
			if err != nil {
				errs = append(errs, err)
			}
			a.printImportResult(imported, len(txns)-imported, errs)
			return errors.Join(errs...)
		},
	}

	return cmd
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) (*ofx.Statement, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	stmt, err := parser.Parse(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stmt, nil
}

func (a *app) printImportResult(imported, skipped int, errs []error) {
	a.printf("%s Imported %d transactions", cli.SuccessStyle.Render(cli.SuccessIcon), imported)
	if skipped > 0 {
		a.printf(", skipped %d", skipped)
	}
	a.println()
	for _, err := range errs {
		a.println("  " + cli.FormatWarning(err.Error()))
	}
}
