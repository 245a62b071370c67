package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/csvio"
		"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions and monthly reports",
	}

	cmd.AddCommand(exportCSVCmd(opts))
	cmd.AddCommand(exportSheetsCmd(opts))

	return cmd
}

func exportCSVCmd(opts *rootOptions) *cobra.Command {
	var output string
	var all bool

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write transactions as CSV",
		Long:  `Write transactions as CSV to --output, or to stdout. The output can be imported again with "ledger import csv".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.TransactionFilter{}
			if !all {
				period, err := monthFlag(cmd)
				if err != nil {
					return err
				}
				filter.Period = &period
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.store.GetTransactions(cmd.Context(), filter)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(filepath.Clean(output))
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := csvio.Export(w, txns); err != nil {
				return err
			}
			if output != "" {
				a.printf("%s Exported %d transactions to %s\n", cli.SuccessStyle.Render(cli.SuccessIcon), len(txns), output)
			}
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "export every transaction instead of one month")

	return cmd
}

func exportSheetsCmd(opts *rootOptions) *cobra.Command {
	var login bool

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write a monthly report to Google Sheets",
		Long: `Write the month's summary, budget status, and transactions to a Google
Sheets spreadsheet. Credentials come from the sheets.* config keys or the
GOOGLE_SHEETS_* environment variables. Pass --login to run the browser
consent flow and save a token first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			period, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			if login {
				if err := sheetsLogin(cmd, opts); err != nil {
					return err
				}
			}

			sheetsCfg, err := config.LoadSheetsConfig(opts.v)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.ledger.Dashboard.Report(ctx, period)
			if err != nil {
				return err
			}
			txns, err := a.ledger.Transactions.ListByPeriod(ctx, period)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}
			id, err := writer.Write(ctx, sheets.NewReport(report, txns))
			if err != nil {
				return err
			}

			a.printf("%s Wrote %s report to https://docs.google.com/spreadsheets/d/%s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), period, id)
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().BoolVar(&login, "login", false, "authorize with Google in the browser before exporting")

	return cmd
}

func sheetsLogin(cmd *cobra.Command, opts *rootOptions) error {
	cfg := sheets.DefaultConfig()
	cfg.ClientID = opts.v.GetString("sheets.client_id")
	cfg.ClientSecret = opts.v.GetString("sheets.client_secret")
	cfg.TokenFile = config.ExpandPath(opts.v.GetString("sheets.token_file"))
	cfg.LoadFromEnv()

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.TokenFile == "" {
		return fmt.Errorf("%w: sheets.client_id, sheets.client_secret and sheets.token_file are needed to log in",
			common.ErrMissingConfig)
	}

	if _, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    cfg.TokenFile,
	}); err != nil {
		return fmt.Errorf("google login failed: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Google account authorized"))
	return nil
}
