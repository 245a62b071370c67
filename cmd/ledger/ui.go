package main

import (
	"github.com/Veraticus/spice-ledger/internal/tui"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

func uiCmd(opts *rootOptions) *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Long: `Open a terminal UI with Dashboard, Transactions, Categories, and Budgets
views. Use [ and ] to change month, Tab or 1-4 to switch view, r to refresh,
and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(),
				tui.WithLedger(a.ledger),
				tui.WithBus(a.bus),
				tui.WithPeriod(period),
				tui.WithFormatter(a.format),
				tui.WithTheme(themes.ByName(theme)),
			)
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().StringVar(&theme, "theme", "dark", "color theme: dark or light")

	return cmd
}
