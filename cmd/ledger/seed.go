package main

import (
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/seed"
	"github.com/spf13/cobra"
)

func seedCmd(opts *rootOptions) *cobra.Command {
	defaults := seed.DefaultOptions()
	var genOpts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the ledger with demo data",
		Long: `Generate random transactions dated within the last --days days. Default
categories are created first when the ledger has none. Generated
transactions are tagged "` + seed.Tag + `".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := seed.NewGenerator(a.ledger.Categories, a.ledger.Transactions).Run(cmd.Context(), genOpts)
			if err != nil {
				return err
			}
			a.printf("%s Created %d categories and %d transactions\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), result.CategoriesCreated, result.TransactionsCreated)
			return nil
		},
	}

	cmd.Flags().IntVarP(&genOpts.Count, "count", "n", defaults.Count, "number of transactions")
	cmd.Flags().IntVar(&genOpts.Days, "days", defaults.Days, "spread dates over this many past days")
	cmd.Flags().Uint64Var(&genOpts.Seed, "seed", 0, "random seed for reproducible data (0 picks one)")

	return cmd
}
