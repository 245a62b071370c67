package main

import (
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions", "transaction"},
		Short:   "Record and review transactions",
		Example: `  # Record lunch paid by card
  ledger tx add --type expense --amount 12.50 --category Food --payment credit --note "Lunch"

  # List this month's expenses
  ledger tx list --type expense`,
	}

	cmd.AddCommand(addTransactionCmd(opts))
	cmd.AddCommand(listTransactionsCmd(opts))
	cmd.AddCommand(updateTransactionCmd(opts))
	cmd.AddCommand(deleteTransactionCmd(opts))

	return cmd
}

// addTransactionFields registers the flags shared by add and update.
func addTransactionFields(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "income, expense, or debt")
	cmd.Flags().StringP("amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("category", "c", "", "category name or id")
	cmd.Flags().StringP("payment", "p", "", "payment method: cash, bank, credit, ewallet")
	cmd.Flags().StringP("note", "n", "", "free text note")
	cmd.Flags().String("tags", "", "comma separated tags")
}

// applyTransactionFields copies the flags the user set onto txn.
func (a *app) applyTransactionFields(cmd *cobra.Command, txn *model.Transaction) error {
	flags := cmd.Flags()
	ctx := cmd.Context()

	if flags.Changed("type") {
		s, _ := flags.GetString("type")
		kind, err := model.ParseKind(s)
		if err != nil {
			return err
		}
		txn.Kind = kind
	}
	if flags.Changed("amount") {
		s, _ := flags.GetString("amount")
		amount, err := parseAmount(s)
		if err != nil {
			return err
		}
		txn.Amount = amount
	}
	if flags.Changed("date") {
		s, _ := flags.GetString("date")
		date, err := model.ParseDate(s)
		if err != nil {
			return err
		}
		txn.Date = date
	}
	if flags.Changed("category") {
		ref, _ := flags.GetString("category")
		txn.CategoryID = ""
		if ref != "" {
			cat, err := a.findCategory(ctx, ref)
			if err != nil {
				return err
			}
			txn.CategoryID = cat.ID
		}
	}
	if flags.Changed("payment") {
		txn.PaymentMethod, _ = flags.GetString("payment")
	}
	if flags.Changed("note") {
		txn.Note, _ = flags.GetString("note")
	}
	if flags.Changed("tags") {
		s, _ := flags.GetString("tags")
		txn.Tags = model.ParseTags(s)
	}
	return nil
}

func addTransactionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			txn := &model.Transaction{
				Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			}
			if err := a.applyTransactionFields(cmd, txn); err != nil {
				return err
			}
			if err := a.ledger.Transactions.Add(cmd.Context(), txn); err != nil {
				return err
			}

			a.printf("%s Recorded %s of %s on %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				txn.Kind.Label(),
				a.format.KindAmount(txn.Kind, txn.Amount),
				txn.DateString(),
				cli.SubtleStyle.Render(txn.ID))
			return nil
		},
	}

	addTransactionFields(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTransactionsCmd(opts *rootOptions) *cobra.Command {
	var (
		kind     string
		category string
		all      bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			filter := service.TransactionFilter{Limit: limit}
			if !all {
				period, err := monthFlag(cmd)
				if err != nil {
					return err
				}
				filter.Period = &period
			}
			if kind != "" {
				k, err := model.ParseKind(kind)
				if err != nil {
					return err
				}
				filter.Kind = k
			}
			if category != "" {
				cat, err := a.findCategory(ctx, category)
				if err != nil {
					return err
				}
				filter.CategoryID = cat.ID
			}

			views, err := a.ledger.Transactions.List(ctx, filter)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				a.println(cli.SubtitleStyle.Render("No transactions found."))
				return nil
			}
			a.println(a.transactionTable(views))
			return nil
		},
	}

	addMonthFlag(cmd)
	cmd.Flags().StringVarP(&kind, "type", "t", "", "only this type")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category (name or id)")
	cmd.Flags().BoolVar(&all, "all", false, "ignore --month and list every transaction")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum rows (0 for no limit)")

	return cmd
}

func (a *app) transactionTable(views []ledger.TransactionView) string {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.DateString(),
			v.Kind.Label(),
			strings.TrimSpace(v.CategoryIcon + " " + v.CategoryName),
			a.format.KindAmount(v.Kind, v.Amount),
			v.PaymentMethod,
			v.Note,
			strings.Join(v.Tags, ","),
			v.ID,
		}
	}
	return cli.RenderTable([]string{"Date", "Type", "Category", "Amount", "Payment", "Note", "Tags", "ID"}, rows)
}

func updateTransactionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Long:  `Only the flags you pass are changed. Pass --category "" to clear the category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			view, err := a.ledger.Transactions.Get(ctx, args[0])
			if err != nil {
				return err
			}
			txn := view.Transaction
			if err := a.applyTransactionFields(cmd, &txn); err != nil {
				return err
			}
			if err := a.ledger.Transactions.Update(ctx, &txn); err != nil {
				return err
			}

			a.printf("%s Updated transaction %s\n", cli.SuccessStyle.Render(cli.SuccessIcon), cli.InfoStyle.Render(txn.ID))
			return nil
		},
	}

	addTransactionFields(cmd)
	return cmd
}

func deleteTransactionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			view, err := a.ledger.Transactions.Get(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, "Delete "+view.Kind.Label()+" of "+a.format.Amount(view.Amount)+" on "+view.DateString()+"?")
			if err != nil {
				return err
			}
			if !ok {
				a.println(cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := a.ledger.Transactions.Delete(ctx, view.ID); err != nil {
				return err
			}
			a.printf("%s Deleted transaction %s\n", cli.SuccessStyle.Render(cli.SuccessIcon), cli.InfoStyle.Render(view.ID))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}
