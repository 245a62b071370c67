package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/spf13/cobra"
)

const barWidth = 20

func budgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Set monthly limits and track spending against them",
		Example: `  # Spend at most 2000 this month
  ledger budget set 2000

  # Cap Food at 400 in March 2024
  ledger budget limit Food 400 --month 2024-03

  # Show progress
  ledger budget status`,
	}

	cmd.AddCommand(setBudgetCmd(opts))
	cmd.AddCommand(limitBudgetCmd(opts))
	cmd.AddCommand(unlimitBudgetCmd(opts))
	cmd.AddCommand(budgetStatusCmd(opts))

	return cmd
}

func setBudgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the month's total limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := monthFlag(cmd)
			if err != nil {
				return err
			}
			limit, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ledger.Budgets.SetTotalLimit(cmd.Context(), period, limit); err != nil {
				return err
			}
			a.printf("%s Total budget for %s set to %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), period, a.format.Amount(limit))
			return nil
		},
	}

	addMonthFlag(cmd)
	return cmd
}

func limitBudgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit <category> <amount>",
		Short: "Set one category's limit for the month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := monthFlag(cmd)
			if err != nil {
				return err
			}
			limit, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			cat, err := a.findCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.Budgets.SetCategoryLimit(ctx, period, cat.ID, limit); err != nil {
				return err
			}
			a.printf("%s %s %s limit for %s set to %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), cat.DisplayIcon(), cat.Name, period, a.format.Amount(limit))
			return nil
		},
	}

	addMonthFlag(cmd)
	return cmd
}

func unlimitBudgetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlimit <category>",
		Short: "Remove one category's limit for the month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			cat, err := a.findCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.Budgets.RemoveCategoryLimit(ctx, period, cat.ID); err != nil {
				return err
			}
			a.printf("%s Removed %s limit for %s\n", cli.SuccessStyle.Render(cli.SuccessIcon), cat.Name, period)
			return nil
		},
	}

	addMonthFlag(cmd)
	return cmd
}

func budgetStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against the month's limits",
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

			status, err := a.ledger.Budgets.Status(cmd.Context(), period)
			if err != nil {
				return err
			}
			a.println(cli.FormatTitle("Budget " + period.String()))
			a.println(a.renderBudgetStatus(status))
			return nil
		},
	}

	addMonthFlag(cmd)
	return cmd
}

func (a *app) renderBudgetStatus(status budget.Status) string {
	if status.TotalBudgetLimit.IsZero() && len(status.Categories) == 0 {
		return cli.SubtitleStyle.Render(fmt.Sprintf("No budget set. Spent %s so far.", a.format.Amount(status.TotalSpent)))
	}

	rows := [][]string{a.totalBudgetRow(status)}
	for _, c := range status.Categories {
		icon := c.Icon
		if icon == "" {
			icon = model.PlaceholderIcon
		}
		rows = append(rows, []string{
			icon,
			c.Name,
			cli.Bar(c.Percentage, barWidth),
			cli.UsageStyle(c.Percentage).Render(a.format.Percent(c.Percentage)),
			a.format.Amount(c.Spent),
			a.format.Amount(c.Limit),
			a.format.Amount(c.Remaining),
		})
	}
	return cli.RenderTable([]string{"", "Category", "Usage", "%", "Spent", "Limit", "Remaining"}, rows)
}

func (a *app) totalBudgetRow(status budget.Status) []string {
	return []string{
		"",
		cli.BoldStyle.Render("Total"),
		cli.Bar(status.TotalPercentage, barWidth),
		cli.UsageStyle(status.TotalPercentage).Render(a.format.Percent(status.TotalPercentage)),
		a.format.Amount(status.TotalSpent),
		a.format.Amount(status.TotalBudgetLimit),
		a.format.Amount(status.TotalRemaining),
	}
}
