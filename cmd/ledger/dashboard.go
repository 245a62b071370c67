package main

import (
	"strings"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func dashboardCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize a month's income, expenses, debts, and budget",
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

			report, err := a.ledger.Dashboard.Report(cmd.Context(), period)
			if err != nil {
				return err
			}

			a.println(cli.FormatTitle(period.String()))
			a.println(a.renderSummary(report.Summary))
			a.println()
			a.println(a.renderBudgetStatus(report.Status))
			return nil
		},
	}

	addMonthFlag(cmd)
	return cmd
}

func (a *app) renderSummary(s budget.Summary) string {
	net := cli.SuccessStyle
	if s.NetResult.IsNegative() {
		net = cli.ErrorStyle
	}
	remaining := cli.SuccessStyle
	if s.RemainingBudget.IsNegative() {
		remaining = cli.ErrorStyle
	}

	totals := strings.Join([]string{
		"Income:       " + a.format.KindAmount(model.KindIncome, s.TotalIncome),
		"Expense:      " + a.format.KindAmount(model.KindExpense, s.TotalExpense),
		"Debt:         " + a.format.KindAmount(model.KindDebt, s.TotalDebt),
		"Net:          " + net.Render(a.format.Amount(s.NetResult)),
		"Budget left:  " + remaining.Render(a.format.Amount(s.RemainingBudget)),
	}, "\n")

	columns := []string{cli.RenderBox(cli.ChartIcon+" Totals", totals)}
	for _, kind := range model.Kinds {
		amounts := s.Breakdown(kind)
		if len(amounts) == 0 {
			continue
		}
		lines := make([]string, len(amounts))
		for i, c := range amounts {
			lines[i] = c.Icon + " " + c.Name + "  " + a.format.Amount(c.Amount)
		}
		columns = append(columns, cli.RenderBox(kind.Label(), strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
