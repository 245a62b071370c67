package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.tab {
	case TabDashboard:
		body = m.renderDashboard()
	case TabTransactions:
		body = m.renderTransactions()
	case TabCategories:
		body = m.renderCategories()
	case TabBudgets:
		body = m.renderBudgets()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	tabs := make([]string, len(Tabs))
	for i, tab := range Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == m.tab {
			tabs[i] = m.theme.ActiveTab.Render(label)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(label)
		}
	}

	title := m.theme.Title.Render(cli.LedgerIcon + " Ledger")
	period := m.theme.Bold.Render("‹ " + m.period.String() + " ›")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", period),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.pendingDelete != "":
		status = m.theme.StatusWarning.Render("Delete selected transaction? (y/N)")
	case m.lastError != nil:
		status = m.theme.StatusError.Render(cli.ErrorIcon + " " + common.UserMessage(m.lastError))
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keymap))
}

func (m Model) renderDashboard() string {
	if m.report == nil {
		return m.theme.Subtitle.Render("Loading dashboard...")
	}
	s := m.report.Summary

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Income", m.formatter.Amount(s.TotalIncome), m.theme.Income),
		m.card("Expense", m.formatter.Amount(s.TotalExpense), m.theme.Expense),
		m.card("Debt", m.formatter.Amount(s.TotalDebt), m.theme.Debt),
		m.card("Net", m.formatter.Amount(s.NetResult), m.signColor(s.NetResult)),
		m.card("Budget left", m.formatter.Amount(s.RemainingBudget), m.signColor(s.RemainingBudget)),
	)

	columns := make([]string, 0, len(model.Kinds))
	for _, kind := range model.Kinds {
		columns = append(columns, m.breakdown(kind, s.Breakdown(kind)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)
}

func (m Model) card(label, value string, color lipgloss.Color) string {
	return m.theme.Box.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render(label),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value),
	))
}

func (m Model) signColor(d decimal.Decimal) lipgloss.Color {
	if d.IsNegative() {
		return m.theme.Expense
	}
	return m.theme.Income
}

func (m Model) breakdown(kind model.Kind, amounts []budget.CategoryAmount) string {
	lines := []string{m.theme.Bold.Render(kind.Label() + " by category")}
	if len(amounts) == 0 {
		lines = append(lines, m.theme.Subtitle.Render("nothing recorded"))
	}
	for _, a := range amounts {
		lines = append(lines, fmt.Sprintf("%s %-16s %s", a.Icon, truncate(a.Name, 16), m.formatter.Amount(a.Amount)))
	}
	return lipgloss.NewStyle().Width(36).PaddingRight(2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTransactions() string {
	if len(m.transactions) == 0 {
		return m.theme.Subtitle.Render("No transactions in " + m.period.String())
	}
	return m.txnTable.View()
}

func (m Model) renderCategories() string {
	if len(m.categories) == 0 {
		return m.theme.Subtitle.Render("No categories yet")
	}
	return m.catTable.View()
}

func (m Model) renderBudgets() string {
	if m.status == nil {
		return m.theme.Subtitle.Render("Loading budgets...")
	}
	st := m.status
	if st.TotalBudgetLimit.IsZero() && len(st.Categories) == 0 {
		return m.theme.Subtitle.Render("No budget set for " + m.period.String())
	}

	lines := []string{
		m.budgetLine("Total", "", st.TotalSpent, st.TotalBudgetLimit, st.TotalRemaining, st.TotalPercentage),
		"",
	}
	for _, c := range st.Categories {
		lines = append(lines, m.budgetLine(c.Name, c.Icon, c.Spent, c.Limit, c.Remaining, c.Percentage))
	}
	return strings.Join(lines, "\n")
}

func (m Model) budgetLine(name, icon string, spent, limit, remaining, pct decimal.Decimal) string {
	bar := m.bar
	switch {
	case pct.GreaterThan(decimal.NewFromInt(100)):
		bar.FullColor = string(m.theme.Expense)
	case pct.GreaterThanOrEqual(decimal.NewFromInt(80)):
		bar.FullColor = string(m.theme.Warning)
	}
	ratio := min(pct.InexactFloat64()/100, 1)

	label := name
	if icon != "" {
		label = icon + " " + name
	}
	return fmt.Sprintf("%-22s %s %6s  %s / %s  %s",
		truncate(label, 22),
		bar.ViewAs(ratio),
		m.formatter.Percent(pct),
		m.formatter.Amount(spent),
		m.formatter.Amount(limit),
		lipgloss.NewStyle().Foreground(m.signColor(remaining)).Render(m.formatter.Amount(remaining)+" left"),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
