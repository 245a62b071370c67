package tui

import (
	"context"
	"time"

	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 10 * time.Second

func (m Model) loadDashboard(period model.Period) tea.Cmd {
	svc := m.ledger.Dashboard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		report, err := svc.Report(ctx, period)
		return dashboardLoadedMsg{period: period, report: report, err: err}
	}
}

func (m Model) loadTransactions(period model.Period) tea.Cmd {
	svc := m.ledger.Transactions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		txns, err := svc.ListByPeriod(ctx, period)
		return transactionsLoadedMsg{period: period, transactions: txns, err: err}
	}
}

func (m Model) loadCategories() tea.Cmd {
	svc := m.ledger.Categories
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		cats, err := svc.List(ctx)
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

func (m Model) loadBudgets(period model.Period) tea.Cmd {
	svc := m.ledger.Budgets
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		status, err := svc.Status(ctx, period)
		return budgetsLoadedMsg{period: period, status: status, err: err}
	}
}

// reload returns the commands that refresh the given views.
func (m Model) reload(tabs ...Tab) tea.Cmd {
	if m.ledger == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(tabs))
	for _, tab := range tabs {
		switch tab {
		case TabDashboard:
			cmds = append(cmds, m.loadDashboard(m.period))
		case TabTransactions:
			cmds = append(cmds, m.loadTransactions(m.period))
		case TabCategories:
			cmds = append(cmds, m.loadCategories())
		case TabBudgets:
			cmds = append(cmds, m.loadBudgets(m.period))
		}
	}
	return tea.Batch(cmds...)
}

// affectedTabs maps a change topic to the views that display it. Category
// changes touch every view because names and icons appear everywhere.
func affectedTabs(topic events.Topic) []Tab {
	switch topic {
	case events.TopicTransactions:
		return []Tab{TabDashboard, TabTransactions, TabBudgets}
	case events.TopicBudgets:
		return []Tab{TabDashboard, TabBudgets}
	default:
		return Tabs
	}
}

// waitForChange blocks until the next event arrives on changes.
func waitForChange(changes <-chan events.Event) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-changes
		if !ok {
			return nil
		}
		return changeMsg{event: e}
	}
}

func (m Model) deleteTransaction(id string) tea.Cmd {
	svc := m.ledger.Transactions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		return transactionDeletedMsg{id: id, err: svc.Delete(ctx, id)}
	}
}
