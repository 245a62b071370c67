package tui

import (
	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// Data loading messages. Month-scoped results carry their period so a
// response for a month the user already left can be dropped.
type dashboardLoadedMsg struct {
	err    error
	report *ledger.Report
	period model.Period
}

type transactionsLoadedMsg struct {
	err          error
	transactions []ledger.TransactionView
	period       model.Period
}

type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
}

type budgetsLoadedMsg struct {
	err    error
	status budget.Status
	period model.Period
}

// changeMsg carries an event from the bus into the update loop.
type changeMsg struct {
	event events.Event
}

// Tab identifies one of the four views.
type Tab int

const (
	TabDashboard Tab = iota
	TabTransactions
	TabCategories
	TabBudgets
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabDashboard, TabTransactions, TabCategories, TabBudgets}

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabTransactions:
		return "Transactions"
	case TabCategories:
		return "Categories"
	case TabBudgets:
		return "Budgets"
	default:
		return "Unknown"
	}
}

type transactionDeletedMsg struct {
	err error
	id  string
}
