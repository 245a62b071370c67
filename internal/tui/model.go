package tui

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the main TUI state.
type Model struct {
	theme         themes.Theme
	lastError     error
	ledger        *ledger.Ledger
	formatter     *cli.Formatter
	changes       <-chan events.Event
	report        *ledger.Report
	status        *budget.Status
	keymap        KeyMap
	help          help.Model
	bar           progress.Model
	txnTable      table.Model
	catTable      table.Model
	transactions  []ledger.TransactionView
	categories    []model.Category
	pendingDelete string
	period        model.Period
	tab           Tab
	width         int
	height        int
	showHelp      bool
	quitting      bool
}

// newModel creates a model. changes may be nil when no bus is attached.
func newModel(cfg Config, changes <-chan events.Event) Model {
	m := Model{
		theme:     cfg.Theme,
		ledger:    cfg.Ledger,
		formatter: cfg.Formatter,
		changes:   changes,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		period:    cfg.Period,
		tab:       TabDashboard,
		width:     cfg.Width,
		height:    cfg.Height,
		showHelp:  cfg.ShowHelp,
		bar: progress.New(
			progress.WithSolidFill(string(cfg.Theme.Income)),
			progress.WithoutPercentage(),
			progress.WithWidth(30),
		),
		txnTable: table.New(
			table.WithColumns(transactionColumns(cfg.Width)),
			table.WithFocused(true),
		),
		catTable: table.New(
			table.WithColumns(categoryColumns(cfg.Width)),
			table.WithFocused(true),
		),
	}
	m.resize()
	return m
}

// Init loads every view and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reload(Tabs...), waitForChange(m.changes))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case dashboardLoadedMsg:
		if msg.period != m.period {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = fmt.Errorf("dashboard: %w", msg.err)
			return m, nil
		}
		m.report = msg.report

	case transactionsLoadedMsg:
		if msg.period != m.period {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = fmt.Errorf("transactions: %w", msg.err)
			return m, nil
		}
		m.transactions = msg.transactions
		m.txnTable.SetRows(m.transactionRows())
		if m.txnTable.Cursor() >= len(m.transactions) {
			m.txnTable.SetCursor(max(0, len(m.transactions)-1))
		}

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("categories: %w", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		m.catTable.SetRows(m.categoryRows())

	case budgetsLoadedMsg:
		if msg.period != m.period {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = fmt.Errorf("budgets: %w", msg.err)
			return m, nil
		}
		status := msg.status
		m.status = &status

	case transactionDeletedMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("delete transaction: %w", msg.err)
			return m, nil
		}
		if m.changes == nil {
			return m, m.reload(affectedTabs(events.TopicTransactions)...)
		}

	case changeMsg:
		return m, tea.Batch(m.reload(affectedTabs(msg.event.Topic)...), waitForChange(m.changes))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingDelete != "" {
		id := m.pendingDelete
		m.pendingDelete = ""
		if msg.String() == "y" {
			return m, m.deleteTransaction(id)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = Tab((int(m.tab) + 1) % len(Tabs))
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = Tab((int(m.tab) + len(Tabs) - 1) % len(Tabs))
		return m, nil

	case key.Matches(msg, m.keymap.JumpTab):
		m.tab = Tab(int(msg.Runes[0] - '1'))
		return m, nil

	case key.Matches(msg, m.keymap.PrevMonth):
		return m.setPeriod(m.period.Prev())

	case key.Matches(msg, m.keymap.NextMonth):
		return m.setPeriod(m.period.Next())

	case key.Matches(msg, m.keymap.ThisMonth):
		return m.setPeriod(model.CurrentPeriod())

	case key.Matches(msg, m.keymap.Refresh):
		m.lastError = nil
		return m, m.reload(Tabs...)
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabTransactions:
		if msg.String() == "d" && len(m.transactions) > 0 {
			m.pendingDelete = m.transactions[m.txnTable.Cursor()].ID
			return m, nil
		}
		m.txnTable, cmd = m.txnTable.Update(msg)
	case TabCategories:
		m.catTable, cmd = m.catTable.Update(msg)
	}
	return m, cmd
}

// setPeriod switches month and reloads the month-scoped views.
func (m Model) setPeriod(p model.Period) (tea.Model, tea.Cmd) {
	if p == m.period {
		return m, nil
	}
	m.period = p
	m.report = nil
	m.status = nil
	m.transactions = nil
	m.txnTable.SetRows(nil)
	m.txnTable.SetCursor(0)
	return m, m.reload(TabDashboard, TabTransactions, TabBudgets)
}

// resize fits the tables to the terminal. Header, tabs, and footer take
// about eight lines.
func (m *Model) resize() {
	height := max(3, m.height-8)
	m.txnTable.SetColumns(transactionColumns(m.width))
	m.txnTable.SetHeight(height)
	m.txnTable.SetWidth(m.width)
	m.catTable.SetColumns(categoryColumns(m.width))
	m.catTable.SetHeight(height)
	m.catTable.SetWidth(m.width)
	m.help.Width = m.width
	m.bar.Width = max(10, min(40, m.width/3))
}

func transactionColumns(width int) []table.Column {
	note := max(10, width-12-9-22-14-10-8)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Category", Width: 22},
		{Title: "Amount", Width: 14},
		{Title: "Payment", Width: 10},
		{Title: "Note", Width: note},
	}
}

func categoryColumns(width int) []table.Column {
	name := max(12, width-6-10-10-8)
	return []table.Column{
		{Title: "Icon", Width: 6},
		{Title: "Name", Width: name},
		{Title: "Type", Width: 10},
		{Title: "Color", Width: 10},
	}
}

func (m Model) transactionRows() []table.Row {
	rows := make([]table.Row, len(m.transactions))
	for i, txn := range m.transactions {
		rows[i] = table.Row{
			txn.DateString(),
			txn.Kind.Label(),
			txn.CategoryIcon + " " + txn.CategoryName,
			m.formatter.Amount(txn.Amount),
			txn.PaymentMethod,
			txn.Note,
		}
	}
	return rows
}

func (m Model) categoryRows() []table.Row {
	rows := make([]table.Row, len(m.categories))
	for i, cat := range m.categories {
		rows[i] = table.Row{cat.DisplayIcon(), cat.Name, cat.Kind.Label(), cat.Color}
	}
	return rows
}
