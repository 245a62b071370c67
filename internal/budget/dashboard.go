package budget

import (
	"sort"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryAmount is one slice of a per-kind breakdown.
type CategoryAmount struct {
	Amount     decimal.Decimal
	CategoryID string
	Name       string
	Icon       string
}

// Summary is the dashboard view for one month.
type Summary struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	TotalDebt         decimal.Decimal
	NetResult         decimal.Decimal
	TotalBudgetLimit  decimal.Decimal
	RemainingBudget   decimal.Decimal
	IncomeCategories  []CategoryAmount
	ExpenseCategories []CategoryAmount
	DebtCategories    []CategoryAmount
}

// Breakdown returns the per-category breakdown for a kind.
func (s *Summary) Breakdown(kind model.Kind) []CategoryAmount {
	switch kind {
	case model.KindIncome:
		return s.IncomeCategories
	case model.KindExpense:
		return s.ExpenseCategories
	case model.KindDebt:
		return s.DebtCategories
	default:
		return nil
	}
}

// ComputeDashboardSummary totals the month by kind and breaks each kind down
// by category.
//
// NetResult ignores debt. RemainingBudget is the cash view: limit plus income
// minus expense. It intentionally differs from Status.TotalRemaining.
func ComputeDashboardSummary(transactions []model.Transaction, limits *model.BudgetLimit, lookup CategoryLookup) Summary {
	totals := map[model.Kind]decimal.Decimal{}
	byKind := map[model.Kind]*grouping{
		model.KindIncome:  newGrouping(),
		model.KindExpense: newGrouping(),
		model.KindDebt:    newGrouping(),
	}

	for i := range transactions {
		txn := &transactions[i]
		g, ok := byKind[txn.Kind]
		if !ok {
			continue
		}
		totals[txn.Kind] = totals[txn.Kind].Add(txn.Amount)
		g.add(txn.CategoryID, txn.Amount)
	}

	totalLimit := decimal.Zero
	if limits != nil {
		totalLimit = limits.TotalLimit
	}

	income := totals[model.KindIncome]
	expense := totals[model.KindExpense]

	return Summary{
		TotalIncome:       income,
		TotalExpense:      expense,
		TotalDebt:         totals[model.KindDebt],
		NetResult:         income.Sub(expense),
		TotalBudgetLimit:  totalLimit,
		RemainingBudget:   totalLimit.Add(income).Sub(expense),
		IncomeCategories:  byKind[model.KindIncome].breakdown(lookup),
		ExpenseCategories: byKind[model.KindExpense].breakdown(lookup),
		DebtCategories:    byKind[model.KindDebt].breakdown(lookup),
	}
}

// grouping accumulates amounts per category id, remembering first-seen order.
type grouping struct {
	amounts map[string]decimal.Decimal
	order   []string
}

func newGrouping() *grouping {
	return &grouping{amounts: make(map[string]decimal.Decimal)}
}

func (g *grouping) add(categoryID string, amount decimal.Decimal) {
	if _, seen := g.amounts[categoryID]; !seen {
		g.order = append(g.order, categoryID)
	}
	g.amounts[categoryID] = g.amounts[categoryID].Add(amount)
}

func (g *grouping) breakdown(lookup CategoryLookup) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(g.order))
	for _, id := range g.order {
		name, icon := ResolveCategory(lookup, id)
		out = append(out, CategoryAmount{
			CategoryID: id,
			Name:       name,
			Icon:       icon,
			Amount:     g.amounts[id],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ResolveCategory returns the display name and icon for a transaction's
// category id: "Uncategorized" when empty, "Unknown" when the id is dangling.
func ResolveCategory(lookup CategoryLookup, id string) (name, icon string) {
	if id == "" {
		return model.UncategorizedCategoryName, model.PlaceholderIcon
	}
	return resolveLimited(lookup, id)
}
