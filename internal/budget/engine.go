// Package budget turns a month of transactions and its budget limits into the
// figures shown on the budget and dashboard views. Every function here is pure:
// callers fetch the inputs and hand them over fully materialized.
package budget

import (
	"sort"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// percentagePlaces is the rounding applied to every percentage figure.
const percentagePlaces = 2

// CategoryLookup resolves category ids to categories.
type CategoryLookup interface {
	LookupCategory(id string) (*model.Category, bool)
}

// CategoryIndex is a map-backed CategoryLookup.
type CategoryIndex map[string]*model.Category

// NewCategoryIndex indexes categories by id.
func NewCategoryIndex(categories []model.Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for i := range categories {
		idx[categories[i].ID] = &categories[i]
	}
	return idx
}

// LookupCategory implements CategoryLookup.
func (c CategoryIndex) LookupCategory(id string) (*model.Category, bool) {
	cat, ok := c[id]
	return cat, ok && cat != nil
}

// CategoryStatus is one row of the per-category budget view.
type CategoryStatus struct {
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	CategoryID string
	Name       string
	Icon       string
}

// Status is the budget view for one month.
type Status struct {
	TotalBudgetLimit decimal.Decimal
	TotalSpent       decimal.Decimal
	TotalRemaining   decimal.Decimal
	TotalPercentage  decimal.Decimal
	Categories       []CategoryStatus
}

// ComputeBudgetStatus compares spending against the month's limits.
//
// Income never counts as spent. Only categories with a configured limit get a
// row; spend on uncategorized or unlimited categories still counts toward
// TotalSpent. A nil budget means every limit is zero.
func ComputeBudgetStatus(transactions []model.Transaction, limits *model.BudgetLimit, lookup CategoryLookup) Status {
	totalSpent := decimal.Zero
	spentByCategory := make(map[string]decimal.Decimal)

	for i := range transactions {
		txn := &transactions[i]
		if !txn.Kind.IsSpend() {
			continue
		}
		totalSpent = totalSpent.Add(txn.Amount)
		if txn.HasCategory() {
			spentByCategory[txn.CategoryID] = spentByCategory[txn.CategoryID].Add(txn.Amount)
		}
	}

	totalLimit := decimal.Zero
	rows := []CategoryStatus{}
	if limits != nil {
		totalLimit = limits.TotalLimit
		for id, limit := range limits.CategoryLimits {
			spent := spentByCategory[id]
			name, icon := resolveLimited(lookup, id)
			rows = append(rows, CategoryStatus{
				CategoryID: id,
				Name:       name,
				Icon:       icon,
				Limit:      limit,
				Spent:      spent,
				Remaining:  limit.Sub(spent),
				Percentage: categoryPercentage(spent, limit),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Percentage.Cmp(rows[j].Percentage); c != 0 {
			return c > 0
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	totalPercentage := decimal.Zero
	if totalLimit.IsPositive() {
		totalPercentage = percentOf(totalSpent, totalLimit)
	}

	return Status{
		TotalBudgetLimit: totalLimit,
		TotalSpent:       totalSpent,
		TotalRemaining:   totalLimit.Sub(totalSpent),
		TotalPercentage:  totalPercentage,
		Categories:       rows,
	}
}

// categoryPercentage reports an unfunded category with any spend as 100%.
func categoryPercentage(spent, limit decimal.Decimal) decimal.Decimal {
	switch {
	case limit.IsPositive():
		return percentOf(spent, limit)
	case spent.IsPositive():
		return hundred
	default:
		return decimal.Zero
	}
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Mul(hundred).DivRound(whole, percentagePlaces)
}

// resolveLimited names a category referenced by a budget limit.
func resolveLimited(lookup CategoryLookup, id string) (string, string) {
	if lookup != nil {
		if cat, ok := lookup.LookupCategory(id); ok {
			return cat.Name, cat.DisplayIcon()
		}
	}
	return model.UnknownCategoryName, model.PlaceholderIcon
}
