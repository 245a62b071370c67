package model

import (
	"github.com/shopspring/decimal"
)

// BudgetLimit holds the spending ceilings for one month.
// At most one exists per (Month, Year); absence means every limit is zero.
type BudgetLimit struct {
	CategoryLimits map[string]decimal.Decimal
	TotalLimit     decimal.Decimal `validate:"gte=0"`
	Month          int             `validate:"min=1,max=12"`
	Year           int             `validate:"min=1"`
}

// NewBudgetLimit returns an empty budget for the period.
func NewBudgetLimit(p Period) *BudgetLimit {
	return &BudgetLimit{
		Month:          p.Month,
		Year:           p.Year,
		CategoryLimits: make(map[string]decimal.Decimal),
	}
}

// Period returns the month the budget applies to.
func (b *BudgetLimit) Period() Period {
	return Period{Year: b.Year, Month: b.Month}
}

// LimitFor returns the configured limit for a category and whether one exists.
func (b *BudgetLimit) LimitFor(categoryID string) (decimal.Decimal, bool) {
	if b == nil {
		return decimal.Zero, false
	}
	limit, ok := b.CategoryLimits[categoryID]
	return limit, ok
}
