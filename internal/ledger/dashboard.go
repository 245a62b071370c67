package ledger

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// DashboardService produces the monthly overview.
type DashboardService struct {
	transactions service.TransactionStore
	categories   service.CategoryStore
	budgets      service.BudgetStore
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(txns service.TransactionStore, cats service.CategoryStore, budgets service.BudgetStore) *DashboardService {
	return &DashboardService{transactions: txns, categories: cats, budgets: budgets}
}

// Summary computes the month's income, expense, and debt totals with
// per-category breakdowns.
func (s *DashboardService) Summary(ctx context.Context, period model.Period) (budget.Summary, error) {
	data, err := loadMonth(ctx, period, s.transactions, s.categories, s.budgets)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.ComputeDashboardSummary(data.transactions, data.budget, data.categories), nil
}

// Report bundles the summary and budget status of one month.
type Report struct {
	Period  model.Period
	Summary budget.Summary
	Status  budget.Status
}

// Report loads the month once and computes both views.
func (s *DashboardService) Report(ctx context.Context, period model.Period) (*Report, error) {
	data, err := loadMonth(ctx, period, s.transactions, s.categories, s.budgets)
	if err != nil {
		return nil, err
	}
	return &Report{
		Period:  period,
		Summary: budget.ComputeDashboardSummary(data.transactions, data.budget, data.categories),
		Status:  budget.ComputeBudgetStatus(data.transactions, data.budget, data.categories),
	}, nil
}
