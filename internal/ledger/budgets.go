package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/shopspring/decimal"
)

// BudgetService manages monthly limits and reports progress against them.
type BudgetService struct {
	transactions service.TransactionStore
	categories   service.CategoryStore
	budgets      service.BudgetStore
	events       events.Publisher
}

// NewBudgetService creates a budget service.
func NewBudgetService(
	txns service.TransactionStore,
	cats service.CategoryStore,
	budgets service.BudgetStore,
	pub events.Publisher,
) *BudgetService {
	return &BudgetService{transactions: txns, categories: cats, budgets: budgets, events: pub}
}

// Status computes spend against the month's limits.
func (s *BudgetService) Status(ctx context.Context, period model.Period) (budget.Status, error) {
	data, err := loadMonth(ctx, period, s.transactions, s.categories, s.budgets)
	if err != nil {
		return budget.Status{}, err
	}
	return budget.ComputeBudgetStatus(data.transactions, data.budget, data.categories), nil
}

// Get returns the month's limits. A month without a budget yields an empty one.
func (s *BudgetService) Get(ctx context.Context, period model.Period) (*model.BudgetLimit, error) {
	b, err := s.budgets.GetBudget(ctx, period)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return model.NewBudgetLimit(period), nil
	}
	return b, nil
}

// History returns every stored budget, most recent first.
func (s *BudgetService) History(ctx context.Context) ([]model.BudgetLimit, error) {
	return s.budgets.GetBudgets(ctx)
}

// SetTotalLimit sets the month's overall limit.
func (s *BudgetService) SetTotalLimit(ctx context.Context, period model.Period, limit decimal.Decimal) error {
	if err := s.budgets.SetTotalLimit(ctx, period, limit); err != nil {
		return err
	}
	s.publish(ctx, period)
	return nil
}

// SetCategoryLimit sets one category's limit. The category must exist.
func (s *BudgetService) SetCategoryLimit(ctx context.Context, period model.Period, categoryID string, limit decimal.Decimal) error {
	cat, err := s.categories.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("category %s: %w", categoryID, common.ErrNotFound)
	}

	if err := s.budgets.SetCategoryLimit(ctx, period, categoryID, limit); err != nil {
		return err
	}
	s.publish(ctx, period)
	return nil
}

// RemoveCategoryLimit drops one category's limit, leaving the others.
func (s *BudgetService) RemoveCategoryLimit(ctx context.Context, period model.Period, categoryID string) error {
	if err := s.budgets.RemoveCategoryLimit(ctx, period, categoryID); err != nil {
		return err
	}
	s.publish(ctx, period)
	return nil
}

func (s *BudgetService) publish(ctx context.Context, period model.Period) {
	s.events.Publish(ctx, events.NewEvent(events.TopicBudgets, events.ActionUpdated, period.Key()))
}
