// Package ledger holds the application services that sit between the
// storage backends and the user-facing surfaces. Every mutation publishes a
// change event so open views can reload.
package ledger

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"golang.org/x/sync/errgroup"
)

// Ledger bundles the services built on one store.
type Ledger struct {
	Transactions *TransactionService
	Categories   *CategoryService
	Budgets      *BudgetService
	Dashboard    *DashboardService
}

// New wires every service to store. A nil publisher drops events.
func New(store service.Storage, pub events.Publisher) *Ledger {
	if pub == nil {
		pub = events.Discard
	}
	return &Ledger{
		Transactions: NewTransactionService(store, store, pub),
		Categories:   NewCategoryService(store, pub),
		Budgets:      NewBudgetService(store, store, store, pub),
		Dashboard:    NewDashboardService(store, store, store),
	}
}

// monthData is everything the aggregation engine needs for one month.
type monthData struct {
	budget       *model.BudgetLimit
	categories   budget.CategoryIndex
	transactions []model.Transaction
}

// loadMonth fetches the month's transactions, its budget, and the category
// index concurrently.
func loadMonth(
	ctx context.Context,
	period model.Period,
	txns service.TransactionStore,
	cats service.CategoryStore,
	budgets service.BudgetStore,
) (*monthData, error) {
	var data monthData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := txns.GetTransactionsByPeriod(gctx, period)
		if err != nil {
			return fmt.Errorf("load transactions for %s: %w", period.Key(), err)
		}
		data.transactions = t
		return nil
	})
	g.Go(func() error {
		b, err := budgets.GetBudget(gctx, period)
		if err != nil {
			return fmt.Errorf("load budget for %s: %w", period.Key(), err)
		}
		data.budget = b
		return nil
	})
	g.Go(func() error {
		c, err := cats.GetCategories(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		data.categories = budget.NewCategoryIndex(c)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
