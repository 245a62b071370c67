// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Period     *model.Period
	Kind       model.Kind
	CategoryID string
	Limit      int
	Offset     int
}

// TransactionStore persists transactions. Lists are ordered newest first.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsByPeriod(ctx context.Context, period model.Period) ([]model.Transaction, error)
}

// CategoryStore persists categories. Lookups by id return nil, nil on a miss.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoriesByKind(ctx context.Context, kind model.Kind) ([]model.Category, error)
	SearchCategories(ctx context.Context, query string) ([]model.Category, error)
}

// BudgetStore persists monthly budgets. GetBudget returns nil, nil when no
// budget was set for the period.
type BudgetStore interface {
	GetBudget(ctx context.Context, period model.Period) (*model.BudgetLimit, error)
	GetBudgets(ctx context.Context) ([]model.BudgetLimit, error)
	SetTotalLimit(ctx context.Context, period model.Period, limit decimal.Decimal) error
	SetCategoryLimit(ctx context.Context, period model.Period, categoryID string, limit decimal.Decimal) error
	RemoveCategoryLimit(ctx context.Context, period model.Period, categoryID string) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TransactionStore
	CategoryStore
	BudgetStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
