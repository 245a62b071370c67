// Package testutil provides shared helpers for tests that need a real,
// migrated database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/shopspring/decimal"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	Categories categories.Categories
}

// SetupTestDB creates a new migrated in-memory database without categories.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithBuilder(t, nil)
}

// SetupTestDBWithBuilder creates a test database and seeds the categories
// configured on the builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
//		return b.WithBasicCategories()
//	})
func SetupTestDBWithBuilder(t *testing.T, configure func(categories.Builder) categories.Builder) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	builder := categories.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	cats, err := builder.Build(ctx, store)
	if err != nil {
		t.Fatalf("failed to build categories: %v", err)
	}

	return &TestDB{
		Storage:    store,
		Categories: cats,
		t:          t,
	}
}

// MustGetCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name categories.CategoryName) model.Category {
	db.t.Helper()
	return db.Categories.MustFind(db.t, name)
}

// AddTransaction stores a transaction dated on the given day. An empty
// category name leaves the transaction uncategorized.
func (db *TestDB) AddTransaction(kind model.Kind, category categories.CategoryName, amount string, date time.Time) *model.Transaction {
	db.t.Helper()

	txn := &model.Transaction{
		Date:          date,
		Kind:          kind,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: model.PaymentCash,
	}
	if category != "" {
		txn.CategoryID = db.MustGetCategory(category).ID
	}
	if err := db.Storage.CreateTransaction(context.Background(), txn); err != nil {
		db.t.Fatalf("failed to create transaction: %v", err)
	}
	return txn
}

// Date returns midnight UTC on the given day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
