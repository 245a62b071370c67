package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_CategoryLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	food := &model.Category{Name: "  Food  ", Kind: model.KindExpense, Icon: "🍔", Color: "#ff0000"}
	require.NoError(t, store.CreateCategory(ctx, food))
	assert.NotEmpty(t, food.ID, "id should be assigned")
	assert.Equal(t, "Food", food.Name, "name should be trimmed")

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Food", got.Name)
	assert.Equal(t, model.KindExpense, got.Kind)
	assert.Equal(t, "🍔", got.Icon)
	assert.Equal(t, "#ff0000", got.Color)
	assert.False(t, got.CreatedAt.IsZero())

	got.Name = "Groceries"
	got.Icon = "🛒"
	require.NoError(t, store.UpdateCategory(ctx, got))

	updated, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Name)
	assert.Equal(t, "🛒", updated.Icon)

	require.NoError(t, store.DeleteCategory(ctx, food.ID))

	missing, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStorage_CreateCategoryValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		category *model.Category
		wantErr  error
		name     string
	}{
		{name: "nil", category: nil, wantErr: ErrNilParameter},
		{name: "blank name", category: &model.Category{Name: "   ", Kind: model.KindExpense}, wantErr: model.ErrInvalidCategory},
		{name: "bad kind", category: &model.Category{Name: "Gifts", Kind: "transfer"}, wantErr: model.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.CreateCategory(ctx, tt.category)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSQLiteStorage_CreateCategoryDuplicateID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "c1", Name: "Food", Kind: model.KindExpense}))
	err := store.CreateCategory(ctx, &model.Category{ID: "c1", Name: "Other", Kind: model.KindExpense})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestSQLiteStorage_UpdateDeleteMissingCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	err := store.UpdateCategory(ctx, &model.Category{ID: "nope", Name: "X", Kind: model.KindIncome})
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteCategory(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_CategoryQueries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, c := range []*model.Category{
		{Name: "Transport", Kind: model.KindExpense},
		{Name: "food", Kind: model.KindExpense},
		{Name: "Salary", Kind: model.KindIncome},
		{Name: "Fast_Food", Kind: model.KindExpense},
		{Name: "Car loan", Kind: model.KindDebt},
	} {
		require.NoError(t, store.CreateCategory(ctx, c))
	}

	all, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	expenses, err := store.GetCategoriesByKind(ctx, model.KindExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "Fast_Food", expenses[0].Name)
	assert.Equal(t, "food", expenses[1].Name)
	assert.Equal(t, "Transport", expenses[2].Name)

	byName, err := store.GetCategoryByName(ctx, "FOOD")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "food", byName.Name)

	none, err := store.GetCategoryByName(ctx, "Rent")
	require.NoError(t, err)
	assert.Nil(t, none)

	found, err := store.SearchCategories(ctx, "FOOD")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Underscore is matched literally, not as a LIKE wildcard.
	found, err = store.SearchCategories(ctx, "t_f")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fast_Food", found[0].Name)

	empty, err := store.GetCategoriesByKind(ctx, "transfer")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSQLiteStorage_DeleteCategoryKeepsTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat := &model.Category{Name: "Food", Kind: model.KindExpense}
	require.NoError(t, store.CreateCategory(ctx, cat))

	txn := testTransaction(model.KindExpense, cat.ID, "12.50", testDate(2024, 3, 1))
	require.NoError(t, store.CreateTransaction(ctx, txn))

	require.NoError(t, store.DeleteCategory(ctx, cat.ID))

	got, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cat.ID, got.CategoryID, "transaction keeps the dangling category id")
}
