package dynamo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxn(kind model.Kind, categoryID, amount string, date time.Time) *model.Transaction {
	return &model.Transaction{
		Date:          date,
		Kind:          kind,
		CategoryID:    categoryID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: model.PaymentBank,
	}
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestStore_Migrate(t *testing.T) {
	store, _ := newTestStore()
	require.NoError(t, store.Migrate(context.Background()))

	missing := NewWithAPI(newFakeDynamo(), "txns", "nope")
	assert.Error(t, missing.Migrate(context.Background()))
}

func TestStore_TransactionLifecycle(t *testing.T) {
	store, fake := newTestStore()
	ctx := context.Background()

	txn := newTxn(model.KindExpense, "food", "42.10", day(2024, 3, 5))
	txn.Tags = []string{"groceries"}
	require.NoError(t, store.CreateTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID)

	stored := fake.tables["txns"][txn.ID]
	assert.Equal(t, "2024-03", str(stored["yearMonth"]))
	assert.Equal(t, "42.1", str(stored["amount"]), "amounts are stored as decimal strings")

	got, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-05", got.DateString())
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.10")))
	assert.Equal(t, []string{"groceries"}, got.Tags)

	assert.ErrorIs(t, store.CreateTransaction(ctx, got), common.ErrDuplicateEntry)

	got.Note = "edited"
	require.NoError(t, store.UpdateTransaction(ctx, got))
	again, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", again.Note)

	require.NoError(t, store.DeleteTransaction(ctx, txn.ID))
	gone, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, store.DeleteTransaction(ctx, txn.ID), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateTransaction(ctx, got), common.ErrNotFound)
}

func TestStore_TransactionValidation(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.CreateTransaction(ctx, nil), model.ErrInvalidTransaction)
	assert.ErrorIs(t, store.CreateTransaction(ctx, newTxn("gift", "", "1", day(2024, 1, 1))), model.ErrInvalidTransaction)
	assert.ErrorIs(t, store.CreateTransaction(ctx, newTxn(model.KindIncome, "", "-5", day(2024, 1, 1))), model.ErrInvalidTransaction)
}

func TestStore_RejectsBlankIDs(t *testing.T) {
	store, fake := newTestStore()
	ctx := context.Background()
	march := model.Period{Year: 2024, Month: 3}

	tests := []struct {
		name string
		call func() error
	}{
		{name: "delete transaction", call: func() error { return store.DeleteTransaction(ctx, "") }},
		{name: "delete transaction whitespace", call: func() error { return store.DeleteTransaction(ctx, "  ") }},
		{name: "remove category limit", call: func() error { return store.RemoveCategoryLimit(ctx, march, "") }},
		{name: "remove category limit whitespace", call: func() error { return store.RemoveCategoryLimit(ctx, march, "\t") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), common.ErrInvalidInput)
		})
	}
	assert.Empty(t, fake.tables["txns"])
}

func TestStore_GetTransactionsByPeriod(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	for _, d := range []time.Time{day(2024, 2, 29), day(2024, 3, 1), day(2024, 3, 20), day(2024, 4, 1)} {
		require.NoError(t, store.CreateTransaction(ctx, newTxn(model.KindExpense, "", "1", d)))
	}

	txns, err := store.GetTransactionsByPeriod(ctx, model.Period{Year: 2024, Month: 3})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "2024-03-20", txns[0].DateString())
	assert.Equal(t, "2024-03-01", txns[1].DateString())
}

func TestStore_GetTransactionsFilter(t *testing.T) {
	store, fake := newTestStore()
	fake.pageSize = 3
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		kind := model.KindExpense
		if i%4 == 0 {
			kind = model.KindIncome
		}
		require.NoError(t, store.CreateTransaction(ctx,
			newTxn(kind, fmt.Sprintf("c%d", i%2), "10", day(2024, 1+i%3, 1+i))))
	}

	tests := []struct {
		filter service.TransactionFilter
		name   string
		want   int
	}{
		{name: "scan all pages", filter: service.TransactionFilter{}, want: 8},
		{name: "kind", filter: service.TransactionFilter{Kind: model.KindIncome}, want: 2},
		{name: "category", filter: service.TransactionFilter{CategoryID: "c1"}, want: 4},
		{name: "limit", filter: service.TransactionFilter{Limit: 5}, want: 5},
		{name: "offset", filter: service.TransactionFilter{Offset: 6}, want: 2},
		{name: "offset beyond", filter: service.TransactionFilter{Offset: 20}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := store.GetTransactions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, txns, tt.want)
			for i := 1; i < len(txns); i++ {
				assert.False(t, txns[i].Date.After(txns[i-1].Date), "newest first")
			}
		})
	}
}

func TestStore_LegacyKindSpelling(t *testing.T) {
	store, fake := newTestStore()
	ctx := context.Background()

	fake.tables["txns"]["legacy"] = item{
		"id":        &types.AttributeValueMemberS{Value: "legacy"},
		"yearMonth": &types.AttributeValueMemberS{Value: "2023-11"},
		"date":      &types.AttributeValueMemberS{Value: "2023-11-02"},
		"amount":    &types.AttributeValueMemberS{Value: "700000"},
		"type":      &types.AttributeValueMemberS{Value: "incurdebt"},
	}

	txn, err := store.GetTransactionByID(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, model.KindDebt, txn.Kind)
}

func TestStore_CorruptAmount(t *testing.T) {
	store, fake := newTestStore()

	fake.tables["txns"]["bad"] = item{
		"id":     &types.AttributeValueMemberS{Value: "bad"},
		"date":   &types.AttributeValueMemberS{Value: "2023-11-02"},
		"amount": &types.AttributeValueMemberS{Value: "lots"},
		"type":   &types.AttributeValueMemberS{Value: "expense"},
	}

	_, err := store.GetTransactionByID(context.Background(), "bad")
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestStore_Categories(t *testing.T) {
	store, fake := newTestStore()
	fake.pageSize = 2
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cats := []*model.Category{
		{ID: "1", Name: "Food", Kind: model.KindExpense, Icon: "🍔", CreatedAt: base},
		{ID: "2", Name: "transport", Kind: model.KindExpense, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Salary", Kind: model.KindIncome, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Name: "FOOD", Kind: model.KindDebt, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, c := range cats {
		require.NoError(t, store.CreateCategory(ctx, c))
	}
	require.NoError(t, store.SetTotalLimit(ctx, model.Period{Year: 2024, Month: 1}, decimal.NewFromInt(5)))

	all, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4, "budget items are not categories")
	assert.Equal(t, model.KindDebt, all[0].Kind)

	expenses, err := store.GetCategoriesByKind(ctx, model.KindExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Food", expenses[0].Name)
	assert.Equal(t, "transport", expenses[1].Name)

	byName, err := store.GetCategoryByName(ctx, "food")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "1", byName.ID, "oldest match wins")

	missing, err := store.GetCategoryByName(ctx, "Rent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := store.SearchCategories(ctx, "OO")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	food, err := store.GetCategoryByID(ctx, "1")
	require.NoError(t, err)
	food.CreatedAt = time.Time{}
	food.Name = "Meals"
	require.NoError(t, store.UpdateCategory(ctx, food))

	updated, err := store.GetCategoryByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Meals", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(base), "creation time is preserved")

	require.NoError(t, store.DeleteCategory(ctx, "1"))
	assert.ErrorIs(t, store.DeleteCategory(ctx, "1"), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateCategory(ctx, food), common.ErrNotFound)
	assert.ErrorIs(t, store.CreateCategory(ctx, cats[1]), common.ErrDuplicateEntry)
}

func TestStore_Budgets(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	march := model.Period{Year: 2024, Month: 3}

	none, err := store.GetBudget(ctx, march)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, store.SetCategoryLimit(ctx, march, "A", decimal.NewFromInt(300000)))
	budget, err := store.GetBudget(ctx, march)
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.True(t, budget.TotalLimit.IsZero())
	assert.True(t, budget.CategoryLimits["A"].Equal(decimal.NewFromInt(300000)))

	require.NoError(t, store.SetTotalLimit(ctx, march, decimal.NewFromInt(1000000)))
	require.NoError(t, store.SetCategoryLimit(ctx, march, "B", decimal.NewFromInt(50000)))

	budget, err = store.GetBudget(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 2024, budget.Year)
	assert.Equal(t, 3, budget.Month)
	assert.True(t, budget.TotalLimit.Equal(decimal.NewFromInt(1000000)))
	assert.Len(t, budget.CategoryLimits, 2, "setting the total keeps category limits")

	require.NoError(t, store.RemoveCategoryLimit(ctx, march, "A"))
	budget, err = store.GetBudget(ctx, march)
	require.NoError(t, err)
	assert.Len(t, budget.CategoryLimits, 1)
	assert.True(t, budget.TotalLimit.Equal(decimal.NewFromInt(1000000)), "removal leaves the total untouched")

	assert.ErrorIs(t, store.RemoveCategoryLimit(ctx, march, "A"), common.ErrNotFound)
	assert.ErrorIs(t, store.RemoveCategoryLimit(ctx, model.Period{Year: 2020, Month: 1}, "A"), common.ErrNotFound)

	assert.ErrorIs(t, store.SetTotalLimit(ctx, march, decimal.NewFromInt(-1)), model.ErrInvalidBudget)
	assert.ErrorIs(t, store.SetCategoryLimit(ctx, model.Period{Year: 2024, Month: 0}, "A", decimal.Zero), model.ErrInvalidBudget)

	require.NoError(t, store.SetTotalLimit(ctx, model.Period{Year: 2023, Month: 12}, decimal.NewFromInt(1)))
	require.NoError(t, store.SetTotalLimit(ctx, model.Period{Year: 2024, Month: 1}, decimal.NewFromInt(1)))

	budgets, err := store.GetBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, "2024-03", budgets[0].Period().Key())
	assert.Equal(t, "2024-01", budgets[1].Period().Key())
	assert.Equal(t, "2023-12", budgets[2].Period().Key())
}
