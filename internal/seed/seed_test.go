package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/seed"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 31, 15, 4, 5, 0, time.UTC)

func TestGenerator_EmptyLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := ledger.New(db.Storage, nil)
	ctx := context.Background()

	result, err := seed.NewGenerator(l.Categories, l.Transactions).Run(ctx, seed.Options{Count: 40, Days: 30, Now: now, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, len(seed.DefaultCategories), result.CategoriesCreated)
	assert.Equal(t, 40, result.TransactionsCreated)

	txns, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 40)

	cats, err := db.Storage.GetCategories(ctx)
	require.NoError(t, err)
	kinds := map[string]model.Kind{}
	for _, c := range cats {
		kinds[c.ID] = c.Kind
	}

	earliest := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, txn := range txns {
		assert.Equal(t, []string{seed.Tag}, txn.Tags)
		assert.Equal(t, kinds[txn.CategoryID], txn.Kind, "kind follows category")
		assert.False(t, txn.Date.Before(earliest), txn.DateString())
		assert.False(t, txn.Date.After(now), txn.DateString())
		assert.True(t, txn.Amount.IsPositive())
		assert.LessOrEqual(t, txn.Amount.Exponent(), int32(0))
	}
}

func TestGenerator_KeepsExistingCategories(t *testing.T) {
	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
		return b.WithCategory(categories.CategoryTravel, model.KindExpense)
	})
	l := ledger.New(db.Storage, nil)

	result, err := seed.NewGenerator(l.Categories, l.Transactions).Run(context.Background(), seed.Options{Count: 5, Days: 0, Now: now, Seed: 1})
	require.NoError(t, err)
	assert.Zero(t, result.CategoriesCreated)

	travel := db.MustGetCategory(categories.CategoryTravel)
	txns, err := db.Storage.GetTransactions(context.Background(), service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 5)
	for _, txn := range txns {
		assert.Equal(t, travel.ID, txn.CategoryID)
		assert.Equal(t, "2024-03-31", txn.DateString(), "zero days means today")
	}
}

func TestGenerator_Reproducible(t *testing.T) {
	amounts := func() []string {
		db := testutil.SetupTestDB(t)
		l := ledger.New(db.Storage, nil)
		_, err := seed.NewGenerator(l.Categories, l.Transactions).Run(context.Background(), seed.Options{Count: 10, Days: 30, Now: now, Seed: 42})
		require.NoError(t, err)

		txns, err := db.Storage.GetTransactions(context.Background(), service.TransactionFilter{})
		require.NoError(t, err)
		out := make([]string, 0, len(txns))
		for _, txn := range txns {
			out = append(out, txn.Note+"="+txn.Amount.String())
		}
		return out
	}

	assert.ElementsMatch(t, amounts(), amounts())
}

func TestGenerator_InvalidOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := ledger.New(db.Storage, nil)

	_, err := seed.NewGenerator(l.Categories, l.Transactions).Run(context.Background(), seed.Options{Count: -1})
	assert.Error(t, err)
}
