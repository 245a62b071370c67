package categories_test

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_WithCategory(t *testing.T) {
	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
		return b.WithCategory(categories.CategoryGroceries, model.KindExpense)
	})

	cat, err := db.Storage.GetCategoryByName(context.Background(), "groceries")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Groceries", cat.Name)
	assert.Equal(t, model.KindExpense, cat.Kind)
}

func TestBuilder_WithBasicCategories(t *testing.T) {
	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
		return b.WithBasicCategories()
	})

	for _, spec := range categories.FixtureMinimal.Categories() {
		cat := db.Categories.MustFind(t, spec.Name)
		assert.Equal(t, spec.Kind, cat.Kind, spec.Name)
		assert.Equal(t, spec.Icon, cat.Icon, spec.Name)
		assert.NotEmpty(t, cat.ID)
	}

	stored, err := db.Storage.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, len(categories.FixtureMinimal.Categories()))
}

func TestBuilder_DuplicateNamesCollapse(t *testing.T) {
	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
		return b.
			WithExpenses(categories.CategoryFood, categories.CategoryFood).
			WithFixture(categories.FixtureMinimal)
	})

	assert.Len(t, db.Categories, len(categories.FixtureMinimal.Categories()))
}

func TestBuilder_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cats, err := categories.NewBuilder(t).Build(context.Background(), db.Storage)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestBuilder_BuildMap(t *testing.T) {
	db := testutil.SetupTestDB(t)

	m, err := categories.NewBuilder(t).
		WithFixture(categories.FixtureStandard).
		BuildMap(context.Background(), db.Storage)
	require.NoError(t, err)

	assert.Len(t, m, len(categories.FixtureStandard.Categories()))
	assert.Equal(t, model.KindDebt, m.MustGet(t, categories.CategoryCreditCard).Kind)
}

func TestCompositeFixture(t *testing.T) {
	composite := categories.NewCompositeFixture("Both", categories.FixtureMinimal, categories.FixtureStandard)

	assert.Equal(t, "Both", composite.Name())
	assert.Len(t, composite.Categories(), len(categories.FixtureStandard.Categories()))

	seen := map[categories.CategoryName]bool{}
	for _, spec := range composite.Categories() {
		assert.False(t, seen[spec.Name], "duplicate %s", spec.Name)
		seen[spec.Name] = true
	}
}
