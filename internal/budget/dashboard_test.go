package budget

import (
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDashboardSummary(t *testing.T) {
	txns := []model.Transaction{
		txn(model.KindIncome, "S", 5000000),
		txn(model.KindExpense, "A", 200000),
		txn(model.KindExpense, "B", 100000),
		txn(model.KindExpense, "A", 50000),
		txn(model.KindDebt, "L", 700000),
	}
	limits := &model.BudgetLimit{Year: 2024, Month: 3, TotalLimit: d(1000000)}

	s := ComputeDashboardSummary(txns, limits, testCategories())

	assert.True(t, s.TotalIncome.Equal(d(5000000)))
	assert.True(t, s.TotalExpense.Equal(d(350000)))
	assert.True(t, s.TotalDebt.Equal(d(700000)))
	assert.True(t, s.NetResult.Equal(d(4650000)))
	assert.True(t, s.TotalBudgetLimit.Equal(d(1000000)))
	assert.True(t, s.RemainingBudget.Equal(d(5650000)))

	require.Len(t, s.ExpenseCategories, 2)
	assert.Equal(t, "Food", s.ExpenseCategories[0].Name)
	assert.True(t, s.ExpenseCategories[0].Amount.Equal(d(250000)))
	assert.Equal(t, "Transport", s.ExpenseCategories[1].Name)

	require.Len(t, s.IncomeCategories, 1)
	assert.Equal(t, "💰", s.IncomeCategories[0].Icon)

	require.Len(t, s.DebtCategories, 1)
	assert.Equal(t, "Loan", s.DebtCategories[0].Name)
	assert.Equal(t, model.PlaceholderIcon, s.DebtCategories[0].Icon, "category without icon falls back")
	assert.Equal(t, s.DebtCategories, s.Breakdown(model.KindDebt))
}

func TestComputeDashboardSummary_DebtDoesNotChangeNetResult(t *testing.T) {
	base := []model.Transaction{
		txn(model.KindIncome, "S", 1000),
		txn(model.KindExpense, "A", 400),
	}

	for _, amount := range []int64{0, 1, 999999999} {
		withDebt := append(append([]model.Transaction{}, base...), txn(model.KindDebt, "L", amount))

		without := ComputeDashboardSummary(base, nil, testCategories())
		with := ComputeDashboardSummary(withDebt, nil, testCategories())

		assert.True(t, without.NetResult.Equal(with.NetResult), "debt of %d changed net result", amount)
		assert.True(t, with.TotalDebt.Equal(d(amount)))
	}
}

func TestComputeDashboardSummary_Empty(t *testing.T) {
	s := ComputeDashboardSummary(nil, nil, nil)

	for _, v := range []decimal.Decimal{s.TotalIncome, s.TotalExpense, s.TotalDebt, s.NetResult, s.TotalBudgetLimit, s.RemainingBudget} {
		assert.True(t, v.IsZero())
	}
	assert.Empty(t, s.IncomeCategories)
	assert.Empty(t, s.ExpenseCategories)
	assert.Empty(t, s.DebtCategories)
}

func TestComputeDashboardSummary_DeletedCategory(t *testing.T) {
	txns := []model.Transaction{
		txn(model.KindExpense, "deleted-id", 1234),
		txn(model.KindExpense, "", 66),
	}

	s := ComputeDashboardSummary(txns, nil, testCategories())

	assert.True(t, s.TotalExpense.Equal(d(1300)))
	require.Len(t, s.ExpenseCategories, 2)
	assert.Equal(t, model.UnknownCategoryName, s.ExpenseCategories[0].Name)
	assert.Equal(t, model.PlaceholderIcon, s.ExpenseCategories[0].Icon)
	assert.True(t, s.ExpenseCategories[0].Amount.Equal(d(1234)))
	assert.Equal(t, model.UncategorizedCategoryName, s.ExpenseCategories[1].Name)
}

func TestComputeDashboardSummary_RemainingDiffersFromBudgetStatus(t *testing.T) {
	txns := []model.Transaction{
		txn(model.KindIncome, "S", 300),
		txn(model.KindExpense, "A", 100),
		txn(model.KindDebt, "L", 50),
	}
	limits := &model.BudgetLimit{Year: 2024, Month: 3, TotalLimit: d(1000)}

	summary := ComputeDashboardSummary(txns, limits, testCategories())
	status := ComputeBudgetStatus(txns, limits, testCategories())

	assert.True(t, summary.RemainingBudget.Equal(d(1200)))
	assert.True(t, status.TotalRemaining.Equal(d(850)))
}

func TestComputeDashboardSummary_IgnoresUnknownKinds(t *testing.T) {
	txns := []model.Transaction{txn(model.Kind("transfer"), "A", 100)}

	s := ComputeDashboardSummary(txns, nil, testCategories())

	assert.True(t, s.TotalExpense.IsZero())
	assert.Empty(t, s.ExpenseCategories)
	assert.Nil(t, s.Breakdown(model.Kind("transfer")))
}

func TestResolveCategory(t *testing.T) {
	name, icon := ResolveCategory(testCategories(), "A")
	assert.Equal(t, "Food", name)
	assert.Equal(t, "🍔", icon)

	name, _ = ResolveCategory(testCategories(), "")
	assert.Equal(t, model.UncategorizedCategoryName, name)

	name, icon = ResolveCategory(nil, "A")
	assert.Equal(t, model.UnknownCategoryName, name)
	assert.Equal(t, model.PlaceholderIcon, icon)
}
