package csvio

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	byName  map[string]*model.Category
	lookups int
}

func (f *fakeCategories) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	f.lookups++
	return f.byName[strings.ToLower(name)], nil
}

type fakeSink struct {
	err  error
	txns []*model.Transaction
}

func (f *fakeSink) Import(_ context.Context, txns []*model.Transaction) (int, error) {
	f.txns = append(f.txns, txns...)
	return len(txns), f.err
}

type countingProgress struct{ n int }

func (c *countingProgress) Add(n int) error {
	c.n += n
	return nil
}

func newFakes() (*fakeCategories, *fakeSink) {
	return &fakeCategories{byName: map[string]*model.Category{
		"food":   {ID: "cat-food", Name: "Food", Kind: model.KindExpense},
		"salary": {ID: "cat-salary", Name: "Salary", Kind: model.KindIncome},
	}}, &fakeSink{}
}

func TestImporter_Import(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,type,category_name,payment_method,note,tags",
		"2024-03-01,5000,income,salary,bank,March pay,",
		`2024-03-02,12.50,expense,FOOD,,lunch,"work, team"`,
		"2024-03-03,40,incurdebt,,credit,,",
		"2024-03-04,7,expense,Pets,,,",
		",10,expense,Food,,,",
		"2024-03-05,,expense,Food,,,",
	}, "\n")

	cats, sink := newFakes()
	progress := &countingProgress{}
	result, err := NewImporter(cats, sink, WithProgress(progress)).Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 6, progress.n)
	require.Len(t, sink.txns, 4)

	salary := sink.txns[0]
	assert.Equal(t, model.KindIncome, salary.Kind)
	assert.Equal(t, "cat-salary", salary.CategoryID)
	assert.Equal(t, model.PaymentBank, salary.PaymentMethod)
	assert.Equal(t, "March pay", salary.Note)
	assert.Nil(t, salary.Tags)

	lunch := sink.txns[1]
	assert.Equal(t, "cat-food", lunch.CategoryID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(lunch.Amount))
	assert.Equal(t, model.PaymentCash, lunch.PaymentMethod)
	assert.Equal(t, []string{"work", "team"}, lunch.Tags)

	assert.Equal(t, model.KindDebt, sink.txns[2].Kind)
	assert.Empty(t, sink.txns[3].CategoryID, "unknown category imports uncategorized")
}

func TestImporter_CachesCategoryLookups(t *testing.T) {
	input := "date,amount,type,category_name\n" +
		"2024-03-01,1,expense,Food\n" +
		"2024-03-02,2,expense,food\n" +
		"2024-03-03,3,expense,Nope\n" +
		"2024-03-04,4,expense,nope\n"

	cats, sink := newFakes()
	_, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, cats.lookups)
}

func TestImporter_RowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{"bad date", "03/01/2024,1,expense", nil},
		{"bad amount", "2024-03-01,abc,expense", common.ErrInvalidAmount},
		{"negative amount", "2024-03-01,-5,expense", common.ErrInvalidAmount},
		{"bad type", "2024-03-01,5,transfer", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats, sink := newFakes()
			input := "date,amount,type\n" + tt.row + "\n2024-03-02,1,expense\n"

			result, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, 1, result.Imported)
			require.Len(t, result.Errors, 1)
			var rowErr *RowError
			require.ErrorAs(t, result.Errors[0], &rowErr)
			assert.Equal(t, 2, rowErr.Line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, result.Errors[0], tt.wantErr)
			}
		})
	}
}

func TestImporter_Header(t *testing.T) {
	t.Run("missing required columns", func(t *testing.T) {
		cats, sink := newFakes()
		_, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader("date,note\n2024-03-01,x\n"))
		require.ErrorIs(t, err, common.ErrMissingColumns)
		assert.Contains(t, err.Error(), "amount, type")
	})

	t.Run("empty input", func(t *testing.T) {
		cats, sink := newFakes()
		_, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader(""))
		require.ErrorIs(t, err, common.ErrMissingColumns)
	})

	t.Run("reordered, mixed case, byte order mark", func(t *testing.T) {
		cats, sink := newFakes()
		input := "\ufeffType, Amount ,DATE\nexpense,3,2024-03-09\n"
		result, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, "2024-03-09", sink.txns[0].DateString())
	})

	t.Run("category id column", func(t *testing.T) {
		cats, sink := newFakes()
		input := "date,amount,type,category_id\n2024-03-01,1,expense,cat-food\n"
		_, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, "cat-food", sink.txns[0].CategoryID)
		assert.Zero(t, cats.lookups)
	})
}

func TestImporter_SinkError(t *testing.T) {
	cats, sink := newFakes()
	sink.err = errors.New("disk full")

	result, err := NewImporter(cats, sink).Import(context.Background(), strings.NewReader("date,amount,type\n2024-03-01,1,expense\n"))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.EqualError(t, result.Errors[0], "disk full")
}

func TestExport(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:          testDate(2024, 3, 2),
			Amount:        decimal.RequireFromString("12.50"),
			Kind:          model.KindExpense,
			CategoryID:    "cat-food",
			PaymentMethod: model.PaymentCash,
			Note:          "lunch, with team",
			Tags:          []string{"work", "team"},
		},
		{
			Date:          testDate(2024, 3, 1),
			Amount:        decimal.NewFromInt(5000),
			Kind:          model.KindIncome,
			PaymentMethod: model.PaymentBank,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, txns))

	want := "date,amount,type,category_id,payment_method,note,tags\n" +
		"2024-03-02,12.5,expense,cat-food,cash,\"lunch, with team\",\"work,team\"\n" +
		"2024-03-01,5000,income,,bank,,\n"
	assert.Equal(t, want, buf.String())
}

func TestExportThenImport(t *testing.T) {
	original := []model.Transaction{{
		Date:          testDate(2024, 3, 2),
		Amount:        decimal.RequireFromString("9.99"),
		Kind:          model.KindDebt,
		CategoryID:    "cat-loan",
		PaymentMethod: model.PaymentCredit,
		Note:          "card",
		Tags:          []string{"a", "b"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, original))

	cats, sink := newFakes()
	result, err := NewImporter(cats, sink).Import(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	got := sink.txns[0]
	assert.Equal(t, original[0].DateString(), got.DateString())
	assert.True(t, original[0].Amount.Equal(got.Amount))
	assert.Equal(t, original[0].Kind, got.Kind)
	assert.Equal(t, original[0].CategoryID, got.CategoryID)
	assert.Equal(t, original[0].PaymentMethod, got.PaymentMethod)
	assert.Equal(t, original[0].Tags, got.Tags)
}

func testDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
