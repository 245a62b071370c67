package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testReport() *Report {
	return &Report{
		Period: model.Period{Year: 2024, Month: 3},
		Summary: budget.Summary{
			TotalIncome:      d("5000"),
			TotalExpense:     d("300.5"),
			TotalDebt:        d("100"),
			NetResult:        d("4699.5"),
			TotalBudgetLimit: d("1000"),
			RemainingBudget:  d("5699.5"),
			IncomeCategories: []budget.CategoryAmount{{Name: "Salary", Icon: "💰", Amount: d("5000")}},
			ExpenseCategories: []budget.CategoryAmount{
				{Name: "Food", Icon: "🍔", Amount: d("200.5")},
				{Name: "Transportation", Icon: "🚗", Amount: d("100")},
			},
			DebtCategories: []budget.CategoryAmount{{Name: "Loan", Icon: "🏦", Amount: d("100")}},
		},
		Status: budget.Status{
			TotalBudgetLimit: d("1000"),
			TotalSpent:       d("400.5"),
			TotalRemaining:   d("599.5"),
			TotalPercentage:  d("40.05"),
			Categories: []budget.CategoryStatus{
				{Name: "Food", Icon: "🍔", Limit: d("400"), Spent: d("200.5"), Remaining: d("199.5"), Percentage: d("50.13")},
			},
		},
		Transactions: []ledger.TransactionView{
			{
				CategoryName: "Food",
				CategoryIcon: "🍔",
				Transaction: model.Transaction{
					Date:          time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
					Kind:          model.KindExpense,
					Amount:        d("200.5"),
					PaymentMethod: model.PaymentCash,
					Note:          "groceries",
					Tags:          []string{"weekly", "family"},
				},
			},
		},
	}
}

func findRow(values [][]any, first any) int {
	for i, row := range values {
		if len(row) > 0 && row[0] == first {
			return i
		}
	}
	return -1
}

func TestWriter_prepareReportData(t *testing.T) {
	writer := &Writer{config: DefaultConfig()}
	values := writer.prepareReportData(testReport())

	assert.Equal(t, []any{"Ledger Report", "March 2024"}, values[0])

	summary := findRow(values, sectionSummary)
	require.NotEqual(t, -1, summary)
	assert.Equal(t, []any{"Total Income", 5000.0}, values[summary+1])
	assert.Equal(t, []any{"Total Expense", 300.5}, values[summary+2])
	assert.Equal(t, []any{"Net Result", 4699.5}, values[summary+4])

	status := findRow(values, sectionBudget)
	require.NotEqual(t, -1, status)
	assert.Equal(t, []any{"🍔 Food", 400.0, 200.5, 199.5, 50.13}, values[status+2])
	assert.Equal(t, []any{"Total", 1000.0, 400.5, 599.5, 40.05}, values[status+3])

	breakdown := findRow(values, sectionBreakdown)
	require.NotEqual(t, -1, breakdown)
	assert.Equal(t, []any{"Income", "💰 Salary", 5000.0}, values[breakdown+2])
	assert.Equal(t, []any{"Expense", "🍔 Food", 200.5}, values[breakdown+3])
	assert.Equal(t, []any{"Debt", "🏦 Loan", 100.0}, values[breakdown+5])

	details := findRow(values, sectionTransactions)
	require.NotEqual(t, -1, details)
	assert.Equal(t, []any{"2024-03-20", "Expense", "Food", 200.5, "cash", "groceries", "weekly, family"}, values[details+2])
	assert.Len(t, values, details+3)

	assert.Len(t, sectionRows(values), 4)
}

func TestWriter_formattingRequests(t *testing.T) {
	writer := &Writer{config: DefaultConfig()}
	values := writer.prepareReportData(testReport())

	requests := writer.formattingRequests(values)
	// Title, four sections, number format, resize, freeze.
	require.Len(t, requests, 8)
	assert.Equal(t, int64(16), requests[0].RepeatCell.Cell.UserEnteredFormat.TextFormat.FontSize)
	assert.Equal(t, "#,##0.00", requests[5].RepeatCell.Cell.UserEnteredFormat.NumberFormat.Pattern)
}

// fakeSheetsAPI records requests made by the real client.
type fakeSheetsAPI struct {
	missing     bool
	failUpdates int
	requests    []string
	bodies      map[string]string
	mu          sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.bodies[key] = string(body)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && f.missing:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	case r.Method == http.MethodPut && f.failUpdates > 0:
		f.failUpdates--
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"try later"}}`))
	case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets":
		_ = json.NewEncoder(w).Encode(map[string]string{"spreadsheetId": "new-sheet"})
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func (f *fakeSheetsAPI) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.Contains(r, substr) {
			n++
		}
	}
	return n
}

func (f *fakeSheetsAPI) countExact(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == key {
			n++
		}
	}
	return n
}

func newTestWriter(t *testing.T, api *fakeSheetsAPI, mutate func(*Config)) *Writer {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	config := DefaultConfig()
	config.RetryDelay = time.Millisecond
	if mutate != nil {
		mutate(&config)
	}
	return NewWriterWithService(config, srv, nil)
}

func TestWriter_Write(t *testing.T) {
	t.Run("existing spreadsheet", func(t *testing.T) {
		api := &fakeSheetsAPI{}
		writer := newTestWriter(t, api, func(c *Config) { c.SpreadsheetID = "sheet-1" })

		id, err := writer.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.Equal(t, "sheet-1", id)

		assert.Equal(t, 1, api.count("GET /v4/spreadsheets/sheet-1"))
		assert.Equal(t, 1, api.count(":clear"))
		assert.Equal(t, 1, api.count("PUT /v4/spreadsheets/sheet-1/values/"))
		assert.Equal(t, 1, api.count(":batchUpdate"))
		for key, body := range api.bodies {
			if strings.HasPrefix(key, "PUT") {
				assert.Contains(t, body, "Ledger Report")
				assert.Contains(t, body, "groceries")
			}
		}
	})

	t.Run("creates spreadsheet once", func(t *testing.T) {
		api := &fakeSheetsAPI{}
		writer := newTestWriter(t, api, func(c *Config) { c.EnableFormatting = false })

		id, err := writer.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.Equal(t, "new-sheet", id)
		assert.Equal(t, 0, api.count(":batchUpdate"))

		_, err = writer.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.Equal(t, 1, api.countExact("POST /v4/spreadsheets"), "no second create")
		assert.Equal(t, 1, api.count("GET /v4/spreadsheets/new-sheet"))
	})

	t.Run("batches large reports", func(t *testing.T) {
		api := &fakeSheetsAPI{}
		writer := newTestWriter(t, api, func(c *Config) {
			c.SpreadsheetID = "sheet-1"
			c.BatchSize = 10
		})

		_, err := writer.Write(context.Background(), testReport())
		require.NoError(t, err)

		rows := len(writer.prepareReportData(testReport()))
		assert.Equal(t, (rows+9)/10, api.count("PUT "))
	})

	t.Run("retries transient failures", func(t *testing.T) {
		api := &fakeSheetsAPI{failUpdates: 1}
		writer := newTestWriter(t, api, func(c *Config) { c.SpreadsheetID = "sheet-1" })

		_, err := writer.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.Equal(t, 2, api.count("PUT "))
		assert.Equal(t, 2, api.count(":clear"))
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		api := &fakeSheetsAPI{failUpdates: 10}
		writer := newTestWriter(t, api, func(c *Config) {
			c.SpreadsheetID = "sheet-1"
			c.RetryAttempts = 2
		})

		_, err := writer.Write(context.Background(), testReport())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write data")
		assert.ErrorIs(t, err, common.ErrMaxRetries)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		api := &fakeSheetsAPI{missing: true}
		writer := newTestWriter(t, api, func(c *Config) { c.SpreadsheetID = "gone" })

		_, err := writer.Write(context.Background(), testReport())
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrMaxRetries)
		assert.Equal(t, 1, api.count("GET /v4/spreadsheets/gone"))
		assert.Equal(t, 0, api.count("PUT "))
	})
}
