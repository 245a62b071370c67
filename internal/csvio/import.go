// Package csvio reads and writes transactions as CSV.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Import column names. Only date, amount, and type are required.
const (
	ColDate          = "date"
	ColAmount        = "amount"
	ColType          = "type"
	ColCategoryName  = "category_name"
	ColCategoryID    = "category_id"
	ColPaymentMethod = "payment_method"
	ColNote          = "note"
	ColTags          = "tags"
)

var requiredColumns = []string{ColDate, ColAmount, ColType}

// CategoryResolver finds a category by case-insensitive name.
type CategoryResolver interface {
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
}

// TransactionSink stores parsed transactions and reports how many were new.
type TransactionSink interface {
	Import(ctx context.Context, txns []*model.Transaction) (int, error)
}

// Progress receives one tick per data row.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// RowError ties a parse failure to its line in the input.
type RowError struct {
	Err  error
	Line int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ImportResult summarizes an import.
type ImportResult struct {
	Errors   []error
	Imported int
	Skipped  int
}

// Importer turns CSV rows into transactions.
type Importer struct {
	categories CategoryResolver
	sink       TransactionSink
	progress   Progress
	resolved   map[string]string
}

// Option configures an Importer.
type Option func(*Importer)

// WithProgress reports per-row progress to p.
func WithProgress(p Progress) Option {
	return func(i *Importer) {
		i.progress = p
	}
}

// NewImporter creates an importer that resolves category names with
// categories and stores rows through sink.
func NewImporter(categories CategoryResolver, sink TransactionSink, opts ...Option) *Importer {
	i := &Importer{
		categories: categories,
		sink:       sink,
		resolved:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads r and stores every valid row.
//
// Rows missing a date, amount, or type are skipped. Rows that fail to parse
// are reported in Errors and not stored. An unknown category name leaves the
// transaction uncategorized. The returned error is reserved for failures that
// stop the whole import, such as a malformed header.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %w", common.ErrMissingColumns)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := indexColumns(header)
	if missing := columns.missing(requiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumns, strings.Join(missing, ", "))
	}

	result := &ImportResult{}
	var txns []*model.Transaction

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			result.Errors = append(result.Errors, &RowError{Line: line, Err: err})
			continue
		}
		line, _ := reader.FieldPos(0)
		i.tick()

		row := columns.row(record)
		if row.get(ColDate) == "" || row.get(ColAmount) == "" || row.get(ColType) == "" {
			result.Skipped++
			continue
		}

		txn, err := i.parseRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, &RowError{Line: line, Err: err})
			continue
		}
		txns = append(txns, txn)
	}

	if len(txns) > 0 {
		n, err := i.sink.Import(ctx, txns)
		result.Imported = n
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	slog.Info("csv import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
	return result, nil
}

func (i *Importer) parseRow(ctx context.Context, row row) (*model.Transaction, error) {
	date, err := model.ParseDate(row.get(ColDate))
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(row.get(ColAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidAmount, row.get(ColAmount))
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidAmount, amount)
	}
	kind, err := model.ParseKind(row.get(ColType))
	if err != nil {
		return nil, err
	}

	categoryID := row.get(ColCategoryID)
	if name := row.get(ColCategoryName); name != "" {
		categoryID, err = i.resolveCategory(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	payment := row.get(ColPaymentMethod)
	if payment == "" {
		payment = model.PaymentCash
	}

	return &model.Transaction{
		Date:          date,
		Amount:        amount,
		Kind:          kind,
		CategoryID:    categoryID,
		PaymentMethod: payment,
		Note:          row.get(ColNote),
		Tags:          model.ParseTags(row.get(ColTags)),
	}, nil
}

func (i *Importer) resolveCategory(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := i.resolved[key]; ok {
		return id, nil
	}

	cat, err := i.categories.GetCategoryByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	id := ""
	if cat != nil {
		id = cat.ID
	} else {
		slog.Debug("unknown category in csv, importing uncategorized", "category", name)
	}
	i.resolved[key] = id
	return id, nil
}

func (i *Importer) tick() {
	if i.progress != nil {
		_ = i.progress.Add(1)
	}
}

// columnIndex maps a lower-cased header name to its position.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for pos, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = pos
		}
	}
	return idx
}

func (c columnIndex) missing(names []string) []string {
	var out []string
	for _, name := range names {
		if _, ok := c[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (c columnIndex) row(record []string) row {
	return row{columns: c, record: record}
}

type row struct {
	columns columnIndex
	record  []string
}

func (r row) get(name string) string {
	pos, ok := r.columns[name]
	if !ok || pos >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[pos])
}
