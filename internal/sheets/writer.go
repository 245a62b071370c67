package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetTitle   = "Report"
	reportColumn = 7
)

// Writer writes monthly reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter authenticates and creates a Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(config, srv, logger), nil
}

// NewWriterWithService creates a writer around an existing Sheets client.
func NewWriterWithService(config Config, srv *sheets.Service, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write replaces the report sheet's contents with report and returns the
// spreadsheet id.
func (w *Writer) Write(ctx context.Context, report *Report) (string, error) {
	w.logger.Info("starting report generation",
		"period", report.Period.Key(),
		"transactions", len(report.Transactions))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	err := common.WithRetry(ctx, func() error {
		var err error
		spreadsheetID, err = w.getOrCreateSpreadsheet(ctx)
		return classify(err)
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	values := w.prepareReportData(report)

	err = common.WithRetry(ctx, func() error {
		if err := w.clearSheet(ctx, spreadsheetID); err != nil {
			return classify(err)
		}
		return classify(w.writeData(ctx, spreadsheetID, values))
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classify(w.applyFormatting(ctx, spreadsheetID, values))
		}, retryOpts)
		if err != nil {
			// The data is already written; formatting is cosmetic.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report generation completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return spreadsheetID, nil
}

// classify maps Sheets API failures onto the retry policy: quota errors
// back off fully, other client errors fail immediately.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := OAuth2Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenFile:    config.TokenFile,
		}

		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		if config.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("no refresh token configured and no saved token: %w", err)
			}
			token = saved
		}

		tokenSource = oauthConfig.oauth().TokenSource(ctx, token)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later exports write to the same spreadsheet.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// prepareReportData lays the report out top to bottom: title, totals,
// budget status, per-kind breakdown, then every transaction newest first.
func (w *Writer) prepareReportData(report *Report) [][]any {
	s := report.Summary
	st := report.Status

	values := make([][]any, 0, 24+len(st.Categories)+len(report.Transactions))
	values = append(values,
		[]any{"Ledger Report", report.Period.String()},
		[]any{},
		[]any{sectionSummary},
		[]any{"Total Income", amount(s.TotalIncome)},
		[]any{"Total Expense", amount(s.TotalExpense)},
		[]any{"Total Debt", amount(s.TotalDebt)},
		[]any{"Net Result", amount(s.NetResult)},
		[]any{"Budget Limit", amount(s.TotalBudgetLimit)},
		[]any{"Remaining Budget", amount(s.RemainingBudget)},
		[]any{},
		[]any{sectionBudget},
		[]any{"Category", "Limit", "Spent", "Remaining", "Used %"},
	)

	for _, row := range st.Categories {
		values = append(values, []any{
			row.Icon + " " + row.Name,
			amount(row.Limit),
			amount(row.Spent),
			amount(row.Remaining),
			row.Percentage.InexactFloat64(),
		})
	}
	values = append(values,
		[]any{"Total", amount(st.TotalBudgetLimit), amount(st.TotalSpent), amount(st.TotalRemaining), st.TotalPercentage.InexactFloat64()},
		[]any{},
		[]any{sectionBreakdown},
		[]any{"Type", "Category", "Amount"},
	)

	for _, kind := range model.Kinds {
		for _, row := range s.Breakdown(kind) {
			values = append(values, []any{kind.Label(), row.Icon + " " + row.Name, amount(row.Amount)})
		}
	}

	values = append(values,
		[]any{},
		[]any{sectionTransactions},
		[]any{"Date", "Type", "Category", "Amount", "Payment", "Note", "Tags"},
	)
	for _, txn := range report.Transactions {
		values = append(values, []any{
			txn.DateString(),
			txn.Kind.Label(),
			txn.CategoryName,
			amount(txn.Amount),
			txn.PaymentMethod,
			txn.Note,
			strings.Join(txn.Tags, ", "),
		})
	}

	return values
}

// writeData writes the data to the spreadsheet in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// sectionRows returns the zero-based indexes of section title rows.
func sectionRows(values [][]any) []int64 {
	var rows []int64
	for i, row := range values {
		if len(row) != 1 {
			continue
		}
		switch row[0] {
		case sectionSummary, sectionBudget, sectionBreakdown, sectionTransactions:
			rows = append(rows, int64(i))
		}
	}
	return rows
}

func boldRow(row int64, size int64) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    row,
				EndRowIndex:      row + 1,
				StartColumnIndex: 0,
				EndColumnIndex:   reportColumn,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
				},
			},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func (w *Writer) formattingRequests(values [][]any) []*sheets.Request {
	requests := []*sheets.Request{boldRow(0, 16)}
	for _, row := range sectionRows(values) {
		requests = append(requests, boldRow(row, 12))
	}

	requests = append(requests,
		&sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    1,
					EndRowIndex:      int64(len(values)),
					StartColumnIndex: 1,
					EndColumnIndex:   4,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "NUMBER",
							Pattern: w.config.CurrencyPattern,
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   reportColumn,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)
	return requests
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, values [][]any) error {
	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{Requests: w.formattingRequests(values)}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
