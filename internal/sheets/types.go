package sheets

import (
	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// Report is everything written for one month.
type Report struct {
	Period       model.Period
	Summary      budget.Summary
	Status       budget.Status
	Transactions []ledger.TransactionView
}

// NewReport combines a dashboard report with the month's transactions.
func NewReport(r *ledger.Report, txns []ledger.TransactionView) *Report {
	return &Report{
		Period:       r.Period,
		Summary:      r.Summary,
		Status:       r.Status,
		Transactions: txns,
	}
}

// Section titles, also used to locate rows for bold formatting.
const (
	sectionSummary      = "Summary"
	sectionBudget       = "Budget Status"
	sectionBreakdown    = "Category Breakdown"
	sectionTransactions = "Transaction Details"
)
