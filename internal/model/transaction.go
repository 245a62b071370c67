// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used for transaction dates.
const DateLayout = "2006-01-02"

// Kind classifies a transaction or category.
type Kind string

const (
	// KindIncome is money received.
	KindIncome Kind = "income"
	// KindExpense is money spent.
	KindExpense Kind = "expense"
	// KindDebt is money borrowed or lent. It counts as spend for budgets but
	// is excluded from the net income/expense result.
	KindDebt Kind = "debt"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindIncome, KindExpense, KindDebt}

// IsSpend reports whether the kind consumes budget.
func (k Kind) IsSpend() bool {
	return k == KindExpense || k == KindDebt
}

// Label returns a human readable label for the kind.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	case KindDebt:
		return "Debt"
	default:
		return string(k)
	}
}

// ParseKind parses a kind name. The legacy "incurdebt" spelling is accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return KindIncome, nil
	case "expense":
		return KindExpense, nil
	case "debt", "incurdebt", "debt-incurred":
		return KindDebt, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Well-known payment methods. Any other value is stored as-is.
const (
	PaymentCash    = "cash"
	PaymentBank    = "bank"
	PaymentCredit  = "credit"
	PaymentEWallet = "ewallet"
)

// Transaction is a single income, expense, or debt entry.
// Amount is always a non-negative magnitude; direction comes from Kind.
type Transaction struct {
	Date          time.Time       `validate:"required"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Amount        decimal.Decimal `validate:"gte=0"`
	ID            string
	Kind          Kind `validate:"required,oneof=income expense debt"`
	CategoryID    string
	PaymentMethod string
	Note          string
	Tags          []string
}

// DateString returns the transaction date in ISO form.
func (t *Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// HasCategory reports whether the transaction references a category.
func (t *Transaction) HasCategory() bool {
	return t.CategoryID != ""
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
