package cli

import (
	"strings"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders money and percentages for one locale and currency symbol.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter creates a formatter. An unparsable language falls back to English.
func NewFormatter(currency, lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Amount formats d with grouping and two decimals, e.g. "$1,234.50".
func (f *Formatter) Amount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + f.currency + f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Percent formats p as "42.5%".
func (f *Formatter) Percent(p decimal.Decimal) string {
	return f.printer.Sprintf("%.1f", p.Round(1).InexactFloat64()) + "%"
}

// KindAmount formats d colored by kind.
func (f *Formatter) KindAmount(kind model.Kind, d decimal.Decimal) string {
	return KindStyle(kind).Render(f.Amount(d))
}

// KindStyle returns the color style used for a transaction kind.
func KindStyle(kind model.Kind) lipgloss.Style {
	switch kind {
	case model.KindIncome:
		return lipgloss.NewStyle().Foreground(IncomeColor)
	case model.KindDebt:
		return lipgloss.NewStyle().Foreground(DebtColor)
	default:
		return lipgloss.NewStyle().Foreground(ExpenseColor)
	}
}

// UsageStyle colors a budget usage percentage: red when over the limit,
// yellow from 80% on.
func UsageStyle(percentage decimal.Decimal) lipgloss.Style {
	switch {
	case percentage.GreaterThan(decimal.NewFromInt(100)):
		return ErrorStyle
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// Bar renders a fixed-width text progress bar for percentage, capped at full.
func Bar(percentage decimal.Decimal, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percentage.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	filled = max(0, min(filled, width))
	return UsageStyle(percentage).Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", width-filled))
}
