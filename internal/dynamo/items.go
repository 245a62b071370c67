package dynamo

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Master table item types. The partition key is "<type>#<id>".
const (
	typeCategory = "category"
	typeBudget   = "budget"
)

// transactionItem is a row in the transactions table.
type transactionItem struct {
	ID            string   `dynamodbav:"id"`
	YearMonth     string   `dynamodbav:"yearMonth"`
	Date          string   `dynamodbav:"date"`
	Amount        string   `dynamodbav:"amount"`
	Kind          string   `dynamodbav:"type"`
	CategoryID    string   `dynamodbav:"categoryId"`
	PaymentMethod string   `dynamodbav:"paymentMethod"`
	Note          string   `dynamodbav:"note"`
	Tags          []string `dynamodbav:"tags,omitempty"`
	CreatedAt     string   `dynamodbav:"createdAt"`
	UpdatedAt     string   `dynamodbav:"updatedAt"`
}

func transactionFromModel(t *model.Transaction) transactionItem {
	return transactionItem{
		ID:            t.ID,
		YearMonth:     model.PeriodOf(t.Date).Key(),
		Date:          t.DateString(),
		Amount:        t.Amount.String(),
		Kind:          string(t.Kind),
		CategoryID:    t.CategoryID,
		PaymentMethod: t.PaymentMethod,
		Note:          t.Note,
		Tags:          t.Tags,
		CreatedAt:     formatTime(t.CreatedAt),
		UpdatedAt:     formatTime(t.UpdatedAt),
	}
}

func (item *transactionItem) toModel() (model.Transaction, error) {
	date, err := time.Parse(model.DateLayout, item.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s has invalid date %q: %w", item.ID, item.Date, common.ErrDatabaseCorrupted)
	}
	amount, err := decimal.NewFromString(item.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s has invalid amount %q: %w", item.ID, item.Amount, common.ErrDatabaseCorrupted)
	}

	// Documents written by older clients carry "incurdebt".
	kind, err := model.ParseKind(item.Kind)
	if err != nil {
		kind = model.Kind(item.Kind)
	}

	return model.Transaction{
		ID:            item.ID,
		Date:          date,
		Amount:        amount,
		Kind:          kind,
		CategoryID:    item.CategoryID,
		PaymentMethod: item.PaymentMethod,
		Note:          item.Note,
		Tags:          item.Tags,
		CreatedAt:     parseTime(item.CreatedAt),
		UpdatedAt:     parseTime(item.UpdatedAt),
	}, nil
}

// categoryItem is a category row in the master table.
type categoryItem struct {
	PK        string `dynamodbav:"pk"`
	Type      string `dynamodbav:"itemType"`
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Kind      string `dynamodbav:"kind"`
	Icon      string `dynamodbav:"icon"`
	Color     string `dynamodbav:"color"`
	CreatedAt string `dynamodbav:"createdAt"`
}

func categoryFromModel(c *model.Category) categoryItem {
	return categoryItem{
		PK:        categoryKey(c.ID),
		Type:      typeCategory,
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Icon:      c.Icon,
		Color:     c.Color,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func (item *categoryItem) toModel() model.Category {
	kind, err := model.ParseKind(item.Kind)
	if err != nil {
		kind = model.Kind(item.Kind)
	}
	return model.Category{
		ID:        item.ID,
		Name:      item.Name,
		Kind:      kind,
		Icon:      item.Icon,
		Color:     item.Color,
		CreatedAt: parseTime(item.CreatedAt),
	}
}

// budgetItem is a monthly budget row in the master table.
type budgetItem struct {
	CategoryLimits map[string]string `dynamodbav:"categoryLimits"`
	PK             string            `dynamodbav:"pk"`
	Type           string            `dynamodbav:"itemType"`
	TotalLimit     string            `dynamodbav:"totalLimit"`
	Year           int               `dynamodbav:"year"`
	Month          int               `dynamodbav:"month"`
}

func (item *budgetItem) toModel() (*model.BudgetLimit, error) {
	budget := model.NewBudgetLimit(model.Period{Year: item.Year, Month: item.Month})

	total, err := parseAmount(item.TotalLimit)
	if err != nil {
		return nil, fmt.Errorf("budget %s: %w", item.PK, err)
	}
	budget.TotalLimit = total

	for id, raw := range item.CategoryLimits {
		limit, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("budget %s category %s: %w", item.PK, id, err)
		}
		budget.CategoryLimits[id] = limit
	}
	return budget, nil
}

func categoryKey(id string) string {
	return typeCategory + "#" + id
}

func budgetKey(p model.Period) string {
	return typeBudget + "#" + p.Key()
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, common.ErrDatabaseCorrupted)
	}
	return d, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
