// Package seed fills a ledger with demo data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Tag marks every generated transaction.
const Tag = "auto-generated"

// CategoryService lists and creates categories.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Add(ctx context.Context, cat *model.Category) error
}

// TransactionImporter stores a batch of transactions.
type TransactionImporter interface {
	Import(ctx context.Context, txns []*model.Transaction) (int, error)
}

// Options controls generation.
type Options struct {
	// Now anchors the date window. Zero means time.Now.
	Now time.Time
	// Count is how many transactions to create.
	Count int
	// Days is how far back dates may fall.
	Days int
	// Seed makes the output reproducible when non-zero.
	Seed uint64
}

// DefaultOptions returns 25 transactions over the last 30 days.
func DefaultOptions() Options {
	return Options{Count: 25, Days: 30}
}

// Result reports what was generated.
type Result struct {
	CategoriesCreated   int
	TransactionsCreated int
}

// DefaultCategories are created when the ledger has none.
var DefaultCategories = []model.Category{
	{Name: "Food", Kind: model.KindExpense, Icon: "🍔", Color: "#FF5733"},
	{Name: "Transport", Kind: model.KindExpense, Icon: "🚕", Color: "#33FF57"},
	{Name: "Salary", Kind: model.KindIncome, Icon: "💰", Color: "#3357FF"},
	{Name: "Entertainment", Kind: model.KindExpense, Icon: "🎬", Color: "#F333FF"},
	{Name: "Bills", Kind: model.KindExpense, Icon: "🧾", Color: "#33FFF5"},
	{Name: "Loan", Kind: model.KindDebt, Icon: "🏦", Color: "#AAAAAA"},
}

var notes = []string{
	"Lunch with coworkers", "Supermarket run", "Taxi to work", "Monthly salary",
	"Project bonus", "Morning coffee", "Electricity bill", "Water bill",
	"Rent", "Weekend movie", "Gym membership", "Programming book",
	"Birthday gift", "Charity donation", "Stock investment", "Savings deposit",
	"New clothes", "Weekend trip", "Hotel booking", "Flight tickets",
	"Bus pass", "Train ticket", "Afternoon snack", "Bike repair", "Haircut",
}

var paymentMethods = []string{model.PaymentCash, model.PaymentBank, model.PaymentCredit, model.PaymentEWallet}

// amountRange is in cents.
type amountRange struct{ min, max int64 }

var amountsByKind = map[model.Kind]amountRange{
	model.KindIncome:  {min: 200000, max: 800000},
	model.KindExpense: {min: 500, max: 25000},
	model.KindDebt:    {min: 5000, max: 100000},
}

// Generator creates demo data.
type Generator struct {
	categories   CategoryService
	transactions TransactionImporter
}

// NewGenerator creates a generator writing through the given services.
func NewGenerator(categories CategoryService, transactions TransactionImporter) *Generator {
	return &Generator{categories: categories, transactions: transactions}
}

// Run creates DefaultCategories if no category exists, then opts.Count
// random transactions dated within the last opts.Days days.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Count < 0 || opts.Days < 0 {
		return nil, fmt.Errorf("count and days must not be negative")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	result := &Result{}
	cats, err := g.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(cats) == 0 {
		for _, def := range DefaultCategories {
			cat := def
			if err := g.categories.Add(ctx, &cat); err != nil {
				return nil, fmt.Errorf("failed to create category %q: %w", cat.Name, err)
			}
			cats = append(cats, cat)
			result.CategoriesCreated++
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	txns := make([]*model.Transaction, 0, opts.Count)
	for i := range opts.Count {
		cat := cats[rng.IntN(len(cats))]
		note := fmt.Sprintf("Transaction %d", i+1)
		if i < len(notes) {
			note = notes[i]
		}

		txns = append(txns, &model.Transaction{
			Date:          today.AddDate(0, 0, -rng.IntN(opts.Days+1)),
			Amount:        randomAmount(rng, cat.Kind),
			Kind:          cat.Kind,
			CategoryID:    cat.ID,
			PaymentMethod: paymentMethods[rng.IntN(len(paymentMethods))],
			Note:          note,
			Tags:          []string{Tag},
		})
	}

	n, err := g.transactions.Import(ctx, txns)
	result.TransactionsCreated = n
	if err != nil {
		return result, fmt.Errorf("failed to store generated transactions: %w", err)
	}

	slog.Info("generated demo data",
		"categories", result.CategoriesCreated,
		"transactions", result.TransactionsCreated)
	return result, nil
}

func randomAmount(rng *rand.Rand, kind model.Kind) decimal.Decimal {
	r, ok := amountsByKind[kind]
	if !ok {
		r = amountsByKind[model.KindExpense]
	}
	cents := r.min + rng.Int64N(r.max-r.min+1)
	return decimal.New(cents, -2)
}
