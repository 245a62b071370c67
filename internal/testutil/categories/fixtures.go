package categories

import "github.com/Veraticus/spice-ledger/internal/model"

// Fixture represents a predefined set of categories for testing.
type Fixture interface {
	Name() string
	Categories() []Spec
}

type fixture struct {
	name       string
	categories []Spec
}

func (f *fixture) Name() string       { return f.name }
func (f *fixture) Categories() []Spec { return f.categories }

// Predefined fixtures for common test scenarios.
var (
	// FixtureMinimal has one category of each kind plus a second expense.
	FixtureMinimal = &fixture{
		name: "Minimal",
		categories: []Spec{
			{Name: CategoryFood, Kind: model.KindExpense, Icon: "🍔"},
			{Name: CategoryTransportation, Kind: model.KindExpense, Icon: "🚗"},
			{Name: CategorySalary, Kind: model.KindIncome, Icon: "💰"},
			{Name: CategoryLoan, Kind: model.KindDebt, Icon: "🏦"},
		},
	}

	// FixtureStandard covers the categories a typical household tracks.
	FixtureStandard = &fixture{
		name: "Standard",
		categories: []Spec{
			{Name: CategoryFood, Kind: model.KindExpense, Icon: "🍔"},
			{Name: CategoryGroceries, Kind: model.KindExpense, Icon: "🛒"},
			{Name: CategoryTransportation, Kind: model.KindExpense, Icon: "🚗"},
			{Name: CategoryShopping, Kind: model.KindExpense, Icon: "🛍️"},
			{Name: CategoryUtilities, Kind: model.KindExpense, Icon: "💡"},
			{Name: CategoryEntertainment, Kind: model.KindExpense, Icon: "🎬"},
			{Name: CategorySalary, Kind: model.KindIncome, Icon: "💰"},
			{Name: CategoryFreelance, Kind: model.KindIncome, Icon: "💻"},
			{Name: CategoryLoan, Kind: model.KindDebt, Icon: "🏦"},
			{Name: CategoryCreditCard, Kind: model.KindDebt, Icon: "💳"},
		},
	}
)

// CompositeFixture combines several fixtures, keeping the first spec seen
// for each name.
type CompositeFixture struct {
	name     string
	fixtures []Fixture
}

// NewCompositeFixture creates a fixture that combines multiple fixtures.
func NewCompositeFixture(name string, fixtures ...Fixture) Fixture {
	return &CompositeFixture{name: name, fixtures: fixtures}
}

func (c *CompositeFixture) Name() string { return c.name }

func (c *CompositeFixture) Categories() []Spec {
	seen := make(map[CategoryName]struct{})
	var specs []Spec

	for _, f := range c.fixtures {
		for _, spec := range f.Categories() {
			if _, exists := seen[spec.Name]; !exists {
				seen[spec.Name] = struct{}{}
				specs = append(specs, spec)
			}
		}
	}

	return specs
}
