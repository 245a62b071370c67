// Package categories provides a fluent API for seeding categories in tests.
//
// Example usage:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b categories.Builder) categories.Builder {
//		return b.WithBasicCategories().WithCategory(categories.CategoryTravel, model.KindExpense)
//	})
package categories

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Builder provides a fluent interface for constructing test categories.
type Builder interface {
	// WithCategory adds a single category of the given kind.
	WithCategory(name CategoryName, kind model.Kind) Builder

	// WithExpenses adds several expense categories.
	WithExpenses(names ...CategoryName) Builder

	// WithBasicCategories adds the minimal set of categories commonly used in tests.
	WithBasicCategories() Builder

	// WithFixture adds categories from a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build creates the categories in the provided store and returns them.
	Build(ctx context.Context, store service.CategoryStore) (Categories, error)

	// BuildMap creates categories and returns them keyed by name.
	BuildMap(ctx context.Context, store service.CategoryStore) (CategoryMap, error)
}

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategoryFood           CategoryName = "Food"
	CategoryGroceries      CategoryName = "Groceries"
	CategoryTransportation CategoryName = "Transportation"
	CategoryShopping       CategoryName = "Shopping"
	CategoryUtilities      CategoryName = "Utilities"
	CategoryEntertainment  CategoryName = "Entertainment"
	CategoryTravel         CategoryName = "Travel"
	CategorySalary         CategoryName = "Salary"
	CategoryFreelance      CategoryName = "Freelance"
	CategoryLoan           CategoryName = "Loan"
	CategoryCreditCard     CategoryName = "Credit Card"
)

// Spec describes one category to seed.
type Spec struct {
	Name CategoryName
	Kind model.Kind
	Icon string
}

// Categories represents a collection of created test categories.
type Categories []model.Category

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.Category {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test if not found.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// Names returns all category names as a slice of strings.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// CategoryMap provides O(1) lookup for categories by name.
type CategoryMap map[CategoryName]model.Category

// MustGet returns the category for the given name or fails the test.
func (m CategoryMap) MustGet(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat, ok := m[name]
	if !ok {
		t.Fatalf("category %q not found in test data", name)
	}
	return cat
}

type categoryBuilder struct {
	t          *testing.T
	categories map[CategoryName]Spec
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &categoryBuilder{
		t:          t,
		categories: make(map[CategoryName]Spec),
	}
}

func (b *categoryBuilder) WithCategory(name CategoryName, kind model.Kind) Builder {
	b.categories[name] = Spec{Name: name, Kind: kind}
	return b
}

func (b *categoryBuilder) WithExpenses(names ...CategoryName) Builder {
	for _, name := range names {
		b.WithCategory(name, model.KindExpense)
	}
	return b
}

func (b *categoryBuilder) WithBasicCategories() Builder {
	return b.WithFixture(FixtureMinimal)
}

func (b *categoryBuilder) WithFixture(fixture Fixture) Builder {
	for _, spec := range fixture.Categories() {
		b.categories[spec.Name] = spec
	}
	return b
}

func (b *categoryBuilder) Build(ctx context.Context, store service.CategoryStore) (Categories, error) {
	b.t.Helper()

	specs := make([]Spec, 0, len(b.categories))
	for _, spec := range b.categories {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })

	result := make(Categories, 0, len(specs))
	for _, spec := range specs {
		cat := &model.Category{
			Name: spec.Name.String(),
			Kind: spec.Kind,
			Icon: spec.Icon,
		}
		if err := store.CreateCategory(ctx, cat); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", spec.Name, err)
		}
		result = append(result, *cat)
	}

	return result, nil
}

func (b *categoryBuilder) BuildMap(ctx context.Context, store service.CategoryStore) (CategoryMap, error) {
	categories, err := b.Build(ctx, store)
	if err != nil {
		return nil, err
	}

	m := make(CategoryMap, len(categories))
	for _, cat := range categories {
		m[CategoryName(cat.Name)] = cat
	}
	return m, nil
}
