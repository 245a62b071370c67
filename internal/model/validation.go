package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validation errors.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidBudget      = errors.New("invalid budget")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// describe flattens validator errors into a short message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing %s", strings.ToLower(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", strings.ToLower(fe.Field()), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must not be negative", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}

// Validate checks the fields a transaction must carry before it is stored.
func (t *Transaction) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidTransaction)
	}
	if err := structValidator().Struct(t); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTransaction, describe(err))
	}
	return nil
}

// Validate checks the fields a category must carry before it is stored.
func (c *Category) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil category", ErrInvalidCategory)
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := structValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, describe(err))
	}
	return nil
}

// Validate checks the period and that no limit is negative.
func (b *BudgetLimit) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil budget", ErrInvalidBudget)
	}
	if err := structValidator().Struct(b); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBudget, describe(err))
	}
	for id, limit := range b.CategoryLimits {
		if limit.IsNegative() {
			return fmt.Errorf("%w: limit for category %s must not be negative", ErrInvalidBudget, id)
		}
	}
	return nil
}
