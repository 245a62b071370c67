package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// GetBudget returns the budget for a month, or nil if none was set.
func (s *SQLiteStorage) GetBudget(ctx context.Context, period model.Period) (*model.BudgetLimit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var total string
	err := s.db.QueryRowContext(ctx,
		`SELECT total_limit FROM budgets WHERE year = ? AND month = ?`,
		period.Year, period.Month,
	).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	budget := model.NewBudgetLimit(period)
	if budget.TotalLimit, err = parseStoredAmount(total); err != nil {
		return nil, fmt.Errorf("budget %s: %w", period.Key(), err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, limit_amount
		FROM budget_category_limits
		WHERE year = ? AND month = ?`, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to query category limits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, amount string
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category limit: %w", err)
		}
		limit, err := parseStoredAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("budget %s category %s: %w", period.Key(), id, err)
		}
		budget.CategoryLimits[id] = limit
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category limits: %w", err)
	}

	return budget, nil
}

// GetBudgets returns every stored budget, most recent month first.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.BudgetLimit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT year, month FROM budgets ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}

	var periods []model.Period
	for rows.Next() {
		var p model.Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		periods = append(periods, p)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	budgets := make([]model.BudgetLimit, 0, len(periods))
	for _, p := range periods {
		budget, err := s.GetBudget(ctx, p)
		if err != nil {
			return nil, err
		}
		if budget != nil {
			budgets = append(budgets, *budget)
		}
	}
	return budgets, nil
}

// SetTotalLimit sets the overall limit for a month, creating the budget if needed.
func (s *SQLiteStorage) SetTotalLimit(ctx context.Context, period model.Period, limit decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLimit(period, limit); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (year, month, total_limit, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(year, month) DO UPDATE SET
			total_limit = excluded.total_limit,
			updated_at = CURRENT_TIMESTAMP`,
		period.Year, period.Month, limit.String())
	if err != nil {
		return fmt.Errorf("failed to set total limit: %w", err)
	}

	slog.Info("set budget total", "period", period.Key(), "limit", limit.String())
	return nil
}

// SetCategoryLimit sets one category's limit for a month, creating the budget if needed.
func (s *SQLiteStorage) SetCategoryLimit(ctx context.Context, period model.Period, categoryID string, limit decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}
	if err := validateLimit(period, limit); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (year, month) VALUES (?, ?)
			ON CONFLICT(year, month) DO NOTHING`,
			period.Year, period.Month); err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_category_limits (year, month, category_id, limit_amount)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(year, month, category_id) DO UPDATE SET
				limit_amount = excluded.limit_amount`,
			period.Year, period.Month, categoryID, limit.String()); err != nil {
			return fmt.Errorf("failed to set category limit: %w", err)
		}
		return nil
	})
}

// RemoveCategoryLimit deletes one category's limit for a month.
func (s *SQLiteStorage) RemoveCategoryLimit(ctx context.Context, period model.Period, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM budget_category_limits
		WHERE year = ? AND month = ? AND category_id = ?`,
		period.Year, period.Month, categoryID)
	if err != nil {
		return fmt.Errorf("failed to remove category limit: %w", err)
	}

	return requireAffected(result, "category limit", period.Key()+"/"+categoryID)
}

func validateLimit(period model.Period, limit decimal.Decimal) error {
	if _, err := model.NewPeriod(period.Year, period.Month); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidBudget, err)
	}
	if limit.IsNegative() {
		return fmt.Errorf("%w: limit must not be negative", model.ErrInvalidBudget)
	}
	return nil
}

func parseStoredAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, common.ErrDatabaseCorrupted)
	}
	return d, nil
}
