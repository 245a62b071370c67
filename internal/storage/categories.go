package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/google/uuid"
)

const categoryColumns = `id, name, kind, icon, color, created_at`

// GetCategories returns all categories ordered by kind and name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY kind, name COLLATE NOCASE, id`

	categories, err := s.queryCategories(ctx, query)
	if err != nil {
		return nil, err
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoriesByKind returns the categories of one kind ordered by name.
func (s *SQLiteStorage) GetCategoriesByKind(ctx context.Context, kind model.Kind) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE kind = ?
		ORDER BY name COLLATE NOCASE, id`

	return s.queryCategories(ctx, query, string(kind))
}

// SearchCategories returns categories whose name contains query, case-insensitively.
func (s *SQLiteStorage) SearchCategories(ctx context.Context, query string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	sqlQuery := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE, id`

	return s.queryCategories(ctx, sqlQuery, "%"+escapeLike(strings.TrimSpace(query))+"%")
}

// GetCategoryByID returns a category by id, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// GetCategoryByName returns the first category whose name matches,
// case-insensitively, or nil if none does.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = ? COLLATE NOCASE
		ORDER BY created_at, id
		LIMIT 1`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// CreateCategory inserts a category, assigning an id when it has none.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, kind, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, string(category.Kind), category.Icon, category.Color, category.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("category %s: %w", category.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", category.ID, "name", category.Name, "kind", category.Kind)
	return nil
}

// UpdateCategory replaces the name, kind, icon, and color of an existing category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	if err := validateString(category.ID, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, kind = ?, icon = ?, color = ?
		WHERE id = ?`,
		category.Name, string(category.Kind), category.Icon, category.Color, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return requireAffected(result, "category", category.ID)
}

// DeleteCategory removes a category. Transactions that reference it keep the
// now dangling id.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := requireAffected(result, "category", id); err != nil {
		return err
	}

	slog.Info("deleted category", "id", id)
	return nil
}

func (s *SQLiteStorage) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	categories := []model.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		cat  model.Category
		kind string
	)
	if err := row.Scan(&cat.ID, &cat.Name, &kind, &cat.Icon, &cat.Color, &cat.CreatedAt); err != nil {
		return nil, err
	}
	cat.Kind = model.Kind(kind)
	return &cat, nil
}

func requireAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, common.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
