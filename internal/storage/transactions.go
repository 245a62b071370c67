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
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, date, amount, kind, COALESCE(category_id, ''), payment_method, note, created_at, updated_at`

// tagBatchSize bounds the number of placeholders in a single tag lookup.
const tagBatchSize = 500

// CreateTransaction inserts a transaction and its tags, assigning an id when it has none.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (
				id, date, amount, kind, category_id, payment_method, note, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.DateString(), txn.Amount.String(), string(txn.Kind), nullableString(txn.CategoryID),
			txn.PaymentMethod, txn.Note, txn.CreatedAt, txn.UpdatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
			}
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return replaceTags(ctx, tx, txn.ID, txn.Tags)
	})
	if err != nil {
		return err
	}

	slog.Debug("created transaction", "id", txn.ID, "kind", txn.Kind, "amount", txn.Amount.String())
	return nil
}

// UpdateTransaction overwrites every mutable field of an existing transaction.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	if err := validateString(txn.ID, "id"); err != nil {
		return err
	}

	txn.UpdatedAt = time.Now().UTC()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET date = ?, amount = ?, kind = ?, category_id = ?, payment_method = ?, note = ?, updated_at = ?
			WHERE id = ?`,
			txn.DateString(), txn.Amount.String(), string(txn.Kind), nullableString(txn.CategoryID),
			txn.PaymentMethod, txn.Note, txn.UpdatedAt, txn.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := requireAffected(result, "transaction", txn.ID); err != nil {
			return err
		}
		return replaceTags(ctx, tx, txn.ID, txn.Tags)
	})
}

// DeleteTransaction removes a transaction and its tags.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete transaction tags: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return requireAffected(result, "transaction", id)
	})
}

// GetTransactionByID returns a transaction by id, or nil if it does not exist.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	tags, err := s.loadTags(ctx, []string{txn.ID})
	if err != nil {
		return nil, err
	}
	txn.Tags = tags[txn.ID]
	return txn, nil
}

// GetTransactionsByPeriod returns every transaction dated within the month.
func (s *SQLiteStorage) GetTransactionsByPeriod(ctx context.Context, period model.Period) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{Period: &period})
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if filter.Period != nil {
		query += ` AND date >= ? AND date < ?`
		args = append(args,
			filter.Period.Start().Format(model.DateLayout),
			filter.Period.End().Format(model.DateLayout))
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}

	query += ` ORDER BY date DESC, created_at DESC, id`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := []model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	ids := make([]string, len(transactions))
	for i := range transactions {
		ids[i] = transactions[i].ID
	}
	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range transactions {
		transactions[i].Tags = tags[transactions[i].ID]
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

func (s *SQLiteStorage) loadTags(ctx context.Context, ids []string) (map[string][]string, error) {
	tags := make(map[string][]string)

	for start := 0; start < len(ids); start += tagBatchSize {
		end := min(start+tagBatchSize, len(ids))
		batch := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT transaction_id, tag
			FROM transaction_tags
			WHERE transaction_id IN (`+placeholders+`)
			ORDER BY transaction_id, position`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query tags: %w", err)
		}

		for rows.Next() {
			var id, tag string
			if err := rows.Scan(&id, &tag); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan tag: %w", err)
			}
			tags[id] = append(tags[id], tag)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("error iterating tags: %w", err)
		}
	}

	return tags, nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transaction_tags (transaction_id, tag, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, tag := range tags {
		if _, err := stmt.ExecContext(ctx, id, tag, i); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}
	return nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn    model.Transaction
		date   string
		amount string
		kind   string
	)
	if err := row.Scan(&txn.ID, &date, &amount, &kind, &txn.CategoryID,
		&txn.PaymentMethod, &txn.Note, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if txn.Date, err = time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("transaction %s has invalid date %q: %w", txn.ID, date, common.ErrDatabaseCorrupted)
	}
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", txn.ID, amount, common.ErrDatabaseCorrupted)
	}
	txn.Kind = model.Kind(kind)
	return &txn, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
