package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Veraticus/spice-ledger/internal/budget"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// TransactionView is a transaction with its category's display data.
type TransactionView struct {
	CategoryName string
	CategoryIcon string
	model.Transaction
}

// TransactionService manages transactions.
type TransactionService struct {
	transactions service.TransactionStore
	categories   service.CategoryStore
	events       events.Publisher
}

// NewTransactionService creates a transaction service.
func NewTransactionService(txns service.TransactionStore, cats service.CategoryStore, pub events.Publisher) *TransactionService {
	return &TransactionService{transactions: txns, categories: cats, events: pub}
}

// List returns transactions matching filter, newest first, with category names.
func (s *TransactionService) List(ctx context.Context, filter service.TransactionFilter) ([]TransactionView, error) {
	txns, err := s.transactions.GetTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, txns)
}

// ListByPeriod returns the month's transactions with category names.
func (s *TransactionService) ListByPeriod(ctx context.Context, period model.Period) ([]TransactionView, error) {
	txns, err := s.transactions.GetTransactionsByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, txns)
}

// Get returns a single transaction or common.ErrNotFound.
func (s *TransactionService) Get(ctx context.Context, id string) (*TransactionView, error) {
	txn, err := s.transactions.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	views, err := s.enrich(ctx, []model.Transaction{*txn})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Add stores a new transaction. An empty payment method defaults to cash.
func (s *TransactionService) Add(ctx context.Context, txn *model.Transaction) error {
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = model.PaymentCash
	}
	if err := s.transactions.CreateTransaction(ctx, txn); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicTransactions, events.ActionCreated, txn.ID))
	return nil
}

// Update overwrites an existing transaction.
func (s *TransactionService) Update(ctx context.Context, txn *model.Transaction) error {
	if err := s.transactions.UpdateTransaction(ctx, txn); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicTransactions, events.ActionUpdated, txn.ID))
	return nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.NewEvent(events.TopicTransactions, events.ActionDeleted, id))
	return nil
}

// Import stores a batch of transactions and publishes a single event for
// the whole batch. Rows that already exist are skipped, so re-importing the
// same statement is harmless. It returns how many rows were stored.
func (s *TransactionService) Import(ctx context.Context, txns []*model.Transaction) (int, error) {
	imported := 0
	var errs []error

	for _, txn := range txns {
		if txn.PaymentMethod == "" {
			txn.PaymentMethod = model.PaymentCash
		}
		err := s.transactions.CreateTransaction(ctx, txn)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, common.ErrDuplicateEntry):
			slog.Debug("skipping duplicate transaction", "id", txn.ID)
		default:
			errs = append(errs, fmt.Errorf("transaction dated %s: %w", txn.DateString(), err))
		}
	}

	if imported > 0 {
		s.events.Publish(ctx, events.NewEvent(events.TopicTransactions, events.ActionImported, strconv.Itoa(imported)))
	}
	return imported, errors.Join(errs...)
}

func (s *TransactionService) enrich(ctx context.Context, txns []model.Transaction) ([]TransactionView, error) {
	cats, err := s.categories.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	index := budget.NewCategoryIndex(cats)

	views := make([]TransactionView, len(txns))
	for i, txn := range txns {
		name, icon := budget.ResolveCategory(index, txn.CategoryID)
		views[i] = TransactionView{
			Transaction:  txn,
			CategoryName: name,
			CategoryIcon: icon,
		}
	}
	return views, nil
}
