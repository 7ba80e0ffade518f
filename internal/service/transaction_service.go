package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/metrics"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// TransactionPage is one page of a filtered transaction listing.
type TransactionPage struct {
	Transactions []*models.Transaction
	Pagination   calculator.Pagination
}

// TransactionService validates requests and runs them against the store,
// always scoped to the requesting user.
type TransactionService struct {
	store   storage.TransactionStore
	rules   Rules
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewTransactionService creates a new TransactionService. m may be nil.
func NewTransactionService(store storage.TransactionStore, rules Rules, m *metrics.Metrics, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:   store,
		rules:   rules,
		metrics: m,
		logger:  logger,
	}
}

// Create validates the input and stores a new transaction for ownerID.
func (s *TransactionService) Create(ctx context.Context, ownerID int64, in TransactionInput) (*models.Transaction, error) {
	fields, err := s.rules.Validate(in)
	if err != nil {
		return nil, err
	}

	t, err := s.store.CreateTransaction(ctx, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.metrics.TransactionOp(metrics.OpCreate)
	s.logger.Info("Transaction created",
		"transaction_id", t.ID,
		"user_id", ownerID,
		"category", t.Category,
	)
	return t, nil
}

// Get returns one transaction owned by ownerID.
func (s *TransactionService) Get(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err, "failed to get transaction")
	}
	return t, nil
}

// Update validates the input and replaces every field of the transaction.
func (s *TransactionService) Update(ctx context.Context, ownerID, id int64, in TransactionInput) (*models.Transaction, error) {
	fields, err := s.rules.Validate(in)
	if err != nil {
		return nil, err
	}

	t, err := s.store.UpdateTransaction(ctx, id, ownerID, fields)
	if err != nil {
		return nil, notFound(err, "failed to update transaction")
	}

	s.metrics.TransactionOp(metrics.OpUpdate)
	s.logger.Info("Transaction updated", "transaction_id", id, "user_id", ownerID)
	return t, nil
}

// Delete removes the transaction.
func (s *TransactionService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id, ownerID); err != nil {
		return notFound(err, "failed to delete transaction")
	}

	s.metrics.TransactionOp(metrics.OpDelete)
	s.logger.Info("Transaction deleted", "transaction_id", id, "user_id", ownerID)
	return nil
}

// List returns one page of the caller's transactions matching the query.
func (s *TransactionService) List(ctx context.Context, ownerID int64, q ListQuery) (*TransactionPage, error) {
	filter, page, err := s.rules.ParseList(q)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.store.ListTransactions(ctx, ownerID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	s.logger.Debug("Transactions listed",
		"user_id", ownerID,
		"page", page.Page,
		"limit", page.Limit,
		"total", total,
	)
	return &TransactionPage{
		Transactions: rows,
		Pagination:   calculator.NewPagination(page, total),
	}, nil
}

// notFound maps storage.ErrNotFound to ErrNotFound and wraps everything else.
func notFound(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
