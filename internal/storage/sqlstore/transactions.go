package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/query"
	"github.com/mmynk/fintrack/internal/storage"
)

// CreateTransaction persists a new transaction and returns the stored row.
func (s *Store) CreateTransaction(ctx context.Context, ownerID int64, fields models.TransactionFields) (*models.Transaction, error) {
	plan := s.builder.InsertTransaction(ownerID, fields)

	t, err := scanTransaction(s.db.QueryRowContext(ctx, plan.SQL, plan.Args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return t, nil
}

// GetTransaction retrieves a transaction by ID, scoped to its owner.
func (s *Store) GetTransaction(ctx context.Context, id, ownerID int64) (*models.Transaction, error) {
	plan := s.builder.GetTransaction(id, ownerID)

	t, err := scanTransaction(s.db.QueryRowContext(ctx, plan.SQL, plan.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// UpdateTransaction overwrites a transaction in a single statement.
// Returns storage.ErrNotFound when no row matches both id and owner.
func (s *Store) UpdateTransaction(ctx context.Context, id, ownerID int64, fields models.TransactionFields) (*models.Transaction, error) {
	plan := s.builder.UpdateTransaction(id, ownerID, fields)

	t, err := scanTransaction(s.db.QueryRowContext(ctx, plan.SQL, plan.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return t, nil
}

// DeleteTransaction removes a transaction by ID, scoped to its owner.
func (s *Store) DeleteTransaction(ctx context.Context, id, ownerID int64) error {
	plan := s.builder.DeleteTransaction(id, ownerID)

	res, err := s.db.ExecContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}

	return nil
}

// ListTransactions retrieves one page of the owner's transactions matching f,
// together with the number of matching rows.
func (s *Store) ListTransactions(ctx context.Context, ownerID int64, f query.Filter, page calculator.PageRequest) ([]*models.Transaction, int, error) {
	countPlan := s.builder.CountTransactions(ownerID, f)

	var total int
	if err := s.db.QueryRowContext(ctx, countPlan.SQL, countPlan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	transactions, err := s.queryTransactions(ctx, s.builder.ListTransactions(ownerID, f, page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// queryTransactions runs a plan returning transaction rows.
func (s *Store) queryTransactions(ctx context.Context, plan query.Plan) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var cents int64
	var category string

	if err := s.Scan(&t.ID, &t.OwnerID, &t.Description, &cents, &t.Date, &category); err != nil {
		return nil, err
	}

	t.Amount = models.Amount(cents)
	t.Category = models.Category(category)
	return t, nil
}
