// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/query"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by the caller.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("already exists")
)

// UserStore defines user persistence operations.
type UserStore interface {
	// CreateUser inserts a user and populates user.ID.
	// Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the exact email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if no user has the id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// TransactionStore defines owner-scoped transaction persistence.
// Every method takes the owner id; a row owned by someone else behaves as absent.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, ownerID int64, fields models.TransactionFields) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id, ownerID int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id, ownerID int64, fields models.TransactionFields) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id, ownerID int64) error

	// ListTransactions returns one page of rows matching the filter and the
	// total number of matching rows.
	ListTransactions(ctx context.Context, ownerID int64, f query.Filter, page calculator.PageRequest) ([]*models.Transaction, int, error)
}

// ReportStore defines the aggregate queries.
type ReportStore interface {
	Balance(ctx context.Context, ownerID int64) (models.Balance, error)
	CategoryReport(ctx context.Context, ownerID int64) ([]models.CategoryTotal, error)
	MonthlyReport(ctx context.Context, ownerID int64, r calculator.MonthRange) ([]*models.Transaction, error)
}

// Store is the full storage backend.
// This abstraction allows swapping backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	TransactionStore
	ReportStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
