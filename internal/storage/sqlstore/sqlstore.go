// Package sqlstore provides a database/sql implementation of storage.Store
// for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmynk/fintrack/internal/query"
	"github.com/mmynk/fintrack/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on top of a *sql.DB.
// All SQL is produced by a query.Builder for the store's dialect.
type Store struct {
	db      *sql.DB
	builder query.Builder
}

// New wraps an already opened and migrated database.
func New(db *sql.DB, dialect query.Dialect) *Store {
	return &Store{
		db:      db,
		builder: query.NewBuilder(dialect),
	}
}

// Open opens the database for the given dialect and runs migrations.
// For SQLite, dsn is a file path.
func Open(dialect query.Dialect, dsn string) (*Store, error) {
	switch dialect {
	case query.SQLite:
		return OpenSQLite(dsn)
	case query.Postgres:
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func driverName(dialect query.Dialect) string {
	if dialect == query.Postgres {
		return "pgx"
	}
	return "sqlite"
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
