package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mmynk/fintrack/internal/query"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending migration for the dialect.
func RunMigrations(dialect query.Dialect, dsn string) error {
	return withMigrate(dialect, dsn, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	})
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(dialect query.Dialect, dsn string) error {
	return withMigrate(dialect, dsn, func(m *migrate.Migrate) error {
		return m.Steps(-1)
	})
}

// MigrationVersion reports the current schema version and whether the last
// migration failed halfway.
func MigrationVersion(dialect query.Dialect, dsn string) (version uint, dirty bool, err error) {
	err = withMigrate(dialect, dsn, func(m *migrate.Migrate) error {
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

// withMigrate opens a dedicated connection for migrations, since closing the
// migrate instance closes the underlying *sql.DB.
func withMigrate(dialect query.Dialect, dsn string, fn func(*migrate.Migrate) error) error {
	migrateDB, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	src, err := iofs.New(migrationsFS, "migrations/"+dialect.String())
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var m *migrate.Migrate
	switch dialect {
	case query.SQLite:
		driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
		if err != nil {
			return fmt.Errorf("create migrate instance: %w", err)
		}
	case query.Postgres:
		driver, err := migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
		if err != nil {
			return fmt.Errorf("create postgres migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", driver)
		if err != nil {
			return fmt.Errorf("create migrate instance: %w", err)
		}
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}
	defer m.Close()

	if err := fn(m); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
