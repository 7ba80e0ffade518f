package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/fintrack/internal/storage/sqlstore"
)

type migrateCmd struct {
	logger *slog.Logger
	down   bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply or roll back database migrations" }
func (*migrateCmd) Usage() string {
	return `fintrack migrate [-down]

  Applies every pending migration, or rolls back the latest one with -down.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.down, "down", false, "Roll back the most recent migration")
}

func (c *migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	d := dialect(cfg)
	if c.down {
		err = sqlstore.RollbackMigration(d, cfg.DSN())
	} else {
		err = sqlstore.RunMigrations(d, cfg.DSN())
	}
	if err != nil {
		c.logger.Error("Migration failed", "driver", cfg.DBDriver, "down", c.down, "error", err)
		return subcommands.ExitFailure
	}

	version, dirty, err := sqlstore.MigrationVersion(d, cfg.DSN())
	if err != nil {
		c.logger.Error("Failed to read migration version", "error", err)
		return subcommands.ExitFailure
	}
	c.logger.Info("Migrations complete", "driver", cfg.DBDriver, "version", version, "dirty", dirty)
	return subcommands.ExitSuccess
}
