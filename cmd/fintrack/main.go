// Command fintrack runs the personal finance tracker API and its admin tools.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/fintrack/internal/config"
	"github.com/mmynk/fintrack/internal/query"
	"github.com/mmynk/fintrack/internal/storage/sqlstore"
	"github.com/mmynk/fintrack/pkg/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logger := logging.Setup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{logger: logger}, "")
	commander.Register(&migrateCmd{logger: logger}, "")
	commander.Register(&reportCmd{}, "")

	flag.Parse()
	if flag.NArg() == 0 {
		// Containers start the binary without arguments.
		_ = flag.CommandLine.Parse([]string{"serve"})
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// loadConfig reads and validates the environment.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dialect(cfg *config.Config) query.Dialect {
	if cfg.DBDriver == config.DriverPostgres {
		return query.Postgres
	}
	return query.SQLite
}

// openStore opens the configured database and applies pending migrations.
func openStore(cfg *config.Config, logger *slog.Logger) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(dialect(cfg), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "driver", cfg.DBDriver)
	return store, nil
}
