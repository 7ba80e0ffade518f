package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/httpapi"
	"github.com/mmynk/fintrack/internal/metrics"
	"github.com/mmynk/fintrack/internal/service"
)

type serveCmd struct {
	logger *slog.Logger
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API server" }
func (*serveCmd) Usage() string {
	return `fintrack serve

  Runs the JSON API. Settings come from the environment (see .env.example).
  This is the default when no command is given.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := c.run(ctx, cfg.Addr(), cfg.ShutdownTimeout, func() (http.Handler, func(), error) {
		store, err := openStore(cfg, c.logger)
		if err != nil {
			return nil, nil, err
		}

		m := metrics.New()
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
		rules := service.Rules{
			MaxPageLimit:     cfg.MaxPageLimit,
			StrictAmountSign: cfg.StrictAmountSign,
		}

		srv := httpapi.NewServer(httpapi.Config{
			Auth:              service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, m, c.logger),
			Transactions:      service.NewTransactionService(store, rules, m, c.logger),
			Reports:           service.NewReportService(store),
			Store:             store,
			Metrics:           m,
			Logger:            c.logger,
			StaticDir:         cfg.StaticDir,
			CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		})
		return srv.Handler(), func() { store.Close() }, nil
	}); err != nil {
		c.logger.Error("Server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// run serves until SIGINT/SIGTERM and then drains in-flight requests.
func (c *serveCmd) run(ctx context.Context, addr string, shutdownTimeout time.Duration, build func() (http.Handler, func(), error)) error {
	handler, cleanup, err := build()
	if err != nil {
		return err
	}
	defer cleanup()

	// h2c serves HTTP/2 without TLS behind proxies that speak it.
	server := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		c.logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		c.logger.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}
