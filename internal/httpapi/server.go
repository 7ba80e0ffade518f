// Package httpapi exposes the services as a JSON REST API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mmynk/fintrack/internal/metrics"
	"github.com/mmynk/fintrack/internal/middleware"
	"github.com/mmynk/fintrack/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the API to its dependencies.
type Config struct {
	Auth         *service.AuthService
	Transactions *service.TransactionService
	Reports      *service.ReportService
	Store        Pinger

	// Metrics may be nil, in which case /metrics is not served.
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// StaticDir, when set, is served at / for the browser front end.
	StaticDir         string
	CORSAllowedOrigin string
}

// Server routes HTTP requests to the services.
type Server struct {
	auth         *service.AuthService
	transactions *service.TransactionService
	reports      *service.ReportService
	store        Pinger
	metrics      *metrics.Metrics
	logger       *slog.Logger
	staticDir    string
	corsOrigin   string
}

// NewServer creates a new Server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:         cfg.Auth,
		transactions: cfg.Transactions,
		reports:      cfg.Reports,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		logger:       logger,
		staticDir:    cfg.StaticDir,
		corsOrigin:   cfg.CORSAllowedOrigin,
	}
}

// Handler builds the routed and instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.RequireAuth(s.auth)

	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("POST /users/login", s.handleLogin)
	mux.Handle("GET /users/me", authed(http.HandlerFunc(s.handleMe)))

	mux.Handle("GET /transactions", authed(http.HandlerFunc(s.handleListTransactions)))
	mux.Handle("POST /transactions", authed(http.HandlerFunc(s.handleCreateTransaction)))
	mux.Handle("GET /transactions/{id}", authed(http.HandlerFunc(s.handleGetTransaction)))
	mux.Handle("PUT /transactions/{id}", authed(http.HandlerFunc(s.handleUpdateTransaction)))
	mux.Handle("DELETE /transactions/{id}", authed(http.HandlerFunc(s.handleDeleteTransaction)))

	mux.Handle("GET /balance", authed(http.HandlerFunc(s.handleBalance)))
	mux.Handle("GET /reports/categories", authed(http.HandlerFunc(s.handleCategoryReport)))
	mux.Handle("GET /reports/monthly", authed(http.HandlerFunc(s.handleMonthlyReport)))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	if s.staticDir != "" {
		s.logger.Info("Serving static files", "path", s.staticDir)
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}

	// Metrics must stay innermost so that it sees the matched route pattern.
	return middleware.Chain(mux,
		middleware.RequestLogger(s.logger),
		middleware.CORS(s.corsOrigin),
		middleware.Metrics(s.metrics),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
