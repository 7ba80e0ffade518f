package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/metrics"
	"github.com/mmynk/fintrack/internal/service"
	"github.com/mmynk/fintrack/internal/storage/sqlstore"
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
}

func setupTestServer(t *testing.T, staticDir string) *testClient {
	t.Helper()

	store, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	jwtManager := auth.NewJWTManager("api-test-secret-0123456789abcdef", "fintrack", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	srv := NewServer(Config{
		Auth:         service.NewAuthService(authenticator, jwtManager, store, m, logger),
		Transactions: service.NewTransactionService(store, service.DefaultRules(), m, logger),
		Reports:      service.NewReportService(store),
		Store:        store,
		Metrics:      m,
		Logger:       logger,
		StaticDir:    staticDir,
	})

	server := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &testClient{t: t, server: server}
}

// do sends a request and decodes the JSON response into out, if non-nil.
func (c *testClient) do(method, path, token string, body any, out any) int {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// login registers a user and returns a token.
func (c *testClient) login(email string) string {
	c.t.Helper()

	creds := map[string]string{"email": email, "password": "secret123"}
	if status := c.do("POST", "/users", "", creds, nil); status != http.StatusCreated {
		c.t.Fatalf("register %s: status %d", email, status)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if status := c.do("POST", "/users/login", "", creds, &resp); status != http.StatusOK {
		c.t.Fatalf("login %s: status %d", email, status)
	}
	return resp.Token
}

type txBody struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

type errBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *testClient) create(token, desc string, amount float64, date, category string) txBody {
	c.t.Helper()

	var out txBody
	body := map[string]any{"description": desc, "amount": amount, "date": date, "category": category}
	if status := c.do("POST", "/transactions", token, body, &out); status != http.StatusCreated {
		c.t.Fatalf("create %s: status %d", desc, status)
	}
	return out
}

func TestUserEndpoints(t *testing.T) {
	c := setupTestServer(t, "")

	t.Run("register", func(t *testing.T) {
		var msg errBody
		status := c.do("POST", "/users", "", map[string]string{"email": "frank@example.com", "password": "secret123"}, &msg)
		if status != http.StatusCreated || msg.Message == "" {
			t.Errorf("status = %d, message = %q", status, msg.Message)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		var msg errBody
		status := c.do("POST", "/users", "", map[string]string{"email": "FRANK@example.com", "password": "secret123"}, &msg)
		if status != http.StatusBadRequest || msg.Message != auth.ErrEmailExists.Error() {
			t.Errorf("status = %d, message = %q", status, msg.Message)
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		var msg errBody
		status := c.do("POST", "/users", "", map[string]string{"email": "nope", "password": "1"}, &msg)
		if status != http.StatusBadRequest || len(msg.Errors) != 2 {
			t.Errorf("status = %d, errors = %+v", status, msg.Errors)
		}
	})

	t.Run("password too long", func(t *testing.T) {
		var msg errBody
		body := map[string]string{"email": "long@example.com", "password": strings.Repeat("x", 80)}
		status := c.do("POST", "/users", "", body, &msg)
		if status != http.StatusBadRequest || len(msg.Errors) != 1 || msg.Errors[0].Field != "password" {
			t.Errorf("status = %d, errors = %+v", status, msg.Errors)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		if status := c.do("POST", "/users/login", "", `{"email":`, nil); status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("login failures look the same", func(t *testing.T) {
		var wrong, unknown errBody
		s1 := c.do("POST", "/users/login", "", map[string]string{"email": "frank@example.com", "password": "bad-password"}, &wrong)
		s2 := c.do("POST", "/users/login", "", map[string]string{"email": "ghost@example.com", "password": "secret123"}, &unknown)
		if s1 != http.StatusUnauthorized || s2 != http.StatusUnauthorized {
			t.Errorf("statuses = %d, %d", s1, s2)
		}
		if wrong.Message != unknown.Message {
			t.Errorf("messages differ: %q vs %q", wrong.Message, unknown.Message)
		}
	})

	t.Run("me", func(t *testing.T) {
		var resp struct {
			Token string `json:"token"`
		}
		c.do("POST", "/users/login", "", map[string]string{"email": "frank@example.com", "password": "secret123"}, &resp)

		var me struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		}
		if status := c.do("GET", "/users/me", resp.Token, nil, &me); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if me.Email != "frank@example.com" || me.ID == 0 {
			t.Errorf("me = %+v", me)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	c := setupTestServer(t, "")

	paths := []struct{ method, path string }{
		{"GET", "/transactions"},
		{"POST", "/transactions"},
		{"GET", "/transactions/1"},
		{"PUT", "/transactions/1"},
		{"DELETE", "/transactions/1"},
		{"GET", "/balance"},
		{"GET", "/reports/categories"},
		{"GET", "/reports/monthly?month=3&year=2024"},
		{"GET", "/users/me"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			var missing, invalid errBody
			if status := c.do(p.method, p.path, "", nil, &missing); status != http.StatusUnauthorized {
				t.Errorf("no token: status = %d", status)
			}
			if missing.Message != "authorization token required" {
				t.Errorf("no token: message = %q", missing.Message)
			}
			if status := c.do(p.method, p.path, "not.a.token", nil, &invalid); status != http.StatusUnauthorized {
				t.Errorf("bad token: status = %d", status)
			}
			if invalid.Message != "invalid or expired token" {
				t.Errorf("bad token: message = %q", invalid.Message)
			}
		})
	}
}

func TestTransactionEndpoints(t *testing.T) {
	c := setupTestServer(t, "")
	alice := c.login("alice@example.com")
	mallory := c.login("mallory@example.com")

	created := c.create(alice, "Groceries", -40.5, "2024-03-05", "Expense")
	if created.ID == 0 || created.Amount != -40.5 || created.Date != "2024-03-05" {
		t.Fatalf("created = %+v", created)
	}
	path := fmt.Sprintf("/transactions/%d", created.ID)

	t.Run("validation errors", func(t *testing.T) {
		var resp errBody
		body := map[string]any{"description": "ab", "amount": "abc", "date": "2024-13-01", "category": "Receita"}
		if status := c.do("POST", "/transactions", alice, body, &resp); status != http.StatusBadRequest {
			t.Fatalf("status = %d", status)
		}
		if len(resp.Errors) != 4 {
			t.Errorf("errors = %+v", resp.Errors)
		}
	})

	t.Run("get own", func(t *testing.T) {
		var got txBody
		if status := c.do("GET", path, alice, nil, &got); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if got != created {
			t.Errorf("got %+v, want %+v", got, created)
		}
	})

	t.Run("other user sees 404", func(t *testing.T) {
		update := map[string]any{"description": "Hijack", "amount": 1, "date": "2024-03-05", "category": "Income"}
		if status := c.do("GET", path, mallory, nil, nil); status != http.StatusNotFound {
			t.Errorf("get: status = %d", status)
		}
		if status := c.do("PUT", path, mallory, update, nil); status != http.StatusNotFound {
			t.Errorf("put: status = %d", status)
		}
		if status := c.do("DELETE", path, mallory, nil, nil); status != http.StatusNotFound {
			t.Errorf("delete: status = %d", status)
		}

		var got txBody
		c.do("GET", path, alice, nil, &got)
		if got.Description != "Groceries" {
			t.Errorf("record changed: %+v", got)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		var resp errBody
		if status := c.do("GET", "/transactions/abc", alice, nil, &resp); status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
		if resp.Message != "transaction not found" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("update", func(t *testing.T) {
		var got txBody
		update := map[string]any{"description": "Groceries and wine", "amount": "-55.10", "date": "2024-03-06", "category": "Expense"}
		if status := c.do("PUT", path, alice, update, &got); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if got.Description != "Groceries and wine" || got.Amount != -55.1 || got.Date != "2024-03-06" {
			t.Errorf("updated = %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if status := c.do("DELETE", path, alice, nil, nil); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if status := c.do("GET", path, alice, nil, nil); status != http.StatusNotFound {
			t.Errorf("after delete: status = %d", status)
		}
	})
}

func TestListEndpoint(t *testing.T) {
	c := setupTestServer(t, "")
	token := c.login("lister@example.com")
	other := c.login("other@example.com")

	for i := 1; i <= 25; i++ {
		category, amount := "Income", float64(i)
		if i%2 == 0 {
			category, amount = "Expense", -float64(i)
		}
		c.create(token, fmt.Sprintf("Entry %d", i), amount, fmt.Sprintf("2024-01-%02d", i), category)
	}
	c.create(other, "Not mine", 1000, "2024-01-10", "Income")

	type listBody struct {
		Transactions []txBody `json:"transactions"`
		Pagination   struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}

	t.Run("pages", func(t *testing.T) {
		tests := []struct {
			query    string
			wantRows int
		}{
			{"", 10},
			{"?page=3", 5},
			{"?page=4", 0},
		}
		for _, tt := range tests {
			var resp listBody
			if status := c.do("GET", "/transactions"+tt.query, token, nil, &resp); status != http.StatusOK {
				t.Fatalf("%s: status = %d", tt.query, status)
			}
			if len(resp.Transactions) != tt.wantRows {
				t.Errorf("%s: rows = %d, want %d", tt.query, len(resp.Transactions), tt.wantRows)
			}
			if resp.Transactions == nil {
				t.Errorf("%s: transactions should be [] not null", tt.query)
			}
			if resp.Pagination.Total != 25 || resp.Pagination.TotalPages != 3 {
				t.Errorf("%s: pagination = %+v", tt.query, resp.Pagination)
			}
		}
	})

	t.Run("filters", func(t *testing.T) {
		var resp listBody
		query := "/transactions?category=Income&date_from=2024-01-05&date_to=2024-01-15&amount_min=6&limit=100"
		if status := c.do("GET", query, token, nil, &resp); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		// Income rows are the odd days; 7, 9, 11, 13, 15 fall in the window with amount >= 6.
		if resp.Pagination.Total != 5 || len(resp.Transactions) != 5 {
			t.Fatalf("total = %d rows = %d", resp.Pagination.Total, len(resp.Transactions))
		}
		for _, tx := range resp.Transactions {
			if tx.Category != "Income" || tx.Amount < 6 || tx.Date < "2024-01-05" || tx.Date > "2024-01-15" {
				t.Errorf("row violates filter: %+v", tx)
			}
		}
	})

	t.Run("invalid parameters", func(t *testing.T) {
		for _, q := range []string{"?amount_min=abc", "?page=0", "?limit=1000", "?date_from=yesterday", "?category=Other"} {
			if status := c.do("GET", "/transactions"+q, token, nil, nil); status != http.StatusBadRequest {
				t.Errorf("%s: status = %d, want 400", q, status)
			}
		}
	})
}

func TestReportEndpoints(t *testing.T) {
	c := setupTestServer(t, "")
	token := c.login("reporter@example.com")

	t.Run("empty balance", func(t *testing.T) {
		var b map[string]float64
		if status := c.do("GET", "/balance", token, nil, &b); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if b["income_total"] != 0 || b["expense_total"] != 0 || b["net_balance"] != 0 {
			t.Errorf("balance = %v", b)
		}
	})

	c.create(token, "Salary", 100, "2024-03-05", "Income")
	c.create(token, "Dinner", -40, "2024-03-20", "Expense")

	t.Run("balance", func(t *testing.T) {
		var b map[string]float64
		c.do("GET", "/balance", token, nil, &b)
		if b["income_total"] != 100 || b["expense_total"] != -40 || b["net_balance"] != 60 {
			t.Errorf("balance = %v", b)
		}
	})

	t.Run("categories", func(t *testing.T) {
		var rows []struct {
			Category         string  `json:"category"`
			TotalAmount      float64 `json:"total_amount"`
			TransactionCount int     `json:"transaction_count"`
		}
		if status := c.do("GET", "/reports/categories", token, nil, &rows); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %+v", rows)
		}
		for _, r := range rows {
			if r.TransactionCount != 1 {
				t.Errorf("%s count = %d", r.Category, r.TransactionCount)
			}
		}
	})

	t.Run("monthly", func(t *testing.T) {
		var rows []txBody
		if status := c.do("GET", "/reports/monthly?month=3&year=2024", token, nil, &rows); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if len(rows) != 2 || rows[0].Date != "2024-03-20" || rows[1].Date != "2024-03-05" {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("monthly requires month and year", func(t *testing.T) {
		var resp errBody
		if status := c.do("GET", "/reports/monthly?year=2024", token, nil, &resp); status != http.StatusBadRequest {
			t.Fatalf("status = %d", status)
		}
		if resp.Message != "month and year are required" {
			t.Errorf("message = %q", resp.Message)
		}
	})
}

func TestOperationalEndpoints(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>fintrack</h1>"), 0644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	c := setupTestServer(t, dir)

	t.Run("healthz", func(t *testing.T) {
		var resp map[string]string
		if status := c.do("GET", "/healthz", "", nil, &resp); status != http.StatusOK || resp["status"] != "ok" {
			t.Errorf("status = %d body = %v", status, resp)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		c.do("GET", "/healthz", "", nil, nil)
		resp, err := http.Get(c.server.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), `route="GET /healthz"`) {
			t.Errorf("metrics missing healthz route:\n%s", body)
		}
	})

	t.Run("static files", func(t *testing.T) {
		resp, err := http.Get(c.server.URL + "/")
		if err != nil {
			t.Fatalf("GET / failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "fintrack") {
			t.Errorf("status = %d body = %s", resp.StatusCode, body)
		}
	})

	t.Run("request id header", func(t *testing.T) {
		resp, err := http.Get(c.server.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET /healthz failed: %v", err)
		}
		resp.Body.Close()
		if resp.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
	})
}
