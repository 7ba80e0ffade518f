package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/middleware"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

const msgTransactionNotFound = "transaction not found"

type errorResponse struct {
	Message string               `json:"message"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type transactionResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Description string          `json:"description"`
	Amount      models.Amount   `json:"amount"`
	Date        models.Date     `json:"date"`
	Category    models.Category `json:"category"`
}

func newTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date,
		Category:    t.Category,
	}
}

func newTransactionList(rows []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(rows))
	for i, t := range rows {
		out[i] = newTransactionResponse(t)
	}
	return out
}

type paginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func newPaginationResponse(p calculator.Pagination) paginationResponse {
	return paginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Pagination   paginationResponse    `json:"pagination"`
}

type balanceResponse struct {
	IncomeTotal  models.Amount `json:"income_total"`
	ExpenseTotal models.Amount `json:"expense_total"`
	NetBalance   models.Amount `json:"net_balance"`
}

type categoryResponse struct {
	Category         models.Category `json:"category"`
	TotalAmount      models.Amount   `json:"total_amount"`
	TransactionCount int64           `json:"transaction_count"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return service.NewValidationError("malformed JSON body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return service.NewValidationError("malformed JSON body")
	}
	return nil
}

// pathID parses the {id} path segment. Anything but a positive integer
// cannot name a transaction, so it is reported as not found.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// writeError maps an error to its status code. Unexpected errors are logged
// and hidden behind a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: verr.Message, Errors: verr.Fields})
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: msgTransactionNotFound})
	default:
		s.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}
