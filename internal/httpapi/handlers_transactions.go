package httpapi

import (
	"net/http"

	"github.com/mmynk/fintrack/internal/middleware"
	"github.com/mmynk/fintrack/internal/service"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.transactions.List(r.Context(), middleware.GetUserID(r.Context()), service.ListQuery{
		Category:  q.Get("category"),
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		AmountMin: q.Get("amount_min"),
		AmountMax: q.Get("amount_max"),
		Page:      q.Get("page"),
		Limit:     q.Get("limit"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Transactions: newTransactionList(page.Transactions),
		Pagination:   newPaginationResponse(page.Pagination),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in service.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.transactions.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(t))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, r, service.ErrNotFound)
		return
	}

	t, err := s.transactions.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, r, service.ErrNotFound)
		return
	}

	var in service.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.transactions.Update(r.Context(), middleware.GetUserID(r.Context()), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeError(w, r, service.ErrNotFound)
		return
	}

	if err := s.transactions.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "transaction deleted"})
}
