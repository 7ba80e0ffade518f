package httpapi

import (
	"net/http"

	"github.com/mmynk/fintrack/internal/middleware"
	"github.com/mmynk/fintrack/internal/service"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.reports.Balance(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		IncomeTotal:  b.IncomeTotal,
		ExpenseTotal: b.ExpenseTotal,
		NetBalance:   b.NetBalance,
	})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Categories(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, len(rows))
	for i, row := range rows {
		out[i] = categoryResponse{
			Category:         row.Category,
			TotalAmount:      row.Total,
			TransactionCount: row.Count,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.reports.Monthly(r.Context(), middleware.GetUserID(r.Context()), service.MonthQuery{
		Month: q.Get("month"),
		Year:  q.Get("year"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionList(rows))
}
