package service

import (
	"context"
	"fmt"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage"
)

// ReportService computes balances and reports over the caller's transactions.
type ReportService struct {
	store storage.ReportStore
}

// NewReportService creates a new ReportService.
func NewReportService(store storage.ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Balance returns income, expense and net totals.
func (s *ReportService) Balance(ctx context.Context, ownerID int64) (models.Balance, error) {
	b, err := s.store.Balance(ctx, ownerID)
	if err != nil {
		return models.Balance{}, fmt.Errorf("failed to compute balance: %w", err)
	}
	return b, nil
}

// Categories returns one row per category that has transactions.
func (s *ReportService) Categories(ctx context.Context, ownerID int64) ([]models.CategoryTotal, error) {
	rows, err := s.store.CategoryReport(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category report: %w", err)
	}
	return rows, nil
}

// Monthly returns the transactions dated within the requested month,
// newest first.
func (s *ReportService) Monthly(ctx context.Context, ownerID int64, q MonthQuery) ([]*models.Transaction, error) {
	r, err := ParseMonth(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.MonthlyReport(ctx, ownerID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly report: %w", err)
	}
	return rows, nil
}
