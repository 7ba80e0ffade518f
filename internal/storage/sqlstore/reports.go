package sqlstore

import (
	"context"
	"fmt"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
)

// Balance computes income, expense and net totals for the owner.
func (s *Store) Balance(ctx context.Context, ownerID int64) (models.Balance, error) {
	plan := s.builder.Balance(ownerID)

	var income, expense, net int64
	if err := s.db.QueryRowContext(ctx, plan.SQL, plan.Args...).Scan(&income, &expense, &net); err != nil {
		return models.Balance{}, fmt.Errorf("failed to compute balance: %w", err)
	}

	return models.Balance{
		IncomeTotal:  models.Amount(income),
		ExpenseTotal: models.Amount(expense),
		NetBalance:   models.Amount(net),
	}, nil
}

// CategoryReport totals the owner's transactions per category present.
func (s *Store) CategoryReport(ctx context.Context, ownerID int64) ([]models.CategoryTotal, error) {
	plan := s.builder.CategoryReport(ownerID)

	rows, err := s.db.QueryContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build category report: %w", err)
	}
	defer rows.Close()

	report := make([]models.CategoryTotal, 0, len(models.Categories))
	for rows.Next() {
		var category string
		var total, count int64
		if err := rows.Scan(&category, &total, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		report = append(report, models.CategoryTotal{
			Category: models.Category(category),
			Total:    models.Amount(total),
			Count:    count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return report, nil
}

// MonthlyReport lists the owner's transactions inside the month, newest first.
func (s *Store) MonthlyReport(ctx context.Context, ownerID int64, r calculator.MonthRange) ([]*models.Transaction, error) {
	transactions, err := s.queryTransactions(ctx, s.builder.MonthlyReport(ownerID, r))
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly report: %w", err)
	}
	return transactions, nil
}
