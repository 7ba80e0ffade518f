package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   models.Amount
		currency string
		want     string
	}{
		{150000, "USD", "$1,500.00"},
		{0, "USD", "$0.00"},
		{1234, "XYZ", "12.34 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatAmount(%d, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	march, err := calculator.NewMonthRange(2024, 3)
	if err != nil {
		t.Fatalf("NewMonthRange failed: %v", err)
	}

	r := Report{
		Email:   "alice@example.com",
		Balance: models.Balance{IncomeTotal: 10000, ExpenseTotal: -4000, NetBalance: 6000},
		Categories: []models.CategoryTotal{
			{Category: models.CategoryExpense, Total: -4000, Count: 1},
			{Category: models.CategoryIncome, Total: 10000, Count: 1},
		},
		Month: &march,
		Monthly: []*models.Transaction{
			{Description: "Dinner | drinks", Amount: -4000, Date: models.NewDate(2024, time.March, 20), Category: models.CategoryExpense},
			{Description: "Salary", Amount: 10000, Date: models.NewDate(2024, time.March, 5), Category: models.CategoryIncome},
		},
	}

	md := Markdown(r, "USD")

	for _, want := range []string{
		"# Financial report for alice@example.com",
		"| **Net** | **$60.00** |",
		"| Income | $100.00 | 1 |",
		"## March 2024",
		`Dinner \| drinks`,
		"| 2024-03-05 | Salary | Income | $100.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Index(md, "2024-03-20") > strings.Index(md, "2024-03-05") {
		t.Error("monthly rows out of order")
	}
}

func TestMarkdownEmpty(t *testing.T) {
	md := Markdown(Report{Email: "new@example.com"}, "BRL")

	if !strings.Contains(md, "_No transactions yet._") {
		t.Errorf("expected empty category note:\n%s", md)
	}
	if strings.Contains(md, "## March") {
		t.Error("monthly section rendered without a month")
	}
}
