// Package report renders a user's balance and reports as Markdown for the
// command line.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
)

// Report is everything printed by the report command.
type Report struct {
	Email      string
	Balance    models.Balance
	Categories []models.CategoryTotal

	// Month is nil when no monthly listing was requested.
	Month   *calculator.MonthRange
	Monthly []*models.Transaction
}

// FormatAmount renders an amount in the given ISO 4217 currency.
// Unknown currencies fall back to the plain decimal followed by the code.
func FormatAmount(a models.Amount, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return a.String() + " " + currency
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	units := a.Decimal().Mul(factor).Round(0).IntPart()
	return money.New(units, currency).Display()
}

// Markdown renders the report with amounts in currency.
func Markdown(r Report, currency string) string {
	var b strings.Builder
	amount := func(a models.Amount) string { return FormatAmount(a, currency) }

	fmt.Fprintf(&b, "# Financial report for %s\n\n", escape(r.Email))

	b.WriteString("## Balance\n\n")
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", amount(r.Balance.IncomeTotal))
	fmt.Fprintf(&b, "| Expense | %s |\n", amount(r.Balance.ExpenseTotal))
	fmt.Fprintf(&b, "| **Net** | **%s** |\n\n", amount(r.Balance.NetBalance))

	b.WriteString("## By category\n\n")
	if len(r.Categories) == 0 {
		b.WriteString("_No transactions yet._\n\n")
	} else {
		b.WriteString("| Category | Total | Transactions |\n|---|---:|---:|\n")
		for _, c := range r.Categories {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", c.Category, amount(c.Total), c.Count)
		}
		b.WriteString("\n")
	}

	if r.Month == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "## %s %d\n\n", r.Month.First.Month(), r.Month.First.Year())
	if len(r.Monthly) == 0 {
		b.WriteString("_No transactions in this month._\n")
		return b.String()
	}
	b.WriteString("| Date | Description | Category | Amount |\n|---|---|---|---:|\n")
	for _, t := range r.Monthly {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", t.Date, escape(t.Description), t.Category, amount(t.Amount))
	}
	return b.String()
}

// escape keeps user text from breaking table cells.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
