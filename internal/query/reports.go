package query

import (
	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
)

// Balance sums the owner's amounts per category and overall.
// Each sum is coalesced so that an owner without rows yields zeros.
func (b Builder) Balance(ownerID int64) Plan {
	p := b.params()
	income := p.bind(string(models.CategoryIncome))
	expense := p.bind(string(models.CategoryExpense))
	sql := "SELECT" +
		" CAST(COALESCE(SUM(CASE WHEN category = " + income + " THEN amount_cents ELSE 0 END), 0) AS BIGINT)," +
		" CAST(COALESCE(SUM(CASE WHEN category = " + expense + " THEN amount_cents ELSE 0 END), 0) AS BIGINT)," +
		" CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)" +
		" FROM transactions" + p.where([]Clause{Owner(ownerID)})
	return Plan{SQL: sql, Args: p.args}
}

// CategoryReport groups the owner's transactions by category.
// Only categories with at least one row appear.
func (b Builder) CategoryReport(ownerID int64) Plan {
	p := b.params()
	sql := "SELECT category, CAST(SUM(amount_cents) AS BIGINT), COUNT(*) FROM transactions" +
		p.where([]Clause{Owner(ownerID)}) +
		" GROUP BY category ORDER BY category"
	return Plan{SQL: sql, Args: p.args}
}

// MonthlyReport selects the owner's transactions dated inside r, newest first.
func (b Builder) MonthlyReport(ownerID int64, r calculator.MonthRange) Plan {
	p := b.params()
	sql := "SELECT " + transactionColumns + " FROM transactions" +
		p.where(scoped(ownerID,
			Clause{FieldDate, OpGte, r.First.String()},
			Clause{FieldDate, OpLte, r.Last.String()},
		)) +
		" ORDER BY date DESC, id DESC"
	return Plan{SQL: sql, Args: p.args}
}
