// Package query composes parameterized SQL plans for the transaction store.
//
// Filters are lists of clauses over a closed set of columns and operators.
// Column names and operators are the only text that reaches the SQL string;
// every value is bound as a parameter.
package query

import (
	"strconv"
	"strings"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
)

// Dialect selects the placeholder syntax of the target database.
type Dialect int

const (
	// SQLite uses positional '?' placeholders.
	SQLite Dialect = iota
	// Postgres uses numbered '$n' placeholders.
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	default:
		return "unknown"
	}
}

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Field is a filterable transaction column.
// Values can only be obtained from the exported variables below.
type Field struct {
	column string
}

var (
	FieldID       = Field{"id"}
	FieldOwner    = Field{"user_id"}
	FieldCategory = Field{"category"}
	FieldDate     = Field{"date"}
	FieldAmount   = Field{"amount_cents"}
)

func (f Field) String() string { return f.column }

// Op is a comparison operator.
type Op struct {
	symbol string
}

var (
	OpEq  = Op{"="}
	OpGte = Op{">="}
	OpLte = Op{"<="}
)

func (o Op) String() string { return o.symbol }

// Clause is a single (field, operator, value) predicate.
type Clause struct {
	Field Field
	Op    Op
	Value any
}

// Owner returns the clause restricting rows to one user.
func Owner(ownerID int64) Clause {
	return Clause{Field: FieldOwner, Op: OpEq, Value: ownerID}
}

// Filter holds the optional list filters. Nil fields add no constraint.
type Filter struct {
	Category  *models.Category
	DateFrom  *models.Date
	DateTo    *models.Date
	AmountMin *models.Amount
	AmountMax *models.Amount
}

// Clauses converts the filter into predicates, in a fixed order.
func (f Filter) Clauses() []Clause {
	var clauses []Clause
	if f.Category != nil {
		clauses = append(clauses, Clause{FieldCategory, OpEq, string(*f.Category)})
	}
	if f.DateFrom != nil {
		clauses = append(clauses, Clause{FieldDate, OpGte, f.DateFrom.String()})
	}
	if f.DateTo != nil {
		clauses = append(clauses, Clause{FieldDate, OpLte, f.DateTo.String()})
	}
	if f.AmountMin != nil {
		clauses = append(clauses, Clause{FieldAmount, OpGte, f.AmountMin.Cents()})
	}
	if f.AmountMax != nil {
		clauses = append(clauses, Clause{FieldAmount, OpLte, f.AmountMax.Cents()})
	}
	return clauses
}

// Plan is a SQL statement with its bound arguments.
type Plan struct {
	SQL  string
	Args []any
}

// Builder renders plans for one dialect.
type Builder struct {
	dialect Dialect
}

// NewBuilder returns a Builder for the given dialect.
func NewBuilder(dialect Dialect) Builder {
	return Builder{dialect: dialect}
}

// params accumulates bound arguments and hands out placeholders in order.
type params struct {
	dialect Dialect
	args    []any
}

func (p *params) bind(v any) string {
	p.args = append(p.args, v)
	return p.dialect.placeholder(len(p.args))
}

func (b Builder) params() *params {
	return &params{dialect: b.dialect}
}

// where renders the conjunction of clauses. An empty list renders nothing.
func (p *params) where(clauses []Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.Field.column + " " + c.Op.symbol + " " + p.bind(c.Value)
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

const transactionColumns = "id, user_id, description, amount_cents, date, category"

// scoped prepends the owner clause to the filter clauses.
func scoped(ownerID int64, clauses ...Clause) []Clause {
	return append([]Clause{Owner(ownerID)}, clauses...)
}

// ListTransactions selects one page of the owner's transactions matching f,
// newest first.
func (b Builder) ListTransactions(ownerID int64, f Filter, page calculator.PageRequest) Plan {
	p := b.params()
	sql := "SELECT " + transactionColumns + " FROM transactions" +
		p.where(scoped(ownerID, f.Clauses()...)) +
		" ORDER BY date DESC, id DESC LIMIT " + p.bind(page.Limit) + " OFFSET " + p.bind(page.Offset())
	return Plan{SQL: sql, Args: p.args}
}

// CountTransactions counts the owner's transactions matching f.
func (b Builder) CountTransactions(ownerID int64, f Filter) Plan {
	p := b.params()
	sql := "SELECT COUNT(*) FROM transactions" + p.where(scoped(ownerID, f.Clauses()...))
	return Plan{SQL: sql, Args: p.args}
}

// GetTransaction selects a single transaction by id, scoped to its owner.
func (b Builder) GetTransaction(id, ownerID int64) Plan {
	p := b.params()
	sql := "SELECT " + transactionColumns + " FROM transactions" +
		p.where(scoped(ownerID, Clause{FieldID, OpEq, id}))
	return Plan{SQL: sql, Args: p.args}
}

// InsertTransaction inserts a transaction and returns the stored row.
func (b Builder) InsertTransaction(ownerID int64, fields models.TransactionFields) Plan {
	p := b.params()
	sql := "INSERT INTO transactions (user_id, description, amount_cents, date, category) VALUES (" +
		strings.Join([]string{
			p.bind(ownerID),
			p.bind(fields.Description),
			p.bind(fields.Amount.Cents()),
			p.bind(fields.Date.String()),
			p.bind(string(fields.Category)),
		}, ", ") +
		") RETURNING " + transactionColumns
	return Plan{SQL: sql, Args: p.args}
}

// UpdateTransaction overwrites the editable fields of a transaction owned by
// ownerID and returns the stored row. No row is returned when the id does not
// exist or belongs to someone else.
func (b Builder) UpdateTransaction(id, ownerID int64, fields models.TransactionFields) Plan {
	p := b.params()
	set := "description = " + p.bind(fields.Description) +
		", amount_cents = " + p.bind(fields.Amount.Cents()) +
		", date = " + p.bind(fields.Date.String()) +
		", category = " + p.bind(string(fields.Category))
	sql := "UPDATE transactions SET " + set +
		p.where(scoped(ownerID, Clause{FieldID, OpEq, id})) +
		" RETURNING " + transactionColumns
	return Plan{SQL: sql, Args: p.args}
}

// DeleteTransaction physically deletes a transaction owned by ownerID.
func (b Builder) DeleteTransaction(id, ownerID int64) Plan {
	p := b.params()
	sql := "DELETE FROM transactions" + p.where(scoped(ownerID, Clause{FieldID, OpEq, id}))
	return Plan{SQL: sql, Args: p.args}
}
