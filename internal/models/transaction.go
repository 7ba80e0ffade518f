package models

import "errors"

// ErrInvalidCategory is returned for anything other than Income or Expense.
var ErrInvalidCategory = errors.New("category must be one of Income, Expense")

// Category distinguishes income from expense.
type Category string

const (
	CategoryIncome  Category = "Income"
	CategoryExpense Category = "Expense"
)

// Categories lists every valid category.
var Categories = []Category{CategoryIncome, CategoryExpense}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryIncome || c == CategoryExpense
}

// ParseCategory validates s as a Category. Matching is exact.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Transaction is a single dated income or expense record owned by a user.
type Transaction struct {
	// ID is the surrogate key assigned by the store.
	ID int64

	// OwnerID is the ID of the user the transaction belongs to.
	// Every read and write is scoped by it.
	OwnerID int64

	// Description is a free-text label, at least three characters long.
	Description string

	// Amount is the signed value; positive for income, negative for expense.
	Amount Amount

	// Date is the calendar day of the transaction.
	Date Date

	// Category is Income or Expense.
	Category Category
}

// TransactionFields are the user-editable fields of a Transaction,
// already validated by the service layer.
type TransactionFields struct {
	Description string
	Amount      Amount
	Date        Date
	Category    Category
}
