package models

// Balance is the aggregate of all of a user's transactions.
// Missing rows sum to zero.
type Balance struct {
	IncomeTotal  Amount
	ExpenseTotal Amount
	NetBalance   Amount
}

// CategoryTotal is one row of the category report.
// Categories without transactions are omitted rather than zero-filled.
type CategoryTotal struct {
	Category Category
	Total    Amount
	Count    int64
}
