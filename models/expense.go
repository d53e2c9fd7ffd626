package models

import "time"

// ExpenseCategories is the fixed vocabulary offered to the operator. The
// store does not enforce it.
var ExpenseCategories = []string{
	"Inventory Purchase",
	"Rent",
	"Utilities",
	"Transportation",
	"Marketing",
	"Maintenance",
	"Insurance",
	"Supplies",
	"Other",
}

// Expense represents an expense in the database
type Expense struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	IsPaid      bool       `json:"isPaid"`
	PaidAmount  float64    `json:"paidAmount"` // may be partial
	Date        time.Time  `json:"date"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Outstanding is what is still owed on the expense
func (e Expense) Outstanding() float64 {
	if e.IsPaid || e.PaidAmount >= e.Amount {
		return 0
	}
	return e.Amount - e.PaidAmount
}

// NewExpense represents the request body for creating an expense
// Example: {"category": "Rent", "amount": 8000, "description": "October", "isPaid": false, "paidAmount": 2000, "date": "2026-10-01T00:00:00Z"}
type NewExpense struct {
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	IsPaid      bool       `json:"isPaid"`
	PaidAmount  float64    `json:"paidAmount"`
	Date        time.Time  `json:"date"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ExpenseUpdate is a partial patch. ClearDueDate removes the due date.
type ExpenseUpdate struct {
	Category     *string    `json:"category,omitempty"`
	Amount       *float64   `json:"amount,omitempty"`
	Description  *string    `json:"description,omitempty"`
	IsPaid       *bool      `json:"isPaid,omitempty"`
	PaidAmount   *float64   `json:"paidAmount,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
}
