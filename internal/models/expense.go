package models

import "time"

type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

// Expense is an operating cost. It touches the ledger only when paid:
// MarkPaid mirrors it as an EXPENSE transaction against the payer's
// floating cash. Deleting an expense never removes a mirrored transaction.
type Expense struct {
	ID        string        `json:"id" db:"id"`
	Title     string        `json:"title" db:"title"`
	Category  string        `json:"category" db:"category"`
	Amount    Money         `json:"amount" db:"amount"`
	Vendor    string        `json:"vendor" db:"vendor"`
	Status    ExpenseStatus `json:"status" db:"status"`
	PaidBy    string        `json:"paid_by,omitempty" db:"paid_by"`
	PaidAt    *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
