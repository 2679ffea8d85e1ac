package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusBorrow TransactionStatus = "BORROW"
	TransactionStatusReturn TransactionStatus = "RETURN"
)

// Transaction records a book being lent to a user. Creation decrements the
// book's quantity by exactly one; the BORROW -> RETURN transition increments
// it back exactly once. A returned transaction is immutable except that a
// renewal approval may have extended DueDate while it was still out.
type Transaction struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	BookID     int32             `json:"book_id"`
	Status     TransactionStatus `json:"status"`
	BorrowDate time.Time         `json:"borrow_date"`
	DueDate    time.Time         `json:"due_date"`
	ReturnDate *time.Time        `json:"return_date,omitempty"`
	Overdue    bool              `json:"overdue"`
}
