package librarystore

import (
	"errors"
	"fmt"
	"time"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

// ErrUnknownLoanStatus is returned by ParseLoanStatus for values outside the known set.
var ErrUnknownLoanStatus = errors.New("unknown loan status")

// LoanStatuses lists all known statuses in lifecycle order.
func LoanStatuses() []LoanStatus {
	return []LoanStatus{LoanStatusPending, LoanStatusActive, LoanStatusReturned, LoanStatusOverdue}
}

// ParseLoanStatus converts a raw string into a LoanStatus.
func ParseLoanStatus(raw string) (LoanStatus, error) {
	for _, status := range LoanStatuses() {
		if string(status) == raw {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLoanStatus, raw)
}

// IsReturned reports whether the copies of a loan in this status are back on the shelf.
func (s LoanStatus) IsReturned() bool {
	return s == LoanStatusReturned
}

func (s LoanStatus) String() string {
	return string(s)
}

// Loan reserves Quantity copies of a book for a student between StartDate and EndDate.
// While the loan is not returned, its Quantity is subtracted from the book's quantity.
type Loan struct {
	ID          LoanIDInt64
	StartDate   time.Time
	EndDate     time.Time
	Quantity    int
	Status      LoanStatus
	BookID      BookIDInt64
	StudentID   UserIDInt64
	LibrarianID UserIDInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LoanView is a Loan joined with the catalog fields of its book and the name of its student,
// the shape returned by loan listings.
type LoanView struct {
	Loan
	BookTitle       string
	BookAuthor      string
	BookDescription string
	BookPhoto       *string
	StudentName     string
}
