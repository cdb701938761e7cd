package librarystore

import "context"

// Tx is the set of operations that read a quantity and later write a derived quantity.
// All of them run inside one database transaction, see WithinTx of the store implementations.
//
// BookForUpdate and LoanForUpdate lock the selected row where the dialect supports row locks,
// so concurrent transactions on the same book are serialized.
type Tx interface {
	BookForUpdate(ctx context.Context, bookID BookIDInt64) (Book, error)
	LoanForUpdate(ctx context.Context, loanID LoanIDInt64) (Loan, error)

	// AdjustBookQuantity adds delta to the quantity of a book.
	// It fails with ErrNotEnoughCopies if the result would be negative, leaving the book untouched.
	AdjustBookQuantity(ctx context.Context, bookID BookIDInt64, delta int) error

	// UpdateBook overwrites the editable columns of a book locked with BookForUpdate.
	UpdateBook(ctx context.Context, book Book) (Book, error)

	InsertLoan(ctx context.Context, loan Loan) (Loan, error)

	// ChangeLoanStatus moves a loan from one status to another.
	// It fails with ErrConcurrencyConflict if the loan is no longer in status from.
	ChangeLoanStatus(ctx context.Context, loanID LoanIDInt64, from, to LoanStatus) (Loan, error)

	DeleteLoan(ctx context.Context, loanID LoanIDInt64) error
	CountLoansForBook(ctx context.Context, bookID BookIDInt64) (int, error)
	DeleteBook(ctx context.Context, bookID BookIDInt64) error
}

// TxFunc is the unit of work executed by WithinTx.
// Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx Tx) error
