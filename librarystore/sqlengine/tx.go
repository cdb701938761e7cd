package sqlengine

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

// WithinTx runs fn inside one database transaction on the primary database.
// The transaction commits if fn returns nil and rolls back otherwise. Errors returned by fn are passed through unchanged.
// The Tx handed to fn must not be used after fn returns.
func (s Store) WithinTx(ctx context.Context, fn librarystore.TxFunc) error {
	return s.observe(librarystore.WithStrongConsistency(ctx), operationWithinTx, func(ctx context.Context) (int, error) {
		ctx, cancel := context.WithTimeout(ctx, adapters.DefaultTxTimeout)
		defer cancel()

		dbTx, beginErr := s.db.BeginTx(ctx)
		if beginErr != nil {
			s.logErrorContext(ctx, logMsgBeginTxFailed, beginErr)
			return 0, errors.Join(librarystore.ErrTransactionFailed, beginErr)
		}

		committed := false
		defer func() {
			if committed {
				return
			}

			if rollbackErr := dbTx.Rollback(ctx); rollbackErr != nil {
				s.logWarnContext(ctx, logMsgRollbackTxFailed, rollbackErr)
			}
		}()

		if fnErr := fn(ctx, txStore{s: s, tx: dbTx}); fnErr != nil {
			return 0, fnErr
		}

		if commitErr := dbTx.Commit(ctx); commitErr != nil {
			s.logErrorContext(ctx, logMsgCommitTxFailed, commitErr)
			return 0, errors.Join(librarystore.ErrTransactionFailed, commitErr)
		}

		committed = true

		return 1, nil
	})
}

// txStore implements librarystore.Tx on an open transaction.
type txStore struct {
	s  Store
	tx adapters.DBTx
}

func (t txStore) BookForUpdate(ctx context.Context, bookID librarystore.BookIDInt64) (librarystore.Book, error) {
	var book librarystore.Book

	err := t.s.observe(ctx, operationBookForUpdate, func(ctx context.Context) (int, error) {
		var err error
		book, err = t.s.selectBook(ctx, t.tx, operationBookForUpdate, bookID, true)

		return 1, err
	})

	return book, err
}

func (t txStore) LoanForUpdate(ctx context.Context, loanID librarystore.LoanIDInt64) (librarystore.Loan, error) {
	var loan librarystore.Loan

	err := t.s.observe(ctx, operationLoanForUpdate, func(ctx context.Context) (int, error) {
		var err error
		loan, err = t.s.selectLoan(ctx, t.tx, operationLoanForUpdate, loanID, true)

		return 1, err
	})

	return loan, err
}

func (t txStore) AdjustBookQuantity(ctx context.Context, bookID librarystore.BookIDInt64, delta int) error {
	return t.s.observe(ctx, operationAdjustQuantity, func(ctx context.Context) (int, error) {
		return 1, t.s.adjustBookQuantity(ctx, t.tx, bookID, delta)
	})
}

func (t txStore) UpdateBook(ctx context.Context, book librarystore.Book) (librarystore.Book, error) {
	err := t.s.observe(ctx, operationUpdateBook, func(ctx context.Context) (int, error) {
		var err error
		book, err = t.s.updateBook(ctx, t.tx, book)

		return 1, err
	})
	if err != nil {
		return librarystore.Book{}, err
	}

	return book, nil
}

func (t txStore) InsertLoan(ctx context.Context, loan librarystore.Loan) (librarystore.Loan, error) {
	err := t.s.observe(ctx, operationInsertLoan, func(ctx context.Context) (int, error) {
		var err error
		loan, err = t.s.insertLoan(ctx, t.tx, loan)

		return 1, err
	})
	if err != nil {
		return librarystore.Loan{}, err
	}

	return loan, nil
}

func (t txStore) ChangeLoanStatus(
	ctx context.Context,
	loanID librarystore.LoanIDInt64,
	from, to librarystore.LoanStatus,
) (librarystore.Loan, error) {

	var loan librarystore.Loan

	err := t.s.observe(ctx, operationChangeLoan, func(ctx context.Context) (int, error) {
		var err error
		loan, err = t.s.changeLoanStatus(ctx, t.tx, loanID, from, to)

		return 1, err
	})

	return loan, err
}

func (t txStore) DeleteLoan(ctx context.Context, loanID librarystore.LoanIDInt64) error {
	return t.s.observe(ctx, operationDeleteLoan, func(ctx context.Context) (int, error) {
		return 1, t.s.deleteLoan(ctx, t.tx, loanID)
	})
}

func (t txStore) CountLoansForBook(ctx context.Context, bookID librarystore.BookIDInt64) (int, error) {
	var count int

	err := t.s.observe(ctx, operationCountLoans, func(ctx context.Context) (int, error) {
		var err error
		count, err = t.s.countLoansForBook(ctx, t.tx, bookID)

		return count, err
	})

	return count, err
}

func (t txStore) DeleteBook(ctx context.Context, bookID librarystore.BookIDInt64) error {
	return t.s.observe(ctx, operationDeleteBook, func(ctx context.Context) (int, error) {
		return 1, t.s.deleteBook(ctx, t.tx, bookID)
	})
}
