package sqlengine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_WithinTx_AdjustBookQuantity_DebitsAndSyncsStatus(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 2)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.AdjustBookQuantity(ctx, book.ID, -2)
	})

	// assert
	require.NoError(t, err)
	loaded, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Quantity)
	assert.Equal(t, librarystore.BookStatusUnavailable, *loaded.Status)
}

func Test_WithinTx_AdjustBookQuantity_CreditRestoresAvailability(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 0)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.AdjustBookQuantity(ctx, book.ID, 3)
	})

	// assert
	require.NoError(t, err)
	loaded, err := store.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Quantity)
	assert.Equal(t, librarystore.BookStatusAvailable, *loaded.Status)
}

func Test_WithinTx_AdjustBookQuantity_NeverGoesNegative(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 1)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.AdjustBookQuantity(ctx, book.ID, -2)
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrNotEnoughCopies)
	assert.Equal(t, 1, BookQuantity(t, store, book.ID))
}

func Test_WithinTx_AdjustBookQuantity_UnknownBook_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.AdjustBookQuantity(ctx, 4711, -1)
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrBookNotFound)
}

func Test_WithinTx_RollsBack_WhenFnFails(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	errDecision := errors.New("decision failed")

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 3)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		if err := tx.AdjustBookQuantity(ctx, book.ID, -2); err != nil {
			return err
		}

		return errDecision
	})

	// assert
	assert.ErrorIs(t, err, errDecision)
	assert.Equal(t, 3, BookQuantity(t, store, book.ID), "the debit must have been rolled back")
}

func Test_WithinTx_ChangeLoanStatus_IsConditionalOnPriorStatus(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 3)
	loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusPending)

	// act
	var changed librarystore.Loan
	changeErr := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		var err error
		changed, err = tx.ChangeLoanStatus(ctx, loan.ID, librarystore.LoanStatusPending, librarystore.LoanStatusActive)

		return err
	})
	staleErr := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		_, err := tx.ChangeLoanStatus(ctx, loan.ID, librarystore.LoanStatusPending, librarystore.LoanStatusReturned)
		return err
	})

	// assert
	require.NoError(t, changeErr)
	assert.Equal(t, librarystore.LoanStatusActive, changed.Status)
	assert.ErrorIs(t, staleErr, librarystore.ErrConcurrencyConflict)

	loaded, err := store.LoanByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusActive, loaded.Status)
}

func Test_WithinTx_ChangeLoanStatus_UnknownLoan_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		_, err := tx.ChangeLoanStatus(ctx, 4711, librarystore.LoanStatusPending, librarystore.LoanStatusActive)
		return err
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrLoanNotFound)
}

func Test_WithinTx_DeleteLoanAndBook(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 3)
	loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusReturned)

	// act
	var countBefore, countAfter int
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		var err error
		if countBefore, err = tx.CountLoansForBook(ctx, book.ID); err != nil {
			return err
		}

		if err = tx.DeleteLoan(ctx, loan.ID); err != nil {
			return err
		}

		if countAfter, err = tx.CountLoansForBook(ctx, book.ID); err != nil {
			return err
		}

		return tx.DeleteBook(ctx, book.ID)
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, countBefore)
	assert.Equal(t, 0, countAfter)

	_, err = store.BookByID(ctx, book.ID)
	assert.ErrorIs(t, err, librarystore.ErrBookNotFound)
}

func Test_WithinTx_DeleteUnknownRows_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	// act
	loanErr := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.DeleteLoan(ctx, 4711)
	})
	bookErr := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.DeleteBook(ctx, 4711)
	})

	// assert
	assert.ErrorIs(t, loanErr, librarystore.ErrLoanNotFound)
	assert.ErrorIs(t, bookErr, librarystore.ErrBookNotFound)
}

func Test_WithinTx_ConcurrentDebits_ConserveQuantity(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	const initialQuantity = 7
	const attempts = 20

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, initialQuantity)

	// act
	var succeeded, rejected atomic.Int32
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
				if _, err := tx.BookForUpdate(ctx, book.ID); err != nil {
					return err
				}

				return tx.AdjustBookQuantity(ctx, book.ID, -1)
			})

			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, librarystore.ErrNotEnoughCopies):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(initialQuantity), succeeded.Load())
	assert.Equal(t, int32(attempts-initialQuantity), rejected.Load())
	assert.Equal(t, 0, BookQuantity(t, store, book.ID))
}
