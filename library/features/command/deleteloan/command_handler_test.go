package deleteloan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/features/command/deleteloan"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_CommandHandler_Handle_DeletingOpenLoan_CreditsCopiesBack(t *testing.T) {
	for _, status := range []librarystore.LoanStatus{
		librarystore.LoanStatusPending,
		librarystore.LoanStatusActive,
		librarystore.LoanStatusOverdue,
	} {
		t.Run(status.String(), func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := deleteloan.NewCommandHandler(store)

			// arrange
			librarian := GivenLibrarian(t, store)
			student := GivenStudent(t, store)
			book := GivenBook(t, store, librarian.ID, 4)
			loan := GivenLoan(t, store, book.ID, student.ID, 3, status)
			require.Equal(t, 1, BookQuantity(t, store, book.ID), "error in arranging test data")

			// act
			result, err := handler.Handle(ctx, deleteloan.BuildCommand(librarian.ID, loan.ID))

			// assert
			require.NoError(t, err)
			assert.Equal(t, loan.ID, result.Value.ID)
			assert.Equal(t, 4, BookQuantity(t, store, book.ID))

			_, err = store.LoanByID(ctx, loan.ID)
			assert.ErrorIs(t, err, librarystore.ErrLoanNotFound)
		})
	}
}

func Test_CommandHandler_Handle_DeletingReturnedLoan_LeavesQuantity(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := deleteloan.NewCommandHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 4)
	loan := GivenLoan(t, store, book.ID, student.ID, 3, librarystore.LoanStatusReturned)

	// act
	_, err := handler.Handle(ctx, deleteloan.BuildCommand(librarian.ID, loan.ID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, BookQuantity(t, store, book.ID))
}

func Test_CommandHandler_Handle_Rejections(t *testing.T) {
	testCases := []struct {
		name         string
		asStudent    bool
		unknownLoan  bool
		expectedKind core.FailureKind
	}{
		{name: "student may not delete loans", asStudent: true, expectedKind: core.KindAuthorization},
		{name: "unknown loan", unknownLoan: true, expectedKind: core.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := deleteloan.NewCommandHandler(store)

			// arrange
			librarian := GivenLibrarian(t, store)
			student := GivenStudent(t, store)
			book := GivenBook(t, store, librarian.ID, 2)
			loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusActive)

			requester, loanID := librarian.ID, loan.ID
			if tc.asStudent {
				requester = student.ID
			}
			if tc.unknownLoan {
				loanID = 4711
			}

			// act
			_, err := handler.Handle(ctx, deleteloan.BuildCommand(requester, loanID))

			// assert
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.Equal(t, 1, BookQuantity(t, store, book.ID))
		})
	}
}
