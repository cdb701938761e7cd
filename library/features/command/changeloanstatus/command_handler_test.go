package changeloanstatus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/features/command/changeloanstatus"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Return_CreditsExactlyOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := changeloanstatus.NewCommandHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 3)
	loan := GivenLoan(t, store, book.ID, student.ID, 2, librarystore.LoanStatusActive)
	require.Equal(t, 1, BookQuantity(t, store, book.ID), "error in arranging test data")

	// act
	first, firstErr := handler.Handle(ctx, changeloanstatus.BuildCommand(librarian.ID, loan.ID, "returned"))
	second, secondErr := handler.Handle(ctx, changeloanstatus.BuildCommand(librarian.ID, loan.ID, "returned"))

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.False(t, first.Idempotent)
	assert.Equal(t, librarystore.LoanStatusReturned, first.Value.Status)
	assert.True(t, second.Idempotent, "returning a returned loan changes nothing")
	assert.Equal(t, librarystore.LoanStatusReturned, second.Value.Status)
	assert.Equal(t, 3, BookQuantity(t, store, book.ID), "the copies are credited back exactly once")
}

func Test_CommandHandler_Handle_StatusOnlyTransition(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := changeloanstatus.NewCommandHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 3)
	loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusPending)

	// act
	result, err := handler.Handle(ctx, changeloanstatus.BuildCommand(librarian.ID, loan.ID, "active"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusActive, result.Value.Status)
	assert.Equal(t, 2, BookQuantity(t, store, book.ID))
}

func Test_CommandHandler_Handle_ReopenReturnedLoan_DebitsAgain(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := changeloanstatus.NewCommandHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 3)
	loan := GivenLoan(t, store, book.ID, student.ID, 2, librarystore.LoanStatusReturned)

	// act
	result, err := handler.Handle(ctx, changeloanstatus.BuildCommand(librarian.ID, loan.ID, "active"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, librarystore.LoanStatusActive, result.Value.Status)
	assert.Equal(t, 1, BookQuantity(t, store, book.ID))
}

func Test_CommandHandler_Handle_ReopenWithoutStock_IsRejected(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := changeloanstatus.NewCommandHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 1)
	loan := GivenLoan(t, store, book.ID, student.ID, 2, librarystore.LoanStatusReturned)

	// act
	_, err := handler.Handle(ctx, changeloanstatus.BuildCommand(librarian.ID, loan.ID, "active"))

	// assert
	assert.Equal(t, core.KindValidation, core.KindOf(err))
	assert.EqualError(t, err, "not enough copies")

	reloaded, loadErr := store.LoanByID(ctx, loan.ID)
	require.NoError(t, loadErr)
	assert.Equal(t, librarystore.LoanStatusReturned, reloaded.Status, "the status write was rolled back")
	assert.Equal(t, 1, BookQuantity(t, store, book.ID))
}

func Test_CommandHandler_Handle_Rejections(t *testing.T) {
	testCases := []struct {
		name         string
		asStudent    bool
		unknownLoan  bool
		status       string
		expectedKind core.FailureKind
	}{
		{name: "student may not change status", asStudent: true, status: "returned", expectedKind: core.KindAuthorization},
		{name: "missing status", status: "", expectedKind: core.KindValidation},
		{name: "unknown status", status: "lost", expectedKind: core.KindValidation},
		{name: "unknown loan", unknownLoan: true, status: "returned", expectedKind: core.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := changeloanstatus.NewCommandHandler(store)

			// arrange
			librarian := GivenLibrarian(t, store)
			student := GivenStudent(t, store)
			book := GivenBook(t, store, librarian.ID, 3)
			loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusActive)

			requester := librarian.ID
			if tc.asStudent {
				requester = student.ID
			}

			loanID := loan.ID
			if tc.unknownLoan {
				loanID = 4711
			}

			// act
			_, err := handler.Handle(ctx, changeloanstatus.BuildCommand(requester, loanID, tc.status))

			// assert
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.Equal(t, 2, BookQuantity(t, store, book.ID))
		})
	}
}
