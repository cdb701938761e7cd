package activeloans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ScopeAll_ListsOpenLoansOfAllStudents(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := activeloans.NewQueryHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	alice := GivenStudent(t, store)
	bob := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 5)
	GivenLoan(t, store, book.ID, alice.ID, 1, librarystore.LoanStatusPending)
	GivenLoan(t, store, book.ID, bob.ID, 1, librarystore.LoanStatusOverdue)
	GivenLoan(t, store, book.ID, bob.ID, 1, librarystore.LoanStatusReturned)

	// act
	result, err := handler.Handle(ctx, activeloans.BuildQuery(librarian.ID, shell.ScopeAll))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	for _, loan := range result.Loans {
		assert.False(t, loan.Status.IsReturned())
		assert.Equal(t, book.Title, loan.BookTitle)
		assert.Equal(t, "student", loan.StudentName)
	}
}

func Test_QueryHandler_Handle_ScopeOwn_ListsOnlyRequestersLoans(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := activeloans.NewQueryHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	alice := GivenStudent(t, store)
	bob := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 5)
	own := GivenLoan(t, store, book.ID, alice.ID, 2, librarystore.LoanStatusActive)
	GivenLoan(t, store, book.ID, bob.ID, 1, librarystore.LoanStatusActive)

	// act
	result, err := handler.Handle(ctx, activeloans.BuildQuery(alice.ID, shell.ScopeOwn))

	// assert
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, own.ID, result.Loans[0].ID)
	assert.Equal(t, alice.ID, result.Loans[0].StudentID)
}

func Test_QueryHandler_Handle_NoOpenLoans_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := activeloans.NewQueryHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 5)
	GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusReturned)

	// act
	_, err := handler.Handle(ctx, activeloans.BuildQuery(librarian.ID, shell.ScopeAll))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
	assert.EqualError(t, err, "no loans found")
}

func Test_QueryHandler_Handle_StudentListingAll_IsUnauthorized(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := activeloans.NewQueryHandler(store)

	// act
	_, err := handler.Handle(ctx, activeloans.BuildQuery(GivenStudent(t, store).ID, shell.ScopeAll))

	// assert
	assert.Equal(t, core.KindAuthorization, core.KindOf(err))
}
