package pastloans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/features/query/pastloans"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ListsReturnedLoans(t *testing.T) {
	testCases := []struct {
		name          string
		scope         shell.Scope
		asStudent     bool
		expectedCount int
	}{
		{name: "admin sees all returned loans", scope: shell.ScopeAll, expectedCount: 2},
		{name: "student sees own returned loans", scope: shell.ScopeOwn, asStudent: true, expectedCount: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := pastloans.NewQueryHandler(store)

			// arrange
			librarian := GivenLibrarian(t, store)
			admin := GivenAdmin(t, store)
			alice := GivenStudent(t, store)
			bob := GivenStudent(t, store)
			book := GivenBook(t, store, librarian.ID, 5)
			GivenLoan(t, store, book.ID, alice.ID, 1, librarystore.LoanStatusReturned)
			GivenLoan(t, store, book.ID, bob.ID, 1, librarystore.LoanStatusReturned)
			GivenLoan(t, store, book.ID, alice.ID, 1, librarystore.LoanStatusActive)

			requester := admin.ID
			if tc.asStudent {
				requester = alice.ID
			}

			// act
			result, err := handler.Handle(ctx, pastloans.BuildQuery(requester, tc.scope))

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCount, result.Count)
			for _, loan := range result.Loans {
				assert.Equal(t, librarystore.LoanStatusReturned, loan.Status)
			}
		})
	}
}

func Test_QueryHandler_Handle_NoReturnedLoans_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := pastloans.NewQueryHandler(store)

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 5)
	GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusActive)

	// act
	_, err := handler.Handle(ctx, pastloans.BuildQuery(student.ID, shell.ScopeOwn))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
