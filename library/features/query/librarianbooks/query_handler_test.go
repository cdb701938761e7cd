package librarianbooks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/features/query/librarianbooks"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ListsOnlyOwnBooks(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := librarianbooks.NewQueryHandler(store)

	// arrange
	owner := GivenLibrarian(t, store)
	other := GivenLibrarian(t, store)
	own := GivenBook(t, store, owner.ID, 1)
	GivenBook(t, store, other.ID, 1)

	// act
	result, err := handler.Handle(ctx, librarianbooks.BuildQuery(owner.ID))

	// assert
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, own.ID, result.Books[0].ID)
	assert.Equal(t, owner.ID, result.LibrarianID)
}

func Test_QueryHandler_Handle_NoOwnBooks_IsNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	handler := librarianbooks.NewQueryHandler(store)

	// arrange
	other := GivenLibrarian(t, store)
	GivenBook(t, store, other.ID, 1)

	// act
	_, err := handler.Handle(ctx, librarianbooks.BuildQuery(GivenStudent(t, store).ID))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
