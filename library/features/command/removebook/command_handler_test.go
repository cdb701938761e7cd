package removebook_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/assets"
	"github.com/AntonStoeckl/library-lending/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func givenBookWithStoredImage(
	t *testing.T,
	store sqlengine.Store,
	storage *assets.LocalStorage,
	librarianID librarystore.UserIDInt64,
) librarystore.Book {

	t.Helper()

	ctx := context.Background()
	ref, err := storage.Save(ctx, shell.Upload{Filename: "c.png", ContentType: "image/png", Content: strings.NewReader("png")})
	require.NoError(t, err, "error in arranging test data")

	book := FixtureBook(librarianID, 2)
	book.Photo = &ref

	book, err = store.InsertBook(ctx, book)
	require.NoError(t, err, "error in arranging test data")

	return book
}

func Test_CommandHandler_Handle_DeletesBookWithoutLoans(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	root := t.TempDir()
	storage := assets.NewLocalStorage(root)
	handler := removebook.NewCommandHandler(store, storage)

	// arrange
	librarian := GivenLibrarian(t, store)
	book := givenBookWithStoredImage(t, store, storage, librarian.ID)

	// act
	result, err := handler.Handle(ctx, removebook.BuildCommand(librarian.ID, book.ID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, book.ID, result.Value.ID)

	_, err = store.BookByID(ctx, book.ID)
	assert.ErrorIs(t, err, librarystore.ErrBookNotFound)

	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(book.PhotoRef())))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "the image is removed with the book")
}

func Test_CommandHandler_Handle_BookWithLoans_IsConflict(t *testing.T) {
	for _, status := range librarystore.LoanStatuses() {
		t.Run(status.String(), func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := removebook.NewCommandHandler(store, assets.NewLocalStorage(t.TempDir()))

			// arrange
			librarian := GivenLibrarian(t, store)
			student := GivenStudent(t, store)
			book := GivenBook(t, store, librarian.ID, 2)
			GivenLoan(t, store, book.ID, student.ID, 1, status)

			// act
			_, err := handler.Handle(ctx, removebook.BuildCommand(librarian.ID, book.ID))

			// assert
			assert.Equal(t, core.KindConflict, core.KindOf(err))
			assert.EqualError(t, err, "book has loans")

			_, err = store.BookByID(ctx, book.ID)
			assert.NoError(t, err, "the book is still there")
		})
	}
}

func Test_CommandHandler_Handle_Rejections(t *testing.T) {
	testCases := []struct {
		name         string
		asStudent    bool
		unknownBook  bool
		expectedKind core.FailureKind
	}{
		{name: "student may not delete books", asStudent: true, expectedKind: core.KindAuthorization},
		{name: "unknown book", unknownBook: true, expectedKind: core.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := NewSQLiteStore(t)
			handler := removebook.NewCommandHandler(store, assets.NewLocalStorage(t.TempDir()))

			// arrange
			librarian := GivenLibrarian(t, store)
			book := GivenBook(t, store, librarian.ID, 2)

			requester, bookID := librarian.ID, book.ID
			if tc.asStudent {
				requester = GivenStudent(t, store).ID
			}
			if tc.unknownBook {
				bookID = 4711
			}

			// act
			_, err := handler.Handle(ctx, removebook.BuildCommand(requester, bookID))

			// assert
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
		})
	}
}

type failingAssetStorage struct{}

func (failingAssetStorage) Save(context.Context, shell.Upload) (string, error) {
	return "", errors.New("not supported")
}

func (failingAssetStorage) Delete(context.Context, string) error {
	return errors.New("permission denied")
}

func Test_CommandHandler_Handle_FailedImageRemoval_IsOnlyLogged(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	logHandler := NewLogHandlerSpy(false)
	handler := removebook.NewCommandHandler(store, failingAssetStorage{}, removebook.WithLogger(slog.New(logHandler)))

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 1)

	// act
	_, err := handler.Handle(ctx, removebook.BuildCommand(librarian.ID, book.ID))

	// assert
	require.NoError(t, err)
	assert.True(t,
		logHandler.HasWarnLogWithMessage("removing image of deleted book failed").
			WithAttribute("ref", book.PhotoRef()).
			Assert(),
	)
}
