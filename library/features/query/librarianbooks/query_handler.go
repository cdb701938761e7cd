package librarianbooks

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store defines what the QueryHandler needs from persistence.
type Store interface {
	BooksOwnedBy(ctx context.Context, librarianID librarystore.UserIDInt64) ([]librarystore.Book, error)
}

// QueryHandler lists the books owned by the requester.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the requester's books or a not found failure if there are none.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OwnedBooks, error) {
	books, err := h.store.BooksOwnedBy(librarystore.WithEventualConsistency(ctx), query.RequesterID)
	if err != nil {
		return OwnedBooks{}, shell.Classify(err)
	}

	if len(books) == 0 {
		return OwnedBooks{}, core.NotFoundFailure("no books found")
	}

	return OwnedBooks{LibrarianID: query.RequesterID, Books: books, Count: len(books)}, nil
}
