package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store defines what the QueryHandler needs from persistence.
type Store interface {
	BookByID(ctx context.Context, bookID librarystore.BookIDInt64) (librarystore.Book, error)
}

// QueryHandler loads a single book.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the book or a not found failure.
func (h QueryHandler) Handle(ctx context.Context, query Query) (librarystore.Book, error) {
	book, err := h.store.BookByID(librarystore.WithEventualConsistency(ctx), query.BookID)
	if err != nil {
		return librarystore.Book{}, shell.Classify(err)
	}

	return book, nil
}
