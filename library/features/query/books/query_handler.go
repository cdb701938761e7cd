package books

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store defines what the QueryHandler needs from persistence.
type Store interface {
	Books(ctx context.Context) ([]librarystore.Book, error)
}

// QueryHandler lists the catalog.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns all books or a not found failure if there are none.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (Catalog, error) {
	books, err := h.store.Books(librarystore.WithEventualConsistency(ctx))
	if err != nil {
		return Catalog{}, shell.Classify(err)
	}

	if len(books) == 0 {
		return Catalog{}, core.NotFoundFailure("no books found")
	}

	return Catalog{Books: books, Count: len(books)}, nil
}
