package bookdetails

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	queryType = "BookDetails"
)

// Query represents the intent to load one book.
type Query struct {
	BookID librarystore.BookIDInt64
}

// BuildQuery creates a new Query with the provided book ID.
func BuildQuery(bookID librarystore.BookIDInt64) Query {
	return Query{
		BookID: bookID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
