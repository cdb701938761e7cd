package librarianbooks

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	queryType = "LibrarianBooks"
)

// Query represents the intent to list the books owned by the requester.
type Query struct {
	RequesterID librarystore.UserIDInt64
}

// BuildQuery creates a new Query with the provided requester ID.
func BuildQuery(requesterID librarystore.UserIDInt64) Query {
	return Query{
		RequesterID: requesterID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
