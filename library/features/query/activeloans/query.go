package activeloans

import (
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	queryType = "ActiveLoans"
)

// Query represents the intent to list loans that are not returned yet.
type Query struct {
	RequesterID librarystore.UserIDInt64
	Scope       shell.Scope
}

// BuildQuery creates a new Query with the provided requester ID and scope.
func BuildQuery(requesterID librarystore.UserIDInt64, scope shell.Scope) Query {
	return Query{
		RequesterID: requesterID,
		Scope:       scope,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
