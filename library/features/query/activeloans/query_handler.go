package activeloans

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store defines what the QueryHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	Loans(ctx context.Context, filter librarystore.LoanFilter) ([]librarystore.LoanView, error)
}

// QueryHandler lists loans that are not returned yet within the scope the requester may see.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the loans or a not found failure if there are none.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OpenLoans, error) {
	filter, err := shell.AuthorizeLoanListing(
		ctx,
		h.store,
		query.RequesterID,
		query.Scope,
		librarystore.BuildLoanFilter().OnlyActive(),
	)
	if err != nil {
		return OpenLoans{}, err
	}

	loans, err := h.store.Loans(librarystore.WithEventualConsistency(ctx), filter)
	if err != nil {
		return OpenLoans{}, shell.Classify(err)
	}

	if len(loans) == 0 {
		return OpenLoans{}, core.NotFoundFailure("no loans found")
	}

	return OpenLoans{Loans: loans, Count: len(loans)}, nil
}
