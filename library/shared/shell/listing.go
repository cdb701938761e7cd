package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Scope selects whose loans a listing covers.
type Scope string

const (
	// ScopeAll lists the loans of every student, for librarians and admins.
	ScopeAll Scope = "all"
	// ScopeOwn lists the requester's own loans, for students.
	ScopeOwn Scope = "own"
)

// AuthorizeLoanListing checks the rights a scope requires and narrows the filter to the requester
// for ScopeOwn.
func AuthorizeLoanListing(
	ctx context.Context,
	directory RightsDirectory,
	requesterID librarystore.UserIDInt64,
	scope Scope,
	byStatus librarystore.LoanFilterStudentBuilder,
) (librarystore.LoanFilter, error) {

	if scope == ScopeOwn {
		if _, err := Authorize(ctx, directory, requesterID, librarystore.RightStudent); err != nil {
			return librarystore.LoanFilter{}, err
		}

		return byStatus.ForStudent(requesterID).Finalize(), nil
	}

	if _, err := Authorize(ctx, directory, requesterID, librarystore.RightLibrarian, librarystore.RightAdmin); err != nil {
		return librarystore.LoanFilter{}, err
	}

	return byStatus.ForAnyStudent().Finalize(), nil
}
