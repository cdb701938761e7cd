package removebook

import (
	"github.com/AntonStoeckl/library-lending/library/shared/core"
)

// Decide allows the deletion only for a book without loans.
func Decide(loanCount int) core.DecisionResult {
	if loanCount > 0 {
		return core.ErrorDecision(core.ConflictFailure("book has loans"))
	}

	return core.SuccessDecision(0)
}
