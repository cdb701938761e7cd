package deleteloan

import (
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Decide computes how much has to be credited back to the book when loan is deleted.
func Decide(loan librarystore.Loan) core.DecisionResult {
	if loan.Status.IsReturned() {
		return core.SuccessDecision(0)
	}

	return core.SuccessDecision(loan.Quantity)
}
