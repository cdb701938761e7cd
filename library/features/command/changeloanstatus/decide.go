package changeloanstatus

import (
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Decide computes the inventory effect of moving loan to target.
//
//	same status           -> idempotent, nothing is written
//	into returned         -> credit +quantity
//	out of returned       -> debit -quantity
//	any other transition  -> status write only
func Decide(loan librarystore.Loan, target librarystore.LoanStatus) core.DecisionResult {
	switch {
	case loan.Status == target:
		return core.IdempotentDecision()
	case target.IsReturned():
		return core.SuccessDecision(loan.Quantity)
	case loan.Status.IsReturned():
		return core.SuccessDecision(-loan.Quantity)
	default:
		return core.SuccessDecision(0)
	}
}
