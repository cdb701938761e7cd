package lendbook

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	failureReasonBookNotAvailable = "book not found"
	failureReasonNotEnoughCopies  = "not enough copies"
)

// Decide checks the locked book against the requested quantity.
// A successful decision carries the (negative) quantity delta to apply to the book.
//
// The cap on copies per loan is checked after availability, so an over-cap request against
// an under-stocked book reports "not enough copies".
func Decide(book librarystore.Book, command Command) core.DecisionResult {
	if book.Quantity <= 0 {
		return core.ErrorDecision(core.NotFoundFailure(failureReasonBookNotAvailable))
	}

	if book.Quantity-command.Quantity < 0 {
		return core.ErrorDecision(core.ValidationFailure(failureReasonNotEnoughCopies))
	}

	if command.Quantity > core.MaxCopiesPerLoan {
		return core.ErrorDecision(core.ValidationFailure(fmt.Sprintf("quantity exceeds %d", core.MaxCopiesPerLoan)))
	}

	return core.SuccessDecision(-command.Quantity)
}
