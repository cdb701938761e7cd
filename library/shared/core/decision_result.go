package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// DecisionResult should only be constructed with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult struct {
	Outcome string // "idempotent", "success", or "error"

	// QuantityDelta is the change to apply to the book's available quantity.
	// Negative values debit copies, positive values credit them back.
	QuantityDelta int

	Err error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision creates a DecisionResult for a state change that adjusts the book quantity by delta.
// A delta of zero is a change that leaves the inventory untouched.
func SuccessDecision(delta int) DecisionResult {
	return DecisionResult{
		Outcome:       successOutcome,
		QuantityDelta: delta,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// IsIdempotent returns true if nothing has to be written.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasQuantityChange returns true if the book quantity has to be adjusted.
func (r DecisionResult) HasQuantityChange() bool {
	return r.Outcome == successOutcome && r.QuantityDelta != 0
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
