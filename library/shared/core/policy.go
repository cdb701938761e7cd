package core

import "time"

const (
	// LoanPeriodDays is the number of calendar days between a loan's start and end date.
	LoanPeriodDays = 7

	// MaxCopiesPerLoan caps the number of copies a single loan may take.
	MaxCopiesPerLoan = 5
)

// EndDateFor returns the end date of a loan starting at start.
func EndDateFor(start time.Time) time.Time {
	return start.AddDate(0, 0, LoanPeriodDays)
}
