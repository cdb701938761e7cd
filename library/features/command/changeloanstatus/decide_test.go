package changeloanstatus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/library/features/command/changeloanstatus"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

func Test_Decide(t *testing.T) {
	testCases := []struct {
		from          librarystore.LoanStatus
		to            librarystore.LoanStatus
		idempotent    bool
		expectedDelta int
	}{
		{from: librarystore.LoanStatusPending, to: librarystore.LoanStatusPending, idempotent: true},
		{from: librarystore.LoanStatusReturned, to: librarystore.LoanStatusReturned, idempotent: true},
		{from: librarystore.LoanStatusPending, to: librarystore.LoanStatusActive, expectedDelta: 0},
		{from: librarystore.LoanStatusActive, to: librarystore.LoanStatusOverdue, expectedDelta: 0},
		{from: librarystore.LoanStatusOverdue, to: librarystore.LoanStatusPending, expectedDelta: 0},
		{from: librarystore.LoanStatusPending, to: librarystore.LoanStatusReturned, expectedDelta: 3},
		{from: librarystore.LoanStatusActive, to: librarystore.LoanStatusReturned, expectedDelta: 3},
		{from: librarystore.LoanStatusOverdue, to: librarystore.LoanStatusReturned, expectedDelta: 3},
		{from: librarystore.LoanStatusReturned, to: librarystore.LoanStatusActive, expectedDelta: -3},
		{from: librarystore.LoanStatusReturned, to: librarystore.LoanStatusOverdue, expectedDelta: -3},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			// arrange
			loan := librarystore.Loan{ID: 1, BookID: 2, Quantity: 3, Status: tc.from}

			// act
			result := changeloanstatus.Decide(loan, tc.to)

			// assert
			assert.NoError(t, result.HasError())
			assert.Equal(t, tc.idempotent, result.IsIdempotent())
			assert.Equal(t, tc.expectedDelta, result.QuantityDelta)
		})
	}
}
