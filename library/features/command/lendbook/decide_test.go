package lendbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

func Test_Decide(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		available     int
		requested     int
		expectedKind  core.FailureKind
		expectedError string
	}{
		{name: "enough copies", available: 3, requested: 2},
		{name: "takes the last copies", available: 5, requested: 5},
		{name: "no copies left", available: 0, requested: 1, expectedKind: core.KindNotFound, expectedError: "book not found"},
		{name: "not enough copies", available: 1, requested: 2, expectedKind: core.KindValidation, expectedError: "not enough copies"},
		{name: "over cap and not enough copies", available: 3, requested: 6, expectedKind: core.KindValidation, expectedError: "not enough copies"},
		{name: "over cap", available: 10, requested: 6, expectedKind: core.KindValidation, expectedError: "quantity exceeds 5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			book := librarystore.Book{ID: 1, Quantity: tc.available}
			command := BuildCommand(2, 1, start, tc.requested, 0)

			// act
			result := Decide(book, command)

			// assert
			if tc.expectedKind == "" {
				assert.NoError(t, result.HasError())
				assert.Equal(t, -tc.requested, result.QuantityDelta)
				return
			}

			err := result.HasError()
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.EqualError(t, err, tc.expectedError)
		})
	}
}

func Test_Command_Validate(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, BuildCommand(2, 1, start, 1, 0).validate())
	assert.EqualError(t, BuildCommand(2, 0, time.Time{}, 0, 0).validate(), "missing required fields: book_id, start_date, quantity")
	assert.EqualError(t, BuildCommand(2, 1, start, -1, 0).validate(), "quantity must be a positive integer")
}

func Test_Command_EndDateAndLibrarian(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	selfIssued := BuildCommand(2, 1, start, 1, 0)
	staffIssued := BuildCommand(2, 1, start, 1, 9)

	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), selfIssued.EndDate())
	assert.Equal(t, librarystore.UserIDInt64(2), selfIssued.librarianID())
	assert.Equal(t, librarystore.UserIDInt64(9), staffIssued.librarianID())
}
