package core_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
)

func Test_FailureKind_HTTPStatus(t *testing.T) {
	testCases := []struct {
		kind     core.FailureKind
		expected int
	}{
		{kind: core.KindValidation, expected: http.StatusBadRequest},
		{kind: core.KindAuthorization, expected: http.StatusForbidden},
		{kind: core.KindNotFound, expected: http.StatusNotFound},
		{kind: core.KindConflict, expected: http.StatusBadRequest},
		{kind: core.KindInternal, expected: http.StatusInternalServerError},
		{kind: core.FailureKind("bogus"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.HTTPStatus())
		})
	}
}

func Test_Failure_Error_IncludesCauseOnlyForInternal(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Equal(t, "not enough copies", core.ValidationFailure("not enough copies").Error())
	assert.Equal(t, "querying books failed: connection refused", core.InternalFailure("querying books failed", cause).Error())
}

func Test_Failure_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrapped: %w", core.InternalFailure("querying books failed", cause))

	assert.ErrorIs(t, err, cause)
}

func Test_KindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", core.AuthorizationFailure("not a librarian"))

	assert.Equal(t, core.KindAuthorization, core.KindOf(wrapped))
	assert.Equal(t, core.KindNotFound, core.KindOf(core.NotFoundFailure("book not found")))
	assert.Equal(t, core.KindConflict, core.KindOf(core.ConflictFailure("book has loans")))
	assert.Equal(t, core.KindInternal, core.KindOf(errors.New("boom")))

	_, ok := core.AsFailure(errors.New("boom"))
	assert.False(t, ok)
}
