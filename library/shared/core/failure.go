package core

import (
	"errors"
	"net/http"
)

// FailureKind classifies why an operation did not succeed.
type FailureKind string

const (
	// KindValidation marks missing or invalid input.
	KindValidation FailureKind = "validation"
	// KindAuthorization marks a requester lacking the required right.
	KindAuthorization FailureKind = "authorization"
	// KindNotFound marks a missing entity or an empty listing.
	KindNotFound FailureKind = "not_found"
	// KindConflict marks an operation blocked by existing state, like deleting a book that has loans.
	KindConflict FailureKind = "conflict"
	// KindInternal marks an unexpected infrastructure fault.
	KindInternal FailureKind = "internal"
)

// HTTPStatus maps the kind to the status code of the response envelope.
// Conflicts are reported as 400, matching the behavior clients already depend on.
func (k FailureKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Failure is the error type every command and query reports to its caller.
type Failure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (f Failure) Error() string {
	if f.Cause != nil && f.Kind == KindInternal {
		return f.Message + ": " + f.Cause.Error()
	}

	return f.Message
}

func (f Failure) Unwrap() error {
	return f.Cause
}

// ValidationFailure reports missing or invalid input.
func ValidationFailure(message string) Failure {
	return Failure{Kind: KindValidation, Message: message}
}

// AuthorizationFailure reports a requester that lacks the required right.
func AuthorizationFailure(message string) Failure {
	return Failure{Kind: KindAuthorization, Message: message}
}

// NotFoundFailure reports a missing entity or an empty result set.
func NotFoundFailure(message string) Failure {
	return Failure{Kind: KindNotFound, Message: message}
}

// ConflictFailure reports an operation blocked by existing state.
func ConflictFailure(message string) Failure {
	return Failure{Kind: KindConflict, Message: message}
}

// InternalFailure wraps an unexpected error.
func InternalFailure(message string, cause error) Failure {
	return Failure{Kind: KindInternal, Message: message, Cause: cause}
}

// AsFailure extracts the Failure from err's chain.
func AsFailure(err error) (Failure, bool) {
	var failure Failure
	if errors.As(err, &failure) {
		return failure, true
	}

	return Failure{}, false
}

// KindOf returns the kind of the Failure in err's chain, KindInternal for any other error.
func KindOf(err error) FailureKind {
	if failure, ok := AsFailure(err); ok {
		return failure.Kind
	}

	return KindInternal
}
