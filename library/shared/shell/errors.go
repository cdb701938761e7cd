package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Classify converts an error returned by the store into a core.Failure.
// Failures pass through unchanged, unknown errors become internal failures.
// The original error stays in the chain, so errors.Is keeps working on the result.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := core.AsFailure(err); ok {
		return err
	}

	switch {
	case errors.Is(err, librarystore.ErrBookNotFound):
		return core.Failure{Kind: core.KindNotFound, Message: "book not found", Cause: err}
	case errors.Is(err, librarystore.ErrLoanNotFound):
		return core.Failure{Kind: core.KindNotFound, Message: "loan not found", Cause: err}
	case errors.Is(err, librarystore.ErrUserNotFound):
		return core.Failure{Kind: core.KindNotFound, Message: "user not found", Cause: err}
	case errors.Is(err, librarystore.ErrNotEnoughCopies):
		return core.Failure{Kind: core.KindValidation, Message: "not enough copies", Cause: err}
	case errors.Is(err, librarystore.ErrUnknownLoanStatus):
		return core.Failure{Kind: core.KindValidation, Message: err.Error(), Cause: err}
	case errors.Is(err, ErrUnsupportedContentType), errors.Is(err, ErrUploadTooLarge):
		return core.Failure{Kind: core.KindValidation, Message: err.Error(), Cause: err}
	case errors.Is(err, librarystore.ErrConcurrencyConflict):
		return core.Failure{Kind: core.KindConflict, Message: "loan was changed concurrently", Cause: err}
	default:
		return core.InternalFailure("internal error", err)
	}
}

// IsCancellationError checks if the error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if the error is due to an exceeded deadline.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if a guarded update lost against a concurrent writer.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, librarystore.ErrConcurrencyConflict)
}

// IsBusinessFailure reports whether err is an expected outcome of the business rules
// rather than an infrastructure fault.
func IsBusinessFailure(err error) bool {
	failure, ok := core.AsFailure(err)

	return ok && failure.Kind != core.KindInternal
}
