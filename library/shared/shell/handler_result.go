package shell

// HandlerResult represents the outcome of a command handler execution.
type HandlerResult[T any] struct {
	// Value is the entity the command produced or changed. Zero for commands without a result and on errors.
	Value T

	// Idempotent indicates that the command asked for a state the system was already in,
	// so nothing was written. This is a first-class business outcome, not an error condition.
	Idempotent bool
}

// NewSuccessResult creates a HandlerResult for operations that changed state.
func NewSuccessResult[T any](value T) HandlerResult[T] {
	return HandlerResult[T]{Value: value}
}

// NewIdempotentResult creates a HandlerResult for operations that did not need to change anything.
func NewIdempotentResult[T any](value T) HandlerResult[T] {
	return HandlerResult[T]{Value: value, Idempotent: true}
}

// NewErrorResult creates a HandlerResult for failed operations.
func NewErrorResult[T any]() HandlerResult[T] {
	return HandlerResult[T]{}
}
