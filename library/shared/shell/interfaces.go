package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the workflow: authorize -> load -> Decide -> apply, inside one transaction where
// inventory is touched. Observability is added from the outside by observable.CommandWrapper.
type CoreCommandHandler[C Command, T any] interface {
	Handle(ctx context.Context, command C) (HandlerResult[T], error)
}

// CoreQueryHandler defines the contract for components that build read projections.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// RightsDirectory resolves the capability set of a user.
// An unknown user has no rights.
type RightsDirectory interface {
	RightsOf(ctx context.Context, userID librarystore.UserIDInt64) (librarystore.Rights, error)
}
