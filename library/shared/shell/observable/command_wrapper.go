package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
)

// CommandWrapper instruments any core command handler with metrics, tracing and logging.
type CommandWrapper[C shell.Command, T any] struct {
	coreHandler      shell.CoreCommandHandler[C, T]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command, T any](
	coreHandler shell.CoreCommandHandler[C, T],
	opts ...CommandOption[C, T],
) (*CommandWrapper[C, T], error) {

	var zeroCommand C

	wrapper := &CommandWrapper[C, T]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the core handler and records the outcome.
func (w *CommandWrapper[C, T]) Handle(ctx context.Context, command C) (shell.HandlerResult[T], error) {
	start := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(start)

	status := shell.ClassifyStatus(err)
	if err == nil && result.Idempotent {
		status = shell.StatusIdempotent
	}

	var failureKind string
	if status == shell.StatusRejected {
		failureKind = string(core.KindOf(err))
	}

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, failureKind, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)
	shell.LogCommandOutcome(ctx, w.logger, w.contextualLogger, w.commandType, status, duration, err)

	return result, err
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command, T any] func(*CommandWrapper[C, T]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command, T any](collector shell.MetricsCollector) CommandOption[C, T] {
	return func(w *CommandWrapper[C, T]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command, T any](collector shell.TracingCollector) CommandOption[C, T] {
	return func(w *CommandWrapper[C, T]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command, T any](logger shell.ContextualLogger) CommandOption[C, T] {
	return func(w *CommandWrapper[C, T]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command, T any](logger shell.Logger) CommandOption[C, T] {
	return func(w *CommandWrapper[C, T]) error {
		w.logger = logger
		return nil
	}
}
