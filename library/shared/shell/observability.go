package shell

import (
	"context"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"
	// CommandHandlerIdempotentMetric tracks commands that did not need to change anything.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"
	// CommandHandlerRejectedMetric tracks commands refused by a business rule, by failure kind.
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"
	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryRejected    = "query handler rejected"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrFailureKind     = "failure_kind"
	LogAttrError           = "error"

	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// Interface aliases, so feature slices and wrappers do not need to import librarystore for them.

type MetricsCollector = librarystore.MetricsCollector

type ContextualMetricsCollector = librarystore.ContextualMetricsCollector

type TracingCollector = librarystore.TracingCollector

type SpanContext = librarystore.SpanContext

type ContextualLogger = librarystore.ContextualLogger

type Logger = librarystore.Logger

// handlerFamily bundles the names that differ between command and query instrumentation.
type handlerFamily struct {
	typeAttr       string
	durationMetric string
	callsMetric    string
	spanName       string
	msgStarted     string
	msgCompleted   string
	msgRejected    string
	msgFailed      string
}

var commandFamily = handlerFamily{
	typeAttr:       LogAttrCommandType,
	durationMetric: CommandHandlerDurationMetric,
	callsMetric:    CommandHandlerCallsMetric,
	spanName:       SpanNameCommandHandle,
	msgStarted:     LogMsgCommandStarted,
	msgCompleted:   LogMsgCommandCompleted,
	msgRejected:    LogMsgCommandRejected,
	msgFailed:      LogMsgCommandFailed,
}

var queryFamily = handlerFamily{
	typeAttr:       LogAttrQueryType,
	durationMetric: QueryHandlerDurationMetric,
	callsMetric:    QueryHandlerCallsMetric,
	spanName:       SpanNameQueryHandle,
	msgStarted:     LogMsgQueryStarted,
	msgCompleted:   LogMsgQueryCompleted,
	msgRejected:    LogMsgQueryRejected,
	msgFailed:      LogMsgQueryFailed,
}

// ClassifyStatus maps a handler error onto the status label used by metrics, spans and logs.
func ClassifyStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case IsBusinessFailure(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of a command, plus the idempotent or
// rejected counter when the outcome calls for it. failureKind is only used for rejections.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	failureKind string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, commandFamily.durationMetric, duration, labels)
	incrementCounter(ctx, collector, commandFamily.callsMetric, labels)

	switch status {
	case StatusIdempotent:
		incrementCounter(ctx, collector, CommandHandlerIdempotentMetric, labels)
	case StatusRejected:
		rejectedLabels := BuildCommandLabels(commandType, status)
		rejectedLabels[LogAttrFailureKind] = failureKind
		incrementCounter(ctx, collector, CommandHandlerRejectedMetric, rejectedLabels)
	}
}

// RecordQueryMetrics records duration and call count of a query.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, queryFamily.durationMetric, duration, labels)
	incrementCounter(ctx, collector, queryFamily.callsMetric, labels)
}

func recordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan starts a tracing span for a command.
// Returns the original context and a nil span if tracing is disabled.
func StartCommandSpan(ctx context.Context, collector TracingCollector, commandType string) (context.Context, SpanContext) {
	return startSpan(ctx, collector, commandFamily, commandType)
}

// StartQuerySpan starts a tracing span for a query.
func StartQuerySpan(ctx context.Context, collector TracingCollector, queryType string) (context.Context, SpanContext) {
	return startSpan(ctx, collector, queryFamily, queryType)
}

func startSpan(
	ctx context.Context,
	collector TracingCollector,
	family handlerFamily,
	handlerType string,
) (context.Context, SpanContext) {

	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, family.spanName, map[string]string{family.typeAttr: handlerType})
}

// FinishSpan completes a handler span with the outcome.
func FinishSpan(collector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: strconv.FormatFloat(ToMilliseconds(duration), 'f', 2, 64),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	collector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	logStart(ctx, logger, contextualLogger, commandFamily, commandType)
}

// LogQueryStart logs the beginning of query processing.
func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string) {
	logStart(ctx, logger, contextualLogger, queryFamily, queryType)
}

// LogCommandOutcome logs how a command ended: completed, rejected by a business rule, or failed.
func LogCommandOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	status string,
	duration time.Duration,
	err error,
) {
	logOutcome(ctx, logger, contextualLogger, commandFamily, commandType, status, duration, err)
}

// LogQueryOutcome logs how a query ended.
func LogQueryOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	status string,
	duration time.Duration,
	err error,
) {
	logOutcome(ctx, logger, contextualLogger, queryFamily, queryType, status, duration, err)
}

func logStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	family handlerFamily,
	handlerType string,
) {

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, family.msgStarted, family.typeAttr, handlerType)
	} else if logger != nil {
		logger.Info(family.msgStarted, family.typeAttr, handlerType)
	}
}

func logOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	family handlerFamily,
	handlerType string,
	status string,
	duration time.Duration,
	err error,
) {

	args := []any{
		family.typeAttr, handlerType,
		LogAttrBusinessOutcome, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch {
	case err == nil:
		if contextualLogger != nil {
			contextualLogger.InfoContext(ctx, family.msgCompleted, args...)
		} else if logger != nil {
			logger.Info(family.msgCompleted, args...)
		}

	case status == StatusRejected:
		args = append(args, LogAttrError, err.Error())
		if contextualLogger != nil {
			contextualLogger.WarnContext(ctx, family.msgRejected, args...)
		} else if logger != nil {
			logger.Warn(family.msgRejected, args...)
		}

	default:
		args = append(args, LogAttrError, err.Error())
		if contextualLogger != nil {
			contextualLogger.ErrorContext(ctx, family.msgFailed, args...)
		} else if logger != nil {
			logger.Error(family.msgFailed, args...)
		}
	}
}
