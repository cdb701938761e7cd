package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgInsertIDFailed      = "failed to get inserted id"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackTxFailed    = "failed to roll back transaction"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "librarystore operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrDurationMS         = "duration_ms"
	logAttrRowCount           = "row_count"
	logAttrStatus             = "status"

	metricOperationDuration    = "librarystore_operation_duration_seconds"
	metricRowsProcessed        = "librarystore_rows_processed"
	metricDatabaseErrors       = "librarystore_database_errors_total"
	metricConcurrencyConflicts = "librarystore_concurrency_conflicts_total"

	spanNamePrefix       = "librarystore."
	spanAttrOperation    = "operation"
	spanAttrDialect      = "db.system"
	spanAttrRowCount     = "row_count"
	spanAttrDurationMS   = "duration_ms"
	spanAttrErrorType    = "error_type"
	metricLabelStatus    = "status"
	metricLabelConflict  = "conflict_type"
	conflictTypeGuarded  = "guarded_update"
	statusSuccess        = "success"
	statusError          = "error"
	statusNotFound       = "not_found"
	statusRejected       = "rejected"
	statusConflict       = "conflict"
	errorTypeBuildQuery  = "build_query"
	errorTypeQuery       = "database_query"
	errorTypeScan        = "row_scan"
	errorTypeExec        = "database_exec"
	errorTypeRows        = "rows_affected"
	errorTypeInsertID    = "insert_id"
	errorTypeTransaction = "transaction"
	errorTypeMigration   = "migration"
	errorTypeCanceled    = "canceled"

	operationMigrate         = "migrate"
	operationEnsureRights    = "ensure_rights"
	operationInsertUser      = "insert_user"
	operationUserByEmail     = "user_by_email"
	operationUserByID        = "user_by_id"
	operationRightsOf        = "rights_of"
	operationAssignRight     = "assign_right"
	operationInsertBook      = "insert_book"
	operationBookByID        = "book_by_id"
	operationUpdateBook      = "update_book"
	operationBooks           = "books"
	operationBooksOwnedBy    = "books_owned_by"
	operationLoans           = "loans"
	operationLoanByID        = "loan_by_id"
	operationAdjustQuantity  = "adjust_book_quantity"
	operationCountLoans      = "count_loans_for_book"
	operationWithinTx        = "transaction"
	operationInsertLoan      = "insert_loan"
	operationChangeLoan      = "change_loan_status"
	operationDeleteLoan      = "delete_loan"
	operationDeleteBook      = "delete_book"
	operationBookForUpdate   = "book_for_update"
	operationLoanForUpdate   = "loan_for_update"
	operationSyncBookStatus  = "sync_book_status"
	operationRightIDByCode   = "right_id_by_code"
	operationRightsPresent   = "rights_present"
	operationCreateSchemaObj = "create_schema_object"
)

// classifyError maps an operation error to a metrics status and an error type.
// Errors that are not store sentinels come from the caller's TxFunc and count as rejections.
func classifyError(err error) (status string, errorType string) {
	switch {
	case errors.Is(err, librarystore.ErrBookNotFound),
		errors.Is(err, librarystore.ErrLoanNotFound),
		errors.Is(err, librarystore.ErrUserNotFound):
		return statusNotFound, statusNotFound

	case errors.Is(err, librarystore.ErrConcurrencyConflict):
		return statusConflict, statusConflict

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusError, errorTypeCanceled

	case errors.Is(err, librarystore.ErrBuildingQueryFailed):
		return statusError, errorTypeBuildQuery

	case errors.Is(err, librarystore.ErrScanningDBRowFailed):
		return statusError, errorTypeScan

	case errors.Is(err, librarystore.ErrQueryingFailed):
		return statusError, errorTypeQuery

	case errors.Is(err, librarystore.ErrExecutingFailed):
		return statusError, errorTypeExec

	case errors.Is(err, librarystore.ErrGettingRowsAffectedFailed):
		return statusError, errorTypeRows

	case errors.Is(err, librarystore.ErrGettingInsertIDFailed):
		return statusError, errorTypeInsertID

	case errors.Is(err, librarystore.ErrTransactionFailed):
		return statusError, errorTypeTransaction

	case errors.Is(err, librarystore.ErrMigrationFailed):
		return statusError, errorTypeMigration

	default:
		return statusRejected, statusRejected
	}
}

// observe runs fn as one named store operation, wrapped in a span, metrics and an operation log line.
// fn returns the number of rows it read or wrote.
func (s Store) observe(ctx context.Context, operation string, fn func(ctx context.Context) (int, error)) error {
	tracing, ctx := s.startOperationTracing(ctx, operation)
	metrics := s.startOperationMetrics(ctx, operation)

	start := time.Now()
	rowCount, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		status, errorType := classifyError(err)
		metrics.recordError(status, errorType, duration)
		tracing.finishError(status, errorType, duration)

		// the statement inside the transaction already counted the conflict
		if status == statusConflict && operation != operationWithinTx {
			metrics.recordConcurrencyConflict()
			s.logOperationContext(ctx, logMsgConcurrencyConflict, spanAttrOperation, operation)
		}

		return err
	}

	metrics.recordSuccess(rowCount, duration)
	tracing.finishSuccess(rowCount, duration)
	s.logOperationContext(
		ctx,
		operation,
		logAttrRowCount, rowCount,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	return nil
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// === Tracing Observer Pattern ===

// operationTracingObserver encapsulates the span lifecycle of one store operation.
type operationTracingObserver struct {
	s    Store
	span librarystore.SpanContext
}

// startOperationTracing starts a span if the tracing collector is configured.
func (s Store) startOperationTracing(ctx context.Context, operation string) (*operationTracingObserver, context.Context) {
	if s.tracingCollector == nil {
		return &operationTracingObserver{s: s}, ctx
	}

	newCtx, span := s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   s.dialect,
	})

	return &operationTracingObserver{s: s, span: span}, newCtx
}

// finishSuccess completes the span for a successful operation.
func (oto *operationTracingObserver) finishSuccess(rowCount int, duration time.Duration) {
	if oto.span == nil {
		return
	}

	oto.span.AddAttribute(spanAttrDurationMS, oto.formatDuration(duration))
	oto.s.tracingCollector.FinishSpan(oto.span, statusSuccess, map[string]string{
		spanAttrRowCount: strconv.Itoa(rowCount),
	})
}

// finishError completes the span with error details.
func (oto *operationTracingObserver) finishError(status, errorType string, duration time.Duration) {
	if oto.span == nil {
		return
	}

	oto.span.AddAttribute(spanAttrErrorType, errorType)
	oto.span.AddAttribute(spanAttrDurationMS, oto.formatDuration(duration))
	oto.s.tracingCollector.FinishSpan(oto.span, status, map[string]string{spanAttrErrorType: errorType})
}

func (oto *operationTracingObserver) formatDuration(duration time.Duration) string {
	return fmt.Sprintf("%.2f", oto.s.toMilliseconds(duration))
}

// === Metrics Observer Pattern ===

// operationMetricsObserver encapsulates the metrics collection for one store operation.
type operationMetricsObserver struct {
	s         Store
	ctx       context.Context
	operation string
}

// startOperationMetrics creates a new metrics observer.
func (s Store) startOperationMetrics(ctx context.Context, operation string) *operationMetricsObserver {
	return &operationMetricsObserver{s: s, ctx: ctx, operation: operation}
}

// recordSuccess records all metrics for a successful operation.
func (omo *operationMetricsObserver) recordSuccess(rowCount int, duration time.Duration) {
	omo.s.recordDurationMetricsContext(omo.ctx, metricOperationDuration, duration, omo.operation, statusSuccess)
	omo.s.recordValueMetricsContext(omo.ctx, metricRowsProcessed, float64(rowCount), omo.operation, statusSuccess)
}

// recordError records all metrics for a failed operation.
// Only infrastructure failures count as database errors.
func (omo *operationMetricsObserver) recordError(status, errorType string, duration time.Duration) {
	omo.s.recordDurationMetricsContext(omo.ctx, metricOperationDuration, duration, omo.operation, status)

	if status == statusError {
		omo.s.recordErrorMetricsContext(omo.ctx, omo.operation, errorType)
	}
}

// recordConcurrencyConflict records a guarded update that matched no row.
func (omo *operationMetricsObserver) recordConcurrencyConflict() {
	if omo.s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation:   omo.operation,
		metricLabelConflict: conflictTypeGuarded,
	}

	if contextualCollector, ok := omo.s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(omo.ctx, metricConcurrencyConflicts, labels)
		return
	}

	omo.s.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (s Store) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		metricLabelStatus: statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (s Store) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		metricLabelStatus: status,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (s Store) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		metricLabelStatus: status,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metricName, value, labels)
}

// === Logging ===
// Every message goes to the plain logger and, with trace correlation, to the contextual logger.

// logQueryWithDurationContext logs SQL statements with execution time at debug level.
func (s Store) logQueryWithDurationContext(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	args := []any{logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperationContext logs operational information at info level.
func (s Store) logOperationContext(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarnContext logs non-critical issues at warn level.
func (s Store) logWarnContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.logger != nil {
		s.logger.Warn(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logErrorContext logs error information at error level.
func (s Store) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}
