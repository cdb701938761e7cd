package sqlengine_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

func Test_Observability_Store_WithLogger_LogsStatementsAndOperations(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := NewLogHandlerSpy(false)
	store := NewSQLiteStore(t, sqlengine.WithLogger(slog.New(logHandler)))

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 1)

	// act
	_, err := store.BookByID(ctx, book.ID)

	// assert
	require.NoError(t, err)
	assert.True(t,
		logHandler.HasDebugLogWithMessage("executed sql for: book_by_id").
			WithDurationMS().
			WithAttributeKey("query").
			Assert(), "should log the sql statement with its duration",
	)
	assert.True(t,
		logHandler.HasInfoLogWithMessage("librarystore operation: book_by_id").
			WithDurationMS().
			WithAttribute("row_count", "1").
			Assert(), "should log the operation with duration and row count",
	)
}

func Test_Observability_Store_WithContextualLogger_LogsWithContext(t *testing.T) {
	// setup
	ctx := context.Background()
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)
	store := NewSQLiteStore(t, sqlengine.WithContextualLogger(contextualLogger))

	// act
	_, err := store.Books(ctx)

	// assert
	require.NoError(t, err)
	assert.True(t, contextualLogger.HasLog("debug", "executed sql for: books"))
	assert.True(t, contextualLogger.HasLog("info", "librarystore operation: books"))
}

func Test_Observability_Store_WithMetrics_RecordsOperationMetrics(t *testing.T) {
	// setup
	ctx := context.Background()
	metrics := NewMetricsCollectorSpy(true)
	store := NewSQLiteStore(t, sqlengine.WithMetrics(metrics))

	// arrange
	librarian := GivenLibrarian(t, store)
	GivenBook(t, store, librarian.ID, 1)
	GivenBook(t, store, librarian.ID, 1)
	metrics.Reset()

	// act
	_, err := store.Books(ctx)

	// assert
	require.NoError(t, err)
	assert.True(t,
		metrics.HasDurationRecordForMetric("librarystore_operation_duration_seconds").
			WithOperation("books").
			WithStatus("success").
			Assert(),
	)
	assert.True(t,
		metrics.HasValueRecordForMetric("librarystore_rows_processed").
			WithOperation("books").
			Assert(),
	)
	assert.Empty(t, metrics.GetCounterRecords(), "a successful query records no error counters")
}

func Test_Observability_Store_WithMetrics_NotFoundIsNoDatabaseError(t *testing.T) {
	// setup
	ctx := context.Background()
	metrics := NewMetricsCollectorSpy(true)
	store := NewSQLiteStore(t, sqlengine.WithMetrics(metrics))

	// act
	_, err := store.BookByID(ctx, 4711)

	// assert
	assert.ErrorIs(t, err, librarystore.ErrBookNotFound)
	assert.True(t,
		metrics.HasDurationRecordForMetric("librarystore_operation_duration_seconds").
			WithOperation("book_by_id").
			WithStatus("not_found").
			Assert(),
	)
	assert.False(t, metrics.HasCounterRecordForMetric("librarystore_database_errors_total").Assert())
}

func Test_Observability_Store_WithMetrics_RecordsDatabaseErrors(t *testing.T) {
	// setup
	ctx := context.Background()
	metrics := NewMetricsCollectorSpy(true)
	db := OpenSQLiteDB(t)
	store, err := sqlengine.NewStoreFromSQLDB(db, sqlengine.WithDialect(sqlengine.DialectSQLite), sqlengine.WithMetrics(metrics))
	require.NoError(t, err)

	// act
	_, err = store.Books(ctx) // no schema

	// assert
	assert.ErrorIs(t, err, librarystore.ErrQueryingFailed)
	assert.True(t,
		metrics.HasCounterRecordForMetric("librarystore_database_errors_total").
			WithOperation("books").
			WithErrorType("database_query").
			Assert(),
	)
}

func Test_Observability_Store_WithMetrics_RecordsConcurrencyConflicts(t *testing.T) {
	// setup
	ctx := context.Background()
	metrics := NewMetricsCollectorSpy(true)
	store := NewSQLiteStore(t, sqlengine.WithMetrics(metrics))

	// arrange
	librarian := GivenLibrarian(t, store)
	student := GivenStudent(t, store)
	book := GivenBook(t, store, librarian.ID, 2)
	loan := GivenLoan(t, store, book.ID, student.ID, 1, librarystore.LoanStatusActive)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		_, err := tx.ChangeLoanStatus(ctx, loan.ID, librarystore.LoanStatusPending, librarystore.LoanStatusReturned)
		return err
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrConcurrencyConflict)
	assert.True(t,
		metrics.HasCounterRecordForMetric("librarystore_concurrency_conflicts_total").
			WithOperation("change_loan_status").
			Assert(),
	)
}

func Test_Observability_Store_WithTracing_RecordsSpans(t *testing.T) {
	// setup
	ctx := context.Background()
	tracing := NewTracingCollectorSpy(true)
	store := NewSQLiteStore(t, sqlengine.WithTracing(tracing))

	// arrange
	librarian := GivenLibrarian(t, store)
	book := GivenBook(t, store, librarian.ID, 1)

	// act
	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		return tx.AdjustBookQuantity(ctx, book.ID, -2)
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrNotEnoughCopies)
	assert.True(t,
		tracing.HasSpanRecordForName("librarystore.adjust_book_quantity").
			WithStartAttribute("db.system", "sqlite3").
			WithStatus("rejected").
			Assert(),
	)
	assert.True(t,
		tracing.HasSpanRecordForName("librarystore.transaction").
			WithStatus("rejected").
			Assert(),
	)
	assert.True(t,
		tracing.HasSpanRecordForName("librarystore.insert_book").
			WithStatus("success").
			WithEndAttribute("row_count", "1").
			Assert(),
	)
}
