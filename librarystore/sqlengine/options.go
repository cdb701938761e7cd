package sqlengine

import (
	"time"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithDialect sets the SQL dialect used to build statements: "postgres", "mysql" or "sqlite3".
func WithDialect(dialect string) Option {
	return func(s *Store) error {
		switch dialect {
		case DialectPostgres, DialectMySQL, DialectSQLite:
			s.dialect = dialect
			return nil

		default:
			return librarystore.ErrUnsupportedDialect
		}
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Operation results with durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger librarystore.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// The collector will receive operation durations, row counts, concurrency conflicts, and database errors.
func WithMetrics(collector librarystore.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// The collector will receive one span per store operation, including transactions.
func WithTracing(collector librarystore.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// The contextual logger receives the same messages as the Logger, but with the operation context,
// which enables trace/span correlation when tracing is enabled.
func WithContextualLogger(logger librarystore.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithClock replaces the time source for created_at and updated_at columns.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) error {
		if clock != nil {
			s.clock = clock
		}

		return nil
	}
}
