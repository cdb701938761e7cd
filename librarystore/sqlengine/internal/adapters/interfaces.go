package adapters

import (
	"context"
	"errors"
	"time"
)

// ErrLastInsertIDUnsupported is returned by drivers that can only report generated ids via RETURNING.
var ErrLastInsertIDUnsupported = errors.New("last insert id is not supported by this driver")

// DefaultTxTimeout bounds how long a transaction may hold row locks.
const DefaultTxTimeout = 30 * time.Second

// Querier defines the statement operations shared by connections and transactions.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the store.
type DBAdapter interface {
	Querier
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx is an open transaction. Exactly one of Commit or Rollback must be called.
type DBTx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
