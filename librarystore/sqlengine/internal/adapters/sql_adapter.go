package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db      *sql.DB
	replica *sql.DB // optional replica for read operations
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// NewSQLAdapterWithReplica creates a new SQL adapter with a primary and a replica database.
func NewSQLAdapterWithReplica(db *sql.DB, replica *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db, replica: replica}
}

// Query executes a query using the replica if the context allows eventual consistency, otherwise the primary.
func (s *SQLAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	db := s.db

	if s.replica != nil && librarystore.GetConsistencyLevel(ctx) == librarystore.EventualConsistency {
		db = s.replica
	}

	return stdQuery(ctx, db, query, args...)
}

// Exec executes a statement using the primary database.
func (s *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return stdExec(ctx, s.db, query, args...)
}

// BeginTx starts a transaction on the primary database.
func (s *SQLAdapter) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &stdTx{conn: tx, commit: tx.Commit, rollback: tx.Rollback}, nil
}
