package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite3"
)

const (
	tableUsers      = "users"
	tableRights     = "rights"
	tableUserRights = "user_rights"
	tableBooks      = "books"
	tableLoans      = "loans"

	colID            = "id"
	colName          = "name"
	colEmail         = "email"
	colPasswordHash  = "password_hash"
	colPhone         = "phone"
	colPhoto         = "photo"
	colRightCode     = "right_code"
	colUserID        = "user_id"
	colRightID       = "right_id"
	colTitle         = "title"
	colAuthor        = "author"
	colDescription   = "description"
	colLanguage      = "language"
	colQuantity      = "quantity"
	colStatus        = "status"
	colLibrarianID   = "librarian_id"
	colPublisher     = "publisher"
	colNumberOfPages = "number_of_pages"
	colStartDate     = "start_date"
	colEndDate       = "end_date"
	colBookID        = "book_id"
	colStudentID     = "student_id"
	colCreatedAt     = "created_at"
	colUpdatedAt     = "updated_at"
	aliasCount       = "cnt"
)

type (
	sqlQueryString = string
	rowsAffected   = int64
)

// sqlStatement is implemented by all goqu datasets.
type sqlStatement interface {
	ToSQL() (string, []any, error)
}

// Store is the relational library store.
// It is safe for concurrent use, all state lives in the database.
type Store struct {
	db               adapters.DBAdapter
	dialect          string
	logger           librarystore.Logger
	metricsCollector librarystore.MetricsCollector
	tracingCollector librarystore.TracingCollector
	contextualLogger librarystore.ContextualLogger
	clock            func() time.Time
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromPGXPoolAndReplica creates a new Store using a primary pgx Pool and a replica pool for
// reads that allow eventual consistency.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	if replica == nil {
		return newStore(adapters.NewPGXAdapter(db), options...)
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLDBAndReplica creates a new Store using a primary sql.DB and a replica sql.DB for
// reads that allow eventual consistency.
func NewStoreFromSQLDBAndReplica(db *sql.DB, replica *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	if replica == nil {
		return newStore(adapters.NewSQLAdapter(db), options...)
	}

	return newStore(adapters.NewSQLAdapterWithReplica(db, replica), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, librarystore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:      db,
		dialect: DialectPostgres,
		clock:   func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Dialect returns the SQL dialect the Store builds statements for.
func (s Store) Dialect() string {
	return s.dialect
}

func (s Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(s.dialect)
}

func (s Store) supportsRowLocks() bool {
	return s.dialect != DialectSQLite
}

func (s Store) now() time.Time {
	return s.clock()
}

// toSQL renders a goqu statement with placeholders.
func (s Store) toSQL(ctx context.Context, stmt sqlStatement) (sqlQueryString, []any, error) {
	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logErrorContext(ctx, logMsgBuildQueryFailed, toSQLErr)
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// query executes a select statement on q, which is either the pooled connection or an open transaction.
func (s Store) query(ctx context.Context, q adapters.Querier, action string, stmt sqlStatement) (adapters.DBRows, error) {
	sqlQuery, args, buildErr := s.toSQL(ctx, stmt)
	if buildErr != nil {
		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := q.Query(ctx, sqlQuery, args...)
	s.logQueryWithDurationContext(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(librarystore.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// exec executes a modifying statement on q and returns the number of affected rows.
func (s Store) exec(ctx context.Context, q adapters.Querier, action string, stmt sqlStatement) (adapters.DBResult, rowsAffected, error) {
	sqlQuery, args, buildErr := s.toSQL(ctx, stmt)
	if buildErr != nil {
		return nil, 0, buildErr
	}

	return s.execRaw(ctx, q, action, sqlQuery, args...)
}

func (s Store) execRaw(
	ctx context.Context,
	q adapters.Querier,
	action string,
	sqlQuery sqlQueryString,
	args ...any,
) (adapters.DBResult, rowsAffected, error) {

	start := time.Now()
	result, execErr := q.Exec(ctx, sqlQuery, args...)
	s.logQueryWithDurationContext(ctx, sqlQuery, action, time.Since(start))

	if execErr != nil {
		s.logErrorContext(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return nil, 0, errors.Join(librarystore.ErrExecutingFailed, execErr)
	}

	affected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logErrorContext(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return nil, 0, errors.Join(librarystore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return result, affected, nil
}

// insertReturningID inserts one row and returns its generated id.
// Postgres reports the id via RETURNING, mysql and sqlite via the driver's last insert id.
func (s Store) insertReturningID(
	ctx context.Context,
	q adapters.Querier,
	action string,
	insert *goqu.InsertDataset,
) (int64, error) {

	if s.dialect == DialectPostgres {
		rows, queryErr := s.query(ctx, q, action, insert.Returning(colID))
		if queryErr != nil {
			return 0, queryErr
		}
		defer s.closeRows(ctx, rows)

		var id int64
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, errors.Join(librarystore.ErrQueryingFailed, err)
			}

			return 0, librarystore.ErrGettingInsertIDFailed
		}

		if scanErr := rows.Scan(&id); scanErr != nil {
			s.logErrorContext(ctx, logMsgScanRowFailed, scanErr)
			return 0, errors.Join(librarystore.ErrScanningDBRowFailed, scanErr)
		}

		return id, nil
	}

	result, _, execErr := s.exec(ctx, q, action, insert)
	if execErr != nil {
		return 0, execErr
	}

	id, idErr := result.LastInsertId()
	if idErr != nil {
		s.logErrorContext(ctx, logMsgInsertIDFailed, idErr)
		return 0, errors.Join(librarystore.ErrGettingInsertIDFailed, idErr)
	}

	return id, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarnContext(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// scanAll iterates rows, calling scanOne for each, and wraps scan and iteration errors.
func (s Store) scanAll(ctx context.Context, rows adapters.DBRows, scanOne func(adapters.DBRows) error) error {
	defer s.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scanOne(rows); scanErr != nil {
			s.logErrorContext(ctx, logMsgScanRowFailed, scanErr)
			return errors.Join(librarystore.ErrScanningDBRowFailed, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		s.logErrorContext(ctx, logMsgDBQueryFailed, iterErr)
		return errors.Join(librarystore.ErrQueryingFailed, iterErr)
	}

	return nil
}
