package librarystore

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingFailed = errors.New("querying database failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrExecutingFailed = errors.New("executing statement failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrGettingInsertIDFailed = errors.New("getting inserted id failed")
var ErrTransactionFailed = errors.New("database transaction failed")
var ErrMigrationFailed = errors.New("schema migration failed")

var ErrBookNotFound = errors.New("book not found")
var ErrLoanNotFound = errors.New("loan not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUnknownRight = errors.New("unknown right")
var ErrNotEnoughCopies = errors.New("not enough copies")
var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

// BookIDInt64 identifies a book row.
type BookIDInt64 = int64

// LoanIDInt64 identifies a loan row.
type LoanIDInt64 = int64

// UserIDInt64 identifies a user row.
type UserIDInt64 = int64
