package helper

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

// FixedClock returns a clock function that always returns the given time in UTC.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t.UTC() }
}

// OpenSQLiteDB opens a private in-memory sqlite database with foreign keys and immediate transactions.
// All statements share one connection, so the database lives as long as the returned sql.DB.
func OpenSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_foreign_keys=1&_txlock=immediate&_busy_timeout=5000",
		uuid.NewString(),
	)

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "error in arranging test data")

	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// NewSQLiteStore creates a migrated store on a fresh in-memory sqlite database.
func NewSQLiteStore(t testing.TB, options ...sqlengine.Option) sqlengine.Store {
	t.Helper()

	allOptions := append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)

	store, err := sqlengine.NewStoreFromSQLDB(OpenSQLiteDB(t), allOptions...)
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, store.Migrate(context.Background()), "error in arranging test data")

	return store
}

// GivenUser stores a user holding the given rights.
func GivenUser(t testing.TB, store sqlengine.Store, name string, rights ...librarystore.RightCode) librarystore.User {
	t.Helper()

	ctx := context.Background()

	user, err := store.InsertUser(ctx, librarystore.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@library.test", name, uuid.NewString()[:8]),
		PasswordHash: "$2a$10$fixturehashfixturehashfixturehashfixturehashfixtureha",
		Phone:        "555-0100",
	})
	require.NoError(t, err, "error in arranging test data")

	for _, right := range rights {
		require.NoError(t, store.AssignRight(ctx, user.ID, right), "error in arranging test data")
	}

	return user
}

// GivenLibrarian stores a user holding the librarian right.
func GivenLibrarian(t testing.TB, store sqlengine.Store) librarystore.User {
	t.Helper()

	return GivenUser(t, store, "librarian", librarystore.RightLibrarian)
}

// GivenStudent stores a user holding the student right.
func GivenStudent(t testing.TB, store sqlengine.Store) librarystore.User {
	t.Helper()

	return GivenUser(t, store, "student", librarystore.RightStudent)
}

// GivenAdmin stores a user holding the admin right.
func GivenAdmin(t testing.TB, store sqlengine.Store) librarystore.User {
	t.Helper()

	return GivenUser(t, store, "admin", librarystore.RightAdmin)
}

// FixtureBook returns an unsaved book owned by librarianID.
func FixtureBook(librarianID librarystore.UserIDInt64, quantity int) librarystore.Book {
	photo := "uploads/books/fixture.png"

	return librarystore.Book{
		Title:         "Learning Domain-Driven Design",
		Author:        "Vlad Khononov",
		Description:   "Aligning software architecture and business strategy",
		Language:      "en",
		Photo:         &photo,
		Quantity:      quantity,
		LibrarianID:   librarianID,
		Publisher:     "O'Reilly Media, Inc.",
		NumberOfPages: 340,
	}
}

// GivenBook stores a book with the given quantity owned by librarianID.
func GivenBook(t testing.TB, store sqlengine.Store, librarianID librarystore.UserIDInt64, quantity int) librarystore.Book {
	t.Helper()

	book, err := store.InsertBook(context.Background(), FixtureBook(librarianID, quantity))
	require.NoError(t, err, "error in arranging test data")

	return book
}

// GivenLoan lends quantity copies of a book to a student inside a transaction, the way lending does.
func GivenLoan(
	t testing.TB,
	store sqlengine.Store,
	bookID librarystore.BookIDInt64,
	studentID librarystore.UserIDInt64,
	quantity int,
	status librarystore.LoanStatus,
) librarystore.Loan {

	t.Helper()

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	var loan librarystore.Loan
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx librarystore.Tx) error {
		if !status.IsReturned() {
			if err := tx.AdjustBookQuantity(ctx, bookID, -quantity); err != nil {
				return err
			}
		}

		var err error
		loan, err = tx.InsertLoan(ctx, librarystore.Loan{
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, 7),
			Quantity:    quantity,
			Status:      status,
			BookID:      bookID,
			StudentID:   studentID,
			LibrarianID: studentID,
		})

		return err
	})
	require.NoError(t, err, "error in arranging test data")

	return loan
}

// BookQuantity reads the current quantity of a book.
func BookQuantity(t testing.TB, store sqlengine.Store, bookID librarystore.BookIDInt64) int {
	t.Helper()

	book, err := store.BookByID(context.Background(), bookID)
	require.NoError(t, err, "error in asserting test results")

	return book.Quantity
}
