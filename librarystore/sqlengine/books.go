package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

var bookColumns = []any{
	colID, colTitle, colAuthor, colDescription, colLanguage, colPhoto, colQuantity, colStatus,
	colLibrarianID, colPublisher, colNumberOfPages, colCreatedAt, colUpdatedAt,
}

func scanBook(rows adapters.DBRows) (librarystore.Book, error) {
	var book librarystore.Book

	err := rows.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Language,
		&book.Photo,
		&book.Quantity,
		&book.Status,
		&book.LibrarianID,
		&book.Publisher,
		&book.NumberOfPages,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	return book, err
}

// InsertBook stores a new book and returns it with its generated id, derived status and timestamps.
func (s Store) InsertBook(ctx context.Context, book librarystore.Book) (librarystore.Book, error) {
	err := s.observe(ctx, operationInsertBook, func(ctx context.Context) (int, error) {
		now := s.now()
		status := librarystore.StatusForQuantity(book.Quantity)
		book.Status = &status
		book.CreatedAt = now
		book.UpdatedAt = now

		insert := s.builder().
			Insert(tableBooks).
			Rows(goqu.Record{
				colTitle:         book.Title,
				colAuthor:        book.Author,
				colDescription:   book.Description,
				colLanguage:      book.Language,
				colPhoto:         book.Photo,
				colQuantity:      book.Quantity,
				colStatus:        status,
				colLibrarianID:   book.LibrarianID,
				colPublisher:     book.Publisher,
				colNumberOfPages: book.NumberOfPages,
				colCreatedAt:     now,
				colUpdatedAt:     now,
			}).
			Prepared(true)

		id, insertErr := s.insertReturningID(ctx, s.db, operationInsertBook, insert)
		if insertErr != nil {
			return 0, insertErr
		}

		book.ID = id

		return 1, nil
	})
	if err != nil {
		return librarystore.Book{}, err
	}

	return book, nil
}

// BookByID loads one book. It fails with ErrBookNotFound if there is none.
func (s Store) BookByID(ctx context.Context, bookID librarystore.BookIDInt64) (librarystore.Book, error) {
	var book librarystore.Book

	err := s.observe(ctx, operationBookByID, func(ctx context.Context) (int, error) {
		var err error
		book, err = s.selectBook(ctx, s.db, operationBookByID, bookID, false)

		return 1, err
	})

	return book, err
}

// UpdateBook overwrites the editable columns of a book. The status is derived from the quantity.
// It fails with ErrBookNotFound if the book does not exist.
func (s Store) UpdateBook(ctx context.Context, book librarystore.Book) (librarystore.Book, error) {
	err := s.observe(ctx, operationUpdateBook, func(ctx context.Context) (int, error) {
		var err error
		book, err = s.updateBook(ctx, s.db, book)

		return 1, err
	})
	if err != nil {
		return librarystore.Book{}, err
	}

	return book, nil
}

func (s Store) updateBook(ctx context.Context, q adapters.Querier, book librarystore.Book) (librarystore.Book, error) {
	status := librarystore.StatusForQuantity(book.Quantity)
	book.Status = &status
	book.UpdatedAt = s.now()

	update := s.builder().
		Update(tableBooks).
		Set(goqu.Record{
			colTitle:         book.Title,
			colAuthor:        book.Author,
			colDescription:   book.Description,
			colLanguage:      book.Language,
			colPhoto:         book.Photo,
			colQuantity:      book.Quantity,
			colStatus:        status,
			colPublisher:     book.Publisher,
			colNumberOfPages: book.NumberOfPages,
			colUpdatedAt:     book.UpdatedAt,
		}).
		Where(goqu.C(colID).Eq(book.ID)).
		Prepared(true)

	_, affected, execErr := s.exec(ctx, q, operationUpdateBook, update)
	if execErr != nil {
		return librarystore.Book{}, execErr
	}

	if affected == 0 {
		return librarystore.Book{}, librarystore.ErrBookNotFound
	}

	return book, nil
}

// Books lists all books in id order.
func (s Store) Books(ctx context.Context) ([]librarystore.Book, error) {
	return s.listBooks(ctx, operationBooks, nil)
}

// BooksOwnedBy lists the books whose librarian_id is the given user, in id order.
func (s Store) BooksOwnedBy(ctx context.Context, librarianID librarystore.UserIDInt64) ([]librarystore.Book, error) {
	return s.listBooks(ctx, operationBooksOwnedBy, goqu.C(colLibrarianID).Eq(librarianID))
}

func (s Store) listBooks(ctx context.Context, operation string, where exp.Expression) ([]librarystore.Book, error) {
	books := make([]librarystore.Book, 0)

	err := s.observe(ctx, operation, func(ctx context.Context) (int, error) {
		selectStmt := s.builder().
			From(tableBooks).
			Select(bookColumns...).
			Order(goqu.C(colID).Asc()).
			Prepared(true)

		if where != nil {
			selectStmt = selectStmt.Where(where)
		}

		rows, queryErr := s.query(ctx, s.db, operation, selectStmt)
		if queryErr != nil {
			return 0, queryErr
		}

		scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
			book, err := scanBook(rows)
			if err != nil {
				return err
			}

			books = append(books, book)

			return nil
		})

		return len(books), scanErr
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// selectBook loads one book on q, optionally locking its row until the transaction ends.
func (s Store) selectBook(
	ctx context.Context,
	q adapters.Querier,
	action string,
	bookID librarystore.BookIDInt64,
	forUpdate bool,
) (librarystore.Book, error) {

	selectStmt := s.builder().
		From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(bookID)).
		Prepared(true)

	if forUpdate && s.supportsRowLocks() {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	rows, queryErr := s.query(ctx, q, action, selectStmt)
	if queryErr != nil {
		return librarystore.Book{}, queryErr
	}

	var book librarystore.Book
	found := false
	scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
		var err error
		book, err = scanBook(rows)
		found = true

		return err
	})
	if scanErr != nil {
		return librarystore.Book{}, scanErr
	}

	if !found {
		return librarystore.Book{}, librarystore.ErrBookNotFound
	}

	return book, nil
}

// adjustBookQuantity adds delta to a book's quantity with a guarded update that matches no row
// if the result would be negative, then re-derives the shelf status.
func (s Store) adjustBookQuantity(
	ctx context.Context,
	q adapters.Querier,
	bookID librarystore.BookIDInt64,
	delta int,
) error {

	update := s.builder().
		Update(tableBooks).
		Set(goqu.Record{
			colQuantity:  goqu.L(colQuantity+" + ?", delta),
			colUpdatedAt: s.now(),
		}).
		Where(
			goqu.C(colID).Eq(bookID),
			goqu.L(colQuantity+" + ?", delta).Gte(0),
		).
		Prepared(true)

	_, affected, execErr := s.exec(ctx, q, operationAdjustQuantity, update)
	if execErr != nil {
		return execErr
	}

	if affected == 0 {
		// tell a missing book apart from a rejected debit
		if _, err := s.selectBook(ctx, q, operationAdjustQuantity, bookID, false); err != nil {
			return err
		}

		return librarystore.ErrNotEnoughCopies
	}

	// MySQL evaluates SET assignments left to right, so the status is derived in its own statement.
	syncStatus := s.builder().
		Update(tableBooks).
		Set(goqu.Record{
			colStatus: goqu.Case().
				When(goqu.C(colQuantity).Gt(0), librarystore.BookStatusAvailable).
				Else(librarystore.BookStatusUnavailable),
		}).
		Where(goqu.C(colID).Eq(bookID)).
		Prepared(true)

	_, _, syncErr := s.exec(ctx, q, operationSyncBookStatus, syncStatus)

	return syncErr
}

// countLoansForBook counts loan rows of any status that reference a book.
func (s Store) countLoansForBook(ctx context.Context, q adapters.Querier, bookID librarystore.BookIDInt64) (int, error) {
	selectStmt := s.builder().
		From(tableLoans).
		Select(goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(goqu.C(colBookID).Eq(bookID)).
		Prepared(true)

	rows, queryErr := s.query(ctx, q, operationCountLoans, selectStmt)
	if queryErr != nil {
		return 0, queryErr
	}

	var count int
	scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
		return rows.Scan(&count)
	})

	return count, scanErr
}

// deleteBook removes a book row. It fails with ErrBookNotFound if nothing was deleted.
func (s Store) deleteBook(ctx context.Context, q adapters.Querier, bookID librarystore.BookIDInt64) error {
	deleteStmt := s.builder().
		Delete(tableBooks).
		Where(goqu.C(colID).Eq(bookID)).
		Prepared(true)

	_, affected, execErr := s.exec(ctx, q, operationDeleteBook, deleteStmt)
	if execErr != nil {
		return execErr
	}

	if affected == 0 {
		return librarystore.ErrBookNotFound
	}

	return nil
}
