package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		photo TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rights (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		right_code INTEGER NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_rights (
		user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		right_id BIGINT NOT NULL REFERENCES rights (id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, right_id)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL,
		language TEXT NOT NULL,
		photo TEXT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		status VARCHAR(16) NULL CHECK (status IN ('available', 'unavailable')),
		librarian_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		publisher TEXT NOT NULL,
		number_of_pages INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id BIGSERIAL PRIMARY KEY,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 5),
		status VARCHAR(16) NOT NULL CHECK (status IN ('pending', 'active', 'returned', 'overdue')),
		book_id BIGINT NOT NULL REFERENCES books (id) ON DELETE CASCADE,
		student_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		librarian_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loans_book_id_idx ON loans (book_id)`,
	`CREATE INDEX IF NOT EXISTS loans_student_id_idx ON loans (student_id)`,
	`CREATE INDEX IF NOT EXISTS books_librarian_id_idx ON books (librarian_id)`,
}

// MySQL creates indexes for foreign keys on its own.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		photo VARCHAR(512) NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rights (
		id BIGINT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		right_code INT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_rights (
		user_id BIGINT NOT NULL,
		right_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, right_id),
		FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
		FOREIGN KEY (right_id) REFERENCES rights (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		language VARCHAR(64) NOT NULL,
		photo VARCHAR(512) NULL,
		quantity INT NOT NULL CHECK (quantity >= 0),
		status VARCHAR(16) NULL CHECK (status IN ('available', 'unavailable')),
		librarian_id BIGINT NOT NULL,
		publisher VARCHAR(255) NOT NULL,
		number_of_pages INT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		FOREIGN KEY (librarian_id) REFERENCES users (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		quantity INT NOT NULL CHECK (quantity BETWEEN 1 AND 5),
		status VARCHAR(16) NOT NULL CHECK (status IN ('pending', 'active', 'returned', 'overdue')),
		book_id BIGINT NOT NULL,
		student_id BIGINT NOT NULL,
		librarian_id BIGINT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		FOREIGN KEY (book_id) REFERENCES books (id) ON DELETE CASCADE,
		FOREIGN KEY (student_id) REFERENCES users (id) ON DELETE CASCADE,
		FOREIGN KEY (librarian_id) REFERENCES users (id) ON DELETE CASCADE
	)`,
}

// Foreign keys are only enforced with the _foreign_keys=1 connection parameter.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		photo TEXT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rights (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		right_code INTEGER NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_rights (
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		right_id INTEGER NOT NULL REFERENCES rights (id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, right_id)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL,
		language TEXT NOT NULL,
		photo TEXT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		status TEXT NULL CHECK (status IN ('available', 'unavailable')),
		librarian_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		publisher TEXT NOT NULL,
		number_of_pages INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 5),
		status TEXT NOT NULL CHECK (status IN ('pending', 'active', 'returned', 'overdue')),
		book_id INTEGER NOT NULL REFERENCES books (id) ON DELETE CASCADE,
		student_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		librarian_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loans_book_id_idx ON loans (book_id)`,
	`CREATE INDEX IF NOT EXISTS loans_student_id_idx ON loans (student_id)`,
	`CREATE INDEX IF NOT EXISTS books_librarian_id_idx ON books (librarian_id)`,
}

func (s Store) schemaStatements() ([]string, error) {
	switch s.dialect {
	case DialectPostgres:
		return postgresSchema, nil
	case DialectMySQL:
		return mysqlSchema, nil
	case DialectSQLite:
		return sqliteSchema, nil
	default:
		return nil, librarystore.ErrUnsupportedDialect
	}
}

// Migrate creates all tables that do not exist yet and makes sure the fixed rights rows exist.
// It is safe to run repeatedly.
func (s Store) Migrate(ctx context.Context) error {
	return s.observe(ctx, operationMigrate, func(ctx context.Context) (int, error) {
		statements, dialectErr := s.schemaStatements()
		if dialectErr != nil {
			return 0, errors.Join(librarystore.ErrMigrationFailed, dialectErr)
		}

		for _, statement := range statements {
			if _, _, execErr := s.execRaw(ctx, s.db, operationCreateSchemaObj, statement); execErr != nil {
				return 0, errors.Join(librarystore.ErrMigrationFailed, execErr)
			}
		}

		inserted, rightsErr := s.insertMissingRights(ctx)
		if rightsErr != nil {
			return 0, errors.Join(librarystore.ErrMigrationFailed, rightsErr)
		}

		return len(statements) + inserted, nil
	})
}

// EnsureRights inserts the fixed role descriptors that are missing from the rights table.
func (s Store) EnsureRights(ctx context.Context) error {
	return s.observe(ctx, operationEnsureRights, func(ctx context.Context) (int, error) {
		return s.insertMissingRights(ctx)
	})
}

func (s Store) insertMissingRights(ctx context.Context) (int, error) {
	rows, queryErr := s.query(
		ctx,
		s.db,
		operationRightsPresent,
		s.builder().From(tableRights).Select(colRightCode).Prepared(true),
	)
	if queryErr != nil {
		return 0, queryErr
	}

	present := librarystore.NewRights()
	scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
		var code int
		if err := rows.Scan(&code); err != nil {
			return err
		}

		present = present.With(librarystore.RightCode(code))

		return nil
	})
	if scanErr != nil {
		return 0, scanErr
	}

	inserted := 0
	for _, right := range librarystore.KnownRights() {
		if present.Has(right.Code) {
			continue
		}

		insert := s.builder().
			Insert(tableRights).
			Rows(goqu.Record{colID: right.ID, colName: right.Name, colRightCode: int(right.Code)}).
			Prepared(true)

		if _, _, execErr := s.exec(ctx, s.db, operationEnsureRights, insert); execErr != nil {
			return inserted, execErr
		}

		inserted++
	}

	return inserted, nil
}
