package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

var userColumns = []any{
	colID, colName, colEmail, colPasswordHash, colPhone, colPhoto, colCreatedAt, colUpdatedAt,
}

func scanUser(rows adapters.DBRows) (librarystore.User, error) {
	var user librarystore.User

	err := rows.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Photo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

// InsertUser stores a new user and returns it with its generated id and timestamps.
func (s Store) InsertUser(ctx context.Context, user librarystore.User) (librarystore.User, error) {
	err := s.observe(ctx, operationInsertUser, func(ctx context.Context) (int, error) {
		now := s.now()
		user.CreatedAt = now
		user.UpdatedAt = now

		insert := s.builder().
			Insert(tableUsers).
			Rows(goqu.Record{
				colName:         user.Name,
				colEmail:        user.Email,
				colPasswordHash: user.PasswordHash,
				colPhone:        user.Phone,
				colPhoto:        user.Photo,
				colCreatedAt:    now,
				colUpdatedAt:    now,
			}).
			Prepared(true)

		id, insertErr := s.insertReturningID(ctx, s.db, operationInsertUser, insert)
		if insertErr != nil {
			return 0, insertErr
		}

		user.ID = id

		return 1, nil
	})
	if err != nil {
		return librarystore.User{}, err
	}

	return user, nil
}

// UserByEmail loads a user by email address. It fails with ErrUserNotFound if there is none.
func (s Store) UserByEmail(ctx context.Context, email string) (librarystore.User, error) {
	return s.selectUser(ctx, operationUserByEmail, goqu.C(colEmail).Eq(email))
}

// UserByID loads a user by id. It fails with ErrUserNotFound if there is none.
func (s Store) UserByID(ctx context.Context, userID librarystore.UserIDInt64) (librarystore.User, error) {
	return s.selectUser(ctx, operationUserByID, goqu.C(colID).Eq(userID))
}

func (s Store) selectUser(ctx context.Context, operation string, where goqu.Expression) (librarystore.User, error) {
	var user librarystore.User

	err := s.observe(ctx, operation, func(ctx context.Context) (int, error) {
		selectStmt := s.builder().
			From(tableUsers).
			Select(userColumns...).
			Where(where).
			Limit(1).
			Prepared(true)

		rows, queryErr := s.query(ctx, s.db, operation, selectStmt)
		if queryErr != nil {
			return 0, queryErr
		}

		found := 0
		scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
			var err error
			user, err = scanUser(rows)
			found++

			return err
		})
		if scanErr != nil {
			return 0, scanErr
		}

		if found == 0 {
			return 0, librarystore.ErrUserNotFound
		}

		return found, nil
	})

	return user, err
}
