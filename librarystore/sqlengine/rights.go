package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

// RightsOf loads the capability set of a user with one query joining user_rights and rights.
// An unknown user holds no rights.
func (s Store) RightsOf(ctx context.Context, userID librarystore.UserIDInt64) (librarystore.Rights, error) {
	rights := librarystore.NewRights()

	err := s.observe(ctx, operationRightsOf, func(ctx context.Context) (int, error) {
		selectStmt := s.builder().
			From(tableUserRights).
			InnerJoin(goqu.T(tableRights), goqu.On(goqu.I(tableRights+"."+colID).Eq(goqu.I(tableUserRights+"."+colRightID)))).
			Select(goqu.I(tableRights + "." + colRightCode)).
			Where(goqu.I(tableUserRights + "." + colUserID).Eq(userID)).
			Prepared(true)

		rows, queryErr := s.query(ctx, s.db, operationRightsOf, selectStmt)
		if queryErr != nil {
			return 0, queryErr
		}

		count := 0
		scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
			var code int
			if err := rows.Scan(&code); err != nil {
				return err
			}

			rights = rights.With(librarystore.RightCode(code))
			count++

			return nil
		})

		return count, scanErr
	})
	if err != nil {
		return librarystore.NewRights(), err
	}

	return rights, nil
}

// HasRight reports whether a user holds the right with the given code.
// A missing user and a missing right are indistinguishable, both yield false.
func (s Store) HasRight(ctx context.Context, userID librarystore.UserIDInt64, code librarystore.RightCode) (bool, error) {
	rights, err := s.RightsOf(ctx, userID)
	if err != nil {
		return false, err
	}

	return rights.Has(code), nil
}

// AssignRight grants a right to a user. Granting a right the user already holds is a no-op.
func (s Store) AssignRight(ctx context.Context, userID librarystore.UserIDInt64, code librarystore.RightCode) error {
	held, err := s.RightsOf(ctx, userID)
	if err != nil {
		return err
	}

	if held.Has(code) {
		return nil
	}

	return s.observe(ctx, operationAssignRight, func(ctx context.Context) (int, error) {
		rightID, lookupErr := s.rightIDByCode(ctx, code)
		if lookupErr != nil {
			return 0, lookupErr
		}

		insert := s.builder().
			Insert(tableUserRights).
			Rows(goqu.Record{colUserID: userID, colRightID: rightID}).
			Prepared(true)

		_, affected, execErr := s.exec(ctx, s.db, operationAssignRight, insert)

		return int(affected), execErr
	})
}

func (s Store) rightIDByCode(ctx context.Context, code librarystore.RightCode) (int64, error) {
	selectStmt := s.builder().
		From(tableRights).
		Select(colID).
		Where(goqu.C(colRightCode).Eq(int(code))).
		Prepared(true)

	rows, queryErr := s.query(ctx, s.db, operationRightIDByCode, selectStmt)
	if queryErr != nil {
		return 0, queryErr
	}

	var rightID int64
	found := false
	scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
		found = true
		return rows.Scan(&rightID)
	})
	if scanErr != nil {
		return 0, scanErr
	}

	if !found {
		return 0, librarystore.ErrUnknownRight
	}

	return rightID, nil
}
