package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine/internal/adapters"
)

var loanColumns = []any{
	colID, colStartDate, colEndDate, colQuantity, colStatus, colBookID, colStudentID, colLibrarianID,
	colCreatedAt, colUpdatedAt,
}

func qualified(table, column string) exp.IdentifierExpression {
	return goqu.I(table + "." + column)
}

func loanViewColumns() []any {
	columns := make([]any, 0, len(loanColumns)+5)
	for _, column := range loanColumns {
		columns = append(columns, qualified(tableLoans, column.(string)))
	}

	return append(columns,
		qualified(tableBooks, colTitle),
		qualified(tableBooks, colAuthor),
		qualified(tableBooks, colDescription),
		qualified(tableBooks, colPhoto),
		qualified(tableUsers, colName),
	)
}

func scanLoanInto(rows adapters.DBRows, loan *librarystore.Loan, extra ...any) error {
	var status string

	dest := []any{
		&loan.ID,
		&loan.StartDate,
		&loan.EndDate,
		&loan.Quantity,
		&status,
		&loan.BookID,
		&loan.StudentID,
		&loan.LibrarianID,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	}

	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	parsed, parseErr := librarystore.ParseLoanStatus(status)
	if parseErr != nil {
		return parseErr
	}

	loan.Status = parsed

	return nil
}

// Loans lists loans joined with their book title and student name, most recently updated first.
func (s Store) Loans(ctx context.Context, filter librarystore.LoanFilter) ([]librarystore.LoanView, error) {
	loans := make([]librarystore.LoanView, 0)

	err := s.observe(ctx, operationLoans, func(ctx context.Context) (int, error) {
		selectStmt := s.builder().
			From(tableLoans).
			InnerJoin(goqu.T(tableBooks), goqu.On(qualified(tableBooks, colID).Eq(qualified(tableLoans, colBookID)))).
			InnerJoin(goqu.T(tableUsers), goqu.On(qualified(tableUsers, colID).Eq(qualified(tableLoans, colStudentID)))).
			Select(loanViewColumns()...).
			Where(s.loanFilterExpressions(filter)...).
			Order(qualified(tableLoans, colUpdatedAt).Desc(), qualified(tableLoans, colID).Desc()).
			Prepared(true)

		rows, queryErr := s.query(ctx, s.db, operationLoans, selectStmt)
		if queryErr != nil {
			return 0, queryErr
		}

		scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
			var view librarystore.LoanView
			if err := scanLoanInto(
				rows,
				&view.Loan,
				&view.BookTitle,
				&view.BookAuthor,
				&view.BookDescription,
				&view.BookPhoto,
				&view.StudentName,
			); err != nil {
				return err
			}

			loans = append(loans, view)

			return nil
		})

		return len(loans), scanErr
	})
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (s Store) loanFilterExpressions(filter librarystore.LoanFilter) []exp.Expression {
	expressions := make([]exp.Expression, 0, 2)

	switch {
	case filter.OnlyActive():
		expressions = append(expressions, qualified(tableLoans, colStatus).Neq(string(librarystore.LoanStatusReturned)))
	case filter.OnlyReturned():
		expressions = append(expressions, qualified(tableLoans, colStatus).Eq(string(librarystore.LoanStatusReturned)))
	}

	if studentID, ok := filter.StudentID(); ok {
		expressions = append(expressions, qualified(tableLoans, colStudentID).Eq(studentID))
	}

	return expressions
}

// LoanByID loads one loan. It fails with ErrLoanNotFound if there is none.
func (s Store) LoanByID(ctx context.Context, loanID librarystore.LoanIDInt64) (librarystore.Loan, error) {
	var loan librarystore.Loan

	err := s.observe(ctx, operationLoanByID, func(ctx context.Context) (int, error) {
		var err error
		loan, err = s.selectLoan(ctx, s.db, operationLoanByID, loanID, false)

		return 1, err
	})

	return loan, err
}

// selectLoan loads one loan on q, optionally locking its row until the transaction ends.
func (s Store) selectLoan(
	ctx context.Context,
	q adapters.Querier,
	action string,
	loanID librarystore.LoanIDInt64,
	forUpdate bool,
) (librarystore.Loan, error) {

	selectStmt := s.builder().
		From(tableLoans).
		Select(loanColumns...).
		Where(goqu.C(colID).Eq(loanID)).
		Prepared(true)

	if forUpdate && s.supportsRowLocks() {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	rows, queryErr := s.query(ctx, q, action, selectStmt)
	if queryErr != nil {
		return librarystore.Loan{}, queryErr
	}

	var loan librarystore.Loan
	found := false
	scanErr := s.scanAll(ctx, rows, func(rows adapters.DBRows) error {
		found = true
		return scanLoanInto(rows, &loan)
	})
	if scanErr != nil {
		return librarystore.Loan{}, scanErr
	}

	if !found {
		return librarystore.Loan{}, librarystore.ErrLoanNotFound
	}

	return loan, nil
}

// insertLoan stores a new loan on q and returns it with its generated id and timestamps.
func (s Store) insertLoan(ctx context.Context, q adapters.Querier, loan librarystore.Loan) (librarystore.Loan, error) {
	now := s.now()
	loan.CreatedAt = now
	loan.UpdatedAt = now

	insert := s.builder().
		Insert(tableLoans).
		Rows(goqu.Record{
			colStartDate:   loan.StartDate,
			colEndDate:     loan.EndDate,
			colQuantity:    loan.Quantity,
			colStatus:      string(loan.Status),
			colBookID:      loan.BookID,
			colStudentID:   loan.StudentID,
			colLibrarianID: loan.LibrarianID,
			colCreatedAt:   now,
			colUpdatedAt:   now,
		}).
		Prepared(true)

	id, insertErr := s.insertReturningID(ctx, q, operationInsertLoan, insert)
	if insertErr != nil {
		return librarystore.Loan{}, insertErr
	}

	loan.ID = id

	return loan, nil
}

// changeLoanStatus writes the new status only if the loan still has status from.
func (s Store) changeLoanStatus(
	ctx context.Context,
	q adapters.Querier,
	loanID librarystore.LoanIDInt64,
	from, to librarystore.LoanStatus,
) (librarystore.Loan, error) {

	update := s.builder().
		Update(tableLoans).
		Set(goqu.Record{
			colStatus:    string(to),
			colUpdatedAt: s.now(),
		}).
		Where(
			goqu.C(colID).Eq(loanID),
			goqu.C(colStatus).Eq(string(from)),
		).
		Prepared(true)

	_, affected, execErr := s.exec(ctx, q, operationChangeLoan, update)
	if execErr != nil {
		return librarystore.Loan{}, execErr
	}

	if affected == 0 {
		if _, err := s.selectLoan(ctx, q, operationChangeLoan, loanID, false); errors.Is(err, librarystore.ErrLoanNotFound) {
			return librarystore.Loan{}, err
		}

		return librarystore.Loan{}, librarystore.ErrConcurrencyConflict
	}

	return s.selectLoan(ctx, q, operationChangeLoan, loanID, false)
}

// deleteLoan removes a loan row. It fails with ErrLoanNotFound if nothing was deleted.
func (s Store) deleteLoan(ctx context.Context, q adapters.Querier, loanID librarystore.LoanIDInt64) error {
	deleteStmt := s.builder().
		Delete(tableLoans).
		Where(goqu.C(colID).Eq(loanID)).
		Prepared(true)

	_, affected, execErr := s.exec(ctx, q, operationDeleteLoan, deleteStmt)
	if execErr != nil {
		return execErr
	}

	if affected == 0 {
		return librarystore.ErrLoanNotFound
	}

	return nil
}
