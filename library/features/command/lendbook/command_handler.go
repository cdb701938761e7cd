package lendbook

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const msgIssuerNotLibrarian = "librarian_id must reference a librarian"

// Store defines what the CommandHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	WithinTx(ctx context.Context, fn librarystore.TxFunc) error
}

// CommandHandler orchestrates lending: Authorize -> Validate -> Check issuer -> Lock book -> Decide -> Debit -> Insert loan.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle lends the copies and returns the created loan.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Loan], error) {
	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightStudent); err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	if err := command.validate(); err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	if err := h.checkIssuer(ctx, command.IssuedBy); err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	ctx = librarystore.WithStrongConsistency(ctx)

	var loan librarystore.Loan
	err := h.store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		book, err := tx.BookForUpdate(ctx, command.BookID)
		if err != nil {
			return err
		}

		result := Decide(book, command)
		if err := result.HasError(); err != nil {
			return err
		}

		if err := tx.AdjustBookQuantity(ctx, book.ID, result.QuantityDelta); err != nil {
			return err
		}

		loan, err = tx.InsertLoan(ctx, librarystore.Loan{
			StartDate:   command.StartDate,
			EndDate:     command.EndDate(),
			Quantity:    command.Quantity,
			Status:      librarystore.LoanStatusPending,
			BookID:      book.ID,
			StudentID:   command.RequesterID,
			LibrarianID: command.librarianID(),
		})

		return err
	})

	if err != nil {
		return shell.NewErrorResult[librarystore.Loan](), shell.Classify(err)
	}

	return shell.NewSuccessResult(loan), nil
}

// checkIssuer accepts an unset issuer. A set one must hold the librarian right, unknown users hold none.
func (h CommandHandler) checkIssuer(ctx context.Context, issuedBy librarystore.UserIDInt64) error {
	if issuedBy == 0 {
		return nil
	}

	rights, err := h.store.RightsOf(ctx, issuedBy)
	if err != nil {
		return shell.Classify(err)
	}

	if !rights.Has(librarystore.RightLibrarian) {
		return core.ValidationFailure(msgIssuerNotLibrarian)
	}

	return nil
}
