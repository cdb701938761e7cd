package deleteloan

import (
	"context"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store defines what the CommandHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	WithinTx(ctx context.Context, fn librarystore.TxFunc) error
}

// CommandHandler orchestrates: Authorize -> Lock loan -> Decide -> Credit book -> Delete loan.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle deletes the loan and returns it as it was before the deletion.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Loan], error) {
	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightLibrarian); err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	ctx = librarystore.WithStrongConsistency(ctx)

	var loan librarystore.Loan
	err := h.store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		var err error
		if loan, err = tx.LoanForUpdate(ctx, command.LoanID); err != nil {
			return err
		}

		if result := Decide(loan); result.HasQuantityChange() {
			if err := tx.AdjustBookQuantity(ctx, loan.BookID, result.QuantityDelta); err != nil {
				return err
			}
		}

		return tx.DeleteLoan(ctx, loan.ID)
	})

	if err != nil {
		return shell.NewErrorResult[librarystore.Loan](), shell.Classify(err)
	}

	return shell.NewSuccessResult(loan), nil
}
