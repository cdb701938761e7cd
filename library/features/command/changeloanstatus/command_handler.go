package changeloanstatus

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

// CommandHandler orchestrates: Authorize -> Validate -> Lock loan -> Decide -> Adjust book -> Write status.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle changes the status and returns the loan as it is afterwards.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Loan], error) {
	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightLibrarian); err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	target, err := command.parseStatus()
	if err != nil {
		return shell.NewErrorResult[librarystore.Loan](), err
	}

	ctx = librarystore.WithStrongConsistency(ctx)

	var loan librarystore.Loan
	var idempotent bool
	err = h.store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		current, err := tx.LoanForUpdate(ctx, command.LoanID)
		if err != nil {
			return err
		}

		result := Decide(current, target)
		if result.IsIdempotent() {
			loan, idempotent = current, true
			return nil
		}

		if result.HasQuantityChange() {
			if err := tx.AdjustBookQuantity(ctx, current.BookID, result.QuantityDelta); err != nil {
				return err
			}
		}

		loan, err = tx.ChangeLoanStatus(ctx, current.ID, current.Status, target)

		return err
	})

	switch {
	case err != nil:
		return shell.NewErrorResult[librarystore.Loan](), shell.Classify(err)
	case idempotent:
		return shell.NewIdempotentResult(loan), nil
	default:
		return shell.NewSuccessResult(loan), nil
	}
}
