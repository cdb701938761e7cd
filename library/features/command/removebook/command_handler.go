package removebook

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	logMsgAssetDeleteFailed = "removing image of deleted book failed"
)

// Store defines what the CommandHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	WithinTx(ctx context.Context, fn librarystore.TxFunc) error
}

// CommandHandler orchestrates: Authorize -> (Lock book -> Count loans -> Decide -> Delete) -> Remove image.
type CommandHandler struct {
	store  Store
	assets shell.AssetStorage
	logger *slog.Logger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithLogger sets the logger for failed image removals.
func WithLogger(logger *slog.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, assets shell.AssetStorage, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:  store,
		assets: assets,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle deletes the book and returns it as it was before the deletion.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Book], error) {
	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightLibrarian); err != nil {
		return shell.NewErrorResult[librarystore.Book](), err
	}

	ctx = librarystore.WithStrongConsistency(ctx)

	var book librarystore.Book
	err := h.store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		var err error
		if book, err = tx.BookForUpdate(ctx, command.BookID); err != nil {
			return err
		}

		loanCount, err := tx.CountLoansForBook(ctx, book.ID)
		if err != nil {
			return err
		}

		if err := Decide(loanCount).HasError(); err != nil {
			return err
		}

		return tx.DeleteBook(ctx, book.ID)
	})

	if err != nil {
		return shell.NewErrorResult[librarystore.Book](), shell.Classify(err)
	}

	if ref := book.PhotoRef(); ref != "" {
		if deleteErr := h.assets.Delete(ctx, ref); deleteErr != nil {
			h.logger.WarnContext(ctx, logMsgAssetDeleteFailed, "ref", ref, "error", deleteErr.Error())
		}
	}

	return shell.NewSuccessResult(book), nil
}
