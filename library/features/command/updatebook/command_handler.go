package updatebook

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	logMsgAssetCleanupFailed = "removing stored image after failed update failed"
)

// Store defines what the CommandHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	WithinTx(ctx context.Context, fn librarystore.TxFunc) error
}

// CommandHandler orchestrates: Validate -> Authorize -> Store image -> (Lock book -> Decide -> Update).
type CommandHandler struct {
	store  Store
	assets shell.AssetStorage
	logger *slog.Logger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithLogger sets the logger for best-effort cleanup failures.
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

// Handle updates the book and returns it as stored afterwards.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Book], error) {
	if err := command.validate(); err != nil {
		return shell.NewErrorResult[librarystore.Book](), err
	}

	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightLibrarian); err != nil {
		return shell.NewErrorResult[librarystore.Book](), err
	}

	var ref string
	if command.Image != nil {
		var err error
		if ref, err = h.assets.Save(ctx, *command.Image); err != nil {
			return shell.NewErrorResult[librarystore.Book](), shell.Classify(err)
		}
	}

	ctx = librarystore.WithStrongConsistency(ctx)

	var book librarystore.Book
	err := h.store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
		current, err := tx.BookForUpdate(ctx, command.BookID)
		if err != nil {
			return err
		}

		book, err = tx.UpdateBook(ctx, Decide(current, command, shell.PublicRef(ref)))

		return err
	})

	if err != nil {
		h.discard(ctx, ref)
		return shell.NewErrorResult[librarystore.Book](), shell.Classify(err)
	}

	return shell.NewSuccessResult(book), nil
}

func (h CommandHandler) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}

	if err := h.assets.Delete(ctx, ref); err != nil {
		h.logger.WarnContext(ctx, logMsgAssetCleanupFailed, "ref", ref, "error", err.Error())
	}
}
