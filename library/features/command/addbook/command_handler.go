package addbook

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	logMsgAssetCleanupFailed = "removing stored image after failed insert failed"
)

// Store defines what the CommandHandler needs from persistence.
type Store interface {
	shell.RightsDirectory
	InsertBook(ctx context.Context, book librarystore.Book) (librarystore.Book, error)
}

// CommandHandler orchestrates: Validate -> Authorize -> Store image -> Insert book.
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

// Handle stores the image and the book and returns the created book.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult[librarystore.Book], error) {
	if err := command.validate(); err != nil {
		return shell.NewErrorResult[librarystore.Book](), err
	}

	if _, err := shell.Authorize(ctx, h.store, command.RequesterID, librarystore.RightLibrarian); err != nil {
		return shell.NewErrorResult[librarystore.Book](), err
	}

	ref, err := h.assets.Save(ctx, *command.Image)
	if err != nil {
		return shell.NewErrorResult[librarystore.Book](), shell.Classify(err)
	}

	book, err := h.store.InsertBook(librarystore.WithStrongConsistency(ctx), command.toBook(shell.PublicRef(ref)))
	if err != nil {
		if deleteErr := h.assets.Delete(ctx, ref); deleteErr != nil {
			h.logger.WarnContext(ctx, logMsgAssetCleanupFailed, "ref", ref, "error", deleteErr.Error())
		}

		return shell.NewErrorResult[librarystore.Book](), shell.Classify(err)
	}

	return shell.NewSuccessResult(book), nil
}
