package api

import (
	"log/slog"

	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/changeloanstatus"
	"github.com/AntonStoeckl/library-lending/library/features/command/deleteloan"
	"github.com/AntonStoeckl/library-lending/library/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-lending/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/library/features/query/books"
	"github.com/AntonStoeckl/library-lending/library/features/query/librarianbooks"
	"github.com/AntonStoeckl/library-lending/library/features/query/pastloans"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Store is everything the use cases need from persistence.
type Store interface {
	addbook.Store
	updatebook.Store
	removebook.Store
	lendbook.Store
	changeloanstatus.Store
	deleteloan.Store
	bookdetails.Store
	books.Store
	librarianbooks.Store
	activeloans.Store
	pastloans.Store
}

// Observability holds the optional collectors the use cases are instrumented with. Nil fields are skipped.
type Observability struct {
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           *slog.Logger
}

// NewHandlers builds every use case on store and wraps it with the configured observability.
func NewHandlers(store Store, assets shell.AssetStorage, obs Observability) (Handlers, error) {
	var addBookOpts []addbook.Option
	var updateBookOpts []updatebook.Option
	var removeBookOpts []removebook.Option

	if obs.Logger != nil {
		addBookOpts = append(addBookOpts, addbook.WithLogger(obs.Logger))
		updateBookOpts = append(updateBookOpts, updatebook.WithLogger(obs.Logger))
		removeBookOpts = append(removeBookOpts, removebook.WithLogger(obs.Logger))
	}

	var handlers Handlers
	var err error

	if handlers.AddBook, err = wrapCommand[addbook.Command, librarystore.Book](addbook.NewCommandHandler(store, assets, addBookOpts...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.UpdateBook, err = wrapCommand[updatebook.Command, librarystore.Book](updatebook.NewCommandHandler(store, assets, updateBookOpts...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.RemoveBook, err = wrapCommand[removebook.Command, librarystore.Book](removebook.NewCommandHandler(store, assets, removeBookOpts...), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.LendBook, err = wrapCommand[lendbook.Command, librarystore.Loan](lendbook.NewCommandHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.ChangeLoanStatus, err = wrapCommand[changeloanstatus.Command, librarystore.Loan](changeloanstatus.NewCommandHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.DeleteLoan, err = wrapCommand[deleteloan.Command, librarystore.Loan](deleteloan.NewCommandHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.BookDetails, err = wrapQuery[bookdetails.Query, librarystore.Book](bookdetails.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.Books, err = wrapQuery[books.Query, books.Catalog](books.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.LibrarianBooks, err = wrapQuery[librarianbooks.Query, librarianbooks.OwnedBooks](librarianbooks.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.ActiveLoans, err = wrapQuery[activeloans.Query, activeloans.OpenLoans](activeloans.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	if handlers.PastLoans, err = wrapQuery[pastloans.Query, pastloans.ReturnedLoans](pastloans.NewQueryHandler(store), obs); err != nil {
		return Handlers{}, err
	}

	return handlers, nil
}

func wrapCommand[C shell.Command, T any](
	coreHandler shell.CoreCommandHandler[C, T],
	obs Observability,
) (shell.CoreCommandHandler[C, T], error) {

	var opts []observable.CommandOption[C, T]

	if obs.Metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C, T](obs.Metrics))
	}

	if obs.Tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C, T](obs.Tracing))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C, T](obs.ContextualLogger))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithCommandLogging[C, T](obs.Logger))
	}

	return observable.NewCommandWrapper(coreHandler, opts...)
}

func wrapQuery[Q shell.Query, R any](
	coreHandler shell.CoreQueryHandler[Q, R],
	obs Observability,
) (shell.CoreQueryHandler[Q, R], error) {

	var opts []observable.QueryOption[Q, R]

	if obs.Metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](obs.Metrics))
	}

	if obs.Tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](obs.Tracing))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](obs.Logger))
	}

	return observable.NewQueryWrapper(coreHandler, opts...)
}
