package api

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AntonStoeckl/library-lending/library/auth"
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
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	serviceName          = "library-lending"
	defaultAssetsRoot    = "public"
	defaultMaxUploadSize = 10 << 20
)

// Handlers bundles the use cases the routes dispatch to.
type Handlers struct {
	AddBook          shell.CoreCommandHandler[addbook.Command, librarystore.Book]
	UpdateBook       shell.CoreCommandHandler[updatebook.Command, librarystore.Book]
	RemoveBook       shell.CoreCommandHandler[removebook.Command, librarystore.Book]
	LendBook         shell.CoreCommandHandler[lendbook.Command, librarystore.Loan]
	ChangeLoanStatus shell.CoreCommandHandler[changeloanstatus.Command, librarystore.Loan]
	DeleteLoan       shell.CoreCommandHandler[deleteloan.Command, librarystore.Loan]

	BookDetails    shell.CoreQueryHandler[bookdetails.Query, librarystore.Book]
	Books          shell.CoreQueryHandler[books.Query, books.Catalog]
	LibrarianBooks shell.CoreQueryHandler[librarianbooks.Query, librarianbooks.OwnedBooks]
	ActiveLoans    shell.CoreQueryHandler[activeloans.Query, activeloans.OpenLoans]
	PastLoans      shell.CoreQueryHandler[pastloans.Query, pastloans.ReturnedLoans]
}

// Sessions logs users in and resolves their tokens.
type Sessions interface {
	TokenVerifier
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

// Profiles resolves the authenticated user for /users/me.
type Profiles interface {
	shell.RightsDirectory
	UserByID(ctx context.Context, userID librarystore.UserIDInt64) (librarystore.User, error)
}

// Server routes HTTP requests to the use cases.
type Server struct {
	handlers       Handlers
	sessions       Sessions
	profiles       Profiles
	logger         *slog.Logger
	assetsRoot     string
	maxUploadBytes int64
	secureCookies  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and panic logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAssetsRoot sets the directory that /uploads/ is served from.
func WithAssetsRoot(root string) Option {
	return func(s *Server) {
		if root != "" {
			s.assetsRoot = root
		}
	}
}

// WithMaxUploadBytes limits the size of uploaded images. Values <= 0 are ignored.
func WithMaxUploadBytes(maxBytes int64) Option {
	return func(s *Server) {
		if maxBytes > 0 {
			s.maxUploadBytes = maxBytes
		}
	}
}

// WithSecureCookies marks the session cookie as Secure.
func WithSecureCookies() Option {
	return func(s *Server) {
		s.secureCookies = true
	}
}

// NewServer creates a Server.
func NewServer(handlers Handlers, sessions Sessions, profiles Profiles, opts ...Option) *Server {
	server := &Server{
		handlers:       handlers,
		sessions:       sessions,
		profiles:       profiles,
		logger:         slog.New(slog.DiscardHandler),
		assetsRoot:     defaultAssetsRoot,
		maxUploadBytes: defaultMaxUploadSize,
	}

	for _, opt := range opts {
		opt(server)
	}

	return server
}

// Handler returns the routed and instrumented http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)
	mux.Handle("GET /uploads/", withoutDirectoryListing(http.FileServer(http.Dir(filepath.Clean(s.assetsRoot)))))

	mux.HandleFunc("POST /users/login", s.login)
	mux.HandleFunc("GET /users/me", requireUser(s.me))

	mux.HandleFunc("POST /books/addBook", requireUser(s.addBook))
	mux.HandleFunc("PUT /books/updateBook/{id}", requireUser(s.updateBook))
	mux.HandleFunc("DELETE /books/deleteBook/{id}", requireUser(s.deleteBook))
	mux.HandleFunc("GET /books/getBook/{id}", requireUser(s.getBook))
	mux.HandleFunc("GET /books/getBooks", requireUser(s.getBooks))
	mux.HandleFunc("GET /books/getMyBooks", requireUser(s.getMyBooks))

	mux.HandleFunc("POST /loans/addLoan", requireUser(s.addLoan))
	mux.HandleFunc("PUT /loans/updateLoanStatus/{id}", requireUser(s.updateLoanStatus))
	mux.HandleFunc("DELETE /loans/deleteLoan/{id}", requireUser(s.deleteLoan))
	mux.HandleFunc("GET /loans/getLoans", requireUser(s.listActiveLoans(shell.ScopeAll)))
	mux.HandleFunc("GET /loans/getLoansByStudentId", requireUser(s.listActiveLoans(shell.ScopeOwn)))
	mux.HandleFunc("GET /loans/getPastLoans", requireUser(s.listPastLoans(shell.ScopeAll)))
	mux.HandleFunc("GET /loans/getPastLoansByStudentId", requireUser(s.listPastLoans(shell.ScopeOwn)))

	var handler http.Handler = mux
	handler = withAuthentication(s.sessions, handler)
	handler = withRecovery(s.logger, handler)
	handler = withRequestLogging(s.logger, handler)
	handler = withRequestID(handler)

	return otelhttp.NewHandler(handler, serviceName)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", nil)
}
