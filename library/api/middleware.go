package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	headerRequestID  = "X-Request-ID"
	tokenCookieName  = "token"
	bearerPrefix     = "bearer "
	logMsgRequest    = "http request"
	logMsgPanic      = "recovered from panic"
	logAttrMethod    = "method"
	logAttrPath      = "path"
	logAttrStatus    = "status"
	logAttrDuration  = "duration_ms"
	logAttrRequestID = "request_id"
)

type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	userIDKey       contextKey = "user_id"
	invalidTokenKey contextKey = "invalid_token"
)

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	Verify(token string) (librarystore.UserIDInt64, error)
}

// RequestIDFrom returns the id of the current request, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// UserIDFrom returns the authenticated user of the current request.
func UserIDFrom(ctx context.Context) (librarystore.UserIDInt64, bool) {
	id, ok := ctx.Value(userIDKey).(librarystore.UserIDInt64)
	return id, ok
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		level := slog.LevelInfo
		if recorder.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		logger.Log(r.Context(), level, logMsgRequest,
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, recorder.status,
			logAttrDuration, float64(time.Since(start).Microseconds())/1000,
			logAttrRequestID, RequestIDFrom(r.Context()),
		)
	})
}

func withRecovery(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.ErrorContext(r.Context(), logMsgPanic, "panic", recovered, logAttrRequestID, RequestIDFrom(r.Context()))
				writeFailure(w, core.InternalFailure("internal error", nil))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// withAuthentication resolves the token of a request, if there is one. Routes that need a user
// are wrapped with requireUser, so a stale cookie does not block public routes like login.
func withAuthentication(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), invalidTokenKey, true)))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func tokenFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); len(header) > len(bearerPrefix) &&
		strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {

		return strings.TrimSpace(header[len(bearerPrefix):])
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// userHandlerFunc is a route that runs on behalf of an authenticated user.
type userHandlerFunc func(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64)

func requireUser(handler userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r.Context())
		if !ok {
			if invalid, _ := r.Context().Value(invalidTokenKey).(bool); invalid {
				writeUnauthorized(w, "invalid token")
				return
			}

			writeUnauthorized(w, "authentication required")
			return
		}

		handler(w, r, userID)
	}
}

// withoutDirectoryListing answers 404 for directory paths, so only stored files are served.
func withoutDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
