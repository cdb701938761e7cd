package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

// UserDirectory finds users by their login name.
type UserDirectory interface {
	UserByEmail(ctx context.Context, email string) (librarystore.User, error)
}

// Session is the result of a successful login.
type Session struct {
	User      librarystore.User
	Token     string
	ExpiresAt time.Time
}

// PasswordChecker compares a password with a stored hash, failing with ErrInvalidCredentials.
type PasswordChecker func(hash, password string) error

// Authenticator checks credentials and issues tokens.
type Authenticator struct {
	users         UserDirectory
	tokens        TokenService
	checkPassword PasswordChecker
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithPasswordChecker replaces CheckPassword, mainly for tests.
func WithPasswordChecker(checker PasswordChecker) AuthenticatorOption {
	return func(a *Authenticator) {
		if checker != nil {
			a.checkPassword = checker
		}
	}
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserDirectory, tokens TokenService, opts ...AuthenticatorOption) Authenticator {
	authenticator := Authenticator{users: users, tokens: tokens, checkPassword: CheckPassword}

	for _, opt := range opts {
		opt(&authenticator)
	}

	return authenticator
}

// unknownUserHash is compared against on the unknown email path, so that path costs one bcrypt
// comparison like a wrong password does.
var unknownUserHash = sync.OnceValue(func() string {
	hash, err := HashPassword("unknown user placeholder")
	if err != nil {
		return ""
	}

	return hash
})

// Login verifies email and password and returns a session with a fresh token.
// Unknown users and wrong passwords both fail with ErrInvalidCredentials.
func (a Authenticator) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, librarystore.ErrUserNotFound) {
			_ = a.checkPassword(unknownUserHash(), password)
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, err
	}

	if err := a.checkPassword(user.PasswordHash, password); err != nil {
		return Session{}, err
	}

	token, expiresAt, err := a.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Verify resolves a token to a user id.
func (a Authenticator) Verify(token string) (librarystore.UserIDInt64, error) {
	return a.tokens.Verify(token)
}
