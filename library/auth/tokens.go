package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	defaultIssuer = "library-lending"
)

var (
	// ErrMissingSecret is returned by NewTokenService for an empty signing secret.
	ErrMissingSecret = errors.New("jwt secret must not be empty")

	// ErrInvalidToken is returned for tokens that are malformed, expired or not signed by us.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenService issues and verifies the access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithIssuer overrides the "iss" claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) {
		s.issuer = issuer
	}
}

// WithClock sets the clock used for issuing and validating tokens.
func WithClock(clock func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.clock = clock
	}
}

// NewTokenService creates a TokenService signing with secret. Issued tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (TokenService, error) {
	if secret == "" {
		return TokenService{}, ErrMissingSecret
	}

	service := TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: defaultIssuer,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(&service)
	}

	return service, nil
}

// Issue creates a signed token for userID and returns it with its expiry.
func (s TokenService) Issue(userID librarystore.UserIDInt64) (string, time.Time, error) {
	now := s.clock()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and validity period of token and returns its user id.
func (s TokenService) Verify(token string) (librarystore.UserIDInt64, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject %q is no user id", ErrInvalidToken, claims.Subject)
	}

	return userID, nil
}
