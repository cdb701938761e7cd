package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/library-lending/library/auth"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

//go:embed fixtures.yaml
var defaultFixtures string

var (
	// ErrInvalidFixtures is returned for fixture files that cannot be parsed or reference unknown data.
	ErrInvalidFixtures = errors.New("invalid fixtures")

	// ErrSeedingFailed wraps store errors while seeding.
	ErrSeedingFailed = errors.New("seeding failed")
)

// Fixtures is the content of a fixture file.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	Books []BookFixture `yaml:"books"`
}

// UserFixture describes a user and the role names they hold.
type UserFixture struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Phone    string   `yaml:"phone"`
	Photo    string   `yaml:"photo,omitempty"`
	Rights   []string `yaml:"rights"`
}

// BookFixture describes a catalog book. Librarian is the email of the owning user.
type BookFixture struct {
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	Description   string `yaml:"description"`
	Language      string `yaml:"language"`
	Quantity      int    `yaml:"quantity"`
	Publisher     string `yaml:"publisher"`
	NumberOfPages int    `yaml:"number_of_pages"`
	Photo         string `yaml:"photo,omitempty"`
	Librarian     string `yaml:"librarian"`
}

// Report counts what a Seeder run inserted and skipped.
type Report struct {
	UsersInserted int
	UsersSkipped  int
	BooksInserted int
}

// Store is what seeding needs from persistence.
type Store interface {
	EnsureRights(ctx context.Context) error
	UserByEmail(ctx context.Context, email string) (librarystore.User, error)
	InsertUser(ctx context.Context, user librarystore.User) (librarystore.User, error)
	AssignRight(ctx context.Context, userID librarystore.UserIDInt64, code librarystore.RightCode) error
	Books(ctx context.Context) ([]librarystore.Book, error)
	InsertBook(ctx context.Context, book librarystore.Book) (librarystore.Book, error)
}

// Default returns the built-in development fixtures.
func Default() (Fixtures, error) {
	return Load(strings.NewReader(defaultFixtures))
}

// Load parses and checks fixtures.
func Load(r io.Reader) (Fixtures, error) {
	var fixtures Fixtures

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&fixtures); err != nil {
		return Fixtures{}, errors.Join(ErrInvalidFixtures, err)
	}

	if err := fixtures.validate(); err != nil {
		return Fixtures{}, err
	}

	return fixtures, nil
}

func (f Fixtures) validate() error {
	emails := make(map[string]bool, len(f.Users))

	for _, user := range f.Users {
		if user.Email == "" || user.Password == "" {
			return fmt.Errorf("%w: user %q needs an email and a password", ErrInvalidFixtures, user.Name)
		}

		if _, err := rightCodes(user.Rights); err != nil {
			return err
		}

		emails[user.Email] = true
	}

	for _, book := range f.Books {
		if book.Quantity < 0 || book.NumberOfPages < 0 {
			return fmt.Errorf("%w: book %q has a negative number", ErrInvalidFixtures, book.Title)
		}

		if book.Librarian == "" {
			return fmt.Errorf("%w: book %q has no librarian", ErrInvalidFixtures, book.Title)
		}

		if !emails[book.Librarian] {
			return fmt.Errorf("%w: book %q references unknown librarian %q", ErrInvalidFixtures, book.Title, book.Librarian)
		}
	}

	return nil
}

func rightCodes(names []string) ([]librarystore.RightCode, error) {
	codes := make([]librarystore.RightCode, 0, len(names))

	for _, name := range names {
		code, ok := rightCodeByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidFixtures, librarystore.ErrUnknownRight, name)
		}

		codes = append(codes, code)
	}

	return codes, nil
}

func rightCodeByName(name string) (librarystore.RightCode, bool) {
	for _, right := range librarystore.KnownRights() {
		if right.Name == name {
			return right.Code, true
		}
	}

	return 0, false
}

// Seeder writes fixtures into a store.
type Seeder struct {
	store  Store
	hash   func(password string) (string, error)
	logger *slog.Logger
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLogger sets the logger for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPasswordHasher replaces bcrypt, mostly to keep tests fast.
func WithPasswordHasher(hash func(password string) (string, error)) Option {
	return func(s *Seeder) {
		if hash != nil {
			s.hash = hash
		}
	}
}

// NewSeeder creates a Seeder.
func NewSeeder(store Store, opts ...Option) Seeder {
	seeder := Seeder{
		store:  store,
		hash:   auth.HashPassword,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(&seeder)
	}

	return seeder
}

// Seed inserts the missing users and, into an empty catalog, the books.
func (s Seeder) Seed(ctx context.Context, fixtures Fixtures) (Report, error) {
	var report Report

	if err := s.store.EnsureRights(ctx); err != nil {
		return report, errors.Join(ErrSeedingFailed, err)
	}

	userIDs := make(map[string]librarystore.UserIDInt64, len(fixtures.Users))

	for _, fixture := range fixtures.Users {
		id, inserted, err := s.seedUser(ctx, fixture)
		if err != nil {
			return report, errors.Join(ErrSeedingFailed, err)
		}

		userIDs[fixture.Email] = id

		if inserted {
			report.UsersInserted++
		} else {
			report.UsersSkipped++
		}
	}

	existing, err := s.store.Books(ctx)
	if err != nil {
		return report, errors.Join(ErrSeedingFailed, err)
	}

	if len(existing) > 0 {
		s.logger.InfoContext(ctx, "catalog is not empty, skipping books", "books", len(existing))
		return report, nil
	}

	for _, fixture := range fixtures.Books {
		if _, err := s.store.InsertBook(ctx, fixture.toBook(userIDs[fixture.Librarian])); err != nil {
			return report, errors.Join(ErrSeedingFailed, err)
		}

		report.BooksInserted++
	}

	s.logger.InfoContext(ctx, "seeding completed",
		"users_inserted", report.UsersInserted,
		"users_skipped", report.UsersSkipped,
		"books_inserted", report.BooksInserted,
	)

	return report, nil
}

func (s Seeder) seedUser(ctx context.Context, fixture UserFixture) (librarystore.UserIDInt64, bool, error) {
	existing, err := s.store.UserByEmail(ctx, fixture.Email)
	switch {
	case err == nil:
		return existing.ID, false, nil
	case !errors.Is(err, librarystore.ErrUserNotFound):
		return 0, false, err
	}

	hash, err := s.hash(fixture.Password)
	if err != nil {
		return 0, false, err
	}

	user, err := s.store.InsertUser(ctx, librarystore.User{
		Name:         fixture.Name,
		Email:        fixture.Email,
		PasswordHash: hash,
		Phone:        fixture.Phone,
		Photo:        optional(fixture.Photo),
	})
	if err != nil {
		return 0, false, err
	}

	codes, err := rightCodes(fixture.Rights)
	if err != nil {
		return 0, false, err
	}

	for _, code := range codes {
		if err := s.store.AssignRight(ctx, user.ID, code); err != nil {
			return 0, false, err
		}
	}

	return user.ID, true, nil
}

func (b BookFixture) toBook(librarianID librarystore.UserIDInt64) librarystore.Book {
	return librarystore.Book{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Language:      b.Language,
		Photo:         optional(b.Photo),
		Quantity:      b.Quantity,
		LibrarianID:   librarianID,
		Publisher:     b.Publisher,
		NumberOfPages: b.NumberOfPages,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
