package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/auth"
	"github.com/AntonStoeckl/library-lending/library/seed"
	"github.com/AntonStoeckl/library-lending/librarystore"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
)

func plainHasher(password string) (string, error) {
	return "plain:" + password, nil
}

func Test_Default_FixturesAreValid(t *testing.T) {
	fixtures, err := seed.Default()

	require.NoError(t, err)
	assert.Len(t, fixtures.Users, 3)
	assert.NotEmpty(t, fixtures.Books)
}

func Test_Load_Rejections(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown right",
			yaml: "users:\n  - {name: X, email: x@test, password: p, rights: [janitor]}\n",
		},
		{
			name: "missing password",
			yaml: "users:\n  - {name: X, email: x@test, rights: [student]}\n",
		},
		{
			name: "unknown librarian",
			yaml: "books:\n  - {title: T, quantity: 1, librarian: nobody@test}\n",
		},
		{
			name: "unknown field",
			yaml: "users:\n  - {name: X, email: x@test, password: p, role: admin}\n",
		},
		{
			name: "not yaml",
			yaml: "users: [",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := seed.Load(strings.NewReader(tc.yaml))

			assert.ErrorIs(t, err, seed.ErrInvalidFixtures)
		})
	}
}

func Test_Seeder_Seed(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	seeder := seed.NewSeeder(store, seed.WithPasswordHasher(plainHasher))

	fixtures, err := seed.Default()
	require.NoError(t, err, "error in arranging test data")

	// act
	report, err := seeder.Seed(ctx, fixtures)

	// assert
	require.NoError(t, err)
	assert.Equal(t, seed.Report{UsersInserted: 3, BooksInserted: len(fixtures.Books)}, report)

	elena, err := store.UserByEmail(ctx, "elena@library.test")
	require.NoError(t, err)
	assert.Equal(t, "plain:elena-secret", elena.PasswordHash)

	rights, err := store.RightsOf(ctx, elena.ID)
	require.NoError(t, err)
	assert.True(t, rights.Has(librarystore.RightLibrarian))

	books, err := store.Books(ctx)
	require.NoError(t, err)
	for _, book := range books {
		assert.Equal(t, elena.ID, book.LibrarianID)
	}
}

func Test_Seeder_Seed_IsRepeatable(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)
	seeder := seed.NewSeeder(store, seed.WithPasswordHasher(plainHasher))

	fixtures, err := seed.Default()
	require.NoError(t, err, "error in arranging test data")

	_, err = seeder.Seed(ctx, fixtures)
	require.NoError(t, err, "error in arranging test data")

	// act
	report, err := seeder.Seed(ctx, fixtures)

	// assert
	require.NoError(t, err)
	assert.Equal(t, seed.Report{UsersSkipped: 3}, report)

	books, err := store.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, len(fixtures.Books))
}

func Test_Seeder_Seed_UsesBcryptByDefault(t *testing.T) {
	// setup
	ctx := context.Background()
	store := NewSQLiteStore(t)

	fixtures, err := seed.Load(strings.NewReader(
		"users:\n  - {name: Maria, email: maria@library.test, password: maria-secret, rights: [student]}\n",
	))
	require.NoError(t, err, "error in arranging test data")

	// act
	_, err = seed.NewSeeder(store).Seed(ctx, fixtures)

	// assert
	require.NoError(t, err)

	maria, err := store.UserByEmail(ctx, "maria@library.test")
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(maria.PasswordHash, "maria-secret"))
}
