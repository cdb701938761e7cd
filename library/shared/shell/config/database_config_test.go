package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/shared/shell/config"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

func Test_MySQLDSN_EnablesTimeParsingAndFoundRows(t *testing.T) {
	// act
	dsn, err := config.MySQLDSN("library:library@tcp(localhost:3306)/library")

	// assert
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "tcp(localhost:3306)/library")
}

func Test_MySQLDSN_Invalid(t *testing.T) {
	// act
	_, err := config.MySQLDSN("not a dsn")

	// assert
	assert.ErrorIs(t, err, config.ErrOpeningDatabaseFailed)
}

func Test_SQLiteDSN(t *testing.T) {
	testCases := []struct {
		name     string
		dsn      string
		expected string
	}{
		{
			name:     "plain path",
			dsn:      "library.db",
			expected: "file:library.db?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate",
		},
		{
			name:     "keeps given parameters",
			dsn:      "file:library.db?_busy_timeout=100&mode=rwc",
			expected: "file:library.db?_busy_timeout=100&_foreign_keys=1&_txlock=immediate&mode=rwc",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, config.SQLiteDSN(tc.dsn))
		})
	}
}

func Test_OpenStore_SQLite(t *testing.T) {
	// setup
	ctx := context.Background()
	cfg := config.AppConfig{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "library.db"),
	}

	// act
	store, closeStore, err := config.OpenStore(ctx, cfg)

	// assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })
	assert.Equal(t, sqlengine.DialectSQLite, store.Dialect())
	assert.NoError(t, store.Migrate(ctx))
}

func Test_OpenStore_RejectsSQLiteReplica(t *testing.T) {
	// setup
	cfg := config.AppConfig{
		DBDriver:     config.DriverSQLite,
		DBDSN:        filepath.Join(t.TempDir(), "library.db"),
		DBReplicaDSN: filepath.Join(t.TempDir(), "replica.db"),
	}

	// act
	_, _, err := config.OpenStore(context.Background(), cfg)

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
