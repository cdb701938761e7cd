package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

// Supported values of LIBRARY_DB_DRIVER.
const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLX     = "sqlx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// SupportedDrivers lists the accepted database drivers.
func SupportedDrivers() []string {
	return []string{DriverPGX, DriverPostgres, DriverSQLX, DriverMySQL, DriverSQLite}
}

func isSupportedDriver(driver string) bool {
	return slices.Contains(SupportedDrivers(), driver)
}

// ErrOpeningDatabaseFailed wraps connection and ping errors.
var ErrOpeningDatabaseFailed = errors.New("opening database failed")

// PGXPoolConfig creates a pgxpool.Config with the pool settings of the service.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	const defaultMaxConnections = int32(8)
	const defaultMinConnections = int32(2)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// MySQLDSN normalizes a go-sql-driver/mysql DSN: times are parsed into time.Time in UTC and
// UPDATE reports matched rows, so an update that changes nothing still counts as found.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Join(ErrOpeningDatabaseFailed, err)
	}

	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC

	return cfg.FormatDSN(), nil
}

// SQLiteDSN turns a file path or file: URI into a mattn/go-sqlite3 DSN with foreign keys enabled,
// immediate write transactions and a busy timeout. Parameters already present are kept.
func SQLiteDSN(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")

	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		params = url.Values{}
	}

	for key, value := range map[string]string{
		"_foreign_keys": "1",
		"_txlock":       "immediate",
		"_busy_timeout": "5000",
	} {
		if !params.Has(key) {
			params.Set(key, value)
		}
	}

	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}

	return base + "?" + params.Encode()
}

func openSQLDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	if driver == DriverSQLite {
		// sqlite has a single writer, one connection avoids busy errors between readers and writers
		db.SetMaxOpenConns(1)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return db, nil
}

// OpenStore connects to the configured database and creates a Store for it.
// The returned close function releases all connections.
func OpenStore(ctx context.Context, cfg AppConfig, options ...sqlengine.Option) (sqlengine.Store, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return sqlengine.Store{}, nil, err
	}

	switch cfg.DBDriver {
	case DriverPGX:
		return openPGXStore(ctx, cfg, options)

	case DriverSQLX:
		db, err := sqlx.ConnectContext(ctx, DriverPostgres, cfg.DBDSN)
		if err != nil {
			return sqlengine.Store{}, nil, errors.Join(ErrOpeningDatabaseFailed, err)
		}

		store, err := sqlengine.NewStoreFromSQLX(db, append(options, sqlengine.WithDialect(sqlengine.DialectPostgres))...)
		if err != nil {
			_ = db.Close()
			return sqlengine.Store{}, nil, err
		}

		return store, db.Close, nil

	default:
		return openSQLStore(ctx, cfg, options)
	}
}

func openPGXStore(ctx context.Context, cfg AppConfig, options []sqlengine.Option) (sqlengine.Store, func() error, error) {
	primary, err := connectPGXPool(ctx, cfg.DBDSN)
	if err != nil {
		return sqlengine.Store{}, nil, err
	}

	if cfg.DBReplicaDSN == "" {
		store, storeErr := sqlengine.NewStoreFromPGXPool(primary, options...)
		if storeErr != nil {
			primary.Close()
			return sqlengine.Store{}, nil, storeErr
		}

		return store, closePools(primary), nil
	}

	replica, err := connectPGXPool(ctx, cfg.DBReplicaDSN)
	if err != nil {
		primary.Close()
		return sqlengine.Store{}, nil, err
	}

	store, err := sqlengine.NewStoreFromPGXPoolAndReplica(primary, replica, options...)
	if err != nil {
		primary.Close()
		replica.Close()
		return sqlengine.Store{}, nil, err
	}

	return store, closePools(primary, replica), nil
}

func connectPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return pool, nil
}

func closePools(pools ...*pgxpool.Pool) func() error {
	return func() error {
		for _, pool := range pools {
			pool.Close()
		}

		return nil
	}
}

func openSQLStore(ctx context.Context, cfg AppConfig, options []sqlengine.Option) (sqlengine.Store, func() error, error) {
	driver, dialect := cfg.DBDriver, cfg.DBDriver

	dsn, replicaDSN, err := normalizeDSNs(cfg)
	if err != nil {
		return sqlengine.Store{}, nil, err
	}

	options = append(options, sqlengine.WithDialect(dialect))

	primary, err := openSQLDB(ctx, driver, dsn)
	if err != nil {
		return sqlengine.Store{}, nil, err
	}

	if replicaDSN == "" {
		store, storeErr := sqlengine.NewStoreFromSQLDB(primary, options...)
		if storeErr != nil {
			_ = primary.Close()
			return sqlengine.Store{}, nil, storeErr
		}

		return store, primary.Close, nil
	}

	replica, err := openSQLDB(ctx, driver, replicaDSN)
	if err != nil {
		_ = primary.Close()
		return sqlengine.Store{}, nil, err
	}

	store, err := sqlengine.NewStoreFromSQLDBAndReplica(primary, replica, options...)
	if err != nil {
		_ = primary.Close()
		_ = replica.Close()
		return sqlengine.Store{}, nil, err
	}

	return store, func() error { return errors.Join(primary.Close(), replica.Close()) }, nil
}

func normalizeDSNs(cfg AppConfig) (string, string, error) {
	switch cfg.DBDriver {
	case DriverMySQL:
		dsn, err := MySQLDSN(cfg.DBDSN)
		if err != nil {
			return "", "", err
		}

		if cfg.DBReplicaDSN == "" {
			return dsn, "", nil
		}

		replicaDSN, err := MySQLDSN(cfg.DBReplicaDSN)

		return dsn, replicaDSN, err

	case DriverSQLite:
		if cfg.DBReplicaDSN != "" {
			return "", "", fmt.Errorf("%w: %s is not supported for %s", ErrInvalidConfig, EnvDBReplicaDSN, DriverSQLite)
		}

		return SQLiteDSN(cfg.DBDSN), "", nil

	default:
		return cfg.DBDSN, cfg.DBReplicaDSN, nil
	}
}
