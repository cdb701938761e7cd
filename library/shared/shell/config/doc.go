// Package config provides the runtime configuration of the library lending service:
// application settings from LIBRARY_* environment variables, database connections for the
// supported drivers (pgx.Pool, sql.DB with lib/pq, go-sql-driver/mysql or mattn/go-sqlite3, sqlx.DB)
// and the OpenTelemetry providers.
//
// This package is part of the shell (infrastructure) layer.
package config
