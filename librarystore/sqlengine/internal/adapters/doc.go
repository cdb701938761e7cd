// Package adapters provide database adapter implementations for the relational library store.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB (lib/pq, go-sql-driver/mysql, mattn/go-sqlite3), and sqlx.DB.
// All adapters provide equivalent functionality through a common DBAdapter interface,
// including transactions, so the store works with any supported connection type.
package adapters
