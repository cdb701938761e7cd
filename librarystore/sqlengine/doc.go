// Package sqlengine provides the relational implementation of the library store.
//
// All SQL is built with goqu and executed through one of three database adapters:
//   - pgx.Pool (NewStoreFromPGXPool)
//   - sql.DB (NewStoreFromSQLDB) with lib/pq, go-sql-driver/mysql or mattn/go-sqlite3
//   - sqlx.DB (NewStoreFromSQLX)
//
// The SQL dialect defaults to postgres and can be switched with WithDialect.
//
// Every read-then-write of a book quantity runs inside Store.WithinTx:
//
//	err := store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
//		book, err := tx.BookForUpdate(ctx, bookID)
//		if err != nil {
//			return err
//		}
//		// decide...
//		return tx.AdjustBookQuantity(ctx, book.ID, -2)
//	})
//
// On postgres and mysql the selected rows are locked with SELECT ... FOR UPDATE.
// On sqlite the connection must use immediate transactions (_txlock=immediate) so writers are serialized.
// On all dialects quantity changes are guarded updates that never let a quantity go negative.
//
// Observability is optional and dependency-free: plug in a Logger, ContextualLogger,
// MetricsCollector and TracingCollector via the functional options.
package sqlengine
