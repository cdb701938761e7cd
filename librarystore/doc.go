// Package librarystore provides the data model and persistence contract
// for the library lending backend.
//
// This package defines the types shared by all store implementations and by the
// application layer: books, loans, users, rights (as a capability set), the loan
// filter used by listings, the transactional Tx contract, and common error definitions.
//
// Key types:
//   - Book: a catalog entry with its available quantity
//   - Loan: a reservation of copies of one book by one student
//   - Rights: the capability set {librarian, student, admin} a user holds
//   - LoanFilter: defines criteria for listing loans
//   - Tx: the operations that must run inside one database transaction
//
// Common usage pattern:
//
//	filter := BuildLoanFilter().
//		OnlyActive().
//		ForStudent(studentID).
//		Finalize()
//
//	loans, err := store.Loans(ctx, filter)
//
//	err = store.WithinTx(ctx, func(ctx context.Context, tx librarystore.Tx) error {
//		book, err := tx.BookForUpdate(ctx, bookID)
//		// decide ...
//		return tx.AdjustBookQuantity(ctx, bookID, -quantity)
//	})
package librarystore
