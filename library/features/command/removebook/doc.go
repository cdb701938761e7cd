// Package removebook implements the Remove Book use case: a librarian deletes a catalog entry.
//
// A book that any loan references, returned ones included, cannot be deleted. The loan check and
// the delete run in one transaction with the book row locked, so a loan created concurrently
// either blocks the delete or waits for it. The cover image is removed after the commit on a
// best-effort basis.
package removebook
