// Package librarianbooks implements the Librarian Books query: the books a librarian added.
package librarianbooks
