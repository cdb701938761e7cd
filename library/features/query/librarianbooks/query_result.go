package librarianbooks

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// OwnedBooks represents the query result containing the books of one librarian.
type OwnedBooks struct {
	LibrarianID librarystore.UserIDInt64
	Books       []librarystore.Book
	Count       int
}
