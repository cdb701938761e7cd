package books

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Catalog represents the query result containing all books.
type Catalog struct {
	Books []librarystore.Book
	Count int
}
