package librarystore

import "time"

const (
	// BookStatusAvailable marks a book with at least one copy on the shelf.
	BookStatusAvailable = "available"

	// BookStatusUnavailable marks a book whose copies are all on loan.
	BookStatusUnavailable = "unavailable"
)

// Book is a catalog entry. Quantity is the number of physical copies not currently on loan
// and never goes negative.
type Book struct {
	ID            BookIDInt64
	Title         string
	Author        string
	Description   string
	Language      string
	Photo         *string
	Quantity      int
	Status        *string
	LibrarianID   UserIDInt64
	Publisher     string
	NumberOfPages int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PhotoRef returns the stored asset reference or an empty string.
func (b Book) PhotoRef() string {
	if b.Photo == nil {
		return ""
	}

	return *b.Photo
}

// StatusForQuantity derives the shelf status from a quantity.
func StatusForQuantity(quantity int) string {
	if quantity > 0 {
		return BookStatusAvailable
	}

	return BookStatusUnavailable
}
