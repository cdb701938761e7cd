package updatebook

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Decide merges the command into the stored book. Empty values keep the stored ones,
// an empty photoRef keeps the stored image.
func Decide(book librarystore.Book, command Command, photoRef string) librarystore.Book {
	book.Title = replaceIfSet(book.Title, command.Title)
	book.Author = replaceIfSet(book.Author, command.Author)
	book.Description = replaceIfSet(book.Description, command.Description)
	book.Language = replaceIfSet(book.Language, command.Language)
	book.Publisher = replaceIfSet(book.Publisher, command.Publisher)

	if command.Quantity > 0 {
		book.Quantity = command.Quantity
	}

	if command.NumberOfPages > 0 {
		book.NumberOfPages = command.NumberOfPages
	}

	if photoRef != "" {
		book.Photo = &photoRef
	}

	return book
}

func replaceIfSet(current, candidate string) string {
	if candidate == "" {
		return current
	}

	return candidate
}
