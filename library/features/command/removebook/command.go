package removebook

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	commandType = "RemoveBook"
)

// Command represents the intent to delete a book.
type Command struct {
	RequesterID librarystore.UserIDInt64
	BookID      librarystore.BookIDInt64
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requesterID librarystore.UserIDInt64, bookID librarystore.BookIDInt64) Command {
	return Command{
		RequesterID: requesterID,
		BookID:      bookID,
	}
}
