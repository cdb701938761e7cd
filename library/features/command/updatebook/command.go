package updatebook

import (
	"strings"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	commandType = "UpdateBook"
)

// Command represents the intent to change a book. Image is optional.
type Command struct {
	RequesterID   librarystore.UserIDInt64
	BookID        librarystore.BookIDInt64
	Title         string
	Author        string
	Description   string
	Language      string
	Quantity      int
	Publisher     string
	NumberOfPages int
	Image         *shell.Upload
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	requesterID librarystore.UserIDInt64,
	bookID librarystore.BookIDInt64,
	title, author, description, language string,
	quantity int,
	publisher string,
	numberOfPages int,
	image *shell.Upload,
) Command {

	return Command{
		RequesterID:   requesterID,
		BookID:        bookID,
		Title:         title,
		Author:        author,
		Description:   description,
		Language:      language,
		Quantity:      quantity,
		Publisher:     publisher,
		NumberOfPages: numberOfPages,
		Image:         image,
	}
}

func (c Command) validate() error {
	fields := []struct {
		name    string
		present bool
	}{
		{"title", c.Title != ""},
		{"author", c.Author != ""},
		{"description", c.Description != ""},
		{"language", c.Language != ""},
		{"quantity", c.Quantity != 0},
		{"publisher", c.Publisher != ""},
		{"number_of_pages", c.NumberOfPages != 0},
	}

	var missing []string
	for _, field := range fields {
		if !field.present {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return core.ValidationFailure("missing required fields: " + strings.Join(missing, ", "))
	}

	if c.Quantity < 0 || c.NumberOfPages < 0 {
		return core.ValidationFailure("quantity and number_of_pages must be positive integers")
	}

	return nil
}
