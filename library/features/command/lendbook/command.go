package lendbook

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	commandType = "LendBook"
)

// Command represents the intent of a student to borrow copies of a book.
type Command struct {
	RequesterID librarystore.UserIDInt64
	BookID      librarystore.BookIDInt64
	StartDate   time.Time
	Quantity    int

	// IssuedBy is the staff member handing out the copies. Zero records the requester instead.
	IssuedBy librarystore.UserIDInt64
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	requesterID librarystore.UserIDInt64,
	bookID librarystore.BookIDInt64,
	startDate time.Time,
	quantity int,
	issuedBy librarystore.UserIDInt64,
) Command {

	return Command{
		RequesterID: requesterID,
		BookID:      bookID,
		StartDate:   startDate,
		Quantity:    quantity,
		IssuedBy:    issuedBy,
	}
}

// EndDate is the last day of the loan.
func (c Command) EndDate() time.Time {
	return core.EndDateFor(c.StartDate)
}

func (c Command) librarianID() librarystore.UserIDInt64 {
	if c.IssuedBy != 0 {
		return c.IssuedBy
	}

	return c.RequesterID
}

func (c Command) validate() error {
	var missing []string

	if c.BookID == 0 {
		missing = append(missing, "book_id")
	}

	if c.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}

	if c.Quantity == 0 {
		missing = append(missing, "quantity")
	}

	if len(missing) > 0 {
		return core.ValidationFailure("missing required fields: " + strings.Join(missing, ", "))
	}

	if c.Quantity < 0 {
		return core.ValidationFailure("quantity must be a positive integer")
	}

	return nil
}
