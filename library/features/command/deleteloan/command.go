package deleteloan

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	commandType = "DeleteLoan"
)

// Command represents the intent to delete a loan.
type Command struct {
	RequesterID librarystore.UserIDInt64
	LoanID      librarystore.LoanIDInt64
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requesterID librarystore.UserIDInt64, loanID librarystore.LoanIDInt64) Command {
	return Command{
		RequesterID: requesterID,
		LoanID:      loanID,
	}
}
