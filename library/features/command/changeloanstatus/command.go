package changeloanstatus

import (
	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	commandType = "ChangeLoanStatus"
)

// Command represents the intent to move a loan to another status.
type Command struct {
	RequesterID librarystore.UserIDInt64
	LoanID      librarystore.LoanIDInt64
	Status      string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requesterID librarystore.UserIDInt64, loanID librarystore.LoanIDInt64, status string) Command {
	return Command{
		RequesterID: requesterID,
		LoanID:      loanID,
		Status:      status,
	}
}

func (c Command) parseStatus() (librarystore.LoanStatus, error) {
	if c.Status == "" {
		return "", core.ValidationFailure("status is required")
	}

	status, err := librarystore.ParseLoanStatus(c.Status)
	if err != nil {
		return "", core.ValidationFailure(err.Error())
	}

	return status, nil
}
