package pastloans

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// ReturnedLoans represents the query result containing returned loans.
type ReturnedLoans struct {
	Loans []librarystore.LoanView
	Count int
}
