package activeloans

import (
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// OpenLoans represents the query result containing loans that are not returned yet.
type OpenLoans struct {
	Loans []librarystore.LoanView
	Count int
}
