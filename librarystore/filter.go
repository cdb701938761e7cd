package librarystore

/***** LoanFilter *****/

type loanStatusSelection int

const (
	anyLoanStatus loanStatusSelection = iota
	activeLoansOnly
	returnedLoansOnly
)

// LoanFilter describes which loans a listing returns.
// Build it with BuildLoanFilter, the zero value matches all loans.
type LoanFilter struct {
	statusSelection loanStatusSelection
	studentID       UserIDInt64
	hasStudentID    bool
}

// OnlyActive reports whether only loans that are not returned match.
func (f LoanFilter) OnlyActive() bool {
	return f.statusSelection == activeLoansOnly
}

// OnlyReturned reports whether only returned loans match.
func (f LoanFilter) OnlyReturned() bool {
	return f.statusSelection == returnedLoansOnly
}

// StudentID returns the student the filter is restricted to, if any.
func (f LoanFilter) StudentID() (UserIDInt64, bool) {
	return f.studentID, f.hasStudentID
}

/***** LoanFilterBuilder *****/

// LoanFilterBuilder builds a LoanFilter to be used in DB type-specific store implementations.
// It only allows the combinations listings need:
//
//   - (any status)
//   - (status != returned)
//   - (status == returned)
//   - each of the above AND (student_id == X)
type LoanFilterBuilder interface {
	// OnlyActive restricts the filter to loans that are not returned.
	OnlyActive() LoanFilterStudentBuilder

	// OnlyReturned restricts the filter to returned loans.
	OnlyReturned() LoanFilterStudentBuilder

	// AnyStatus does not restrict the status.
	AnyStatus() LoanFilterStudentBuilder
}

// LoanFilterStudentBuilder restricts a LoanFilter to one student or none.
type LoanFilterStudentBuilder interface {
	// ForStudent restricts the filter to loans of one student.
	ForStudent(studentID UserIDInt64) CompletedLoanFilterBuilder

	// ForAnyStudent does not restrict the student.
	ForAnyStudent() CompletedLoanFilterBuilder
}

// CompletedLoanFilterBuilder finalizes a LoanFilter.
type CompletedLoanFilterBuilder interface {
	// Finalize returns the LoanFilter once it has been built.
	Finalize() LoanFilter
}

type loanFilterBuilder struct {
	filter LoanFilter
}

// BuildLoanFilter creates a LoanFilterBuilder.
func BuildLoanFilter() LoanFilterBuilder {
	return &loanFilterBuilder{}
}

func (b *loanFilterBuilder) OnlyActive() LoanFilterStudentBuilder {
	b.filter.statusSelection = activeLoansOnly
	return b
}

func (b *loanFilterBuilder) OnlyReturned() LoanFilterStudentBuilder {
	b.filter.statusSelection = returnedLoansOnly
	return b
}

func (b *loanFilterBuilder) AnyStatus() LoanFilterStudentBuilder {
	b.filter.statusSelection = anyLoanStatus
	return b
}

func (b *loanFilterBuilder) ForStudent(studentID UserIDInt64) CompletedLoanFilterBuilder {
	b.filter.studentID = studentID
	b.filter.hasStudentID = true
	return b
}

func (b *loanFilterBuilder) ForAnyStudent() CompletedLoanFilterBuilder {
	return b
}

func (b *loanFilterBuilder) Finalize() LoanFilter {
	return b.filter
}
