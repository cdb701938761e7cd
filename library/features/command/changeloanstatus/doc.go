// Package changeloanstatus implements the Change Loan Status use case: a librarian moves a loan
// between pending, active, returned and overdue.
//
// Any status may be set from any other. Moving a loan into "returned" credits its copies back
// to the book, moving it out of "returned" debits them again. The loan row is locked for the
// whole transaction and the status write is conditional on the status the decision was based on,
// so a loan is credited exactly once no matter how often "returned" is sent.
package changeloanstatus
