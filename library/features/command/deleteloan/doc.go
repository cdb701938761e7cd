// Package deleteloan implements the Delete Loan use case: a librarian removes a loan record.
//
// Deleting a loan that is not returned credits its copies back to the book, otherwise the copies
// would be lost from the inventory. A returned loan was credited already and is deleted without
// touching the book.
package deleteloan
