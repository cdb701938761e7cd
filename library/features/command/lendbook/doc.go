// Package lendbook implements the Lend Book use case: a student borrows copies of a book.
//
// The handler follows Authorize -> Validate -> (Load -> Decide -> Apply) where the part in
// parentheses runs in one transaction with the book row locked, so the availability check,
// the debit and the loan insert form one unit. The debit itself is a guarded update that can
// never drive the quantity below zero.
//
// Business Rules:
//
//	GIVEN: a requester holding the student right, a book id, a start date and a quantity
//	WHEN: the book has at least quantity copies and quantity <= 5
//	THEN: the book quantity drops by quantity and a pending loan ending 7 days after start is created
//	ERROR: "not found" if the book does not exist or has no copies left
//	ERROR: "not enough copies" if the book has fewer copies than requested
//	ERROR: "exceeds 5" if more than 5 copies are requested, checked after availability
package lendbook
