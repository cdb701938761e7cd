// Package addbook implements the Add Book use case: a librarian adds a book with a cover image
// to the catalog.
//
// Business Rules:
//
//	GIVEN: title, author, description, language, quantity, publisher, number of pages and an image
//	WHEN: the requester holds the librarian right
//	THEN: the image is stored and a book owned by the requester is created
//	ERROR: "missing required fields" if any field is missing, checked first
//	ERROR: "image is required" if no image was uploaded
//	ERROR: "not authorized" if the requester is no librarian
package addbook
