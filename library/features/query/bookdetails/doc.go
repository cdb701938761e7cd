// Package bookdetails implements the Book Details query: any authenticated user loads one book.
package bookdetails
