package api

import (
	"net/http"

	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/library/features/query/books"
	"github.com/AntonStoeckl/library-lending/library/features/query/librarianbooks"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// bookData wraps the book touched by a command. Reads return the bare book or list as data.
type bookData struct {
	Book BookDTO `json:"book"`
}

func (s *Server) addBook(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	form, cleanup, err := parseBookForm(w, r, s.maxUploadBytes)
	defer cleanup()
	if err != nil {
		writeFailure(w, err)
		return
	}

	command := addbook.BuildCommand(
		userID,
		form.title, form.author, form.description, form.language,
		form.quantity,
		form.publisher,
		form.numberOfPages,
		form.photo,
	)

	result, err := s.handlers.AddBook.Handle(r.Context(), command)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "book added", bookData{Book: toBookDTO(result.Value)})
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	bookID, err := pathID(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	form, cleanup, err := parseBookForm(w, r, s.maxUploadBytes)
	defer cleanup()
	if err != nil {
		writeFailure(w, err)
		return
	}

	command := updatebook.BuildCommand(
		userID,
		bookID,
		form.title, form.author, form.description, form.language,
		form.quantity,
		form.publisher,
		form.numberOfPages,
		form.photo,
	)

	result, err := s.handlers.UpdateBook.Handle(r.Context(), command)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "book updated", bookData{Book: toBookDTO(result.Value)})
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	bookID, err := pathID(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	result, err := s.handlers.RemoveBook.Handle(r.Context(), removebook.BuildCommand(userID, bookID))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "book deleted", bookData{Book: toBookDTO(result.Value)})
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request, _ librarystore.UserIDInt64) {
	bookID, err := pathID(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	book, err := s.handlers.BookDetails.Handle(r.Context(), bookdetails.BuildQuery(bookID))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "book found", toBookDTO(book))
}

func (s *Server) getBooks(w http.ResponseWriter, r *http.Request, _ librarystore.UserIDInt64) {
	catalog, err := s.handlers.Books.Handle(r.Context(), books.BuildQuery())
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "books found", toBookDTOs(catalog.Books))
}

func (s *Server) getMyBooks(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	owned, err := s.handlers.LibrarianBooks.Handle(r.Context(), librarianbooks.BuildQuery(userID))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "books found", toBookDTOs(owned.Books))
}
