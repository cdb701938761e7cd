package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

const (
	photoField         = "photo"
	multipartMemory    = 1 << 20
	multipartOverhead  = 1 << 20
	contentTypeJSON    = "application/json"
	msgInvalidID       = "invalid id"
	msgInvalidNumbers  = "quantity and number_of_pages must be positive integers"
	msgInvalidDate     = "start_date must be a date"
	msgInvalidForm     = "invalid form data"
	msgUploadTooLarge  = "upload too large"
	msgInvalidQuantity = "quantity must be an integer"
)

// bookForm holds the fields of the multipart book forms.
type bookForm struct {
	title         string
	author        string
	description   string
	language      string
	quantity      int
	publisher     string
	numberOfPages int
	photo         *shell.Upload
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ValidationFailure(msgInvalidID)
	}

	return id, nil
}

// parseBookForm reads a multipart book form. The returned cleanup releases temporary upload files.
func parseBookForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (bookForm, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return bookForm{}, noop, core.Failure{Kind: core.KindValidation, Message: msgUploadTooLarge, Cause: err}
		}

		return bookForm{}, noop, core.Failure{Kind: core.KindValidation, Message: msgInvalidForm, Cause: err}
	}

	cleanup := func() {
		_ = r.MultipartForm.RemoveAll()
	}

	quantity, quantityErr := optionalInt(r.FormValue("quantity"))
	pages, pagesErr := optionalInt(r.FormValue("number_of_pages"))
	if quantityErr != nil || pagesErr != nil {
		return bookForm{}, cleanup, core.ValidationFailure(msgInvalidNumbers)
	}

	photo, err := formUpload(r, photoField)
	if err != nil {
		return bookForm{}, cleanup, err
	}

	return bookForm{
		title:         strings.TrimSpace(r.FormValue("title")),
		author:        strings.TrimSpace(r.FormValue("author")),
		description:   strings.TrimSpace(r.FormValue("description")),
		language:      strings.TrimSpace(r.FormValue("language")),
		quantity:      quantity,
		publisher:     strings.TrimSpace(r.FormValue("publisher")),
		numberOfPages: pages,
		photo:         photo,
	}, cleanup, nil
}

// formUpload returns nil when the request carries no file under field.
func formUpload(r *http.Request, field string) (*shell.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, core.Failure{Kind: core.KindValidation, Message: msgInvalidForm, Cause: err}
	}

	return uploadFrom(file, header), nil
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) *shell.Upload {
	return &shell.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
}

// optionalInt parses an integer form value, an empty value being 0.
func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}

// flexInt decodes a JSON integer sent either as a number or as a quoted string.
// null and "" decode to 0.
type flexInt int64

func (n *flexInt) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return nil
	}

	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}

	if text == "" {
		*n = 0
		return nil
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return err
	}

	*n = flexInt(value)

	return nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeJSON)
}

// loanRequest is the body of addLoan, sent as JSON or as a form.
type loanRequest struct {
	BookID      librarystore.BookIDInt64
	StartDate   string
	Quantity    int
	LibrarianID librarystore.UserIDInt64
}

type loanBody struct {
	BookID      flexInt `json:"book_id"`
	StartDate   string  `json:"start_date"`
	Quantity    flexInt `json:"quantity"`
	LibrarianID flexInt `json:"librarian_id"`
}

func parseLoanRequest(r *http.Request) (loanRequest, error) {
	if isJSON(r) {
		var body loanBody
		if err := decodeJSON(r, &body); err != nil {
			return loanRequest{}, err
		}

		return loanRequest{
			BookID:      int64(body.BookID),
			StartDate:   body.StartDate,
			Quantity:    int(body.Quantity),
			LibrarianID: int64(body.LibrarianID),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return loanRequest{}, core.Failure{Kind: core.KindValidation, Message: msgInvalidForm, Cause: err}
	}

	bookID, bookErr := optionalInt(r.FormValue("book_id"))
	librarianID, librarianErr := optionalInt(r.FormValue("librarian_id"))
	if bookErr != nil || librarianErr != nil {
		return loanRequest{}, core.ValidationFailure(msgInvalidID)
	}

	quantity, err := optionalInt(r.FormValue("quantity"))
	if err != nil {
		return loanRequest{}, core.ValidationFailure(msgInvalidQuantity)
	}

	return loanRequest{
		BookID:      int64(bookID),
		StartDate:   r.FormValue("start_date"),
		Quantity:    quantity,
		LibrarianID: int64(librarianID),
	}, nil
}

// statusRequest is the body of updateLoanStatus, sent as JSON or as a form.
type statusRequest struct {
	Status string `json:"status"`
}

func parseStatusRequest(r *http.Request) (statusRequest, error) {
	var request statusRequest

	if isJSON(r) {
		err := decodeJSON(r, &request)

		return request, err
	}

	if err := r.ParseForm(); err != nil {
		return statusRequest{}, core.Failure{Kind: core.KindValidation, Message: msgInvalidForm, Cause: err}
	}

	request.Status = r.FormValue("status")

	return request, nil
}

// parseStartDate accepts a calendar date or an RFC 3339 timestamp. An empty value is the zero time.
func parseStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}

	if date, err := time.Parse(time.DateOnly, raw); err == nil {
		return date, nil
	}

	timestamp, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, core.ValidationFailure(msgInvalidDate)
	}

	return timestamp.UTC(), nil
}
