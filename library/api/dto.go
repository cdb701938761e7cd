package api

import (
	"time"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

const dateLayout = time.DateOnly

// BookDTO is the wire shape of a book.
type BookDTO struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Language      string    `json:"language"`
	Photo         *string   `json:"photo"`
	Quantity      int       `json:"quantity"`
	Status        *string   `json:"status"`
	LibrarianID   int64     `json:"librarian_id"`
	Publisher     string    `json:"publisher"`
	NumberOfPages int       `json:"number_of_pages"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoanDTO is the wire shape of a loan. Listings add the book's catalog fields and the student name.
type LoanDTO struct {
	ID          int64     `json:"id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	BookID      int64     `json:"book_id"`
	StudentID   int64     `json:"student_id"`
	LibrarianID int64     `json:"librarian_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `json:"title,omitempty"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
}

// UserDTO is the wire shape of a user. The password hash never leaves the service.
type UserDTO struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Photo  *string  `json:"photo"`
	Rights []string `json:"rights,omitempty"`
}

// SessionDTO is returned by the login route.
type SessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

func toBookDTO(book librarystore.Book) BookDTO {
	return BookDTO{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Description:   book.Description,
		Language:      book.Language,
		Photo:         book.Photo,
		Quantity:      book.Quantity,
		Status:        book.Status,
		LibrarianID:   book.LibrarianID,
		Publisher:     book.Publisher,
		NumberOfPages: book.NumberOfPages,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

func toBookDTOs(books []librarystore.Book) []BookDTO {
	dtos := make([]BookDTO, 0, len(books))
	for _, book := range books {
		dtos = append(dtos, toBookDTO(book))
	}

	return dtos
}

func toLoanDTO(loan librarystore.Loan) LoanDTO {
	return LoanDTO{
		ID:          loan.ID,
		StartDate:   loan.StartDate.Format(dateLayout),
		EndDate:     loan.EndDate.Format(dateLayout),
		Quantity:    loan.Quantity,
		Status:      loan.Status.String(),
		BookID:      loan.BookID,
		StudentID:   loan.StudentID,
		LibrarianID: loan.LibrarianID,
		CreatedAt:   loan.CreatedAt,
		UpdatedAt:   loan.UpdatedAt,
	}
}

func toLoanViewDTOs(views []librarystore.LoanView) []LoanDTO {
	dtos := make([]LoanDTO, 0, len(views))
	for _, view := range views {
		dto := toLoanDTO(view.Loan)
		dto.Title = view.BookTitle
		dto.Author = view.BookAuthor
		dto.Description = view.BookDescription
		dto.Photo = view.BookPhoto
		dto.StudentName = view.StudentName
		dtos = append(dtos, dto)
	}

	return dtos
}

func toUserDTO(user librarystore.User, rights librarystore.Rights) UserDTO {
	return UserDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
		Photo:  user.Photo,
		Rights: rights.Names(),
	}
}
