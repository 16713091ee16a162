package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// Password complexity beyond length is enforced by the domain layer.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication
// endpoints. The session token itself travels in the session cookie; it
// is echoed here as well for clients that prefer the Authorization header.
type AuthResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Token string    `json:"token,omitempty"`
}

// BookPayload defines the catalog attributes accepted when creating or
// updating a book.
type BookPayload struct {
	ISBN            string `json:"isbn"             validate:"required"`
	Title           string `json:"title"            validate:"required"`
	Author          string `json:"author"           validate:"required"`
	Edition         string `json:"edition,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Genre           string `json:"genre,omitempty"`
	PageCount       int    `json:"page_count,omitempty"       validate:"omitempty,gt=0"`
	Language        string `json:"language,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty" validate:"omitempty,gt=0"`
}

// BookCreatedResponse confirms one created catalog entry.
type BookCreatedResponse struct {
	ISBN    string    `json:"isbn"`
	AddedAt time.Time `json:"added_at"`
}

// BookUpdatedResponse confirms an updated catalog entry.
type BookUpdatedResponse struct {
	ISBN      string    `json:"isbn"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookListResponse is one page of the catalog.
type BookListResponse struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Books      []BookPayload `json:"books"`
}

// BorrowRequest defines the payload for the borrow endpoint.
type BorrowRequest struct {
	ISBN string `json:"isbn" validate:"required"`
}

// BorrowResponse confirms a successful borrow.
type BorrowResponse struct {
	ISBN       string    `json:"isbn"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// BorrowedBookItem is one loan episode in a user's history.
type BorrowedBookItem struct {
	ISBN       string     `json:"isbn"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// BorrowedBooksResponse is the user's loan history, oldest first.
type BorrowedBooksResponse struct {
	Books []BorrowedBookItem `json:"books"`
}
