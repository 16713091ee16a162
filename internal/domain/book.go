package domain

import (
	"errors"
	"time"
)

// Book validation errors
var (
	// ErrEmptyISBN is returned when a book's ISBN is empty.
	ErrEmptyISBN = errors.New("book ISBN cannot be empty")

	// ErrEmptyTitle is returned when a book's title is empty.
	ErrEmptyTitle = errors.New("book title cannot be empty")

	// ErrEmptyAuthor is returned when a book's author is empty.
	ErrEmptyAuthor = errors.New("book author cannot be empty")
)

// Book represents a catalog entry. The ISBN is the book's identity and is
// immutable once the book has been created; all other attributes may be
// updated by catalog administrators.
type Book struct {
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Edition         string     `json:"edition,omitempty"`
	Publisher       string     `json:"publisher,omitempty"`
	Genre           string     `json:"genre,omitempty"`
	PageCount       int        `json:"page_count,omitempty"`
	Language        string     `json:"language,omitempty"`
	PublicationYear int        `json:"publication_year,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// NewBook creates a new Book with the given attributes and sets AddedAt.
// Returns an error if validation fails.
func NewBook(isbn, title, author string) (*Book, error) {
	book := &Book{
		ISBN:    isbn,
		Title:   title,
		Author:  author,
		AddedAt: time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
// ISBN, title, and author are required; the remaining attributes are
// optional catalog metadata.
func (b *Book) Validate() error {
	if b.ISBN == "" {
		return ErrEmptyISBN
	}

	if b.Title == "" {
		return ErrEmptyTitle
	}

	if b.Author == "" {
		return ErrEmptyAuthor
	}

	return nil
}

// Touch updates the UpdatedAt timestamp after a metadata change.
func (b *Book) Touch() {
	now := time.Now().UTC()
	b.UpdatedAt = &now
}
