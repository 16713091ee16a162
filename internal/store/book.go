package store

import (
	"context"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
)

// BookPage is one page of catalog results together with pagination totals.
type BookPage struct {
	Books      []*domain.Book
	Page       int
	TotalPages int
}

// BookStore defines the interface for catalog data persistence.
type BookStore interface {
	// Create saves a new book to the store.
	// Returns ErrISBNExists if a book with the same ISBN already exists.
	// Returns validation errors if the book data is invalid.
	Create(ctx context.Context, book *domain.Book) error

	// GetByISBN retrieves a book by its ISBN.
	// Returns ErrBookNotFound if the book does not exist.
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// List returns one page of the catalog ordered by ISBN descending,
	// with pageSize books per page. Page numbering starts at 0.
	List(ctx context.Context, page, pageSize int) (*BookPage, error)

	// Update modifies an existing book's metadata. The ISBN identifies the
	// book and is never changed. Returns ErrBookNotFound if no book with
	// the given ISBN exists.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book from the catalog by ISBN.
	// Returns ErrBookNotFound if the book does not exist. Loan history
	// referencing the ISBN is retained.
	Delete(ctx context.Context, isbn string) error
}
