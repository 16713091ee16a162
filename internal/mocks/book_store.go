package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// MockBookStore implements store.BookStore for testing
type MockBookStore struct {
	// Function fields for customizable behavior
	CreateFn    func(ctx context.Context, book *domain.Book) error
	GetByISBNFn func(ctx context.Context, isbn string) (*domain.Book, error)
	ListFn      func(ctx context.Context, page, pageSize int) (*store.BookPage, error)
	UpdateFn    func(ctx context.Context, book *domain.Book) error
	DeleteFn    func(ctx context.Context, isbn string) error

	// Data for default implementation, keyed by ISBN
	mu    sync.Mutex
	Books map[string]*domain.Book
}

// Compile-time check that MockBookStore satisfies store.BookStore.
var _ store.BookStore = (*MockBookStore)(nil)

// NewMockBookStore creates a new mock store with initialized defaults
func NewMockBookStore() *MockBookStore {
	return &MockBookStore{
		Books: make(map[string]*domain.Book),
	}
}

// Create implements the BookStore interface
func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, book)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Books[book.ISBN]; exists {
		return store.ErrISBNExists
	}
	m.Books[book.ISBN] = book
	return nil
}

// GetByISBN implements the BookStore interface
func (m *MockBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	if m.GetByISBNFn != nil {
		return m.GetByISBNFn(ctx, isbn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	book, exists := m.Books[isbn]
	if !exists {
		return nil, store.ErrBookNotFound
	}
	return book, nil
}

// List implements the BookStore interface. Like the real store it orders
// by ISBN descending and numbers pages from zero.
func (m *MockBookStore) List(ctx context.Context, page, pageSize int) (*store.BookPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page, pageSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	isbns := make([]string, 0, len(m.Books))
	for isbn := range m.Books {
		isbns = append(isbns, isbn)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(isbns)))

	totalPages := (len(isbns) + pageSize - 1) / pageSize
	start := page * pageSize
	if start > len(isbns) {
		start = len(isbns)
	}
	end := start + pageSize
	if end > len(isbns) {
		end = len(isbns)
	}

	books := make([]*domain.Book, 0, end-start)
	for _, isbn := range isbns[start:end] {
		books = append(books, m.Books[isbn])
	}

	return &store.BookPage{
		Books:      books,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Update implements the BookStore interface
func (m *MockBookStore) Update(ctx context.Context, book *domain.Book) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, book)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Books[book.ISBN]; !exists {
		return store.ErrBookNotFound
	}
	m.Books[book.ISBN] = book
	return nil
}

// Delete implements the BookStore interface
func (m *MockBookStore) Delete(ctx context.Context, isbn string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, isbn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Books[isbn]; !exists {
		return store.ErrBookNotFound
	}
	delete(m.Books, isbn)
	return nil
}
