package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// MockLoanStore implements store.LoanStore for testing.
//
// The default implementation keeps the ledger in memory behind a mutex
// and enforces active-loan uniqueness per ISBN inside CreateLoanEntry,
// exactly as the database's partial unique index does. This makes the
// mock a faithful stand-in for concurrency tests: two racing creates for
// the same ISBN cannot both succeed.
type MockLoanStore struct {
	// Function fields for customizable behavior
	CreateLoanEntryFn      func(ctx context.Context, entry *domain.LoanEntry) error
	SetReturnedFn          func(ctx context.Context, userID uuid.UUID, isbn string, returnedAt time.Time) error
	FindActiveLoanByISBNFn func(ctx context.Context, isbn string) (*domain.LoanEntry, error)
	CountActiveLoansFn     func(ctx context.Context, userID uuid.UUID) (int, error)
	ListLoansByUserFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error)

	// Data for default implementation
	mu      sync.Mutex
	Entries []*domain.LoanEntry
}

// Compile-time check that MockLoanStore satisfies store.LoanStore.
var _ store.LoanStore = (*MockLoanStore)(nil)

// NewMockLoanStore creates a new mock store with an empty ledger
func NewMockLoanStore() *MockLoanStore {
	return &MockLoanStore{}
}

// CreateLoanEntry implements the LoanStore interface. The uniqueness
// check and the append happen under one lock, mirroring the atomicity of
// the database's partial unique index.
func (m *MockLoanStore) CreateLoanEntry(ctx context.Context, entry *domain.LoanEntry) error {
	if m.CreateLoanEntryFn != nil {
		return m.CreateLoanEntryFn(ctx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Entries {
		if existing.ISBN == entry.ISBN && existing.Active() {
			return store.ErrActiveLoanExists
		}
	}

	copied := *entry
	m.Entries = append(m.Entries, &copied)
	return nil
}

// SetReturned implements the LoanStore interface
func (m *MockLoanStore) SetReturned(ctx context.Context, userID uuid.UUID, isbn string, returnedAt time.Time) error {
	if m.SetReturnedFn != nil {
		return m.SetReturnedFn(ctx, userID, isbn, returnedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.Entries {
		if entry.UserID == userID && entry.ISBN == isbn && entry.Active() {
			at := returnedAt
			entry.ReturnedAt = &at
			return nil
		}
	}
	return store.ErrLoanNotFound
}

// FindActiveLoanByISBN implements the LoanStore interface
func (m *MockLoanStore) FindActiveLoanByISBN(ctx context.Context, isbn string) (*domain.LoanEntry, error) {
	if m.FindActiveLoanByISBNFn != nil {
		return m.FindActiveLoanByISBNFn(ctx, isbn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.Entries {
		if entry.ISBN == isbn && entry.Active() {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, store.ErrLoanNotFound
}

// CountActiveLoansByUser implements the LoanStore interface
func (m *MockLoanStore) CountActiveLoansByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountActiveLoansFn != nil {
		return m.CountActiveLoansFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, entry := range m.Entries {
		if entry.UserID == userID && entry.Active() {
			count++
		}
	}
	return count, nil
}

// ListLoansByUser implements the LoanStore interface
func (m *MockLoanStore) ListLoansByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error) {
	if m.ListLoansByUserFn != nil {
		return m.ListLoansByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []*domain.LoanEntry
	for _, entry := range m.Entries {
		if entry.UserID == userID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

// WithTx implements the LoanStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return m
}
