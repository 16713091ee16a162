package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/service"
)

// MockLoanService implements service.LoanService for testing
type MockLoanService struct {
	// Function fields for customizable behavior
	BorrowFn    func(ctx context.Context, userID uuid.UUID, isbn string) (*domain.LoanEntry, error)
	ReturnFn    func(ctx context.Context, userID uuid.UUID, isbn string) error
	ListLoansFn func(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error)

	// Default response values
	Entry   *domain.LoanEntry
	Entries []*domain.LoanEntry
	Err     error
}

// Compile-time check that MockLoanService satisfies service.LoanService.
var _ service.LoanService = (*MockLoanService)(nil)

// Borrow implements the LoanService interface
func (m *MockLoanService) Borrow(ctx context.Context, userID uuid.UUID, isbn string) (*domain.LoanEntry, error) {
	if m.BorrowFn != nil {
		return m.BorrowFn(ctx, userID, isbn)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entry, nil
}

// Return implements the LoanService interface
func (m *MockLoanService) Return(ctx context.Context, userID uuid.UUID, isbn string) error {
	if m.ReturnFn != nil {
		return m.ReturnFn(ctx, userID, isbn)
	}
	return m.Err
}

// ListLoans implements the LoanService interface
func (m *MockLoanService) ListLoans(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error) {
	if m.ListLoansFn != nil {
		return m.ListLoansFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}
