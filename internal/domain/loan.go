package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxActiveLoansPerUser is the maximum number of loans a user may hold
// concurrently (loans with no return timestamp).
const MaxActiveLoansPerUser = 2

// LoanEntry validation errors
var (
	// ErrLoanIDEmpty is returned when a loan entry's ID is empty or nil.
	ErrLoanIDEmpty = errors.New("loan ID cannot be empty")

	// ErrLoanUserIDEmpty is returned when a loan entry's user ID is empty or nil.
	ErrLoanUserIDEmpty = errors.New("loan user ID cannot be empty")

	// ErrLoanISBNEmpty is returned when a loan entry's ISBN is empty.
	ErrLoanISBNEmpty = errors.New("loan ISBN cannot be empty")

	// ErrLoanAlreadyReturned is returned when marking a returned loan as
	// returned a second time. A return timestamp is immutable once set.
	ErrLoanAlreadyReturned = errors.New("loan has already been returned")
)

// LoanEntry represents one borrow episode of a book by a user.
// A nil ReturnedAt means the loan is active: the book is held by this user.
// Book availability is derived from loan entries, never stored separately,
// so there is a single source of truth for the borrowing state.
type LoanEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ISBN       string     `json:"isbn"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// NewLoanEntry creates a new active loan entry for the given user and book.
// BorrowedAt is set to the current time and ReturnedAt is nil.
// Returns an error if validation fails.
func NewLoanEntry(userID uuid.UUID, isbn string) (*LoanEntry, error) {
	entry := &LoanEntry{
		ID:         uuid.New(),
		UserID:     userID,
		ISBN:       isbn,
		BorrowedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the LoanEntry has valid data.
// Returns an error if any field fails validation.
func (e *LoanEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrLoanIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrLoanUserIDEmpty
	}

	if e.ISBN == "" {
		return ErrLoanISBNEmpty
	}

	return nil
}

// Active reports whether the loan has not been returned yet.
func (e *LoanEntry) Active() bool {
	return e.ReturnedAt == nil
}

// MarkReturned sets the return timestamp, completing the loan.
// Returns ErrLoanAlreadyReturned if the loan is already completed.
func (e *LoanEntry) MarkReturned(at time.Time) error {
	if e.ReturnedAt != nil {
		return ErrLoanAlreadyReturned
	}

	at = at.UTC()
	e.ReturnedAt = &at
	return nil
}
