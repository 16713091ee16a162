package service

import (
	"errors"
	"fmt"
)

// Loan state machine errors. Each borrow/return precondition failure is a
// distinct, user-visible error; none is recovered silently.
var (
	// ErrBookNotFound is returned when borrowing an ISBN with no catalog entry.
	ErrBookNotFound = errors.New("book not found")

	// ErrAlreadyBorrowed is returned when the book already has an active
	// loan, whether detected by the precondition check or by losing the
	// insert race to a concurrent borrow.
	ErrAlreadyBorrowed = errors.New("book is already borrowed")

	// ErrBorrowLimitExceeded is returned when the user already holds the
	// maximum number of active loans.
	ErrBorrowLimitExceeded = errors.New("borrow limit exceeded")

	// ErrNotBorrowedByUser is returned when returning a book the user does
	// not currently hold. It deliberately covers "never borrowed",
	// "borrowed by someone else", and "already returned" uniformly.
	ErrNotBorrowedByUser = errors.New("book not borrowed by this user")

	// ErrStoreConflict is returned when the borrow transaction lost a
	// serialization conflict twice in a row. The request fails rather than
	// retrying indefinitely; the client may resubmit.
	ErrStoreConflict = errors.New("conflicting concurrent operation, please retry")
)

// LoanServiceError is a custom error type for loan service failures that
// are not one of the precondition sentinels above.
type LoanServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LoanServiceError.
func (e *LoanServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loan service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("loan service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoanServiceError) Unwrap() error {
	return e.Err
}

// NewLoanServiceError creates a new LoanServiceError.
func NewLoanServiceError(operation, message string, err error) *LoanServiceError {
	return &LoanServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
