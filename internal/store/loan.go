package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stadsbieb/bibliotheek-api/internal/domain"
)

// LoanStore defines the interface for loan ledger persistence.
//
// The ledger is append/update only: entries are created by a successful
// borrow, completed exactly once by a successful return, and never deleted.
// The check-then-act sequences inside the loan service MUST run through a
// transactional instance obtained via WithTx so that the preconditions and
// the write observe the same state (see RunInSerializableTransaction).
type LoanStore interface {
	// CreateLoanEntry appends a new active loan entry to the ledger.
	// The store enforces that no two entries for the same ISBN are active
	// at once; a violation is reported as ErrActiveLoanExists.
	CreateLoanEntry(ctx context.Context, entry *domain.LoanEntry) error

	// SetReturned completes the active loan held by the given user on the
	// given book, setting returned_at in a single guarded update. Returns
	// ErrLoanNotFound if the user holds no active loan on the ISBN,
	// whether the book was never borrowed, is held by someone else, or was
	// already returned.
	SetReturned(ctx context.Context, userID uuid.UUID, isbn string, returnedAt time.Time) error

	// FindActiveLoanByISBN retrieves the active loan entry for a book.
	// Returns ErrLoanNotFound if the book has no active loan.
	FindActiveLoanByISBN(ctx context.Context, isbn string) (*domain.LoanEntry, error)

	// CountActiveLoansByUser returns the number of active loan entries
	// held by the given user.
	CountActiveLoansByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// ListLoansByUser returns the user's complete loan history, active and
	// returned, ordered by borrowed_at ascending. The entire history is
	// returned; the ledger is not paginated.
	ListLoansByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error)

	// WithTx returns a LoanStore instance that runs its operations on the
	// provided transaction. The transaction is created and managed by the
	// caller, typically via RunInSerializableTransaction.
	WithTx(tx *sql.Tx) LoanStore
}
