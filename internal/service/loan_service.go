package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/platform/logger"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// LoanService coordinates the borrow/return state machine over the loan
// ledger and the book catalog.
type LoanService interface {
	// Borrow records the given user borrowing the given book. The borrow
	// succeeds only if the book exists in the catalog, no one currently
	// holds it, and the user is below the active loan limit. Fails with
	// ErrBookNotFound, ErrAlreadyBorrowed, ErrBorrowLimitExceeded, or
	// ErrStoreConflict.
	Borrow(ctx context.Context, userID uuid.UUID, isbn string) (*domain.LoanEntry, error)

	// Return completes the user's active loan on the given book. Fails
	// with ErrNotBorrowedByUser if the user holds no active loan on it.
	Return(ctx context.Context, userID uuid.UUID, isbn string) error

	// ListLoans returns the user's full loan history, oldest first.
	ListLoans(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error)
}

// loanServiceImpl implements LoanService on top of a book store and a
// transactional loan store.
type loanServiceImpl struct {
	txRunner  store.TxRunner
	bookStore store.BookStore
	loanStore store.LoanStore
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// Compile-time check that loanServiceImpl satisfies LoanService.
var _ LoanService = (*loanServiceImpl)(nil)

// NewLoanService creates a new LoanService.
func NewLoanService(txRunner store.TxRunner, bookStore store.BookStore, loanStore store.LoanStore, log *slog.Logger) (LoanService, error) {
	if txRunner == nil {
		return nil, errors.New("transaction runner cannot be nil")
	}
	if bookStore == nil {
		return nil, errors.New("book store cannot be nil")
	}
	if loanStore == nil {
		return nil, errors.New("loan store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &loanServiceImpl{
		txRunner:  txRunner,
		bookStore: bookStore,
		loanStore: loanStore,
		logger:    log.With(slog.String("component", "loan_service")),
		timeFunc:  time.Now,
	}, nil
}

// Borrow implements LoanService.Borrow.
//
// The precondition checks and the ledger insert run inside a single
// SERIALIZABLE transaction so that two concurrent borrows cannot both
// observe "book available" or "user below limit" and both commit. The
// partial unique index on active loans backstops the per-book race at the
// database level; the serializable isolation backstops the per-user count.
// A serialization conflict is retried once before giving up.
func (s *loanServiceImpl) Borrow(ctx context.Context, userID uuid.UUID, isbn string) (*domain.LoanEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Catalog lookup stays outside the loan transaction: books and loans
	// are independent tables, and a book deleted mid-borrow is harmless
	// (the ledger carries no foreign key to the catalog).
	if _, err := s.bookStore.GetByISBN(ctx, isbn); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, NewLoanServiceError("borrow", "failed to look up book", err)
	}

	entry, err := s.tryBorrow(ctx, userID, isbn)
	if errors.Is(err, store.ErrSerialization) {
		log.Debug("borrow transaction hit serialization conflict, retrying",
			slog.String("isbn", isbn))
		entry, err = s.tryBorrow(ctx, userID, isbn)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyBorrowed), errors.Is(err, ErrBorrowLimitExceeded):
			return nil, err
		case errors.Is(err, store.ErrSerialization):
			log.Warn("borrow failed after serialization retry",
				slog.String("isbn", isbn),
				slog.String("user_id", userID.String()))
			return nil, ErrStoreConflict
		default:
			return nil, NewLoanServiceError("borrow", "transaction failed", err)
		}
	}

	log.Info("book borrowed",
		slog.String("isbn", isbn),
		slog.String("user_id", userID.String()),
		slog.String("loan_id", entry.ID.String()))
	return entry, nil
}

// tryBorrow runs one attempt of the borrow transaction.
func (s *loanServiceImpl) tryBorrow(ctx context.Context, userID uuid.UUID, isbn string) (*domain.LoanEntry, error) {
	var entry *domain.LoanEntry

	err := s.txRunner.RunInSerializableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		loans := s.loanStore.WithTx(tx)

		// Someone else holding the book is checked before the user's own
		// limit so the caller learns the more specific reason first.
		_, err := loans.FindActiveLoanByISBN(ctx, isbn)
		if err == nil {
			return ErrAlreadyBorrowed
		}
		if !errors.Is(err, store.ErrLoanNotFound) {
			return err
		}

		count, err := loans.CountActiveLoansByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count >= domain.MaxActiveLoansPerUser {
			return ErrBorrowLimitExceeded
		}

		newEntry, err := domain.NewLoanEntry(userID, isbn)
		if err != nil {
			return err
		}
		newEntry.BorrowedAt = s.timeFunc().UTC()

		if err := loans.CreateLoanEntry(ctx, newEntry); err != nil {
			// A concurrent borrow can slip between the check and the
			// insert even under serializable isolation when the other
			// transaction commits first; the active-loan index turns
			// that into a duplicate we can name.
			if errors.Is(err, store.ErrActiveLoanExists) {
				return ErrAlreadyBorrowed
			}
			return err
		}

		entry = newEntry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Return implements LoanService.Return.
//
// The return is a single guarded update on the ledger, so no transaction
// is needed: the WHERE clause checks holder and active status atomically
// with the write.
func (s *loanServiceImpl) Return(ctx context.Context, userID uuid.UUID, isbn string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.loanStore.SetReturned(ctx, userID, isbn, s.timeFunc().UTC())
	if err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return ErrNotBorrowedByUser
		}
		return NewLoanServiceError("return", "failed to complete loan", err)
	}

	log.Info("book returned",
		slog.String("isbn", isbn),
		slog.String("user_id", userID.String()))
	return nil
}

// ListLoans implements LoanService.ListLoans.
func (s *loanServiceImpl) ListLoans(ctx context.Context, userID uuid.UUID) ([]*domain.LoanEntry, error) {
	entries, err := s.loanStore.ListLoansByUser(ctx, userID)
	if err != nil {
		return nil, NewLoanServiceError("list", "failed to list loans", err)
	}
	return entries, nil
}
