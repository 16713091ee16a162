package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/mocks"
	"github.com/stadsbieb/bibliotheek-api/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type loanServiceFixture struct {
	txRunner  *mocks.MockTxRunner
	bookStore *mocks.MockBookStore
	loanStore *mocks.MockLoanStore
	svc       service.LoanService
}

func newLoanServiceFixture(t *testing.T) *loanServiceFixture {
	t.Helper()

	f := &loanServiceFixture{
		txRunner:  mocks.NewMockTxRunner(),
		bookStore: mocks.NewMockBookStore(),
		loanStore: mocks.NewMockLoanStore(),
	}

	svc, err := service.NewLoanService(f.txRunner, f.bookStore, f.loanStore, discardLogger())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *loanServiceFixture) addBook(t *testing.T, isbn string) {
	t.Helper()

	book, err := domain.NewBook(isbn, "Test Book", "Test Author")
	require.NoError(t, err)
	require.NoError(t, f.bookStore.Create(context.Background(), book))
}

func TestNewLoanService(t *testing.T) {
	t.Parallel()

	txRunner := mocks.NewMockTxRunner()
	bookStore := mocks.NewMockBookStore()
	loanStore := mocks.NewMockLoanStore()
	log := discardLogger()

	t.Run("valid dependencies", func(t *testing.T) {
		svc, err := service.NewLoanService(txRunner, bookStore, loanStore, log)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("nil transaction runner", func(t *testing.T) {
		_, err := service.NewLoanService(nil, bookStore, loanStore, log)
		assert.Error(t, err)
	})

	t.Run("nil book store", func(t *testing.T) {
		_, err := service.NewLoanService(txRunner, nil, loanStore, log)
		assert.Error(t, err)
	})

	t.Run("nil loan store", func(t *testing.T) {
		_, err := service.NewLoanService(txRunner, bookStore, nil, log)
		assert.Error(t, err)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := service.NewLoanService(txRunner, bookStore, loanStore, nil)
		assert.Error(t, err)
	})
}

func TestBorrow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	const isbn = "9780134190440"

	t.Run("success creates active loan", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		entry, err := f.svc.Borrow(ctx, userID, isbn)
		require.NoError(t, err)
		assert.Equal(t, userID, entry.UserID)
		assert.Equal(t, isbn, entry.ISBN)
		assert.Nil(t, entry.ReturnedAt)
		assert.True(t, entry.Active())
		assert.False(t, entry.BorrowedAt.IsZero())
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newLoanServiceFixture(t)

		_, err := f.svc.Borrow(ctx, userID, "9999999999999")
		assert.ErrorIs(t, err, service.ErrBookNotFound)
		assert.Empty(t, f.loanStore.Entries)
	})

	t.Run("book held by another user", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		_, err := f.svc.Borrow(ctx, uuid.New(), isbn)
		require.NoError(t, err)

		_, err = f.svc.Borrow(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrAlreadyBorrowed)
	})

	t.Run("book already held by the same user", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		_, err := f.svc.Borrow(ctx, userID, isbn)
		require.NoError(t, err)

		_, err = f.svc.Borrow(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrAlreadyBorrowed)
	})

	t.Run("user at loan limit", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, "9780000000001")
		f.addBook(t, "9780000000002")
		f.addBook(t, "9780000000003")

		for _, held := range []string{"9780000000001", "9780000000002"} {
			_, err := f.svc.Borrow(ctx, userID, held)
			require.NoError(t, err)
		}

		_, err := f.svc.Borrow(ctx, userID, "9780000000003")
		assert.ErrorIs(t, err, service.ErrBorrowLimitExceeded)
	})

	t.Run("limit frees up after a return", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, "9780000000001")
		f.addBook(t, "9780000000002")
		f.addBook(t, "9780000000003")

		for _, held := range []string{"9780000000001", "9780000000002"} {
			_, err := f.svc.Borrow(ctx, userID, held)
			require.NoError(t, err)
		}
		require.NoError(t, f.svc.Return(ctx, userID, "9780000000001"))

		_, err := f.svc.Borrow(ctx, userID, "9780000000003")
		assert.NoError(t, err)
	})

	t.Run("serialization conflict is retried once", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)
		f.txRunner.SerializationFailures = 1

		entry, err := f.svc.Borrow(ctx, userID, isbn)
		require.NoError(t, err)
		assert.Equal(t, isbn, entry.ISBN)
		assert.EqualValues(t, 2, f.txRunner.Calls)
	})

	t.Run("second serialization conflict surfaces as store conflict", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)
		f.txRunner.SerializationFailures = 2

		_, err := f.svc.Borrow(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrStoreConflict)
		assert.EqualValues(t, 2, f.txRunner.Calls)
	})
}

func TestReturn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	const isbn = "9780134190440"

	t.Run("success completes the loan", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		_, err := f.svc.Borrow(ctx, userID, isbn)
		require.NoError(t, err)

		require.NoError(t, f.svc.Return(ctx, userID, isbn))

		loans, err := f.svc.ListLoans(ctx, userID)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.NotNil(t, loans[0].ReturnedAt)
	})

	t.Run("never borrowed", func(t *testing.T) {
		f := newLoanServiceFixture(t)

		err := f.svc.Return(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrNotBorrowedByUser)
	})

	t.Run("held by another user", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		_, err := f.svc.Borrow(ctx, uuid.New(), isbn)
		require.NoError(t, err)

		err = f.svc.Return(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrNotBorrowedByUser)
	})

	t.Run("double return", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, isbn)

		_, err := f.svc.Borrow(ctx, userID, isbn)
		require.NoError(t, err)
		require.NoError(t, f.svc.Return(ctx, userID, isbn))

		err = f.svc.Return(ctx, userID, isbn)
		assert.ErrorIs(t, err, service.ErrNotBorrowedByUser)
	})
}

func TestBorrowReturnBorrowKeepsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	const isbn = "9780134190440"

	f := newLoanServiceFixture(t)
	f.addBook(t, isbn)

	first, err := f.svc.Borrow(ctx, userID, isbn)
	require.NoError(t, err)
	require.NoError(t, f.svc.Return(ctx, userID, isbn))

	second, err := f.svc.Borrow(ctx, userID, isbn)
	require.NoError(t, err)

	// Two distinct episodes, not a resurrected entry.
	assert.NotEqual(t, first.ID, second.ID)

	loans, err := f.svc.ListLoans(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loans, 2)
}

func TestListLoans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty history", func(t *testing.T) {
		f := newLoanServiceFixture(t)

		loans, err := f.svc.ListLoans(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, loans)
	})

	t.Run("only the user's own loans", func(t *testing.T) {
		f := newLoanServiceFixture(t)
		f.addBook(t, "9780000000001")
		f.addBook(t, "9780000000002")

		_, err := f.svc.Borrow(ctx, userID, "9780000000001")
		require.NoError(t, err)
		_, err = f.svc.Borrow(ctx, uuid.New(), "9780000000002")
		require.NoError(t, err)

		loans, err := f.svc.ListLoans(ctx, userID)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, "9780000000001", loans[0].ISBN)
	})
}

func TestConcurrentBorrowSameBook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	const isbn = "9780134190440"
	const borrowers = 16

	f := newLoanServiceFixture(t)
	f.addBook(t, isbn)

	var wg sync.WaitGroup
	errs := make([]error, borrowers)

	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Borrow(ctx, uuid.New(), isbn)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrAlreadyBorrowed)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent borrow may win")

	active, err := f.loanStore.FindActiveLoanByISBN(ctx, isbn)
	require.NoError(t, err)
	assert.Equal(t, isbn, active.ISBN)
}

func TestConcurrentBorrowUserLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	isbns := []string{"9780000000001", "9780000000002", "9780000000003"}

	f := newLoanServiceFixture(t)
	for _, isbn := range isbns {
		f.addBook(t, isbn)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(isbns))

	for i, isbn := range isbns {
		wg.Add(1)
		go func(i int, isbn string) {
			defer wg.Done()
			_, errs[i] = f.svc.Borrow(ctx, userID, isbn)
		}(i, isbn)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrBorrowLimitExceeded)
		}
	}
	assert.Equal(t, domain.MaxActiveLoansPerUser, successes)

	count, err := f.loanStore.CountActiveLoansByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxActiveLoansPerUser, count)
}

func TestBorrowTimestampsAreUTC(t *testing.T) {
	t.Parallel()

	f := newLoanServiceFixture(t)
	f.addBook(t, "9780134190440")

	entry, err := f.svc.Borrow(context.Background(), uuid.New(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, entry.BorrowedAt.Location())
}
