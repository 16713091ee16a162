package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"

	// Registers the postgres dialect used by the query builder.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/platform/logger"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

const (
	loansTable = "loans"

	// activeLoanIndexName is the partial unique index enforcing at most one
	// active loan per ISBN (WHERE returned_at IS NULL). A violation means a
	// concurrent borrow won the race.
	activeLoanIndexName = "loans_active_isbn_idx"

	dialectPostgres = "postgres"
)

// PostgresLoanStore implements the store.LoanStore interface
// using a PostgreSQL database as the storage backend.
//
// Ledger reads are built with goqu; the fixed-shape insert and the guarded
// return update are plain SQL.
type PostgresLoanStore struct {
	db      store.DBTX
	logger  *slog.Logger
	dialect goqu.DialectWrapper
}

// NewPostgresLoanStore creates a new PostgreSQL implementation of the
// LoanStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresLoanStore(db store.DBTX, logger *slog.Logger) *PostgresLoanStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanStore{
		db:      db,
		logger:  logger.With(slog.String("component", "loan_store")),
		dialect: goqu.Dialect(dialectPostgres),
	}
}

// Ensure PostgresLoanStore implements store.LoanStore interface
var _ store.LoanStore = (*PostgresLoanStore)(nil)

// WithTx implements store.LoanStore.WithTx
// It returns a LoanStore that runs its operations on the provided
// transaction, so the loan service can compose precondition checks and the
// write into one atomic unit.
func (s *PostgresLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return &PostgresLoanStore{
		db:      tx,
		logger:  s.logger,
		dialect: s.dialect,
	}
}

// CreateLoanEntry implements store.LoanStore.CreateLoanEntry
// The partial unique index on (isbn) WHERE returned_at IS NULL rejects a
// second active loan for the same book; that violation is reported as
// store.ErrActiveLoanExists so the service can translate it to the
// user-visible "already borrowed" failure even when the race is lost
// after the precondition check.
func (s *PostgresLoanStore) CreateLoanEntry(ctx context.Context, entry *domain.LoanEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("loan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("loan_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO loans (id, user_id, isbn, borrowed_at, returned_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.ISBN,
		entry.BorrowedAt,
		entry.ReturnedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) && ConstraintName(err) == activeLoanIndexName {
			log.Debug("active loan already exists for book",
				slog.String("isbn", entry.ISBN))
			return fmt.Errorf("%w: %v", store.ErrActiveLoanExists, err)
		}

		log.Error("failed to create loan entry",
			slog.String("error", err.Error()),
			slog.String("loan_id", entry.ID.String()),
			slog.String("isbn", entry.ISBN))
		return MapError(err)
	}

	log.Info("loan entry created",
		slog.String("loan_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("isbn", entry.ISBN))
	return nil
}

// SetReturned implements store.LoanStore.SetReturned
// The WHERE clause guards the update with the active-loan predicate, so
// completing a loan is a single atomic statement: no row matches when the
// book was never borrowed, is held by another user, or was already
// returned, and all three surface uniformly as store.ErrLoanNotFound.
func (s *PostgresLoanStore) SetReturned(
	ctx context.Context,
	userID uuid.UUID,
	isbn string,
	returnedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE loans
		SET returned_at = $1
		WHERE isbn = $2 AND user_id = $3 AND returned_at IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, returnedAt.UTC(), isbn, userID)
	if err != nil {
		log.Error("failed to set loan returned",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("isbn", isbn))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrLoanNotFound); err != nil {
		log.Debug("no active loan to return",
			slog.String("user_id", userID.String()),
			slog.String("isbn", isbn))
		return err
	}

	log.Info("loan returned",
		slog.String("user_id", userID.String()),
		slog.String("isbn", isbn))
	return nil
}

// FindActiveLoanByISBN implements store.LoanStore.FindActiveLoanByISBN
// Returns store.ErrLoanNotFound if the book has no active loan.
func (s *PostgresLoanStore) FindActiveLoanByISBN(
	ctx context.Context,
	isbn string,
) (*domain.LoanEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.From(loansTable).
		Select("id", "user_id", "isbn", "borrowed_at", "returned_at").
		Where(goqu.Ex{"isbn": isbn, "returned_at": nil}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build active loan query: %w", err)
	}

	entry, err := scanLoan(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no active loan for book", slog.String("isbn", isbn))
			return nil, store.ErrLoanNotFound
		}
		log.Error("failed to find active loan",
			slog.String("error", err.Error()),
			slog.String("isbn", isbn))
		return nil, MapError(err)
	}

	return entry, nil
}

// CountActiveLoansByUser implements store.LoanStore.CountActiveLoansByUser
func (s *PostgresLoanStore) CountActiveLoansByUser(
	ctx context.Context,
	userID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.From(loansTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"user_id": userID, "returned_at": nil}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build active loan count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count active loans",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// ListLoansByUser implements store.LoanStore.ListLoansByUser
// It returns the user's complete borrow history ordered by borrowed_at
// ascending, oldest episode first.
func (s *PostgresLoanStore) ListLoansByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.LoanEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.From(loansTable).
		Select("id", "user_id", "isbn", "borrowed_at", "returned_at").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("borrowed_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan history query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list loans",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.LoanEntry{}
	for rows.Next() {
		entry, err := scanLoan(rows)
		if err != nil {
			log.Error("failed to scan loan row", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return entries, nil
}

func scanLoan(row rowScanner) (*domain.LoanEntry, error) {
	var entry domain.LoanEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ISBN,
		&entry.BorrowedAt,
		&entry.ReturnedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
