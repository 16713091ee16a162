package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stadsbieb/bibliotheek-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the
// operation fails. The transaction is committed if the function returns
// nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database
// transaction at the database's default isolation level. If the function
// returns an error, the transaction is rolled back; otherwise it is
// committed. Panics roll the transaction back and are re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return runInTransaction(ctx, db, nil, fn)
}

// RunInSerializableTransaction executes the given function within a
// SERIALIZABLE transaction. This is the isolation the loan service needs:
// the borrow preconditions (no active loan on the book, user below the
// loan limit) and the insert must behave as a single atomic unit against
// concurrent borrows. If the database detects a serialization conflict
// the commit fails with SQLSTATE 40001, which the postgres layer maps to
// ErrSerialization for the caller to retry.
func RunInSerializableTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return runInTransaction(ctx, db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// TxRunner runs functions inside database transactions. Services depend
// on this interface rather than on *sql.DB so that transaction management
// can be substituted in tests.
type TxRunner interface {
	// RunInTransaction runs fn at the database's default isolation level.
	RunInTransaction(ctx context.Context, fn TxFn) error

	// RunInSerializableTransaction runs fn at SERIALIZABLE isolation.
	RunInSerializableTransaction(ctx context.Context, fn TxFn) error
}

// SQLTxRunner implements TxRunner on a *sql.DB.
type SQLTxRunner struct {
	db *sql.DB
}

// Compile-time check that SQLTxRunner satisfies TxRunner.
var _ TxRunner = (*SQLTxRunner)(nil)

// NewSQLTxRunner creates a TxRunner over the given database handle.
func NewSQLTxRunner(db *sql.DB) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

// RunInTransaction implements TxRunner.RunInTransaction.
func (r *SQLTxRunner) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.db, fn)
}

// RunInSerializableTransaction implements TxRunner.RunInSerializableTransaction.
func (r *SQLTxRunner) RunInSerializableTransaction(ctx context.Context, fn TxFn) error {
	return RunInSerializableTransaction(ctx, r.db, fn)
}

func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Roll back on panic before re-raising it.
	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		// Serializable transactions commonly fail at COMMIT rather than
		// inside the function body; surface that as a retryable error.
		if isSerializationFailure(err) {
			log.Debug("transaction commit hit serialization conflict")
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isSerializationFailure reports whether err carries SQLSTATE 40001
// (serialization_failure).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
