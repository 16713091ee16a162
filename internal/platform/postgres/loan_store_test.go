package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// fakeResult is a canned sql.Result for exercising row-count handling.
type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// execOnlyDB satisfies store.DBTX for tests that only issue ExecContext.
type execOnlyDB struct {
	result sql.Result
	err    error
}

func (d *execOnlyDB) ExecContext(
	_ context.Context,
	_ string,
	_ ...any,
) (sql.Result, error) {
	return d.result, d.err
}

func (d *execOnlyDB) PrepareContext(_ context.Context, _ string) (*sql.Stmt, error) {
	return nil, errors.New("prepare not supported in test")
}

func (d *execOnlyDB) QueryContext(
	_ context.Context,
	_ string,
	_ ...any,
) (*sql.Rows, error) {
	return nil, errors.New("query not supported in test")
}

func (d *execOnlyDB) QueryRowContext(_ context.Context, _ string, _ ...any) *sql.Row {
	return nil
}

func TestSetReturned(t *testing.T) {
	t.Run("no matching active loan yields loan not found", func(t *testing.T) {
		loans := NewPostgresLoanStore(&execOnlyDB{result: fakeResult{rows: 0}}, nil)

		err := loans.SetReturned(context.Background(), uuid.New(), "978-0134190440", time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrLoanNotFound)
	})

	t.Run("guarded update of one row succeeds", func(t *testing.T) {
		loans := NewPostgresLoanStore(&execOnlyDB{result: fakeResult{rows: 1}}, nil)

		err := loans.SetReturned(context.Background(), uuid.New(), "978-0134190440", time.Now())

		assert.NoError(t, err)
	})

	t.Run("database error is propagated", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		loans := NewPostgresLoanStore(&execOnlyDB{err: dbErr}, nil)

		err := loans.SetReturned(context.Background(), uuid.New(), "978-0134190440", time.Now())

		assert.ErrorIs(t, err, dbErr)
	})
}
