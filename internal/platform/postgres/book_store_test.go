package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

func TestBookDelete(t *testing.T) {
	t.Run("unknown isbn yields book not found", func(t *testing.T) {
		books := NewPostgresBookStore(&execOnlyDB{result: fakeResult{rows: 0}}, nil)

		err := books.Delete(context.Background(), "978-0000000000")

		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrBookNotFound)
	})

	t.Run("deleting an existing book succeeds", func(t *testing.T) {
		books := NewPostgresBookStore(&execOnlyDB{result: fakeResult{rows: 1}}, nil)

		assert.NoError(t, books.Delete(context.Background(), "978-0134190440"))
	})
}

func TestBookUpdate(t *testing.T) {
	t.Run("unknown isbn yields book not found", func(t *testing.T) {
		books := NewPostgresBookStore(&execOnlyDB{result: fakeResult{rows: 0}}, nil)

		book, err := domain.NewBook("978-0000000000", "The Go Programming Language", "Donovan")
		require.NoError(t, err)

		err = books.Update(context.Background(), book)

		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrBookNotFound)
	})

	t.Run("database error is propagated", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		books := NewPostgresBookStore(&execOnlyDB{err: dbErr}, nil)

		book, err := domain.NewBook("978-0134190440", "The Go Programming Language", "Donovan")
		require.NoError(t, err)

		assert.ErrorIs(t, books.Update(context.Background(), book), dbErr)
	})
}
