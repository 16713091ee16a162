package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/mocks"
)

func bookRouter(bookStore *mocks.MockBookStore) http.Handler {
	h := NewBookHandler(bookStore)
	r := chi.NewRouter()
	r.Post("/books", h.CreateBooks)
	r.Get("/books", h.ListBooks)
	r.Put("/books/{isbn}", h.UpdateBook)
	r.Delete("/books/{isbn}", h.DeleteBook)
	return r
}

func TestCreateBooksHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates a batch", func(t *testing.T) {
		t.Parallel()

		bookStore := mocks.NewMockBookStore()
		router := bookRouter(bookStore)

		body := `[
			{"isbn":"9780000000001","title":"Eerste","author":"A. Schrijver"},
			{"isbn":"9780000000002","title":"Tweede","author":"B. Schrijver","genre":"fictie"}
		]`
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, bookStore.Books, 2)
		assert.Contains(t, w.Body.String(), "added_at")
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(mocks.NewMockBookStore())
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`[]`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		t.Parallel()

		bookStore := mocks.NewMockBookStore()
		book, err := domain.NewBook("9780000000001", "Eerste", "A. Schrijver")
		require.NoError(t, err)
		require.NoError(t, bookStore.Create(context.Background(), book))

		router := bookRouter(bookStore)
		r := httptest.NewRequest(http.MethodPost, "/books",
			strings.NewReader(`[{"isbn":"9780000000001","title":"Eerste","author":"A. Schrijver"}]`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(mocks.NewMockBookStore())
		r := httptest.NewRequest(http.MethodPost, "/books",
			strings.NewReader(`[{"isbn":"9780000000001","author":"A. Schrijver"}]`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListBooksHandler(t *testing.T) {
	t.Parallel()

	seeded := func(t *testing.T, n int) *mocks.MockBookStore {
		t.Helper()
		bookStore := mocks.NewMockBookStore()
		for i := 0; i < n; i++ {
			book, err := domain.NewBook(fmt.Sprintf("97800000000%02d", i), "Boek", "Schrijver")
			require.NoError(t, err)
			require.NoError(t, bookStore.Create(context.Background(), book))
		}
		return bookStore
	}

	t.Run("first page defaults", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(seeded(t, 15))
		r := httptest.NewRequest(http.MethodGet, "/books", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp BookListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Len(t, resp.Books, 10)
	})

	t.Run("second page remainder", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(seeded(t, 15))
		r := httptest.NewRequest(http.MethodGet, "/books?page=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp BookListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.Books, 5)
	})

	t.Run("invalid page", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(seeded(t, 1))
		r := httptest.NewRequest(http.MethodGet, "/books?page=nul", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateBookHandler(t *testing.T) {
	t.Parallel()

	t.Run("updates metadata", func(t *testing.T) {
		t.Parallel()

		bookStore := mocks.NewMockBookStore()
		book, err := domain.NewBook("9780000000001", "Oude titel", "A. Schrijver")
		require.NoError(t, err)
		require.NoError(t, bookStore.Create(context.Background(), book))

		router := bookRouter(bookStore)
		r := httptest.NewRequest(http.MethodPut, "/books/9780000000001",
			strings.NewReader(`{"title":"Nieuwe titel","author":"A. Schrijver"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "updated_at")
		assert.Equal(t, "Nieuwe titel", bookStore.Books["9780000000001"].Title)
	})

	t.Run("unknown book", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(mocks.NewMockBookStore())
		r := httptest.NewRequest(http.MethodPut, "/books/9780000000001",
			strings.NewReader(`{"title":"Titel","author":"Schrijver"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Book not found")
	})
}

func TestDeleteBookHandler(t *testing.T) {
	t.Parallel()

	t.Run("deletes the catalog entry", func(t *testing.T) {
		t.Parallel()

		bookStore := mocks.NewMockBookStore()
		book, err := domain.NewBook("9780000000001", "Boek", "Schrijver")
		require.NoError(t, err)
		require.NoError(t, bookStore.Create(context.Background(), book))

		router := bookRouter(bookStore)
		r := httptest.NewRequest(http.MethodDelete, "/books/9780000000001", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, bookStore.Books)
	})

	t.Run("unknown book", func(t *testing.T) {
		t.Parallel()

		router := bookRouter(mocks.NewMockBookStore())
		r := httptest.NewRequest(http.MethodDelete, "/books/9780000000001", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
