package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// catalogPageSize is the fixed number of books per catalog page.
const catalogPageSize = 10

// BookHandler handles catalog management and browsing requests.
type BookHandler struct {
	bookStore store.BookStore
	validator *validator.Validate
}

// NewBookHandler creates a new BookHandler with the given dependencies.
func NewBookHandler(bookStore store.BookStore) *BookHandler {
	return &BookHandler{
		bookStore: bookStore,
		validator: validator.New(),
	}
}

// CreateBooks handles the POST /books endpoint. The payload is a batch:
// librarians register new acquisitions in bulk. The batch stops at the
// first invalid or duplicate entry; books created before it remain.
func (h *BookHandler) CreateBooks(w http.ResponseWriter, r *http.Request) {
	var payloads []BookPayload

	if err := shared.DecodeJSON(r, &payloads); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(payloads) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one book is required")
		return
	}

	created := make([]BookCreatedResponse, 0, len(payloads))
	for _, payload := range payloads {
		if err := h.validator.Struct(payload); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}

		book, err := newBookFromPayload(payload)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book data: "+err.Error())
			return
		}

		if err := h.bookStore.Create(r.Context(), book); err != nil {
			if errors.Is(err, store.ErrISBNExists) {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Book already exists: "+book.ISBN)
				return
			}
			slog.Error("failed to create book", "error", err, "isbn", book.ISBN)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create book")
			return
		}

		created = append(created, BookCreatedResponse{ISBN: book.ISBN, AddedAt: book.AddedAt})
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// ListBooks handles the GET /books endpoint. Pages are requested
// one-based via the page query parameter.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page number")
			return
		}
		page = parsed
	}

	result, err := h.bookStore.List(r.Context(), page-1, catalogPageSize)
	if err != nil {
		slog.Error("failed to list books", "error", err, "page", page)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list books")
		return
	}

	books := make([]BookPayload, 0, len(result.Books))
	for _, book := range result.Books {
		books = append(books, payloadFromBook(book))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookListResponse{
		Page:       page,
		TotalPages: result.TotalPages,
		Books:      books,
	})
}

// UpdateBook handles the PUT /books/{isbn} endpoint. The ISBN in the path
// identifies the book; any ISBN in the payload is ignored.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	isbn, ok := getPathISBN(w, r)
	if !ok {
		return
	}

	var payload BookPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	payload.ISBN = isbn

	if err := h.validator.Struct(payload); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, err := h.bookStore.GetByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Book not found")
			return
		}
		slog.Error("failed to load book", "error", err, "isbn", isbn)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update book")
		return
	}

	applyPayload(book, payload)
	book.Touch()

	if err := h.bookStore.Update(r.Context(), book); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Book not found")
			return
		}
		slog.Error("failed to update book", "error", err, "isbn", isbn)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookUpdatedResponse{
		ISBN:      book.ISBN,
		UpdatedAt: *book.UpdatedAt,
	})
}

// DeleteBook handles the DELETE /books/{isbn} endpoint. Loan history for
// the ISBN is retained; only the catalog entry goes away.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	isbn, ok := getPathISBN(w, r)
	if !ok {
		return
	}

	if err := h.bookStore.Delete(r.Context(), isbn); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Book not found")
			return
		}
		slog.Error("failed to delete book", "error", err, "isbn", isbn)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newBookFromPayload(payload BookPayload) (*domain.Book, error) {
	book, err := domain.NewBook(payload.ISBN, payload.Title, payload.Author)
	if err != nil {
		return nil, err
	}
	applyPayload(book, payload)
	return book, nil
}

func applyPayload(book *domain.Book, payload BookPayload) {
	book.Title = payload.Title
	book.Author = payload.Author
	book.Edition = payload.Edition
	book.Publisher = payload.Publisher
	book.Genre = payload.Genre
	book.PageCount = payload.PageCount
	book.Language = payload.Language
	book.PublicationYear = payload.PublicationYear
}

func payloadFromBook(book *domain.Book) BookPayload {
	return BookPayload{
		ISBN:            book.ISBN,
		Title:           book.Title,
		Author:          book.Author,
		Edition:         book.Edition,
		Publisher:       book.Publisher,
		Genre:           book.Genre,
		PageCount:       book.PageCount,
		Language:        book.Language,
		PublicationYear: book.PublicationYear,
	}
}
