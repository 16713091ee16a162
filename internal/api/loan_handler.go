package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
	"github.com/stadsbieb/bibliotheek-api/internal/service"
)

// LoanHandler handles borrow and return requests.
type LoanHandler struct {
	loanService service.LoanService
	validator   *validator.Validate
}

// NewLoanHandler creates a new LoanHandler with the given dependencies.
func NewLoanHandler(loanService service.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		validator:   validator.New(),
	}
}

// Borrow handles the POST /borrow endpoint.
func (h *LoanHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BorrowRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	entry, err := h.loanService.Borrow(r.Context(), userID, req.ISBN)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BorrowResponse{
		ISBN:       entry.ISBN,
		BorrowedAt: entry.BorrowedAt,
	})
}

// Return handles the DELETE /return/{isbn} endpoint.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	isbn, ok := getPathISBN(w, r)
	if !ok {
		return
	}

	if err := h.loanService.Return(r.Context(), userID, isbn); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBorrowed handles the GET /borrowed endpoint. The response carries
// the user's complete loan history; entries with a null returned_at are
// the books currently held.
func (h *LoanHandler) ListBorrowed(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entries, err := h.loanService.ListLoans(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list borrowed books")
		return
	}

	books := make([]BorrowedBookItem, 0, len(entries))
	for _, entry := range entries {
		books = append(books, BorrowedBookItem{
			ISBN:       entry.ISBN,
			BorrowedAt: entry.BorrowedAt,
			ReturnedAt: entry.ReturnedAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BorrowedBooksResponse{Books: books})
}
