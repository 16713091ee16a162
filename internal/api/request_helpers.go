package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the session middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireUserID extracts the user ID from the context or writes a 401.
// Returns false if the response has been written.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathISBN extracts the isbn path parameter. ISBNs are opaque
// identifiers here; only presence is checked.
func getPathISBN(w http.ResponseWriter, r *http.Request) (string, bool) {
	isbn := chi.URLParam(r, "isbn")
	if isbn == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "ISBN is required")
		return "", false
	}
	return isbn, true
}
