package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/service"
	"github.com/stadsbieb/bibliotheek-api/internal/service/auth"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// Borrow/return precondition failures are client errors (400): the request
// was well-formed but the library's rules reject it. Only losing a
// concurrent race twice is a 409, since retrying the identical request can
// succeed.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrStoreConflict):
		return http.StatusConflict

	// Loan state machine precondition failures
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrAlreadyBorrowed),
		errors.Is(err, service.ErrBorrowLimitExceeded),
		errors.Is(err, service.ErrNotBorrowedByUser):
		return http.StatusBadRequest

	// Catalog errors surface as bad requests, matching the rest of the
	// management endpoints
	case errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, store.ErrISBNExists):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, service.ErrAlreadyBorrowed):
		return "Book is already borrowed"

	case errors.Is(err, service.ErrBorrowLimitExceeded):
		return "Borrow limit reached"

	case errors.Is(err, service.ErrNotBorrowedByUser):
		return "Book is not borrowed by you"

	case errors.Is(err, service.ErrStoreConflict):
		return "Conflicting request, please retry"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrISBNExists):
		return "Book already exists"

	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message, logs the
// underlying error, and writes the response. If fallbackMessage is
// non-empty it overrides the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation
	// for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	default:
		return "validation failed"
	}
}
