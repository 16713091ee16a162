package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the session token is malformed or its
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the session token has expired.
	ErrExpiredToken = errors.New("session token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future).
	ErrTokenNotYetValid = errors.New("session token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("session token is missing")
)
