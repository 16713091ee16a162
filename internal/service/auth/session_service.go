// Package auth implements the identity gate: session token issuance and
// validation, and password verification. The rest of the application only
// ever sees a resolved user ID; how identity was established stays here.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionService defines operations for managing session tokens.
// Tokens are issued at registration/login and resolved back to a stable
// user identity on each request by the session middleware.
type SessionService interface {
	// GenerateToken creates a signed session token for the given user.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports how long issued tokens remain valid. The API
	// layer uses it to set the session cookie's max age.
	TokenLifetime() time.Duration
}

// Claims represents the validated content of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID

	// IssuedAt is when the token was created.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time

	// ID is the unique token identifier (jti claim).
	ID string
}
