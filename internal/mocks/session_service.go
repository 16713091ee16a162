package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stadsbieb/bibliotheek-api/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing
type MockSessionService struct {
	// Function fields for customizable behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default response values
	Token    string
	Claims   *auth.Claims
	Lifetime time.Duration
	Err      error
}

// Compile-time check that MockSessionService satisfies auth.SessionService.
var _ auth.SessionService = (*MockSessionService)(nil)

// GenerateToken implements the SessionService interface
func (m *MockSessionService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Token != "" {
		return m.Token, nil
	}
	return "session-token-" + userID.String(), nil
}

// ValidateToken implements the SessionService interface
func (m *MockSessionService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Claims != nil {
		return m.Claims, nil
	}
	return nil, auth.ErrInvalidToken
}

// TokenLifetime implements the SessionService interface
func (m *MockSessionService) TokenLifetime() time.Duration {
	if m.Lifetime != 0 {
		return m.Lifetime
	}
	return 24 * time.Hour
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error

	// ShouldSucceed makes Compare succeed or fail uniformly when no
	// CompareFn is set.
	ShouldSucceed bool
}

// Compile-time check that MockPasswordVerifier satisfies auth.PasswordVerifier.
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return bcrypt.ErrMismatchedHashAndPassword
}
