package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-session-secret-at-least-32-chars!!"

func newTestService(t *testing.T, lifetime time.Duration) *hmacSessionService {
	t.Helper()

	svc, err := NewSessionService(Config{
		Secret:        testSecret,
		TokenLifetime: lifetime,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacSessionService)
	require.True(t, ok)
	return impl
}

func TestNewSessionServiceRejectsShortSecret(t *testing.T) {
	_, err := NewSessionService(Config{Secret: "too-short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService(t, time.Hour)
	userID := uuid.New()

	// Issue a token in the past, beyond lifetime plus clock skew.
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	svc.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenTampered(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Corrupt the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = "tampered" + parts[2]

	_, err = svc.ValidateToken(context.Background(), strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other := newTestService(t, time.Hour)
	other.signingKey = []byte("another-secret-also-32-characters-long!")

	token, err := other.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptVerifier(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Sterk#Wachtwoord1"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier := NewBcryptVerifier()
	assert.NoError(t, verifier.Compare(string(hashed), "Sterk#Wachtwoord1"))
	assert.Error(t, verifier.Compare(string(hashed), "wrong-password"))
}
