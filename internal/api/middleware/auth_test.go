package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
	"github.com/stadsbieb/bibliotheek-api/internal/mocks"
	"github.com/stadsbieb/bibliotheek-api/internal/service/auth"
)

func authenticatedProbe(t *testing.T) (http.Handler, *uuid.UUID) {
	t.Helper()

	var seenUserID uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		require.True(t, ok, "user ID should be in context")
		seenUserID = userID
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seenUserID
}

func TestSessionMiddlewareCookie(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionService := &mocks.MockSessionService{
		Claims: &auth.Claims{
			UserID:    userID,
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}

	probe, seenUserID := authenticatedProbe(t)
	handler := NewSessionMiddleware(sessionService).Authenticate(probe)

	r := httptest.NewRequest(http.MethodGet, "/borrowed", nil)
	r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seenUserID)
}

func TestSessionMiddlewareBearerFallback(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionService := &mocks.MockSessionService{
		Claims: &auth.Claims{UserID: userID},
	}

	probe, seenUserID := authenticatedProbe(t)
	handler := NewSessionMiddleware(sessionService).Authenticate(probe)

	r := httptest.NewRequest(http.MethodGet, "/borrowed", nil)
	r.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seenUserID)
}

func TestSessionMiddlewareRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		serviceErr error
		wantStatus int
	}{
		{
			name:       "no credentials",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed authorization header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "NotBearer token")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: "bad"})
			},
			serviceErr: auth.ErrInvalidToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: "old"})
			},
			serviceErr: auth.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unexpected validation error",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: "boom"})
			},
			serviceErr: assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessionService := &mocks.MockSessionService{Err: tt.serviceErr}
			if tt.serviceErr == nil {
				sessionService.Err = auth.ErrInvalidToken
			}

			handler := NewSessionMiddleware(sessionService).Authenticate(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("handler should not be reached")
				}))

			r := httptest.NewRequest(http.MethodGet, "/borrowed", nil)
			tt.setup(r)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSessionCookieTakesPrecedenceOverHeader(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionService := &mocks.MockSessionService{
		Claims: &auth.Claims{UserID: userID},
	}

	probe, _ := authenticatedProbe(t)
	mw := NewSessionMiddleware(sessionService)

	r := httptest.NewRequest(http.MethodGet, "/borrowed", nil)
	r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	token, err := extractToken(r)
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", token)

	w := httptest.NewRecorder()
	mw.Authenticate(probe).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
