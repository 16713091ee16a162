package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
	"github.com/stadsbieb/bibliotheek-api/internal/domain"
	"github.com/stadsbieb/bibliotheek-api/internal/service/auth"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// AuthHandler handles registration, login, and identity lookups.
type AuthHandler struct {
	userStore        store.UserStore
	sessionService   auth.SessionService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	sessionService auth.SessionService,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		sessionService:   sessionService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Register handles the POST /register endpoint. A successful registration
// also opens a session, so the client is logged in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create user", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.sessionService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate session token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to open session")
		return
	}

	h.setSessionCookie(w, token)
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Token: token,
	})
}

// Login handles the POST /login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.sessionService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate session token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to open session")
		return
	}

	h.setSessionCookie(w, token)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Token: token,
	})
}

// Me handles the GET /me endpoint.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Valid session for a user that no longer exists.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		slog.Error("failed to get user", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

// setSessionCookie attaches the session token to the response. HttpOnly
// keeps it away from scripts; SameSite=Lax blocks cross-site sends.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionService.TokenLifetime().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
