package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/stadsbieb/bibliotheek-api/internal/api/shared"
)

// AdminMiddleware guards catalog management routes behind a static admin
// token configured at startup.
type AdminMiddleware struct {
	adminToken string
}

// NewAdminMiddleware creates a new AdminMiddleware for the given token.
// ALLOW-PANIC: an empty admin token means the server was misconfigured;
// failing at startup is correct.
func NewAdminMiddleware(adminToken string) *AdminMiddleware {
	if adminToken == "" {
		panic("admin token cannot be empty")
	}
	return &AdminMiddleware{adminToken: adminToken}
}

// Require rejects requests whose Authorization Bearer token does not
// match the configured admin token. The comparison is constant-time so
// response timing leaks nothing about the token's content.
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Admin token required")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.adminToken)) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
