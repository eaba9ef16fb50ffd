package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/turnolink/turnolink/internal/domain/principal"
)

// TokenValidator verifies an access token and returns its principal.
type TokenValidator interface {
	ValidateAccessToken(token string) (*principal.Principal, error)
}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":            true,
	"/metrics":           true,
	"/api/v1/auth/login": true,
}

// DevPrincipal is injected for every request when authentication is
// disabled. It is a superuser, so tenant routes need an X-Tenant-ID header.
var DevPrincipal = principal.Principal{
	UserID: "00000000-0000-0000-0000-000000000000",
	Email:  "admin@localhost",
	Role:   principal.RoleSuperAdmin,
}

// Auth returns middleware that validates the bearer token and stores the
// resulting principal in the request context. When authEnabled is false,
// DevPrincipal is injected instead.
func Auth(validator TokenValidator, authEnabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authEnabled {
				dev := DevPrincipal
				next.ServeHTTP(w, r.WithContext(principal.NewContext(r.Context(), &dev)))
				return
			}

			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			p, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(principal.NewContext(r.Context(), p)))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *principal.Principal {
	return principal.FromContext(ctx)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
