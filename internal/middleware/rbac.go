package middleware

import (
	"net/http"

	"github.com/turnolink/turnolink/internal/domain/principal"
)

// RequireRole returns middleware that restricts access to principals with one
// of the given roles. Superusers always pass.
func RequireRole(roles ...principal.Role) func(http.Handler) http.Handler {
	allowed := make(map[principal.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}
			if !allowed[p.Role] && !principal.HasGlobalAccess(p) {
				writeError(w, http.StatusForbidden, msgNoAccess)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGlobalAccess restricts a route to platform superusers.
func RequireGlobalAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if p == nil {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if !principal.HasGlobalAccess(p) {
			writeError(w, http.StatusForbidden, msgNoAccess)
			return
		}
		next.ServeHTTP(w, r)
	})
}
