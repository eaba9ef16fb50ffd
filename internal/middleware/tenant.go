package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/principal"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/logger"
	"github.com/turnolink/turnolink/internal/service"
)

// HeaderTenantID lets a superuser pick the tenant a request operates on.
// It is ignored for every other principal.
const HeaderTenantID = "X-Tenant-ID"

const msgNoAccess = "you do not have access to this resource"

// TenantResolver resolves the tenant scope of a request.
type TenantResolver interface {
	Resolve(ctx context.Context, p *principal.Principal) (tenant.Scope, error)
	Select(ctx context.Context, tenantID string) (tenant.Scope, error)
}

type scopeCtxKey struct{}

// IsolationGate resolves the caller's tenant once per request and stores the
// resulting scope in the context. Every resolution failure is answered with
// the same 403 body; the cause is only logged and counted.
func IsolationGate(resolver TenantResolver, metrics *otelx.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := PrincipalFromContext(ctx)
			if p == nil {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			scope, err := resolver.Resolve(ctx, p)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					reason := service.DenialReason(err)
					slog.WarnContext(ctx, "tenant isolation denied",
						"reason", reason, "user_id", p.UserID, "path", r.URL.Path)
					metrics.RecordGateDenied(ctx, reason)
					writeError(w, http.StatusForbidden, msgNoAccess)
					return
				}
				slog.ErrorContext(ctx, "tenant resolution failed", "user_id", p.UserID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if scope.Global {
				if id := r.Header.Get(HeaderTenantID); id != "" {
					scope, err = resolver.Select(ctx, id)
					if err != nil {
						if errors.Is(err, service.ErrTenantNotFound) {
							writeError(w, http.StatusNotFound, "tenant not found")
							return
						}
						slog.ErrorContext(ctx, "tenant selection failed", "tenant_id", id, "error", err)
						writeError(w, http.StatusInternalServerError, "internal server error")
						return
					}
				}
			}

			ctx = context.WithValue(ctx, scopeCtxKey{}, scope)
			if scope.Selected() {
				ctx = logger.WithTenantID(ctx, scope.TenantID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenantSelection rejects requests whose scope names no tenant. Only
// a superuser without an X-Tenant-ID header reaches it without one.
func RequireTenantSelection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if scope, ok := ScopeFromContext(r.Context()); !ok || !scope.Selected() {
			writeError(w, http.StatusBadRequest, "tenant selection required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ScopeFromContext returns the scope stored by IsolationGate.
func ScopeFromContext(ctx context.Context) (tenant.Scope, bool) {
	s, ok := ctx.Value(scopeCtxKey{}).(tenant.Scope)
	return s, ok
}

// TenantIDFromContext returns the tenant id of the gate's scope, or "".
func TenantIDFromContext(ctx context.Context) string {
	s, _ := ScopeFromContext(ctx)
	return s.TenantID
}
