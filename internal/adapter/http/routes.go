package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turnolink/turnolink/internal/domain/principal"
	"github.com/turnolink/turnolink/internal/middleware"
)

// Version is reported by GET /api/v1/.
const Version = "0.1.0"

// MountRoutes registers all API routes on the given chi router. authn
// authenticates the caller; gate fixes the tenant scope of every tenant
// route before any handler runs.
func MountRoutes(r chi.Router, h *Handlers, authn, gate func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": Version})
		})

		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/auth/me", h.Me)

			// Tenant routes
			r.Group(func(r chi.Router) {
				r.Use(gate, middleware.RequireTenantSelection)

				ownerOnly := middleware.RequireRole(principal.RoleOwner)

				r.Get("/tenant", h.CurrentTenant)
				mountResource(r, "/customers", "customer", h.Customers, nil)
				mountResource(r, "/bookings", "booking", h.Bookings, nil)
				mountResource(r, "/blocked-dates", "blocked date", h.BlockedDates, nil)
				mountResource(r, "/media", "media asset", h.Media, nil)
				mountResource(r, "/schedules", "schedule", h.Schedules, ownerOnly)
				mountResource(r, "/products", "product", h.Products, ownerOnly)
			})

			// Superuser routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireGlobalAccess)

				r.Get("/tenants", h.ListTenants)
				r.Post("/tenants", h.CreateTenant)
				r.Get("/tenants/{id}", h.GetTenant)
				r.Put("/tenants/{id}", h.UpdateTenant)
				r.Delete("/tenants/{id}", h.DeleteTenant)
				r.Post("/users", h.CreateUser)
			})
		})
	})
}
