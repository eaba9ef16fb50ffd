package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turnolink/turnolink/internal/middleware"
)

// TenantResource is the service surface of a tenant-owned entity. Every
// method takes the tenant id fixed by the isolation gate; Create and Update
// decode into C and U.
type TenantResource[T, C, U any] interface {
	List(ctx context.Context, tenantID string) ([]T, error)
	Get(ctx context.Context, tenantID, id string) (*T, error)
	Create(ctx context.Context, tenantID string, req *C) (*T, error)
	Update(ctx context.Context, tenantID, id string, req *U) (*T, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// ---------------------------------------------------------------------------
// Generic tenant-scoped CRUD handler factories
// ---------------------------------------------------------------------------

// mountResource registers list/get/create/update/delete for svc under path.
// Writes pass through writeGuard when one is given.
func mountResource[T, C, U any](r chi.Router, path, name string, svc TenantResource[T, C, U], writeGuard func(http.Handler) http.Handler) {
	notFound := name + " not found"
	r.Route(path, func(r chi.Router) {
		r.Get("/", handleList(svc.List))
		r.Get("/{id}", handleGet(svc.Get, notFound))

		writes := r
		if writeGuard != nil {
			writes = r.With(writeGuard)
		}
		writes.Post("/", handleCreate(svc.Create))
		writes.Put("/{id}", handleUpdate(svc.Update, notFound))
		writes.Delete("/{id}", handleDelete(svc.Delete, notFound))
	})
}

// handleList creates a handler that lists the caller tenant's resources.
func handleList[T any](listFn func(ctx context.Context, tenantID string) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := listFn(r.Context(), middleware.TenantIDFromContext(r.Context()))
		if err != nil {
			writeDomainError(w, r, err, "not found")
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// handleGet creates a handler that retrieves a single resource by URL param "id".
func handleGet[T any](getFn func(ctx context.Context, tenantID, id string) (*T, error), notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := getFn(r.Context(), middleware.TenantIDFromContext(r.Context()), urlParam(r, "id"))
		if err != nil {
			writeDomainError(w, r, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleCreate creates a handler that decodes a JSON body and creates a resource.
func handleCreate[Req, Res any](createFn func(ctx context.Context, tenantID string, req *Req) (*Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readJSON[Req](w, r)
		if !ok {
			return
		}
		res, err := createFn(r.Context(), middleware.TenantIDFromContext(r.Context()), &req)
		if err != nil {
			// A missing referenced record (e.g. a foreign customer) reads as
			// not found, same as on every other route.
			writeDomainError(w, r, err, "referenced resource not found")
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// handleUpdate creates a handler that decodes a JSON body and updates a resource by URL param "id".
func handleUpdate[Req, Res any](updateFn func(ctx context.Context, tenantID, id string, req *Req) (*Res, error), notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readJSON[Req](w, r)
		if !ok {
			return
		}
		res, err := updateFn(r.Context(), middleware.TenantIDFromContext(r.Context()), urlParam(r, "id"), &req)
		if err != nil {
			writeDomainError(w, r, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handleDelete creates a handler that deletes a resource by URL param "id".
func handleDelete(deleteFn func(ctx context.Context, tenantID, id string) error, notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deleteFn(r.Context(), middleware.TenantIDFromContext(r.Context()), urlParam(r, "id")); err != nil {
			writeDomainError(w, r, err, notFoundMsg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
