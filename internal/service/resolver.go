package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/principal"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/port/cache"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// Resolution failures. All of them wrap domain.ErrForbidden so callers that
// only care about "may this request proceed" can test for that.
var (
	ErrNoTenantAffiliation = fmt.Errorf("%w: principal has no tenant", domain.ErrForbidden)
	ErrTenantNotFound      = fmt.Errorf("%w: tenant not found", domain.ErrForbidden)
	ErrTenantSuspended     = fmt.Errorf("%w: tenant suspended", domain.ErrForbidden)
)

// DenialReason returns a short label for a resolution failure, used as a log
// attribute and metric dimension.
func DenialReason(err error) string {
	switch {
	case errors.Is(err, ErrNoTenantAffiliation):
		return "no_tenant"
	case errors.Is(err, ErrTenantNotFound):
		return "tenant_not_found"
	case errors.Is(err, ErrTenantSuspended):
		return "tenant_suspended"
	default:
		return "error"
	}
}

// TenantGetter is the storage lookup the resolver depends on.
type TenantGetter interface {
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
}

// TenantResolver maps an authenticated principal to the tenant scope it may
// act in. Lookups are cached; concurrent lookups of one tenant share a
// single storage read.
type TenantResolver struct {
	store   TenantGetter
	cache   cache.Cache
	ttl     time.Duration
	metrics *otelx.Metrics

	group singleflight.Group
	gen   atomic.Uint64
}

// NewTenantResolver creates a resolver. c may be nil to disable caching.
func NewTenantResolver(store TenantGetter, c cache.Cache, ttl time.Duration, metrics *otelx.Metrics) *TenantResolver {
	return &TenantResolver{store: store, cache: c, ttl: ttl, metrics: metrics}
}

// tenantLookupTimeout bounds a shared storage read of one tenant.
const tenantLookupTimeout = 5 * time.Second

func tenantCacheKey(id string) string { return "tenant:" + id }

// Resolve returns the scope for p. A superuser gets a global scope with no
// tenant attached. Any other principal gets its own tenant, or an error when
// it has none, the tenant no longer exists or the tenant is suspended.
func (r *TenantResolver) Resolve(ctx context.Context, p *principal.Principal) (tenant.Scope, error) {
	if principal.HasGlobalAccess(p) {
		return tenant.Scope{Global: true}, nil
	}
	if p == nil || !p.HasTenant() {
		return tenant.Scope{}, ErrNoTenantAffiliation
	}

	ctx, span := otelx.StartResolveSpan(ctx, p.UserID)
	t, err := r.Lookup(ctx, p.TenantID)
	otelx.EndSpan(span, err)
	if err != nil {
		return tenant.Scope{}, err
	}
	if !t.Active() {
		return tenant.Scope{}, ErrTenantSuspended
	}
	return tenant.Scope{TenantID: t.ID, Tenant: t}, nil
}

// Select returns the scope of tenant id for a superuser acting on it
// explicitly. Suspended tenants can still be selected.
func (r *TenantResolver) Select(ctx context.Context, id string) (tenant.Scope, error) {
	t, err := r.Lookup(ctx, id)
	if err != nil {
		return tenant.Scope{}, err
	}
	return tenant.Scope{TenantID: t.ID, Tenant: t, Global: true}, nil
}

// Lookup returns tenant id, reading through the cache. A tenant that does
// not exist yields ErrTenantNotFound; storage failures propagate as is. A
// caller whose ctx ends stops waiting while the shared read carries on for
// the others.
func (r *TenantResolver) Lookup(ctx context.Context, id string) (*tenant.Tenant, error) {
	key := tenantCacheKey(id)
	if r.cache != nil {
		t, ok, err := cache.GetJSON[tenant.Tenant](ctx, r.cache, key)
		switch {
		case err != nil:
			slog.Warn("tenant cache read failed", "tenant_id", id, "error", err)
		case ok:
			r.metrics.RecordTenantLookup(ctx, "hit")
			return t, nil
		}
	}

	gen := r.gen.Load()
	ch := r.group.DoChan(id, func() (any, error) {
		// Every waiter shares this read, so it outlives the caller that started it.
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tenantLookupTimeout)
		defer cancel()
		t, err := r.store.GetTenant(readCtx, id)
		if err != nil {
			return nil, err
		}
		// An invalidation while the read was in flight means t may already be stale.
		if r.cache != nil && r.gen.Load() == gen {
			if err := cache.SetJSON(readCtx, r.cache, key, t, r.ttl); err != nil {
				slog.Warn("tenant cache write failed", "tenant_id", id, "error", err)
			}
		}
		return t, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		r.metrics.RecordTenantLookup(ctx, "error")
		return nil, fmt.Errorf("lookup tenant %s: %w", id, ctx.Err())
	}
	v, err := res.Val, res.Err
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.metrics.RecordTenantLookup(ctx, "not_found")
			return nil, ErrTenantNotFound
		}
		r.metrics.RecordTenantLookup(ctx, "error")
		return nil, fmt.Errorf("lookup tenant %s: %w", id, err)
	}
	r.metrics.RecordTenantLookup(ctx, "miss")
	t := *v.(*tenant.Tenant)
	return &t, nil
}

// Invalidate drops the cached copy of tenant id.
func (r *TenantResolver) Invalidate(ctx context.Context, id string) error {
	r.gen.Add(1)
	r.group.Forget(id)
	if r.cache == nil {
		return nil
	}
	if err := r.cache.Delete(ctx, tenantCacheKey(id)); err != nil {
		return fmt.Errorf("invalidate tenant %s: %w", id, err)
	}
	return nil
}

// HandleTenantEvent invalidates the cache entry named by a tenant mutation
// event. It is subscribed to turnolink.tenant.> so every instance drops its
// in-process copy when any instance changes a tenant.
func (r *TenantResolver) HandleTenantEvent(ctx context.Context, _ string, data []byte) error {
	var ev messagequeue.MutationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("decode tenant event: %w", err)
	}
	if ev.Entity != messagequeue.EntityTenant || ev.Op == messagequeue.OpCreated {
		return nil
	}
	return r.Invalidate(ctx, ev.ID)
}
