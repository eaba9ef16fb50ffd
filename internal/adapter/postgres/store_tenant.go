package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/tenant"
)

const tenantColumns = `id, name, slug, status, settings, created_at, updated_at`

func scanTenant(row scannable) (tenant.Tenant, error) {
	var t tenant.Tenant
	var settingsJSON []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &settingsJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &t.Settings); err != nil {
			return t, fmt.Errorf("decode tenant settings: %w", err)
		}
	}
	return t, nil
}

// --- Tenant CRUD ---

func (s *Store) CreateTenant(ctx context.Context, req *tenant.CreateRequest) (*tenant.Tenant, error) {
	settings := req.Settings
	if settings == nil {
		settings = map[string]string{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}

	t, err := scanTenant(s.q(ctx).QueryRow(ctx,
		`INSERT INTO tenants (name, slug, settings) VALUES ($1, $2, $3)
		 RETURNING `+tenantColumns,
		req.Name, req.Slug, settingsJSON))
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", mapPgError(err))
	}
	return &t, nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	if err := checkID("tenant", id); err != nil {
		return nil, err
	}
	t, err := scanTenant(s.q(ctx).QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant %s", id)
	}
	return &t, nil
}

// LockTenant reads a tenant with a row lock held until the surrounding
// transaction ends.
func (s *Store) LockTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	if err := checkID("tenant", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "tenant")
	if err != nil {
		return nil, err
	}
	t, err := scanTenant(q.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFoundWrap(err, "lock tenant %s", id)
	}
	return &t, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return orEmpty(tenants), rows.Err()
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	if err := checkID("tenant", t.ID); err != nil {
		return err
	}
	settings := t.Settings
	if settings == nil {
		settings = map[string]string{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	err = s.q(ctx).QueryRow(ctx,
		`UPDATE tenants SET name = $2, status = $3, settings = $4, updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		t.ID, t.Name, t.Status, settingsJSON).Scan(&t.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update tenant %s", t.ID)
	}
	return nil
}

// DeleteTenant removes the tenant and, by cascade, every row it owns. Users
// keep their account but lose the affiliation.
func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	if err := checkID("tenant", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete tenant %s", id)
}
