package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnolink/turnolink/internal/domain/user"
)

const userColumns = `id, email, name, password_hash, role, COALESCE(tenant_id::text, ''), enabled, created_at, updated_at`

func scanUser(row scannable) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.TenantID, &u.Enabled, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts u and fills in the generated id and timestamps.
func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	if u.TenantID != "" {
		if err := checkID("tenant", u.TenantID); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	}
	err := s.q(ctx).QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, role, tenant_id, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		strings.ToLower(u.Email), u.Name, u.PasswordHash, u.Role, nullIfEmpty(u.TenantID), u.Enabled,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", mapPgError(err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	u, err := scanUser(s.q(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get user %s", id)
	}
	return &u, nil
}

// GetUserByEmail looks up a login identity. Emails are unique platform-wide.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(s.q(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return nil, notFoundWrap(err, "get user by email %s", email)
	}
	return &u, nil
}

// ListUsers lists the members of one tenant; an empty tenantID lists users
// without an affiliation.
func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id IS NULL ORDER BY created_at`
	args := []any{}
	if tenantID != "" {
		if err := checkID("tenant", tenantID); err != nil {
			return nil, err
		}
		query = `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 ORDER BY created_at`
		args = append(args, tenantID)
	}

	rows, err := s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return orEmpty(users), rows.Err()
}
