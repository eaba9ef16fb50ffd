package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/media"
)

const mediaColumns = `id, tenant_id, url, filename, content_type, size_bytes, alt, created_at, updated_at`

func scanMedia(row scannable) (media.Asset, error) {
	var a media.Asset
	err := row.Scan(&a.ID, &a.TenantID, &a.URL, &a.Filename, &a.ContentType, &a.SizeBytes, &a.Alt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) ListMedia(ctx context.Context, tenantID string) ([]media.Asset, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+mediaColumns+` FROM media_assets WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var out []media.Asset
	for rows.Next() {
		a, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, a)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetMedia(ctx context.Context, tenantID, id string) (*media.Asset, error) {
	if err := checkID("media", id); err != nil {
		return nil, err
	}
	a, err := scanMedia(s.q(ctx).QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media_assets WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get media %s", id)
	}
	return &a, nil
}

func (s *Store) LockMedia(ctx context.Context, tenantID, id string) (*media.Asset, error) {
	if err := checkID("media", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "media")
	if err != nil {
		return nil, err
	}
	a, err := scanMedia(q.QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media_assets WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock media %s", id)
	}
	return &a, nil
}

func (s *Store) CreateMedia(ctx context.Context, tenantID string, req *media.CreateRequest) (*media.Asset, error) {
	a, err := scanMedia(s.q(ctx).QueryRow(ctx,
		`INSERT INTO media_assets (tenant_id, url, filename, content_type, size_bytes, alt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+mediaColumns,
		tenantID, req.URL, req.Filename, req.ContentType, req.SizeBytes, req.Alt))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", mapPgError(err))
	}
	return &a, nil
}

func (s *Store) UpdateMedia(ctx context.Context, a *media.Asset) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE media_assets SET filename = $3, alt = $4, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		a.ID, a.TenantID, a.Filename, a.Alt).Scan(&a.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update media %s", a.ID)
	}
	return nil
}

func (s *Store) DeleteMedia(ctx context.Context, tenantID, id string) error {
	if err := checkID("media", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM media_assets WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete media %s", id)
}
