package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/blockeddate"
)

const blockedDateColumns = `id, tenant_id, to_char(date, 'YYYY-MM-DD'), reason, created_at, updated_at`

func scanBlockedDate(row scannable) (blockeddate.BlockedDate, error) {
	var b blockeddate.BlockedDate
	err := row.Scan(&b.ID, &b.TenantID, &b.Date, &b.Reason, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) ListBlockedDates(ctx context.Context, tenantID string) ([]blockeddate.BlockedDate, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+blockedDateColumns+` FROM blocked_dates WHERE tenant_id = $1 ORDER BY date`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	defer rows.Close()

	var out []blockeddate.BlockedDate
	for rows.Next() {
		b, err := scanBlockedDate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocked date: %w", err)
		}
		out = append(out, b)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetBlockedDate(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error) {
	if err := checkID("blocked date", id); err != nil {
		return nil, err
	}
	b, err := scanBlockedDate(s.q(ctx).QueryRow(ctx,
		`SELECT `+blockedDateColumns+` FROM blocked_dates WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get blocked date %s", id)
	}
	return &b, nil
}

func (s *Store) LockBlockedDate(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error) {
	if err := checkID("blocked date", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "blocked date")
	if err != nil {
		return nil, err
	}
	b, err := scanBlockedDate(q.QueryRow(ctx,
		`SELECT `+blockedDateColumns+` FROM blocked_dates WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock blocked date %s", id)
	}
	return &b, nil
}

func (s *Store) CreateBlockedDate(ctx context.Context, tenantID string, req *blockeddate.CreateRequest) (*blockeddate.BlockedDate, error) {
	b, err := scanBlockedDate(s.q(ctx).QueryRow(ctx,
		`INSERT INTO blocked_dates (tenant_id, date, reason)
		 VALUES ($1, $2::date, $3)
		 RETURNING `+blockedDateColumns,
		tenantID, req.Date, req.Reason))
	if err != nil {
		return nil, fmt.Errorf("create blocked date: %w", mapPgError(err))
	}
	return &b, nil
}

func (s *Store) UpdateBlockedDate(ctx context.Context, b *blockeddate.BlockedDate) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE blocked_dates SET date = $3::date, reason = $4, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		b.ID, b.TenantID, b.Date, b.Reason).Scan(&b.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update blocked date %s", b.ID)
	}
	return nil
}

func (s *Store) DeleteBlockedDate(ctx context.Context, tenantID, id string) error {
	if err := checkID("blocked date", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM blocked_dates WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete blocked date %s", id)
}
