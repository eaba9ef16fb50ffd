package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/schedule"
)

const scheduleColumns = `id, tenant_id, day_of_week, open_time, close_time, active, created_at, updated_at`

func scanSchedule(row scannable) (schedule.Schedule, error) {
	var sc schedule.Schedule
	err := row.Scan(&sc.ID, &sc.TenantID, &sc.DayOfWeek, &sc.OpenTime, &sc.CloseTime, &sc.Active, &sc.CreatedAt, &sc.UpdatedAt)
	return sc, err
}

func (s *Store) ListSchedules(ctx context.Context, tenantID string) ([]schedule.Schedule, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 ORDER BY day_of_week, open_time`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []schedule.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, sc)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetSchedule(ctx context.Context, tenantID, id string) (*schedule.Schedule, error) {
	if err := checkID("schedule", id); err != nil {
		return nil, err
	}
	sc, err := scanSchedule(s.q(ctx).QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get schedule %s", id)
	}
	return &sc, nil
}

func (s *Store) LockSchedule(ctx context.Context, tenantID, id string) (*schedule.Schedule, error) {
	if err := checkID("schedule", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "schedule")
	if err != nil {
		return nil, err
	}
	sc, err := scanSchedule(q.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock schedule %s", id)
	}
	return &sc, nil
}

func (s *Store) CreateSchedule(ctx context.Context, tenantID string, req *schedule.CreateRequest) (*schedule.Schedule, error) {
	sc, err := scanSchedule(s.q(ctx).QueryRow(ctx,
		`INSERT INTO schedules (tenant_id, day_of_week, open_time, close_time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+scheduleColumns,
		tenantID, req.DayOfWeek, req.OpenTime, req.CloseTime))
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", mapPgError(err))
	}
	return &sc, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sc *schedule.Schedule) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE schedules SET open_time = $3, close_time = $4, active = $5, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		sc.ID, sc.TenantID, sc.OpenTime, sc.CloseTime, sc.Active).Scan(&sc.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update schedule %s", sc.ID)
	}
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, tenantID, id string) error {
	if err := checkID("schedule", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete schedule %s", id)
}
