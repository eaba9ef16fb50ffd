package service

import (
	"context"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain/blockeddate"
	"github.com/turnolink/turnolink/internal/domain/schedule"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// ScheduleService manages opening hours and closure days of a tenant.
type ScheduleService struct {
	store database.Store
	mx    mutator
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *ScheduleService {
	return &ScheduleService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

func (s *ScheduleService) List(ctx context.Context, tenantID string) ([]schedule.Schedule, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListSchedules(ctx, tenantID)
}

func (s *ScheduleService) Get(ctx context.Context, tenantID, id string) (*schedule.Schedule, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetSchedule(ctx, tenantID, id)
}

func (s *ScheduleService) Create(ctx context.Context, tenantID string, req *schedule.CreateRequest) (*schedule.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntitySchedule, tenantID,
		func(ctx context.Context) (*schedule.Schedule, error) {
			return s.store.CreateSchedule(ctx, tenantID, req)
		},
		func(sc *schedule.Schedule) string { return sc.ID },
	)
}

// Update applies req to schedule id. The resulting window must still close
// after it opens.
func (s *ScheduleService) Update(ctx context.Context, tenantID, id string, req *schedule.UpdateRequest) (*schedule.Schedule, error) {
	return mutateOwned(ctx, &s.mx, ownedMutation[schedule.Schedule]{
		entity:   messagequeue.EntitySchedule,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*schedule.Schedule, error) {
			return s.store.LockSchedule(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, sc *schedule.Schedule) error {
			req.Apply(sc)
			if err := sc.CheckWindow(); err != nil {
				return err
			}
			return s.store.UpdateSchedule(ctx, sc)
		},
	})
}

func (s *ScheduleService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[schedule.Schedule]{
		entity:   messagequeue.EntitySchedule,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*schedule.Schedule, error) {
			return s.store.LockSchedule(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, sc *schedule.Schedule) error {
			return s.store.DeleteSchedule(ctx, tenantID, sc.ID)
		},
	})
	return err
}

// BlockedDateService manages the days a tenant is closed.
type BlockedDateService struct {
	store database.Store
	mx    mutator
}

// NewBlockedDateService creates a new BlockedDateService.
func NewBlockedDateService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *BlockedDateService {
	return &BlockedDateService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

func (s *BlockedDateService) List(ctx context.Context, tenantID string) ([]blockeddate.BlockedDate, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListBlockedDates(ctx, tenantID)
}

func (s *BlockedDateService) Get(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetBlockedDate(ctx, tenantID, id)
}

func (s *BlockedDateService) Create(ctx context.Context, tenantID string, req *blockeddate.CreateRequest) (*blockeddate.BlockedDate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntityBlockedDate, tenantID,
		func(ctx context.Context) (*blockeddate.BlockedDate, error) {
			return s.store.CreateBlockedDate(ctx, tenantID, req)
		},
		func(b *blockeddate.BlockedDate) string { return b.ID },
	)
}

func (s *BlockedDateService) Update(ctx context.Context, tenantID, id string, req *blockeddate.UpdateRequest) (*blockeddate.BlockedDate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, &s.mx, ownedMutation[blockeddate.BlockedDate]{
		entity:   messagequeue.EntityBlockedDate,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*blockeddate.BlockedDate, error) {
			return s.store.LockBlockedDate(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, b *blockeddate.BlockedDate) error {
			req.Apply(b)
			return s.store.UpdateBlockedDate(ctx, b)
		},
	})
}

func (s *BlockedDateService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[blockeddate.BlockedDate]{
		entity:   messagequeue.EntityBlockedDate,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*blockeddate.BlockedDate, error) {
			return s.store.LockBlockedDate(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, b *blockeddate.BlockedDate) error {
			return s.store.DeleteBlockedDate(ctx, tenantID, b.ID)
		},
	})
	return err
}
