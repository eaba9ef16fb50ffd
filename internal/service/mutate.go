package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// errNoScope is returned when a tenant-owned operation is attempted without a
// resolved tenant id.
var errNoScope = fmt.Errorf("%w: no tenant scope", domain.ErrForbidden)

func requireTenant(tenantID string) error {
	if tenantID == "" {
		return errNoScope
	}
	return nil
}

// mutator carries what every tenant-owned service needs to run mutations.
type mutator struct {
	uow     database.UnitOfWork
	events  *EventPublisher
	metrics *otelx.Metrics
}

// ownedMutation describes one update or delete of a tenant-owned entity.
//
// lock must load the entity filtered by both tenant and id and hold a row
// lock on it. check sees the locked row and may veto the mutation with a
// business rule; apply performs the write. All three run in one
// transaction.
type ownedMutation[T any] struct {
	entity   string
	op       string
	tenantID string
	id       string

	lock  func(ctx context.Context) (*T, error)
	check func(ctx context.Context, current *T) error
	apply func(ctx context.Context, current *T) error
}

// mutateOwned runs m as lock, check, apply, commit. Any failure rolls the
// transaction back before it is returned, so nothing of a rejected mutation
// is visible. The event is published only after the commit.
func mutateOwned[T any](ctx context.Context, mx *mutator, m ownedMutation[T]) (*T, error) {
	if err := requireTenant(m.tenantID); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := otelx.StartMutationSpan(ctx, m.entity, m.op, m.tenantID, m.id)

	var result *T
	err := mx.uow.InTx(ctx, m.tenantID, func(ctx context.Context) error {
		current, err := m.lock(ctx)
		if err != nil {
			return err
		}
		if m.check != nil {
			if err := m.check(ctx, current); err != nil {
				return err
			}
		}
		if err := m.apply(ctx, current); err != nil {
			return err
		}
		result = current
		return nil
	})

	otelx.EndSpan(span, err)
	mx.metrics.RecordMutation(ctx, m.entity, m.op, mutationOutcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	mx.events.Publish(ctx, m.entity, m.op, m.tenantID, m.id)
	return result, nil
}

// createOwned inserts a tenant-owned entity inside a transaction scoped to
// tenantID and announces it after the commit.
func createOwned[T any](ctx context.Context, mx *mutator, entity, tenantID string,
	create func(ctx context.Context) (*T, error), idOf func(*T) string,
) (*T, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := otelx.StartMutationSpan(ctx, entity, messagequeue.OpCreated, tenantID, "")

	var created *T
	err := mx.uow.InTx(ctx, tenantID, func(ctx context.Context) error {
		var err error
		created, err = create(ctx)
		return err
	})

	otelx.EndSpan(span, err)
	mx.metrics.RecordMutation(ctx, entity, messagequeue.OpCreated, mutationOutcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	mx.events.Publish(ctx, entity, messagequeue.OpCreated, tenantID, idOf(created))
	return created, nil
}

func mutationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrBusinessRule):
		return "rule"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
