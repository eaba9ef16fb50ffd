package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain/principal"
	"github.com/turnolink/turnolink/internal/logger"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
	"github.com/turnolink/turnolink/internal/resilience"
)

const publishTimeout = 5 * time.Second

// EventPublisher announces committed mutations on the message bus. A nil
// publisher, or one without a queue, drops events silently.
type EventPublisher struct {
	queue   messagequeue.Queue
	breaker *resilience.Breaker
	metrics *otelx.Metrics
}

// NewEventPublisher creates a publisher. breaker may be nil.
func NewEventPublisher(q messagequeue.Queue, breaker *resilience.Breaker, metrics *otelx.Metrics) *EventPublisher {
	return &EventPublisher{queue: q, breaker: breaker, metrics: metrics}
}

// Publish sends a <entity>.<op> event. It must only be called after the
// mutation committed. Failures are logged and counted, never returned: the
// mutation stands regardless.
func (p *EventPublisher) Publish(ctx context.Context, entity, op, tenantID, id string) {
	if p == nil || p.queue == nil {
		return
	}

	ev := messagequeue.MutationEvent{
		Entity:     entity,
		Op:         op,
		TenantID:   tenantID,
		ID:         id,
		RequestID:  logger.RequestID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if actor := principal.FromContext(ctx); actor != nil {
		ev.ActorID = actor.UserID
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("encode mutation event", "entity", entity, "error", err)
		p.metrics.RecordEvent(ctx, "error")
		return
	}

	// The request may already be finishing; the publish gets its own deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	subject := messagequeue.Subject(entity, op)
	send := func() error { return p.queue.Publish(pubCtx, subject, data) }
	if p.breaker != nil {
		err = p.breaker.Execute(send)
	} else {
		err = send()
	}

	switch {
	case err == nil:
		p.metrics.RecordEvent(ctx, "ok")
	case errors.Is(err, resilience.ErrCircuitOpen):
		p.metrics.RecordEvent(ctx, "dropped")
		slog.Warn("mutation event dropped, breaker open", "subject", subject, "id", id)
	default:
		p.metrics.RecordEvent(ctx, "error")
		slog.Error("publish mutation event", "subject", subject, "id", id, "error", err)
	}
}
