package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "turnolink"

// Metrics holds all TurnoLink metric instruments. A nil *Metrics records
// nothing, which keeps wiring optional in tests.
type Metrics struct {
	GateDenied       metric.Int64Counter
	TenantLookups    metric.Int64Counter
	Mutations        metric.Int64Counter
	MutationDuration metric.Float64Histogram
	EventsPublished  metric.Int64Counter

	meter metric.Meter
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(otel.GetMeterProvider())
}

// NewMetricsFrom creates all metric instruments on mp.
func NewMetricsFrom(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{meter: meter}
	var err error

	m.GateDenied, err = meter.Int64Counter("turnolink.gate.denied",
		metric.WithDescription("Requests rejected by the isolation gate, by reason"))
	if err != nil {
		return nil, err
	}

	m.TenantLookups, err = meter.Int64Counter("turnolink.tenant.lookups",
		metric.WithDescription("Tenant resolutions, by cache result"))
	if err != nil {
		return nil, err
	}

	m.Mutations, err = meter.Int64Counter("turnolink.mutations",
		metric.WithDescription("Ownership-verified mutations, by entity, op and outcome"))
	if err != nil {
		return nil, err
	}

	m.MutationDuration, err = meter.Float64Histogram("turnolink.mutation.duration_seconds",
		metric.WithDescription("Mutation transaction duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.EventsPublished, err = meter.Int64Counter("turnolink.events.published",
		metric.WithDescription("Mutation events handed to the bus, by outcome"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordGateDenied counts an isolation gate rejection.
func (m *Metrics) RecordGateDenied(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.GateDenied.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordTenantLookup counts a tenant resolution; result is hit, miss or error.
func (m *Metrics) RecordTenantLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.TenantLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordMutation counts a finished mutation and its duration.
func (m *Metrics) RecordMutation(ctx context.Context, entity, op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	m.Mutations.Add(ctx, 1, attrs)
	m.MutationDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordEvent counts a publish attempt; outcome is ok, error or dropped.
func (m *Metrics) RecordEvent(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.EventsPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// ObserveLogDrops exports dropped, the running count of log records the
// async handler discarded, as the turnolink.log.dropped counter.
func (m *Metrics) ObserveLogDrops(dropped func() int64) error {
	if m == nil {
		return nil
	}
	_, err := m.meter.Int64ObservableCounter("turnolink.log.dropped",
		metric.WithDescription("Log records discarded by the async handler"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(dropped())
			return nil
		}))
	return err
}
