package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "turnolink"

// StartMutationSpan starts a span named mutate.<entity>.<op>.
func StartMutationSpan(ctx context.Context, entity, op, tenantID, id string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "mutate."+entity+"."+op,
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String(entity+".id", id),
		),
	)
}

// StartResolveSpan starts a span for tenant resolution.
func StartResolveSpan(ctx context.Context, userID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "tenant.resolve",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
