package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	tr := otel.Tracer("services/WorkoutRecordService")
	return tr.Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
}

// endSpan marks the span failed when err is non-nil. Client errors are
// recorded too; the span status only reflects Internal.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", KindOf(err).String()))
		if KindOf(err) == KindInternal {
			span.SetStatus(codes.Error, "internal")
		}
	}
	span.End()
}
