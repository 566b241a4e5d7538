package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attr(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestServiceSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateUserRecord(ctx, "u1"))
	_, err := svc.AddWorkout(ctx, "missing", legDay("Legs"))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "CreateUserRecord", spans[0].Name())
	assert.Equal(t, "u1", attr(spans[0].Attributes(), "user.id"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "AddWorkout", spans[1].Name())
	assert.Equal(t, "not_found", attr(spans[1].Attributes(), "error.kind"))
	assert.Equal(t, codes.Unset, spans[1].Status().Code, "client errors do not fail the span")
	assert.Len(t, spans[1].Events(), 1)
}
