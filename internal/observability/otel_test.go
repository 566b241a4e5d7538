package observability

import (
	"alcyxob/workout-tracker/internal/config"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func keepGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestSetupTracingDisabled(t *testing.T) {
	keepGlobals(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupTracing(context.Background(), config.OTELConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetupTracingEnabled(t *testing.T) {
	keepGlobals(t)

	shutdown, err := SetupTracing(context.Background(), config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: "workout-tracker-test",
		SampleRatio: 1,
	}, "v0.0.1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
}

func TestSetupTracingExporterError(t *testing.T) {
	keepGlobals(t)
	orig := newExporter
	t.Cleanup(func() { newExporter = orig })
	newExporter = func(context.Context, ...otlptracegrpc.Option) (*otlptrace.Exporter, error) {
		return nil, errors.New("dial failed")
	}

	_, err := SetupTracing(context.Background(), config.OTELConfig{Enabled: true, Insecure: true}, "v")
	assert.ErrorContains(t, err, "dial failed")
}

func TestSetupTracingResourceError(t *testing.T) {
	keepGlobals(t)
	orig := newResource
	t.Cleanup(func() { newResource = orig })
	newResource = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("bad resource")
	}

	_, err := SetupTracing(context.Background(), config.OTELConfig{Enabled: true, Insecure: true, SampleRatio: 1}, "v")
	assert.ErrorContains(t, err, "bad resource")
}
