package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestStartEndSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), "PostService", "Modify", attribute.Int64("post.id", 7))
	EndSpan(span, nil)

	_, span = StartSpan(context.Background(), "PostService", "Delete")
	EndSpan(span, errors.New("boom"))

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "PostService.Modify", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("post.id", 7))
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, "PostService.Delete", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "boom", ended[1].Status().Description)
}

func TestInitTracing_Disabled(t *testing.T) {
	prev := Tracer
	t.Cleanup(func() { Tracer = prev })

	shutdown, err := InitTracing(TracingConfig{ServiceName: "inkpost-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTrackQuery(t *testing.T) {
	TrackQuery("select", "observability_test")()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var count uint64
	for _, mf := range families {
		if mf.GetName() != "inkpost_database_query_latency_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "table" && lp.GetValue() == "observability_test" {
					count += m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	assert.Equal(t, uint64(1), count)
}
