package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that discards all measurements.
type NoopMetrics struct{}

func (NoopMetrics) RecordNodeExecution(context.Context, string, time.Duration, error) {}
func (NoopMetrics) RecordGraphRun(context.Context, bool, time.Duration)               {}
func (NoopMetrics) RecordCheckpoint(context.Context, string, int64)                   {}

// NoopSpanManager is a SpanManager that produces non-recording spans.
type NoopSpanManager struct{}

func (NoopSpanManager) StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, "graph.run")
}

func (NoopSpanManager) StartNodeSpan(ctx context.Context, nodeID string, attempt int) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, "node."+nodeID)
}

func (NoopSpanManager) EndSpanWithError(span trace.Span, err error) {
	span.End()
}

func (NoopSpanManager) AddSpanEvent(context.Context, string, ...attribute.KeyValue) {}
