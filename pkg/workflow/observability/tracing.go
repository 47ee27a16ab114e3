package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager creates and manages trace spans for graph runs.
// Use NewSpanManager for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span covering a full graph run.
	StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span)

	// StartNodeSpan starts a span for a single node execution.
	StartNodeSpan(ctx context.Context, nodeID string, attempt int) (context.Context, trace.Span)

	// EndSpanWithError ends a span, recording err if non-nil.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the span in ctx.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager backed by the global OTel
// tracer provider.
func NewSpanManager() SpanManager {
	return &otelSpanManager{
		tracer: otel.Tracer("tailorflow"),
	}
}

func (s *otelSpanManager) StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "graph.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
		),
	)
}

func (s *otelSpanManager) StartNodeSpan(ctx context.Context, nodeID string, attempt int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "node."+nodeID,
		trace.WithAttributes(
			attribute.String("node_id", nodeID),
			attribute.Int("attempt", attempt),
		),
	)
}

func (s *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (s *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
