package dialect

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/owl-K/nebula-carina/dialect"

// TracingExecutor wraps an Executor and starts one span per statement.
type TracingExecutor struct {
	Executor
	tracer trace.Tracer
}

// TracingOption configures the TracingExecutor.
type TracingOption func(*TracingExecutor)

// WithTracerProvider sets the provider the tracer is taken from.
// Default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(t *TracingExecutor) {
		t.tracer = tp.Tracer(tracerName)
	}
}

// NewTracingExecutor wraps ex with OpenTelemetry tracing.
func NewTracingExecutor(ex Executor, opts ...TracingOption) *TracingExecutor {
	t := &TracingExecutor{Executor: ex, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute runs the statement inside a client span.
func (t *TracingExecutor) Execute(ctx context.Context, stmt string) (Rows, error) {
	op := Operation(stmt)
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "nebulagraph"),
		attribute.String("db.operation", op),
		attribute.String("db.statement", stmt),
	}
	if space, ok := SpaceFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("db.name", space))
	}
	ctx, span := t.tracer.Start(ctx, "nebula."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	rows, err := t.Executor.Execute(ctx, stmt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return rows, nil
}

var _ Executor = (*TracingExecutor)(nil)
