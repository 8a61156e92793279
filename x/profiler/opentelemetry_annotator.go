// Copyright © 2024 The ruby-lint authors

package profiler

import (
	"context"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/vm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context
// key.
const ContextOpenTelemetryTracerKey = "otelParentTracer"

var _ vm.Tracer = &otelAnnotator{}

type otelAnnotator struct {
	annotator
}

// NewOpenTelemetryAnnotator returns a tracer that opens an OpenTelemetry
// span for every scope the engine enters.
func NewOpenTelemetryAnnotator(opts ...Option) vm.Tracer {
	p := &otelAnnotator{}
	p.applyConfigs(opts...)
	return p
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = "ruby-lint"
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Enter(ctx context.Context, def *definition.Definition) (context.Context, func()) {
	if p.skipTrace(def) {
		return ctx, func() {}
	}
	ctx, span := contextTracer(ctx).Start(ctx, p.spanLabel(def))
	addCodeAttributes(span, def)
	return ctx, func() {
		span.End()
	}
}

func addCodeAttributes(span trace.Span, def *definition.Definition) {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(namespaceOf(def)),
		semconv.CodeFunction(def.Name),
	}
	if loc := def.Source; loc != nil {
		attrs = append(attrs,
			semconv.CodeFilepath(loc.File),
			semconv.CodeLineNumber(loc.Line),
			semconv.CodeColumn(loc.Col),
		)
	}
	span.SetAttributes(attrs...)
}
