// Copyright © 2024 The ruby-lint authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/parser"
	"github.com/h2dkb/ruby-lint/vm"
	"github.com/h2dkb/ruby-lint/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const testRuby = `class Greeter
  def greet(name)
    [1, 2].each do |n|
      n
    end
  end
end
`

// setupExporter installs an in-memory span exporter for the duration of the
// test.
func setupExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func runTraced(t *testing.T, tracer vm.Tracer) {
	t.Helper()
	src, err := parser.Parse("greeter.rb", []byte(testRuby))
	require.NoError(t, err)
	machine := vm.New(vm.WithTracer(tracer), vm.WithFile(src.Name))
	require.NoError(t, machine.Run(context.Background(), src.Nodes))
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := setupExporter(t)

	runTraced(t, profiler.NewOpenTelemetryAnnotator())

	// Spans finish innermost first.
	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "block in Greeter#greet", spans[0].Name)
	assert.Equal(t, "Greeter#greet", spans[1].Name)
	assert.Equal(t, "Greeter", spans[2].Name)

	assert.Contains(t, spans[1].Attributes, semconv.CodeNamespace("Greeter"))
	assert.Contains(t, spans[1].Attributes, semconv.CodeFunction("greet"))
	assert.Contains(t, spans[1].Attributes, semconv.CodeFilepath("greeter.rb"))
}

func TestNewOpenTelemetryAnnotatorMethodsOnly(t *testing.T) {
	exporter := setupExporter(t)

	runTraced(t, profiler.NewOpenTelemetryAnnotator(profiler.WithMethodsOnly()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Greeter#greet", spans[0].Name)
}

func TestNewOpenTelemetryAnnotatorLabeler(t *testing.T) {
	exporter := setupExporter(t)

	runTraced(t, profiler.NewOpenTelemetryAnnotator(
		profiler.WithScopeLabeler(func(def *definition.Definition) string {
			if def.IsBlock() {
				return "each_pair"
			}
			return ""
		}),
	))

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "each_pair", spans[0].Name, "custom label wins")
	assert.Equal(t, "Greeter", spans[2].Name, "empty labels fall back to the default")
}
