// Copyright © 2024 The ruby-lint authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/h2dkb/ruby-lint/parser"
	"github.com/h2dkb/ruby-lint/vm"
	"github.com/h2dkb/ruby-lint/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

// spanCollector keeps exported spans for inspection.
type spanCollector struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (c *spanCollector) ExportSpan(sd *trace.SpanData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = append(c.spans, sd)
}

func (c *spanCollector) Spans() []*trace.SpanData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*trace.SpanData(nil), c.spans...)
}

func TestNewOpenCensusAnnotator(t *testing.T) {
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	collector := &spanCollector{}
	trace.RegisterExporter(collector)
	t.Cleanup(func() { trace.UnregisterExporter(collector) })

	src, err := parser.Parse("greeter.rb", []byte(testRuby))
	require.NoError(t, err)
	machine := vm.New(vm.WithTracer(profiler.NewOpenCensusAnnotator()))
	require.NoError(t, machine.Run(context.Background(), src.Nodes))

	spans := collector.Spans()
	require.Len(t, spans, 3)
	assert.Equal(t, "block in Greeter#greet", spans[0].Name)
	assert.Equal(t, "Greeter#greet", spans[1].Name)
	assert.Equal(t, "Greeter", spans[2].Name)

	require.NotEmpty(t, spans[1].Annotations)
	note := spans[1].Annotations[0]
	assert.Equal(t, "source", note.Message)
	assert.Equal(t, "greeter.rb", note.Attributes["file"])
}

func TestNewOpenCensusAnnotatorSkip(t *testing.T) {
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	collector := &spanCollector{}
	trace.RegisterExporter(collector)
	t.Cleanup(func() { trace.UnregisterExporter(collector) })

	src, err := parser.Parse("greeter.rb", []byte(testRuby))
	require.NoError(t, err)
	tracer := profiler.NewOpenCensusAnnotator(profiler.WithMethodsOnly())
	machine := vm.New(vm.WithTracer(tracer))
	require.NoError(t, machine.Run(context.Background(), src.Nodes))

	spans := collector.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Greeter#greet", spans[0].Name)
}
