// Copyright © 2024 The ruby-lint authors

package profiler

import (
	"context"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/vm"
	"go.opencensus.io/trace"
)

var _ vm.Tracer = &ocAnnotator{}

type ocAnnotator struct {
	annotator
}

// NewOpenCensusAnnotator returns a tracer that opens an OpenCensus span for
// every scope the engine enters.
func NewOpenCensusAnnotator(opts ...Option) vm.Tracer {
	p := &ocAnnotator{}
	p.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enter(ctx context.Context, def *definition.Definition) (context.Context, func()) {
	if p.skipTrace(def) {
		return ctx, func() {}
	}
	ctx, span := trace.StartSpan(ctx, p.spanLabel(def))
	return ctx, func() {
		if loc := def.Source; loc != nil {
			span.Annotate([]trace.Attribute{
				trace.StringAttribute("file", loc.File),
				trace.Int64Attribute("line", int64(loc.Line)),
			}, "source")
		}
		span.End()
	}
}
