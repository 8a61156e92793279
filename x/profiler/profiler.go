// Copyright © 2024 The ruby-lint authors

// Package profiler provides vm.Tracer implementations that mirror engine
// scope entries into distributed tracing spans.  Spans nest the way scopes
// nest, so a trace of an analysis run reads like the structure of the
// analyzed file.
package profiler

import (
	"github.com/h2dkb/ruby-lint/definition"
)

// maxLabelDepth caps parent-chain walks when naming spans.
const maxLabelDepth = 16

// SkipFilter suppresses spans for scopes it returns true for.
type SkipFilter func(def *definition.Definition) bool

// ScopeLabeler provides an alternative span name for a scope.  Returning ""
// falls back to the default label.
type ScopeLabeler func(def *definition.Definition) string

// annotator carries the configuration shared by both tracer implementations.
type annotator struct {
	skipFilter SkipFilter
	labeler    ScopeLabeler
}

// Option configures an annotator.
type Option func(*annotator)

func (a *annotator) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(a)
	}
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(a *annotator) {
		a.skipFilter = skipFilter
	}
}

// WithScopeLabeler sets the labeler for span names.
func WithScopeLabeler(labeler ScopeLabeler) Option {
	return func(a *annotator) {
		a.labeler = labeler
	}
}

// WithMethodsOnly skips spans for every scope that is not a method
// definition.  Class bodies and blocks stay out of the trace.
func WithMethodsOnly() Option {
	return WithSkipFilter(func(def *definition.Definition) bool {
		return !def.IsMethod()
	})
}

func (a *annotator) skipTrace(def *definition.Definition) bool {
	return def == nil || a.skipFilter != nil && a.skipFilter(def)
}

func (a *annotator) spanLabel(def *definition.Definition) string {
	if a.labeler != nil {
		if label := a.labeler(def); label != "" {
			return label
		}
	}
	return scopeLabel(def, 0)
}

// scopeLabel names a scope the way a Ruby backtrace would: Owner#name for
// instance methods, Owner.name for singleton methods, "block in ..." for
// blocks, and the bare name for everything else.
func scopeLabel(def *definition.Definition, depth int) string {
	if def == nil || depth > maxLabelDepth {
		return "?"
	}
	if def.Kind == definition.KindBlock {
		if len(def.Parents) > 0 {
			return "block in " + scopeLabel(def.Parents[0], depth+1)
		}
		return "block"
	}
	return def.QualifiedName()
}

// namespaceOf walks to the nearest enclosing class or module name, falling
// back to the Ruby top level object.
func namespaceOf(def *definition.Definition) string {
	for seen := 0; def != nil && seen < maxLabelDepth; seen++ {
		if def.Kind == definition.KindClass || def.Kind == definition.KindModule {
			return def.Name
		}
		if len(def.Parents) == 0 {
			break
		}
		def = def.Parents[0]
	}
	return "main"
}
