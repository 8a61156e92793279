// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/h2dkb/ruby-lint/diagnostic"
)

func TestAnalyzeCommand_DefaultFlags(t *testing.T) {
	assert.Equal(t, "analyze [flags] [files...]", analyzeCmd.Use)

	// All expected flags should exist
	for _, name := range []string{"json", "sarif", "checks", "list", "exclude", "trace"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.Equal(t, "off", analyzeCmd.Flags().Lookup("trace").DefValue)
}

func TestNewTracer(t *testing.T) {
	tracer, err := newTracer("off")
	require.NoError(t, err)
	assert.Nil(t, tracer)

	tracer, err = newTracer("")
	require.NoError(t, err)
	assert.Nil(t, tracer)

	tracer, err = newTracer("otel")
	require.NoError(t, err)
	assert.NotNil(t, tracer)

	tracer, err = newTracer("opencensus")
	require.NoError(t, err)
	assert.NotNil(t, tracer)

	_, err = newTracer("jaeger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jaeger")
}

func TestNewLinter_SelectsChecks(t *testing.T) {
	restore := analyzeChecks
	defer func() { analyzeChecks = restore }()

	analyzeChecks = "unused-variable, shadowing-variable"
	linter, err := newLinter()
	require.NoError(t, err)
	require.Len(t, linter.Analyzers, 2)
	assert.Equal(t, "unused-variable", linter.Analyzers[0].Name)
	assert.Equal(t, "shadowing-variable", linter.Analyzers[1].Name)

	analyzeChecks = "no-such-check"
	_, err = newLinter()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-check")
}

func TestNewLinter_AttachesTracer(t *testing.T) {
	restoreTrace := analyzeTrace
	defer func() { analyzeTrace = restoreTrace }()

	analyzeTrace = "otel"
	linter, err := newLinter()
	require.NoError(t, err)
	assert.NotNil(t, linter.Tracer)

	analyzeTrace = "off"
	linter, err = newLinter()
	require.NoError(t, err)
	assert.Nil(t, linter.Tracer)
}

func TestPrintCheckList(t *testing.T) {
	var buf bytes.Buffer
	printCheckList(&buf)
	out := buf.String()
	for _, a := range analysis.DefaultAnalyzers() {
		assert.Contains(t, out, a.Name)
	}
}

func TestColorMode(t *testing.T) {
	restore := colorFlag
	defer func() { colorFlag = restore }()

	colorFlag = "always"
	assert.Equal(t, diagnostic.ColorAlways, colorMode())
	colorFlag = "never"
	assert.Equal(t, diagnostic.ColorNever, colorMode())
	colorFlag = "auto"
	assert.Equal(t, diagnostic.ColorAuto, colorMode())
	colorFlag = "bogus"
	assert.Equal(t, diagnostic.ColorAuto, colorMode())
}

func TestSuppressionHint(t *testing.T) {
	assert.Nil(t, suppressionHint(""))
	assert.Nil(t, suppressionHint("syntax"))

	hint := suppressionHint("unused-variable")
	require.Len(t, hint, 1)
	assert.Contains(t, hint[0], "rubylint:disable unused-variable")
}
