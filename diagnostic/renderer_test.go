// Copyright © 2024 The ruby-lint authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source
// reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func render(t *testing.T, r *Renderer, d analysis.Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"greeting.rb": "puts msgg",
	})

	got := render(t, r, analysis.Diagnostic{
		Pos:      analysis.Position{File: "greeting.rb", Line: 1, Col: 6, EndLine: 1, EndCol: 10},
		Message:  "undefined local variable msgg",
		Analyzer: "undefined-variable",
		Severity: analysis.SeverityError,
	})

	assert.Contains(t, got, "error: undefined local variable msgg [undefined-variable]")
	assert.Contains(t, got, "--> greeting.rb:1:6")
	assert.Contains(t, got, "puts msgg")
	assert.Contains(t, got, "^^^^")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"app.rb": "x = 1\ny = 2",
	})

	got := render(t, r, analysis.Diagnostic{
		Pos:      analysis.Position{File: "app.rb", Line: 2, Col: 1, EndLine: 2, EndCol: 2},
		Message:  "unused local variable y",
		Analyzer: "unused-variable",
		Severity: analysis.SeverityWarning,
	})

	assert.Contains(t, got, "warning: unused local variable y [unused-variable]")
	assert.Contains(t, got, "--> app.rb:2:1")
	assert.Contains(t, got, "y = 2")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, analysis.Diagnostic{
		Pos:      analysis.Position{File: "stdin.rb", Line: 5, Col: 3},
		Message:  "some error",
		Severity: analysis.SeverityError,
	})

	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> stdin.rb:5:3")
	// A gutter still renders, but no snippet or underline.
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"app.rb": "rows.each { |row| row }",
	})

	got := render(t, r, analysis.Diagnostic{
		Pos:      analysis.Position{File: "app.rb", Line: 1, Col: 14, EndLine: 1, EndCol: 17},
		Message:  "block parameter row shadows an outer variable",
		Analyzer: "shadowing-variable",
		Severity: analysis.SeverityInfo,
		Notes:    []string{"the shadowed variable is defined at app.rb:1:1"},
	})

	assert.Contains(t, got, "info: block parameter row shadows an outer variable")
	assert.Contains(t, got, "= note: the shadowed variable is defined at app.rb:1:1")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"app.rb": "x.upcasee",
	})

	got := render(t, r, analysis.Diagnostic{
		Pos:      analysis.Position{File: "app.rb", Line: 1, Col: 3},
		Message:  "undefined method upcasee",
		Severity: analysis.SeverityError,
	})

	// "upcasee" starts at col 3 and runs to the end of the line.
	assert.Contains(t, got, "^^^^^^^")
}

func TestRenderAllSeparatesDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"app.rb": "a = 1\nb = 2",
	})

	diags := []analysis.Diagnostic{
		{
			Pos:      analysis.Position{File: "app.rb", Line: 1, Col: 1},
			Message:  "unused local variable a",
			Severity: analysis.SeverityWarning,
		},
		{
			Pos:      analysis.Position{File: "app.rb", Line: 2, Col: 1},
			Message:  "unused local variable b",
			Severity: analysis.SeverityWarning,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))

	got := buf.String()
	parts := strings.Split(got, "\n\n")
	assert.GreaterOrEqual(t, len(parts), 2, "diagnostics separated by a blank line")
	assert.Contains(t, got, "unused local variable a")
	assert.Contains(t, got, "unused local variable b")
}

func TestRenderNoPosition(t *testing.T) {
	r := testRenderer(nil)

	got := render(t, r, analysis.Diagnostic{
		Message:  "watch error: too many open files",
		Severity: analysis.SeverityError,
	})

	assert.Contains(t, got, "error: watch error: too many open files")
	assert.NotContains(t, got, "-->")
}
