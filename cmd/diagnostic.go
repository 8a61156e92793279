// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"os"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/h2dkb/ruby-lint/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderDiagnostics renders findings as annotated snippets to stderr, with a
// suppression hint attached to each one.
func renderDiagnostics(diags []analysis.Diagnostic) {
	r := newRenderer()
	for i, d := range diags {
		if i > 0 {
			os.Stderr.WriteString("\n")
		}
		d.Notes = append(d.Notes, suppressionHint(d.Analyzer)...)
		_ = r.Render(os.Stderr, d)
	}
}

// suppressionHint explains how to silence a finding.  Syntax errors cannot
// be suppressed, so they get no hint.
func suppressionHint(analyzer string) []string {
	if analyzer == "" || analyzer == "syntax" {
		return nil
	}
	return []string{`to suppress: add "# rubylint:disable ` + analyzer + `" as a comment on this line`}
}
