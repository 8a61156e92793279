// Copyright © 2024 The ruby-lint authors

// Package diagnostic renders analysis findings as annotated source
// snippets.  It reads the offending line back out of the file and
// underlines the span the engine recorded, in the style of modern compiler
// output.  Output degrades gracefully when the source cannot be read: the
// header and notes still render, only the snippet is dropped.
package diagnostic

import (
	"bufio"
	"io"

	"github.com/h2dkb/ruby-lint/analysis"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d analysis.Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	r.writeSnippet(ew, d.Pos, p)
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []analysis.Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeHeader(ew *errWriter, d analysis.Diagnostic, p palette) {
	sevColor, sevText := severityStyle(d.Severity, p)
	ew.printf("%s%s%s:%s %s%s%s",
		sevColor, sevText, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)
	if d.Analyzer != "" {
		ew.printf(" %s[%s]%s", p.cyan, d.Analyzer, p.reset)
	}
	ew.print("\n")
}

// severityStyle maps a severity to its color and display text.  Anything
// unrecognized renders as a warning, matching the framework default.
func severityStyle(s analysis.Severity, p palette) (string, string) {
	switch s {
	case analysis.SeverityError:
		return p.boldRed, "error"
	case analysis.SeverityInfo:
		return p.boldCyan, "info"
	default:
		return p.yellow, "warning"
	}
}
