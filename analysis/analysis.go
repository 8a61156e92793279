// Copyright © 2024 The ruby-lint authors

// Package analysis runs checks over analyzed Ruby sources.  The framework
// is modeled after go vet: each check is an Analyzer whose Run function
// receives a Pass and reports diagnostics through it.  Analyzers see the
// parse tree and the definition graph the engine left behind, never raw
// source text.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/parser"
	"github.com/h2dkb/ruby-lint/parser/token"
	"github.com/h2dkb/ruby-lint/vm"
)

// Severity classifies a diagnostic.
type Severity int

const (
	severityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "unknown"
}

// orDefault substitutes the default severity for the unset zero value.
func (s Severity) orDefault() Severity {
	if s == severityUnset {
		return SeverityWarning
	}
	return s
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.orDefault().String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Position locates a diagnostic in source.  The end coordinates are zero
// when the producing node covers a single point or no range was recorded.
type Position struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	EndLine int    `json:"end_line,omitempty"`
	EndCol  int    `json:"end_col,omitempty"`
}

func (p Position) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "-"
	case p.Line == 0:
		return p.File
	case p.Col == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// positionOf converts an engine source location.
func positionOf(loc *token.Location) Position {
	if loc == nil {
		return Position{}
	}
	return Position{
		File:    loc.File,
		Line:    loc.Line,
		Col:     loc.Col,
		EndLine: loc.EndLine,
		EndCol:  loc.EndCol,
	}
}

// Diagnostic is a single finding tied to a source position.
type Diagnostic struct {
	Pos      Position `json:"pos"`
	Message  string   `json:"message"`
	Analyzer string   `json:"analyzer,omitempty"`
	Severity Severity `json:"severity"`
	Notes    []string `json:"notes,omitempty"`
}

// String renders the conventional single line form,
//
//	app.rb:3:7: warning: unused local variable x [unused-variable]
//
// with any notes indented below it.
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Pos, d.Severity.orDefault(), d.Message)
	if d.Analyzer != "" {
		fmt.Fprintf(&sb, " [%s]", d.Analyzer)
	}
	for _, note := range d.Notes {
		sb.WriteString("\n  = note: ")
		sb.WriteString(note)
	}
	return sb.String()
}

// Analyzer is one check.  Name identifies it in output and in suppression
// directives.  Doc is a summary line, a blank line, and detail.  Severity
// applies to diagnostics that do not set their own.
type Analyzer struct {
	Name     string
	Doc      string
	Severity Severity
	Run      func(*Pass) error
}

// Pass carries one analyzer's view of one source file.  Reported
// diagnostics collect on the pass and are gathered after Run returns.
type Pass struct {
	Analyzer *Analyzer
	Filename string
	Nodes    []*ast.Node
	Comments ast.CommentMap

	// Machine is the finished engine run for the file.  It is nil when
	// only the parse tree is available; analyzers that need the
	// definition graph report nothing then.
	Machine *vm.VM

	diagnostics []Diagnostic
}

// Report records a diagnostic, stamping it with the analyzer's name and
// default severity.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with follow up lines attached.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf reports a formatted message at an engine location.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	p.Report(Diagnostic{Pos: positionOf(source), Message: fmt.Sprintf(format, args...)})
}

// Linter runs a fixed set of analyzers over sources.
type Linter struct {
	Analyzers []*Analyzer

	// Tracer, when set, observes the scope entries of every engine run the
	// linter starts.
	Tracer vm.Tracer
}

// NewLinter returns a linter with the default analyzer set.
func NewLinter() *Linter {
	return &Linter{Analyzers: DefaultAnalyzers()}
}

// Result bundles everything one analysis run produced: the parsed source,
// the finished engine run with its frozen graph, and the diagnostics.
type Result struct {
	Source      *parser.Source
	Machine     *vm.VM
	Diagnostics []Diagnostic
}

// Analyze parses one file, runs the engine over it, and applies every
// analyzer.  Syntax problems become diagnostics of the synthetic "syntax"
// analyzer rather than failing the analysis; the surviving tree still runs.
// Diagnostics come back filtered through rubylint:disable directives and
// sorted by position.
func (l *Linter) Analyze(ctx context.Context, source []byte, filename string) (*Result, error) {
	src, err := parser.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	diags := syntaxDiagnostics(src)
	opts := []vm.Option{vm.WithComments(src.Comments), vm.WithFile(src.Name)}
	if l.Tracer != nil {
		opts = append(opts, vm.WithTracer(l.Tracer))
	}
	machine := vm.New(opts...)
	if err := machine.Run(ctx, src.Nodes); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	checked, err := l.Check(src, machine)
	if err != nil {
		return nil, err
	}
	diags = append(diags, checked...)
	diags = filterSuppressed(diags, source, filename)
	sortDiagnostics(diags)
	return &Result{Source: src, Machine: machine, Diagnostics: diags}, nil
}

// AnalyzeFile reads and analyzes the file at path.
func (l *Linter) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Analyze(ctx, source, path)
}

// LintSource analyzes source and returns only the diagnostics.
func (l *Linter) LintSource(ctx context.Context, source []byte, filename string) ([]Diagnostic, error) {
	result, err := l.Analyze(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	return result.Diagnostics, nil
}

// LintFile reads and lints the file at path.
func (l *Linter) LintFile(ctx context.Context, path string) ([]Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.LintSource(ctx, source, path)
}

// Check applies the analyzer set to an already parsed source.  machine may
// be nil when no engine run is available.
func (l *Linter) Check(src *parser.Source, machine *vm.VM) ([]Diagnostic, error) {
	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: src.Name,
			Nodes:    src.Nodes,
			Comments: src.Comments,
			Machine:  machine,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", src.Name, analyzer.Name, err)
		}
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = src.Name
			}
		}
		all = append(all, pass.diagnostics...)
	}
	sortDiagnostics(all)
	return all, nil
}

// syntaxAnalyzerName tags parse errors in output.
const syntaxAnalyzerName = "syntax"

func syntaxDiagnostics(src *parser.Source) []Diagnostic {
	var diags []Diagnostic
	for _, perr := range src.Errors {
		diags = append(diags, Diagnostic{
			Pos:      positionOf(perr.Source),
			Message:  perr.Err.Error(),
			Analyzer: syntaxAnalyzerName,
			Severity: SeverityError,
		})
	}
	return diags
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Pos, diags[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// disableMarker introduces a suppression directive inside a comment:
//
//	risky_call # rubylint:disable
//	risky_call # rubylint:disable undefined-method,argument-amount
//
// The bare form silences every diagnostic on its line, the named form only
// the listed analyzers.
const disableMarker = "rubylint:disable"

// unusedDirectiveName tags directives that silenced nothing.
const unusedDirectiveName = "unused-directive"

// scanDirectives returns the directive value for each source line that
// carries one, keyed by 1 based line number.  The value is the raw analyzer
// list, empty for the bare form.
func scanDirectives(source []byte) map[int]string {
	var directives map[int]string
	for i, line := range strings.Split(string(source), "\n") {
		hash := strings.IndexByte(line, '#')
		if hash < 0 {
			continue
		}
		idx := strings.Index(line[hash:], disableMarker)
		if idx < 0 {
			continue
		}
		rest := line[hash+idx+len(disableMarker):]
		rest = strings.TrimPrefix(rest, ":")
		if directives == nil {
			directives = make(map[int]string)
		}
		directives[i+1] = strings.TrimSpace(rest)
	}
	return directives
}

// filterSuppressed drops diagnostics silenced by a rubylint:disable comment
// on their line.  Directives that silence nothing become diagnostics
// themselves so stale suppressions do not linger.
func filterSuppressed(diags []Diagnostic, source []byte, filename string) []Diagnostic {
	directives := scanDirectives(source)
	if directives == nil {
		return diags
	}
	used := make(map[int]bool, len(directives))
	kept := diags[:0]
	for _, d := range diags {
		names, ok := directives[d.Pos.Line]
		if ok && suppresses(names, d.Analyzer) {
			used[d.Pos.Line] = true
			continue
		}
		kept = append(kept, d)
	}
	for line, names := range directives {
		if used[line] {
			continue
		}
		msg := "rubylint:disable directive silences nothing"
		if names != "" {
			msg = fmt.Sprintf("rubylint:disable directive for %s silences nothing", names)
		}
		kept = append(kept, Diagnostic{
			Pos:      Position{File: filename, Line: line},
			Message:  msg,
			Analyzer: unusedDirectiveName,
			Severity: SeverityWarning,
		})
	}
	return kept
}

// suppresses reports whether a directive value covers the named analyzer.
func suppresses(names, analyzer string) bool {
	if names == "" {
		return true
	}
	for _, name := range strings.Split(names, ",") {
		if strings.TrimSpace(name) == analyzer {
			return true
		}
	}
	return false
}

// FormatText writes one line per diagnostic.
func FormatText(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}

// FormatJSON writes diagnostics as an indented JSON array.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built in analyzer set.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUndefinedMethod,
		AnalyzerUndefinedVariable,
		AnalyzerUnusedVariable,
		AnalyzerShadowingVariable,
		AnalyzerArgumentAmount,
	}
}

// SelectAnalyzers filters the default set down to the named checks.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	byName := make(map[string]*Analyzer)
	for _, a := range DefaultAnalyzers() {
		byName[a.Name] = a
	}
	var picked []*Analyzer
	for _, name := range names {
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown check %s", name)
		}
		picked = append(picked, a)
	}
	return picked, nil
}

// AnalyzerNames returns the sorted names of the given analyzers.
func AnalyzerNames(analyzers []*Analyzer) []string {
	names := make([]string, 0, len(analyzers))
	for _, a := range analyzers {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc renders a plain reference of the given analyzers, one entry
// per check with the summary line of its Doc.
func AnalyzerDoc(analyzers []*Analyzer) string {
	var sb strings.Builder
	for _, a := range analyzers {
		summary := a.Doc
		if i := strings.IndexByte(summary, '\n'); i >= 0 {
			summary = summary[:i]
		}
		fmt.Fprintf(&sb, "  %s\n    %s\n\n", a.Name, summary)
	}
	return sb.String()
}
