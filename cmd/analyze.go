// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/h2dkb/ruby-lint/vm"
	"github.com/h2dkb/ruby-lint/x/profiler"
)

var (
	analyzeJSON     bool
	analyzeSARIF    bool
	analyzeChecks   string
	analyzeListAll  bool
	analyzeExcludes []string
	analyzeTrace    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [files...]",
	Short: "Run static analysis checks on Ruby source files",
	Long: `Run static analysis checks on Ruby source files.

Each file is parsed, replayed through the definition graph engine, and
handed to every enabled check. Arguments may name files, glob patterns, or
directories; a directory suffixed /... is walked recursively. With no
arguments, an s-expression dump is read from stdin.

Findings go to stderr as annotated source snippets. With --json or --sarif
a machine readable report goes to stdout instead.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment on the same line:
  risky_call  # rubylint:disable undefined-method

To suppress all checks on a line:
  risky_call  # rubylint:disable

Examples:
  ruby-lint analyze app.rb                            # Analyze a single file
  ruby-lint analyze lib spec                          # Analyze two directories
  ruby-lint analyze ./...                             # Analyze the whole tree
  ruby-lint analyze --json app.rb                     # Report as JSON
  ruby-lint analyze --sarif ./... > report.sarif      # Report as SARIF
  ruby-lint analyze --checks=unused-variable app.rb   # Run only one check
  ruby-lint analyze --exclude='db/schema.rb' ./...    # Exclude a file by name
  ruby-lint analyze --exclude='vendor' ./...          # Exclude a directory
  ruby-lint analyze --list                            # List available checks
  cat dump.rlint | ruby-lint analyze                  # Analyze a dump from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		if analyzeListAll {
			printCheckList(os.Stdout)
			return
		}
		if analyzeJSON && analyzeSARIF {
			fmt.Fprintln(os.Stderr, "ruby-lint analyze: --json and --sarif are mutually exclusive")
			os.Exit(2)
		}

		linter, err := newLinter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ruby-lint analyze: %v\n", err)
			os.Exit(2)
		}

		var diags []analysis.Diagnostic
		if len(args) == 0 {
			diags, err = analyzeStdin(cmd, linter)
		} else {
			diags, err = analyzeArgs(cmd, linter, args)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		if err := reportDiagnostics(diags, linter.Analyzers); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if len(diags) > 0 {
			os.Exit(1)
		}
	},
}

// newLinter builds the linter the analyze flags describe: the selected
// analyzer set with any requested engine tracer attached.
func newLinter() (*analysis.Linter, error) {
	linter := analysis.NewLinter()
	if analyzeChecks != "" {
		var names []string
		for _, name := range strings.Split(analyzeChecks, ",") {
			names = append(names, strings.TrimSpace(name))
		}
		analyzers, err := analysis.SelectAnalyzers(names)
		if err != nil {
			return nil, err
		}
		linter.Analyzers = analyzers
	}
	tracer, err := newTracer(analyzeTrace)
	if err != nil {
		return nil, err
	}
	linter.Tracer = tracer
	return linter, nil
}

// newTracer maps the --trace flag to an engine tracer, nil meaning
// tracing is off.
func newTracer(mode string) (vm.Tracer, error) {
	switch mode {
	case "", "off":
		return nil, nil
	case "otel":
		return profiler.NewOpenTelemetryAnnotator(), nil
	case "opencensus":
		return profiler.NewOpenCensusAnnotator(), nil
	}
	return nil, fmt.Errorf("unknown trace mode %q (want otel, opencensus, or off)", mode)
}

func analyzeStdin(cmd *cobra.Command, linter *analysis.Linter) ([]analysis.Diagnostic, error) {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return linter.LintSource(cmd.Context(), src, "<stdin>")
}

func analyzeArgs(cmd *cobra.Command, linter *analysis.Linter, args []string) ([]analysis.Diagnostic, error) {
	runner, err := analysis.NewRunner(linter, analyzeExcludes)
	if err != nil {
		return nil, err
	}
	return runner.Run(cmd.Context(), args)
}

// reportDiagnostics writes findings in the selected format: machine
// readable forms on stdout, the annotated snippet form on stderr.
func reportDiagnostics(diags []analysis.Diagnostic, analyzers []*analysis.Analyzer) error {
	switch {
	case analyzeJSON:
		return analysis.FormatJSON(os.Stdout, diags)
	case analyzeSARIF:
		return analysis.FormatSARIF(os.Stdout, diags, analyzers)
	case len(diags) > 0:
		renderDiagnostics(diags)
	}
	return nil
}

// printCheckList writes one entry per check: the name, then its full doc
// wrapped and indented beneath it.
func printCheckList(w io.Writer) {
	for _, a := range analysis.DefaultAnalyzers() {
		fmt.Fprintln(w, a.Name)
		fmt.Fprintln(w, indent.String(wordwrap.String(a.Doc, 72), 2))
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output diagnostics as JSON.")
	analyzeCmd.Flags().BoolVar(&analyzeSARIF, "sarif", false,
		"Output diagnostics as SARIF 2.1.0.")
	analyzeCmd.Flags().StringVar(&analyzeChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	analyzeCmd.Flags().BoolVar(&analyzeListAll, "list", false,
		"List available checks and exit.")
	analyzeCmd.Flags().StringArrayVar(&analyzeExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	analyzeCmd.Flags().StringVar(&analyzeTrace, "trace", "off",
		`Mirror engine scopes into tracing spans: "otel", "opencensus", or "off".`)
}
