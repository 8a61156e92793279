// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2dkb/ruby-lint/parser"
)

func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	diags, err := NewLinter().LintSource(context.Background(), []byte(source), "app.rb")
	require.NoError(t, err)
	return diags
}

func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintSource(context.Background(), []byte(source), "app.rb")
	require.NoError(t, err)
	return diags
}

func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Errorf("no diagnostic contains %q in %v", substr, diags)
}

func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	assert.Empty(t, diags)
}

func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Errorf("no diagnostic on line %d contains %q in %v", line, substr, diags)
}

// --- positions and rendering ---

func TestPosition_String_Empty(t *testing.T) {
	assert.Equal(t, "-", Position{}.String())
}

func TestPosition_String_FileOnly(t *testing.T) {
	assert.Equal(t, "a.rb", Position{File: "a.rb"}.String())
}

func TestPosition_String_NoCol(t *testing.T) {
	assert.Equal(t, "a.rb:3", Position{File: "a.rb", Line: 3}.String())
}

func TestPosition_String_Full(t *testing.T) {
	assert.Equal(t, "a.rb:3:7", Position{File: "a.rb", Line: 3, Col: 7}.String())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "a.rb", Line: 3, Col: 7},
		Message:  "unused local variable x",
		Analyzer: "unused-variable",
		Severity: SeverityWarning,
	}
	assert.Equal(t, "a.rb:3:7: warning: unused local variable x [unused-variable]", d.String())
}

func TestDiagnostic_String_Notes(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "a.rb", Line: 2, Col: 10},
		Message:  "block parameter x shadows an outer variable",
		Analyzer: "shadowing-variable",
		Severity: SeverityInfo,
		Notes:    []string{"the shadowed variable is defined at a.rb:1:1"},
	}
	want := "a.rb:2:10: info: block parameter x shadows an outer variable [shadowing-variable]\n" +
		"  = note: the shadowed variable is defined at a.rb:1:1"
	assert.Equal(t, want, d.String())
}

func TestDiagnostic_String_DefaultSeverity(t *testing.T) {
	d := Diagnostic{Pos: Position{File: "a.rb", Line: 1}, Message: "m", Analyzer: "x"}
	assert.Equal(t, "a.rb:1: warning: m [x]", d.String())
}

// --- severity ---

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
}

func TestSeverity_MarshalUnset(t *testing.T) {
	data, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(data))
}

func TestSeverity_Unmarshal(t *testing.T) {
	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"info"`), &s))
	assert.Equal(t, SeverityInfo, s)

	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

// --- framework ---

func TestLintSource_AnalyzerError(t *testing.T) {
	boom := &Analyzer{
		Name: "boom",
		Doc:  "Always fails.",
		Run:  func(*Pass) error { return errors.New("kaboom") },
	}
	l := &Linter{Analyzers: []*Analyzer{boom}}
	_, err := l.LintSource(context.Background(), []byte("x = 1\n"), "app.rb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "kaboom")
}

func TestLintSource_FileNameBackfill(t *testing.T) {
	blank := &Analyzer{
		Name: "blank",
		Doc:  "Reports without a position.",
		Run: func(p *Pass) error {
			p.Reportf(nil, "no position")
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{blank}}
	diags, err := l.LintSource(context.Background(), []byte("x = 1\nx\n"), "app.rb")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "app.rb", diags[0].Pos.File)
}

func TestLintSource_SortsByPosition(t *testing.T) {
	scattered := &Analyzer{
		Name: "scattered",
		Doc:  "Reports out of order.",
		Run: func(p *Pass) error {
			p.Report(Diagnostic{Pos: Position{Line: 5, Col: 1}, Message: "late"})
			p.Report(Diagnostic{Pos: Position{Line: 2, Col: 8}, Message: "early"})
			p.Report(Diagnostic{Pos: Position{Line: 2, Col: 3}, Message: "earlier"})
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{scattered}}
	diags, err := l.LintSource(context.Background(), []byte("x = 1\nx\n"), "app.rb")
	require.NoError(t, err)
	require.Len(t, diags, 3)
	assert.Equal(t, "earlier", diags[0].Message)
	assert.Equal(t, "early", diags[1].Message)
	assert.Equal(t, "late", diags[2].Message)
}

func TestLintSource_UnsupportedFile(t *testing.T) {
	_, err := NewLinter().LintSource(context.Background(), []byte("x = 1\n"), "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLintSource_SyntaxError(t *testing.T) {
	l := &Linter{}
	diags, err := l.LintSource(context.Background(), []byte("def broken(\n"), "app.rb")
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	assert.Equal(t, "syntax", diags[0].Analyzer)
	assert.Equal(t, SeverityError, diags[0].Severity)
}

func TestLintSource_SexpInput(t *testing.T) {
	l := &Linter{Analyzers: []*Analyzer{AnalyzerUnusedVariable}}
	diags, err := l.LintSource(context.Background(), []byte("(lvasgn :x (int 1))"), "dump.rlint")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unused local variable x")
	assert.Equal(t, "dump.rlint", diags[0].Pos.File)
}

func TestCheck_NoMachine(t *testing.T) {
	src, err := parser.Parse("app.rb", []byte("undefined_thing\n"))
	require.NoError(t, err)
	diags, err := NewLinter().Check(src, nil)
	require.NoError(t, err)
	assertNoDiags(t, diags)
}

func TestSeverity_AnalyzerDefaultApplies(t *testing.T) {
	quiet := &Analyzer{
		Name:     "quiet",
		Doc:      "Reports with the analyzer severity.",
		Severity: SeverityInfo,
		Run: func(p *Pass) error {
			p.Reportf(nil, "plain report")
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{quiet}}
	diags, err := l.LintSource(context.Background(), []byte("x = 1\nx\n"), "app.rb")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
}

func TestSeverity_DiagnosticOverrides(t *testing.T) {
	loud := &Analyzer{
		Name:     "loud",
		Doc:      "Reports above its own severity.",
		Severity: SeverityInfo,
		Run: func(p *Pass) error {
			p.Report(Diagnostic{Message: "urgent", Severity: SeverityError})
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{loud}}
	diags, err := l.LintSource(context.Background(), []byte("x = 1\nx\n"), "app.rb")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
}

// --- undefined-method ---

func TestUndefinedMethod_Positive_Instance(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedMethod, `
name = "ada"
name.upcasee
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined method upcasee on an instance of String", diags[0].Message)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, SeverityError, diags[0].Severity)
}

func TestUndefinedMethod_Positive_Class(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedMethod, `
class Token
end
Token.generate
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined method generate on Token", diags[0].Message)
	assertDiagOnLine(t, diags, 4, "generate")
}

func TestUndefinedMethod_Positive_ImplicitSelf(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedMethod, `
class Widget
  def render
    draw_frame
  end
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined method draw_frame", diags[0].Message)
	assertDiagOnLine(t, diags, 4, "draw_frame")
}

func TestUndefinedMethod_Negative_Defined(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedMethod, `
class Token
  def self.generate
  end
end
Token.generate
`))
}

func TestUndefinedMethod_Negative_UnknownReceiver(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedMethod, `
thing = Config.load
thing.frobnicate
`))
}

func TestUndefinedMethod_Negative_AttrAccessor(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedMethod, `
class Person
  attr_accessor :name

  def initialize(name)
    @name = name
  end
end

person = Person.new("ada")
person.name
`))
}

// --- undefined-variable ---

func TestUndefinedVariable_Positive_IVar(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedVariable, `
class Counter
  def total
    @count
  end
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined instance variable @count", diags[0].Message)
	assertDiagOnLine(t, diags, 4, "@count")
}

func TestUndefinedVariable_Negative_IVarAssigned(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedVariable, `
class Counter
  def initialize
    @count = 0
  end

  def total
    @count
  end
end
`))
}

func TestUndefinedVariable_Positive_Constant(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedVariable, "Settings\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined constant Settings", diags[0].Message)
}

func TestUndefinedVariable_Positive_GVar(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedVariable, "$flags\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined global variable $flags", diags[0].Message)
}

func TestUndefinedVariable_Negative_CoreGlobals(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUndefinedVariable, `
$PROGRAM_NAME
$LOAD_PATH
ARGV
`))
}

// --- unused-variable ---

func TestUnusedVariable_Positive_Local(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnusedVariable, "greeting = \"hello\"\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "unused local variable greeting", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
}

func TestUnusedVariable_Negative_Read(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUnusedVariable, `
greeting = "hello"
puts greeting
`))
}

func TestUnusedVariable_Positive_Argument(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnusedVariable, `
def pad(text)
  "!"
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "unused argument text", diags[0].Message)
	assertDiagOnLine(t, diags, 2, "text")
}

func TestUnusedVariable_Positive_BlockParam(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnusedVariable, `
[1, 2].each do |n|
  puts "tick"
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "unused argument n", diags[0].Message)
}

func TestUnusedVariable_Positive_IVar(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnusedVariable, `
class Account
  def initialize
    @stale = true
  end
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "unused instance variable @stale", diags[0].Message)
}

func TestUnusedVariable_Negative_UnderscorePrefix(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUnusedVariable, `
_ignored = 1

def apply(_event)
end
`))
}

func TestUnusedVariable_Negative_OverrideParams(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUnusedVariable, `
class Base
  def handle(event)
    event
  end
end

class Child < Base
  def handle(event)
    "noop"
  end
end
`))
}

func TestUnusedVariable_Negative_AccessorBackedIVar(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerUnusedVariable, `
class Account
  attr_reader :balance

  def initialize
    @balance = 0
  end
end
`))
}

// --- shadowing-variable ---

func TestShadowingVariable_Positive(t *testing.T) {
	diags := lintCheck(t, AnalyzerShadowingVariable, `
status = "ok"
[1].each do |status|
  puts status
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "block parameter status shadows an outer variable", diags[0].Message)
	assert.Equal(t, SeverityInfo, diags[0].Severity)
	assertDiagOnLine(t, diags, 3, "status")
	require.Len(t, diags[0].Notes, 1)
	assert.Contains(t, diags[0].Notes[0], "app.rb:2")
}

func TestShadowingVariable_Negative_FreshName(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerShadowingVariable, `
status = "ok"
[1].each do |item|
  puts item
end
puts status
`))
}

func TestShadowingVariable_Negative_ExplicitShadow(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerShadowingVariable, `
status = "ok"
[1].each do |n; status|
  status = n
end
puts status
`))
}

// --- argument-amount ---

func TestArgumentAmount_Positive_TooMany(t *testing.T) {
	diags := lintCheck(t, AnalyzerArgumentAmount, `
def pad(text, width = 2)
  text
end
pad("x", 3, 9)
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "wrong number of arguments for 'pad' (expected 1..2, got 3)", diags[0].Message)
	assertDiagOnLine(t, diags, 5, "pad")
}

func TestArgumentAmount_Positive_TooFew(t *testing.T) {
	diags := lintCheck(t, AnalyzerArgumentAmount, `
def pad(text, width = 2)
  text
end
pad
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "wrong number of arguments for 'pad' (expected 1..2, got 0)", diags[0].Message)
}

func TestArgumentAmount_Positive_Variadic(t *testing.T) {
	diags := lintCheck(t, AnalyzerArgumentAmount, `
def tag(name, *rest)
  name
end
tag
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "wrong number of arguments for 'tag' (expected at least 1, got 0)", diags[0].Message)
}

func TestArgumentAmount_Positive_Constructor(t *testing.T) {
	diags := lintCheck(t, AnalyzerArgumentAmount, `
class Account
  def initialize(owner)
    @owner = owner
  end
end
Account.new
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "wrong number of arguments for 'new' (expected 1, got 0)", diags[0].Message)
}

func TestArgumentAmount_Negative_InRange(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerArgumentAmount, `
def pad(text, width = 2)
  text
end
pad("x")
pad("x", 4)
`))
}

func TestArgumentAmount_Negative_Splat(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerArgumentAmount, `
def sum(a, b)
  a + b
end
values = [1, 2]
sum(*values)
`))
}

func TestArgumentAmount_Negative_Keywords(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerArgumentAmount, `
def config(host:, port: 80)
  host
end
config(host: "x")
`))
}

func TestArgumentAmount_Negative_Constructor(t *testing.T) {
	assertNoDiags(t, lintCheck(t, AnalyzerArgumentAmount, `
class Account
  def initialize(owner)
    @owner = owner
  end
end
Account.new("ada")
`))
}

// --- suppression ---

func TestSuppression_All(t *testing.T) {
	assertNoDiags(t, lintSource(t, "greeting = \"hello\" # rubylint:disable\n"))
}

func TestSuppression_Named(t *testing.T) {
	assertNoDiags(t, lintSource(t, "greeting = \"hello\" # rubylint:disable unused-variable\n"))
}

func TestSuppression_WrongName(t *testing.T) {
	diags := lintSource(t, "greeting = \"hello\" # rubylint:disable undefined-method\n")
	assertHasDiag(t, diags, "unused local variable greeting")
	assertHasDiag(t, diags, "silences nothing")
}

func TestSuppression_Unused(t *testing.T) {
	diags := lintSource(t, "puts \"ok\" # rubylint:disable\n")
	require.Len(t, diags, 1)
	assert.Equal(t, unusedDirectiveName, diags[0].Analyzer)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Contains(t, diags[0].Message, "silences nothing")
}

func TestScanDirectives(t *testing.T) {
	src := "a = 1\nb = 2 # rubylint:disable foo\nc # rubylint:disable\n"
	assert.Equal(t, map[int]string{2: "foo", 3: ""}, scanDirectives([]byte(src)))
	assert.Nil(t, scanDirectives([]byte("plain = 1\n")))
}

// --- output formats ---

func TestFormatText(t *testing.T) {
	diags := []Diagnostic{
		{Pos: Position{File: "a.rb", Line: 3, Col: 7}, Message: "unused local variable x", Analyzer: "unused-variable", Severity: SeverityWarning},
		{Pos: Position{File: "b.rb", Line: 1}, Message: "undefined constant Foo", Analyzer: "undefined-variable", Severity: SeverityError},
	}
	var buf bytes.Buffer
	require.NoError(t, FormatText(&buf, diags))
	want := "a.rb:3:7: warning: unused local variable x [unused-variable]\n" +
		"b.rb:1: error: undefined constant Foo [undefined-variable]\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatJSON_RoundTrip(t *testing.T) {
	diags := []Diagnostic{
		{Pos: Position{File: "a.rb", Line: 2, Col: 1}, Message: "m", Analyzer: "x", Severity: SeverityError},
	}
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))
	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, diags, decoded)
}

func TestFormatJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatSARIF(t *testing.T) {
	diags := []Diagnostic{
		{
			Pos:      Position{File: "a.rb", Line: 3, Col: 7, EndLine: 3, EndCol: 12},
			Message:  "undefined method frobnicate",
			Analyzer: "undefined-method",
			Severity: SeverityError,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, FormatSARIF(&buf, diags, DefaultAnalyzers()))

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	assert.Equal(t, "ruby-lint", log.Runs[0].Tool.Driver.Name)
	assert.Len(t, log.Runs[0].Tool.Driver.Rules, len(DefaultAnalyzers()))
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "undefined-method", log.Runs[0].Results[0].RuleID)
	assert.Equal(t, "error", log.Runs[0].Results[0].Level)
	require.Len(t, log.Runs[0].Results[0].Locations, 1)
	loc := log.Runs[0].Results[0].Locations[0].PhysicalLocation
	assert.Equal(t, "a.rb", loc.ArtifactLocation.URI)
	assert.Equal(t, 3, loc.Region.StartLine)
}

// --- analyzer metadata ---

func TestDefaultAnalyzers_Names(t *testing.T) {
	want := []string{
		"argument-amount",
		"shadowing-variable",
		"undefined-method",
		"undefined-variable",
		"unused-variable",
	}
	assert.Equal(t, want, AnalyzerNames(DefaultAnalyzers()))
}

func TestSelectAnalyzers(t *testing.T) {
	picked, err := SelectAnalyzers([]string{"unused-variable", "syntax-free"})
	assert.Error(t, err)
	assert.Nil(t, picked)

	picked, err = SelectAnalyzers([]string{"unused-variable"})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, "unused-variable", picked[0].Name)
}

func TestAnalyzerDoc(t *testing.T) {
	doc := AnalyzerDoc(DefaultAnalyzers())
	assert.Contains(t, doc, "unused-variable")
	assert.Contains(t, doc, "Report variables that are assigned but never read.")
	assert.NotContains(t, doc, "exempt")
}

// --- whole file runs ---

func TestLintSource_CleanFile(t *testing.T) {
	assertNoDiags(t, lintSource(t, `
class Greeter
  attr_reader :name

  def initialize(name)
    @name = name
  end

  def greet
    "hello " + name
  end
end

greeter = Greeter.new("ada")
puts greeter.greet
`))
}

func TestLintSource_DirtyFile(t *testing.T) {
	diags := lintSource(t, `
class Report
  def initialize(title)
    @title = title
  end

  def render
    body
  end
end

report = Report.new
report.render("x")
stale = 1
`)
	require.Len(t, diags, 5)
	assertDiagOnLine(t, diags, 4, "unused instance variable @title")
	assertDiagOnLine(t, diags, 8, "undefined method body")
	assertDiagOnLine(t, diags, 11, "wrong number of arguments for 'new' (expected 1, got 0)")
	assertDiagOnLine(t, diags, 12, "wrong number of arguments for 'render' (expected 0, got 1)")
	assertDiagOnLine(t, diags, 13, "unused local variable stale")
}
