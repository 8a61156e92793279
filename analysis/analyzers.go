// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"fmt"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
)

// AnalyzerUndefinedMethod reports method calls that never resolved.
var AnalyzerUndefinedMethod = &Analyzer{
	Name:     "undefined-method",
	Severity: SeverityError,
	Doc: "Report calls to methods that do not exist.\n\n" +
		"A call is flagged when its receiver resolved to a definition but the " +
		"method name is missing from it and every ancestor. Calls whose " +
		"receiver never resolved are skipped, since nothing useful can be " +
		"said about them.",
	Run: func(pass *Pass) error {
		if pass.Machine == nil {
			return nil
		}
		for _, call := range pass.Machine.UnresolvedCalls() {
			if call.Context.IsUnknown() {
				continue
			}
			pass.Reportf(call.Source, "undefined method %s%s", call.Name, receiverPhrase(call.Context))
		}
		return nil
	},
}

// AnalyzerUndefinedVariable reports reads of names with no binding.
var AnalyzerUndefinedVariable = &Analyzer{
	Name:     "undefined-variable",
	Severity: SeverityError,
	Doc: "Report reads of variables and constants that were never assigned.\n\n" +
		"Covers local, instance, class and global variables as well as " +
		"constant paths. A read counts as undefined when the scope chain " +
		"holds no binding for the name at the point of the read.",
	Run: func(pass *Pass) error {
		if pass.Machine == nil {
			return nil
		}
		for _, ref := range pass.Machine.UnresolvedRefs() {
			pass.Reportf(ref.Source, "undefined %s %s", ref.Kind, ref.Name)
		}
		return nil
	},
}

// AnalyzerUnusedVariable reports bindings that are never read.
var AnalyzerUnusedVariable = &Analyzer{
	Name:     "unused-variable",
	Severity: SeverityWarning,
	Doc: "Report variables that are assigned but never read.\n\n" +
		"Names starting with an underscore are exempt. So are parameters of " +
		"methods that override one inherited from an ancestor, and instance " +
		"variables covered by a same named accessor method.",
	Run: func(pass *Pass) error {
		if pass.Machine == nil {
			return nil
		}
		params, overriding := parameterInfo(pass.Machine)
		backed := accessorBackedIVars(pass.Machine)
		for _, v := range pass.Machine.Variables() {
			if v.References > 0 || v.Name == "" || overriding[v] || backed[v] {
				continue
			}
			if strings.HasPrefix(strings.TrimLeft(v.Name, "@$"), "_") {
				continue
			}
			if params[v] {
				pass.Reportf(v.Source, "unused argument %s", v.Name)
			} else {
				pass.Reportf(v.Source, "unused %s %s", v.Kind, v.Name)
			}
		}
		return nil
	},
}

// AnalyzerShadowingVariable reports block parameters hiding outer bindings.
var AnalyzerShadowingVariable = &Analyzer{
	Name:     "shadowing-variable",
	Severity: SeverityInfo,
	Doc: "Report block parameters that hide an outer variable.\n\n" +
		"Blocks see the variables of their defining scope, so a parameter " +
		"reusing an outer name cuts the block body off from the original " +
		"binding. Explicit shadow declarations (|a; b|) are not reported.",
	Run: func(pass *Pass) error {
		if pass.Machine == nil {
			return nil
		}
		for _, sh := range pass.Machine.Shadows() {
			d := Diagnostic{
				Pos:     positionOf(sh.Source),
				Message: fmt.Sprintf("block parameter %s shadows an outer variable", sh.Name),
			}
			if sh.Outer != nil && sh.Outer.Source != nil {
				pass.ReportWithNotes(d, fmt.Sprintf("the shadowed variable is defined at %s", sh.Outer.Source))
			} else {
				pass.Report(d)
			}
		}
		return nil
	},
}

// AnalyzerArgumentAmount reports calls with an impossible argument count.
var AnalyzerArgumentAmount = &Analyzer{
	Name:     "argument-amount",
	Severity: SeverityError,
	Doc: "Report calls whose argument count the callee cannot accept.\n\n" +
		"Only calls that resolved to a method with a known signature are " +
		"checked. Calls spreading a splat are skipped. A trailing hash " +
		"literal does not count against positional arity when the callee " +
		"takes keyword parameters.",
	Run: func(pass *Pass) error {
		if pass.Machine == nil {
			return nil
		}
		eachCall(pass.Nodes, func(node *ast.Node) {
			method := pass.Machine.DefinitionOf(node)
			if method == nil || !method.IsMethod() || method.Signature == nil {
				return
			}
			argc, exact := countArguments(node, method.Signature)
			if !exact {
				return
			}
			min, max := method.Signature.MinArity(), method.Signature.MaxArity()
			if argc >= min && (max < 0 || argc <= max) {
				return
			}
			name := ast.CallName(node)
			if name == "" {
				name = method.Name
			}
			pass.Reportf(ast.SourceOf(node),
				"wrong number of arguments for '%s' (expected %s, got %d)",
				name, arityRange(min, max), argc)
		})
		return nil
	},
}
