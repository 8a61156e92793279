// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"fmt"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/vm"
)

// eachCall visits every method call node in the trees.
func eachCall(nodes []*ast.Node, fn func(*ast.Node)) {
	ast.Walk(nodes, func(node, parent *ast.Node, depth int) {
		if node.Type == ast.NSend || node.Type == ast.NCSend {
			fn(node)
		}
	})
}

// countArguments returns the number of positional arguments at a call
// site.  exact is false when a splat spreads an unknown number of values
// into the call.  A trailing hash literal is not positional when the
// signature declares keyword parameters.
func countArguments(node *ast.Node, sig *definition.Signature) (argc int, exact bool) {
	var last *ast.Node
	for _, arg := range ast.CallArgs(node) {
		if arg == nil || arg.Token {
			continue
		}
		switch arg.Type {
		case ast.NSplat, ast.NKwSplat:
			return 0, false
		case ast.NBlockPass:
			continue
		}
		argc++
		last = arg
	}
	if argc > 0 && last.Type == ast.NHash && acceptsKeywords(sig) {
		argc--
	}
	return argc, true
}

func acceptsKeywords(sig *definition.Signature) bool {
	for _, p := range sig.Params {
		switch p.Kind {
		case definition.ArgKeyword, definition.ArgKeywordOptional, definition.ArgKeywordRest:
			return true
		}
	}
	return false
}

// arityRange renders an expected arity: "2", "1..2", or "at least 1".
func arityRange(min, max int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d", min)
	case min == max:
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d..%d", min, max)
}

// receiverPhrase describes a resolved call context for a diagnostic.
func receiverPhrase(context *definition.Definition) string {
	switch {
	case context == nil:
		return ""
	case context.Instance:
		return " on an instance of " + context.Name
	case context.Kind == definition.KindClass || context.Kind == definition.KindModule:
		return " on " + context.Name
	}
	return ""
}

// parameterInfo collects the parameter definitions of every method and
// block scope, plus the subset belonging to methods that override one
// inherited from an ancestor.
func parameterInfo(machine *vm.VM) (params, overriding map[*definition.Definition]bool) {
	params = make(map[*definition.Definition]bool)
	overriding = make(map[*definition.Definition]bool)
	for _, def := range machine.Associations() {
		if def.Signature == nil {
			continue
		}
		override := def.IsMethod() && overridesAncestor(def)
		for _, p := range def.Signature.Params {
			if p.Def == nil {
				continue
			}
			params[p.Def] = true
			if override {
				overriding[p.Def] = true
			}
		}
	}
	return params, overriding
}

// overridesAncestor reports whether an ancestor of the method's owner
// already defines a method of the same name.
func overridesAncestor(method *definition.Definition) bool {
	if len(method.Parents) == 0 {
		return false
	}
	owner := method.Parents[0]
	for _, parent := range owner.Parents {
		if parent.Lookup(method.Kind, method.Name) != nil {
			return true
		}
	}
	return false
}

// accessorBackedIVars collects instance variables covered by a same named
// reader or writer on the defining scope, usually one that attr_accessor
// generated.
func accessorBackedIVars(machine *vm.VM) map[*definition.Definition]bool {
	backed := make(map[*definition.Definition]bool)
	eachDefinition(machine.Root(), func(def *definition.Definition) {
		if def.Kind != definition.KindClass && def.Kind != definition.KindModule {
			return
		}
		for _, ivar := range def.ListKind(definition.KindIVar) {
			name := strings.TrimPrefix(ivar.Name, "@")
			if userMethod(def, name) || userMethod(def, name+"=") {
				backed[ivar] = true
			}
		}
	})
	return backed
}

func userMethod(scope *definition.Definition, name string) bool {
	m := scope.Lookup(definition.KindInstanceMethod, name)
	return m != nil && !m.IsCore()
}

// eachDefinition visits every definition reachable through member edges
// from root, once each.  Parent edges are not followed.
func eachDefinition(root *definition.Definition, fn func(*definition.Definition)) {
	seen := make(map[*definition.Definition]bool)
	var visit func(*definition.Definition)
	visit = func(d *definition.Definition) {
		if d == nil || seen[d] {
			return
		}
		seen[d] = true
		fn(d)
		for _, member := range d.List() {
			visit(member)
		}
	}
	visit(root)
}
