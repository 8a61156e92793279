// Copyright © 2024 The ruby-lint authors

package vm

import (
	"strconv"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
)

var refKinds = map[ast.Type]definition.Kind{
	ast.NLVar: definition.KindLVar,
	ast.NIVar: definition.KindIVar,
	ast.NCVar: definition.KindCVar,
}

// postVarRef resolves a local, instance, or class variable read against the
// current scope and its parents.  A hit bumps the reference count and pushes
// the variable's value; a miss degrades to unknown.
func postVarRef(vm *VM, node *ast.Node) {
	kind := refKinds[node.Type]
	name := node.Name()
	def := vm.scope().Lookup(kind, name)
	if def == nil {
		vm.missRef(name, kind, node)
		return
	}
	def.AddReference()
	vm.associate(node, def)
	vm.values.Push(def.ValueOrSelf())
}

// postGVarRef resolves a global read against root.  The regex and process
// globals Ruby populates implicitly are synthesized on first use.
func postGVarRef(vm *VM, node *ast.Node) {
	vm.resolveGlobal(node, node.Name())
}

// postMagicGVarRef handles the dedicated nth_ref ($1) and back_ref ($&)
// node types.
func postMagicGVarRef(vm *VM, node *ast.Node) {
	var name string
	if len(node.Children) > 0 {
		switch child := node.Children[0]; child.Type {
		case ast.NInt:
			name = strconv.FormatInt(child.Int, 10)
		default:
			name = child.Str
		}
	}
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	vm.resolveGlobal(node, name)
}

func (vm *VM) resolveGlobal(node *ast.Node, name string) {
	def := vm.root.LookupLocal(definition.KindGVar, name)
	if def == nil && isMagicGlobal(name) {
		def = definition.New(definition.KindGVar, name)
		def.Source = ast.SourceOf(node)
		vm.root.Define(definition.KindGVar, name, def)
	}
	if def == nil {
		vm.missRef(name, definition.KindGVar, node)
		return
	}
	def.AddReference()
	vm.associate(node, def)
	vm.values.Push(def.ValueOrSelf())
}

// isMagicGlobal reports whether name is one of the globals the interpreter
// maintains itself: numbered match groups and the match bookkeeping set.
func isMagicGlobal(name string) bool {
	if len(name) < 2 || name[0] != '$' {
		return false
	}
	rest := name[1:]
	if len(rest) == 1 && strings.ContainsAny(rest, "&`'+~!?_") {
		return true
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (vm *VM) missRef(name string, kind definition.Kind, node *ast.Node) {
	vm.unresolvedRefs = append(vm.unresolvedRefs, UnresolvedRef{
		Name:   name,
		Kind:   kind,
		Source: ast.SourceOf(node),
	})
	vm.values.Push(definition.Unknown())
}

// preConstRef suppresses descent into the receiver path; postConstRef walks
// it by hand.
func preConstRef(vm *VM, node *ast.Node) {
	if recv := node.Receiver(); recv != nil {
		vm.ignore(recv)
	}
}

func postConstRef(vm *VM, node *ast.Node) {
	def := vm.resolveConstPath(node)
	if def.IsUnknown() {
		vm.values.Push(definition.Unknown())
		return
	}
	def.AddReference()
	vm.associate(node, def)
	vm.values.Push(def.ValueOrSelf())
}

// resolveConstPath resolves a possibly qualified constant reference.  Bare
// names search the scope chain and then the core registry; qualified names
// search the resolved receiver's namespace.  Failures record an unresolved
// reference once and return the unknown sentinel.
func (vm *VM) resolveConstPath(node *ast.Node) *definition.Definition {
	switch node.Type {
	case ast.NCBase:
		return vm.root
	case ast.NConst:
	default:
		return definition.Unknown()
	}

	name := constName(node)
	recv := node.Receiver()
	if recv == nil {
		def := vm.scope().Lookup(definition.KindConst, name)
		if def == nil {
			def = vm.loadCoreConst(name)
		}
		if def == nil {
			vm.recordConstMiss(name, node)
			return definition.Unknown()
		}
		return def
	}

	base := vm.resolveConstPath(recv)
	if base.IsUnknown() {
		return definition.Unknown()
	}
	def := base.Lookup(definition.KindConst, name)
	if def == nil {
		vm.recordConstMiss(name, node)
		return definition.Unknown()
	}
	return def
}

// loadCoreConst pulls a built-in constant out of the registry and registers
// it on root, so later references resolve through the normal path.
func (vm *VM) loadCoreConst(name string) *definition.Definition {
	def := vm.registry.Resolve(name)
	if def == nil {
		return nil
	}
	vm.root.Define(definition.KindConst, name, def)
	return def
}

func (vm *VM) recordConstMiss(name string, node *ast.Node) {
	vm.unresolvedRefs = append(vm.unresolvedRefs, UnresolvedRef{
		Name:   name,
		Kind:   definition.KindConst,
		Source: ast.SourceOf(node),
	})
}

// postSelf pushes the value of the current scope's self keyword.
func postSelf(vm *VM, node *ast.Node) {
	kw := vm.scope().Lookup(definition.KindKeyword, "self")
	if kw == nil {
		vm.values.Push(definition.Unknown())
		return
	}
	kw.AddReference()
	vm.associate(node, kw.ValueOrSelf())
	vm.values.Push(kw.ValueOrSelf())
}
