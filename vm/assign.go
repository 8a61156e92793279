// Copyright © 2024 The ruby-lint authors

package vm

import (
	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
)

// assignKinds maps assignment node types to the definition kind of the
// target variable.
var assignKinds = map[ast.Type]definition.Kind{
	ast.NLVarAsgn: definition.KindLVar,
	ast.NIVarAsgn: definition.KindIVar,
	ast.NCVarAsgn: definition.KindCVar,
	ast.NGVarAsgn: definition.KindGVar,
}

// kindScope returns the scope a variable kind is stored in: globals always
// live on root, everything else in the current scope.
func (vm *VM) kindScope(kind definition.Kind) *definition.Definition {
	if kind == definition.KindGVar {
		return vm.root
	}
	return vm.scope()
}

// frameValue interprets a popped value frame: the statically visible value
// is the last one pushed, falling back to the buffered assignment value, and
// finally to unknown.
func (vm *VM) frameValue(frame []*definition.Definition) *definition.Definition {
	if len(frame) > 0 {
		return frame[len(frame)-1]
	}
	if vm.lastValue != nil {
		return vm.lastValue
	}
	return definition.Unknown()
}

func preAssign(vm *VM, node *ast.Node) {
	vm.lastValue = nil
	vm.values.AddStack()
}

func postAssign(vm *VM, node *ast.Node) {
	kind := assignKinds[node.Type]
	name := node.Name()
	frame := vm.values.Pop()

	// A target of a multiple or conditional assignment carries no value of
	// its own; the surrounding handler pairs it up later.  This one only
	// surfaces the target onto the variable frame.
	if !vm.vars.Empty() && len(frame) == 0 && vm.lastValue == nil {
		scope := vm.kindScope(kind)
		target := scope.LookupLocal(kind, name)
		if target == nil {
			target = definition.New(kind, name)
			target.Source = ast.SourceOf(node)
		}
		vm.associate(node, target)
		vm.vars.Push(target)
		return
	}

	value := vm.frameValue(frame)
	target := vm.assignIn(vm.kindScope(kind), kind, name, value, node)
	vm.associate(node, target)
	vm.lastValue = value
	vm.values.Push(value)
}

// assignIn creates or updates a variable member of scope.  Creation is
// decided by the local member table alone, so an assignment in a block
// scope produces a binding independent of any outer one.
func (vm *VM) assignIn(scope *definition.Definition, kind definition.Kind, name string, value *definition.Definition, node *ast.Node) *definition.Definition {
	target := scope.LookupLocal(kind, name)
	if target != nil {
		target.AddReference()
		target.Value = value
		return target
	}
	target = definition.New(kind, name)
	target.Source = ast.SourceOf(node)
	target.Value = value
	scope.Define(kind, name, target)
	vm.track(target)
	return target
}

func preOpAssign(vm *VM, node *ast.Node) {
	vm.lastValue = nil
	vm.values.AddStack()
	if len(node.Children) > 0 {
		vm.ignore(node.Children[0])
	}
}

// postOpAssign handles x op= v.  The target child never traverses; the
// operator result is whatever the right hand side visibly produced.
func postOpAssign(vm *VM, node *ast.Node) {
	value := vm.frameValue(vm.values.Pop())
	if len(node.Children) == 0 {
		return
	}
	target := node.Children[0]
	kind, ok := assignKinds[target.Type]
	if !ok {
		// Index and attribute targets (h[:k] += v) have no variable to
		// update; the send side effects were suppressed with the child.
		return
	}
	def := vm.assignIn(vm.kindScope(kind), kind, target.Name(), value, node)
	vm.associate(node, def)
	vm.associate(target, def)
	vm.lastValue = value
	vm.values.Push(value)
}

func preCondAssign(vm *VM, node *ast.Node) {
	vm.lastValue = nil
	vm.vars.AddStack()
	vm.values.AddStack()
}

func postOrAssign(vm *VM, node *ast.Node) {
	vm.finishCondAssign(node, false)
}

func postAndAssign(vm *VM, node *ast.Node) {
	vm.finishCondAssign(node, true)
}

// finishCondAssign applies ||= and &&=: or-assign writes only when the
// local member table lacks the entry, and-assign only when it has it.  The
// reference count bumps either way.
func (vm *VM) finishCondAssign(node *ast.Node, wantExisting bool) {
	targets := vm.vars.Pop()
	frame := vm.values.Pop()
	if len(targets) == 0 {
		return
	}
	target := targets[0]
	scope := vm.kindScope(target.Kind)
	exists := scope.LookupLocal(target.Kind, target.Name) != nil

	if exists == wantExisting {
		value := vm.frameValue(frame)
		target.Value = value
		scope.Define(target.Kind, target.Name, target)
		vm.track(target)
		vm.lastValue = value
	}
	target.AddReference()
	vm.associate(node, target)
	vm.values.Push(target.ValueOrSelf())
}

func preMasgn(vm *VM, node *ast.Node) {
	vm.lastValue = nil
	vm.vars.AddStack()
	vm.values.AddStack()
}

// postMasgn pairs the collected targets with the collected values.  A single
// array value unwraps into its ordered members; extra values are dropped and
// extra targets assign unknown.
func postMasgn(vm *VM, node *ast.Node) {
	targets := vm.vars.Pop()
	values := vm.values.Pop()

	var speculative *definition.Definition
	if len(values) == 1 {
		speculative = values[0]
		if values[0].Kind == definition.KindArray {
			var unwrapped []*definition.Definition
			for _, member := range values[0].ListKind(definition.KindMember) {
				unwrapped = append(unwrapped, member.ValueOrSelf())
			}
			values = unwrapped
		}
	}

	for i, target := range targets {
		value := definition.Unknown()
		if i < len(values) {
			value = values[i]
		}
		scope := vm.kindScope(target.Kind)
		if scope.LookupLocal(target.Kind, target.Name) == target {
			target.AddReference()
		}
		target.Value = value
		scope.Define(target.Kind, target.Name, target)
		vm.track(target)
	}
	if speculative != nil {
		vm.lastValue = speculative
		vm.values.Push(speculative)
	}
}

func preConstAssign(vm *VM, node *ast.Node) {
	vm.lastValue = nil
	vm.values.AddStack()
	if recv := node.Receiver(); recv != nil {
		vm.ignore(recv)
	}
}

// postConstAssign defines a constant, in the current scope for a bare name
// or in the resolved namespace for A::B = v.
func postConstAssign(vm *VM, node *ast.Node) {
	value := vm.frameValue(vm.values.Pop())
	name := constName(node)
	ns := vm.scope()
	if recv := node.Receiver(); recv != nil {
		ns = vm.resolveConstPath(recv)
		if ns.IsUnknown() {
			vm.lastValue = value
			vm.values.Push(value)
			return
		}
	}
	target := vm.assignIn(ns, definition.KindConst, name, value, node)
	vm.associate(node, target)
	vm.lastValue = value
	vm.values.Push(value)
}

// constName extracts the name slot of a const or casgn node.
func constName(node *ast.Node) string {
	for _, child := range node.Children[1:] {
		if child != nil && child.Token && child.Type == ast.NSym {
			return child.Str
		}
	}
	return node.Name()
}
