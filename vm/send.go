// Copyright © 2024 The ruby-lint authors

package vm

import (
	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
)

// methodName returns the name slot of a send node.
func methodName(node *ast.Node) string {
	if len(node.Children) > 1 {
		return node.Children[1].Str
	}
	return ""
}

var visibilityNames = map[string]definition.Visibility{
	"public":    definition.Public,
	"protected": definition.Protected,
	"private":   definition.Private,
}

// bareVisibility matches a visibility keyword without receiver or
// arguments, the form that switches the default for subsequent methods.
func bareVisibility(node *ast.Node) (definition.Visibility, bool) {
	if node.Receiver() != nil || len(node.Children) > 2 {
		return definition.Public, false
	}
	v, ok := visibilityNames[methodName(node)]
	return v, ok
}

func preSend(vm *VM, node *ast.Node) {
	vm.values.AddStack()
	if v, ok := bareVisibility(node); ok {
		vm.setVisibility(v)
	}
}

// postSend resolves a method call.  The collected frame splits into receiver
// and arguments by position: the trailing N values belong to the N argument
// children, the first value to the receiver when one was written.  Coming up
// short is an engine bug.  An unresolvable receiver or method never fails
// the run; the call is recorded and the result degrades to unknown.
func postSend(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	if _, ok := bareVisibility(node); ok {
		return
	}
	name := methodName(node)

	argc := 0
	for _, child := range argNodes(node) {
		if child == nil || child.Token || vm.ignored[child] {
			continue
		}
		switch child.Type {
		case ast.NSplat, ast.NKwSplat, ast.NBlockPass:
			// Anonymous forwarding, foo(*) and foo(&), produces no value.
			if len(child.Children) == 0 {
				continue
			}
		}
		argc++
	}
	hasReceiver := node.Receiver() != nil
	need := argc
	if hasReceiver {
		need++
	}
	if len(frame) < need {
		vm.fail(node, "call to %s collected %d values, need %d", name, len(frame), need)
	}
	args := frame[len(frame)-argc:]

	context := vm.scope()
	if hasReceiver {
		context = frame[0]
	}
	if context.IsUnknown() {
		vm.recordUnresolvedCall(node, name, definition.Unknown())
		vm.values.Push(definition.Unknown())
		return
	}

	method := context.Lookup(context.MethodCallKind, name)
	result := definition.Unknown()
	if method != nil {
		site := ast.SourceOf(node)
		vm.scope().AddCall(definition.CallSite{Source: site, Definition: method})
		method.AddCaller(definition.CallSite{Source: site, Definition: vm.scope()})
		vm.associate(node, method)
		switch {
		case name == "new" && context.Kind == definition.KindClass && !context.Instance:
			result = definition.InstanceOf(context)
		case method.ReturnValue != nil:
			result = method.ReturnValue
		}
	} else {
		vm.recordUnresolvedCall(node, name, context)
	}

	if eval := sendEvaluators[name]; eval != nil {
		eval(vm, &callInfo{node: node, name: name, context: context, args: args})
	}
	vm.values.Push(result)
}

func argNodes(node *ast.Node) []*ast.Node {
	if len(node.Children) < 2 {
		return nil
	}
	return node.Children[2:]
}

func (vm *VM) recordUnresolvedCall(node *ast.Node, name string, context *definition.Definition) {
	vm.unresolvedCalls = append(vm.unresolvedCalls, UnresolvedCall{
		Node:    node,
		Name:    name,
		Context: context,
		Source:  ast.SourceOf(node),
	})
}

// callInfo is the resolved shape of one call, handed to name evaluators.
// The context is never the unknown sentinel.
type callInfo struct {
	node    *ast.Node
	name    string
	context *definition.Definition
	args    []*definition.Definition
}

// sendEvaluator refines the graph for calls whose name has meaning to the
// object model itself.  Evaluators run after the generic resolution.
type sendEvaluator func(vm *VM, call *callInfo)

var sendEvaluators = map[string]sendEvaluator{
	"include":         evalInclude,
	"extend":          evalExtend,
	"alias_method":    evalAliasMethod,
	"attr":            evalAttribute,
	"attr_reader":     evalAttribute,
	"attr_writer":     evalAttribute,
	"attr_accessor":   evalAttribute,
	"define_method":   evalDefineMethod,
	"module_function": evalModuleFunction,
	"private":         evalVisibility,
	"protected":       evalVisibility,
	"public":          evalVisibility,
	"[]=":             evalIndexAssign,
}

// evalInclude appends each module argument as a parent, so its instance
// methods resolve on the including scope.  Including twice is a no-op.
func evalInclude(vm *VM, call *callInfo) {
	for _, arg := range call.args {
		if arg.Kind == definition.KindModule || arg.Kind == definition.KindClass {
			call.context.AddParent(arg)
		}
	}
}

// evalExtend surfaces each module argument's instance methods as singleton
// methods of the receiver.
func evalExtend(vm *VM, call *callInfo) {
	for _, arg := range call.args {
		if arg.Kind != definition.KindModule && arg.Kind != definition.KindClass {
			continue
		}
		for _, m := range arg.ListKind(definition.KindInstanceMethod) {
			call.context.Define(definition.KindMethod, m.Name, m)
		}
	}
}

func evalAliasMethod(vm *VM, call *callInfo) {
	if len(call.args) < 2 {
		return
	}
	vm.aliasEntry(call.context, call.args[0].Name, call.args[1].Name)
}

// aliasEntry registers an existing method under a second name.  Both names
// share one definition afterwards, the way an alias behaves at runtime.
func (vm *VM) aliasEntry(scope *definition.Definition, newName, oldName string) {
	if newName == "" || oldName == "" {
		return
	}
	for _, kind := range []definition.Kind{definition.KindInstanceMethod, definition.KindMethod} {
		if def := scope.Lookup(kind, oldName); def != nil {
			scope.Define(kind, newName, def)
			return
		}
	}
}

// evalAttribute defines accessor methods for each symbol or string argument.
// Readers return the backing instance variable's value when it is already
// known.
func evalAttribute(vm *VM, call *callInfo) {
	reader := call.name != "attr_writer"
	writer := call.name == "attr_writer" || call.name == "attr_accessor"
	for _, arg := range call.args {
		if arg.IsUnknown() || arg.Name == "" {
			continue
		}
		vm.defineAttribute(call, arg.Name, reader, writer)
	}
}

func (vm *VM) defineAttribute(call *callInfo, name string, reader, writer bool) {
	source := ast.SourceOf(call.node)
	if reader {
		m := definition.New(definition.KindInstanceMethod, name)
		m.Signature = &definition.Signature{}
		m.Source = source
		m.AddParent(call.context)
		if ivar := call.context.Lookup(definition.KindIVar, "@"+name); ivar != nil {
			m.ReturnValue = ivar.ValueOrSelf()
		}
		call.context.Define(definition.KindInstanceMethod, name, m)
	}
	if writer {
		m := definition.New(definition.KindInstanceMethod, name+"=")
		m.Signature = &definition.Signature{}
		m.Signature.Add(definition.Param{Name: "value", Kind: definition.ArgRequired})
		m.Source = source
		m.AddParent(call.context)
		call.context.Define(definition.KindInstanceMethod, name+"=", m)
	}
}

// evalDefineMethod covers define_method(:name, callable).  The block form is
// finished by the block handler, which sees the body; inside one the send
// evaluates with the block as scope and leaves the work to it.
func evalDefineMethod(vm *VM, call *callInfo) {
	if vm.scope().IsBlock() || len(call.args) == 0 {
		return
	}
	name := call.args[0].Name
	if call.args[0].IsUnknown() || name == "" {
		return
	}
	m := definition.New(definition.KindInstanceMethod, name)
	m.Signature = &definition.Signature{}
	m.Visibility = vm.visibility()
	m.Source = ast.SourceOf(call.node)
	m.AddParent(call.context)
	call.context.Define(definition.KindInstanceMethod, name, m)
}

// evalModuleFunction copies the named instance methods to the singleton
// side, the module_function effect visible to a static pass.
func evalModuleFunction(vm *VM, call *callInfo) {
	for _, arg := range call.args {
		if m := call.context.LookupLocal(definition.KindInstanceMethod, arg.Name); m != nil {
			call.context.Define(definition.KindMethod, arg.Name, m)
		}
	}
}

// evalVisibility handles the argument form, private :foo, which adjusts the
// named methods without touching the default.
func evalVisibility(vm *VM, call *callInfo) {
	v := visibilityNames[call.name]
	for _, arg := range call.args {
		if arg.Name == "" {
			continue
		}
		for _, kind := range []definition.Kind{definition.KindInstanceMethod, definition.KindMethod} {
			if m := call.context.LookupLocal(kind, arg.Name); m != nil {
				m.Visibility = v
				break
			}
		}
	}
}

// evalIndexAssign records h[:key] = value as a member of the receiver when
// the key is a literal.
func evalIndexAssign(vm *VM, call *callInfo) {
	nodes := argNodes(call.node)
	if len(nodes) == 0 || len(call.args) == 0 {
		return
	}
	key, ok := nodes[0].LiteralString()
	if !ok {
		return
	}
	member := definition.New(definition.KindMember, key)
	member.Value = call.args[len(call.args)-1]
	member.Source = ast.SourceOf(call.node)
	call.context.Define(definition.KindMember, key, member)
}

// postAlias handles the alias keyword, both the method and the global
// variable form.
func postAlias(vm *VM, node *ast.Node) {
	if len(node.Children) < 2 {
		return
	}
	newNode, oldNode := node.Children[0], node.Children[1]
	if newNode.Type == ast.NGVar || newNode.Type == ast.NBackRef {
		oldName := oldNode.Name()
		def := vm.root.LookupLocal(definition.KindGVar, oldName)
		if def == nil && isMagicGlobal(oldName) {
			def = definition.New(definition.KindGVar, oldName)
			def.Source = ast.SourceOf(node)
			vm.root.Define(definition.KindGVar, oldName, def)
		}
		if def != nil {
			vm.root.Define(definition.KindGVar, newNode.Name(), def)
		}
		return
	}
	newName, ok1 := newNode.LiteralString()
	oldName, ok2 := oldNode.LiteralString()
	if ok1 && ok2 {
		vm.aliasEntry(vm.scope(), newName, oldName)
	}
}

// postUndef removes each named method from the current scope when present.
func postUndef(vm *VM, node *ast.Node) {
	for _, child := range node.Children {
		name, ok := child.LiteralString()
		if !ok {
			continue
		}
		scope := vm.scope()
		if scope.Has(definition.KindInstanceMethod, name) {
			scope.Remove(definition.KindInstanceMethod, name)
		} else {
			scope.Remove(definition.KindMethod, name)
		}
	}
}

// postDefined produces the string defined? evaluates to.  Its operand is
// never traversed: probing for a name is not a reference to it.
func postDefined(vm *VM, node *ast.Node) {
	def := vm.registry.NewInstance("String")
	def.Source = ast.SourceOf(node)
	vm.values.Push(def)
}
