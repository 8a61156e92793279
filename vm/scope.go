// Copyright © 2024 The ruby-lint authors

package vm

import (
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/docstring"
)

func preModule(vm *VM, node *ast.Node) {
	vm.openNamespace(node, definition.KindModule, nil)
}

func preClass(vm *VM, node *ast.Node) {
	var super *definition.Definition
	if len(node.Children) > 1 && !node.Children[1].IsNil() {
		vm.ignore(node.Children[1])
		super = vm.resolveConstPath(node.Children[1])
	}
	vm.openNamespace(node, definition.KindClass, super)
}

// openNamespace enters a module or class body.  An existing constant of the
// name is re-opened: the same definition is reused and the opening site
// becomes a parent exactly once.  Core classes load from the registry, so
// re-opening String extends the built-in definition.
func (vm *VM) openNamespace(node *ast.Node, kind definition.Kind, super *definition.Definition) {
	vm.values.AddStack()
	if len(node.Children) == 0 {
		vm.pushScope(vm.scope())
		vm.pushVisibility()
		return
	}
	nameNode := node.Children[0]
	vm.ignore(nameNode)
	name := constName(nameNode)

	ns := vm.scope()
	qualified := false
	if recv := nameNode.Receiver(); recv != nil {
		qualified = true
		if base := vm.resolveConstPath(recv); !base.IsUnknown() {
			ns = base
		}
	}

	def := vm.reopenTarget(ns, name, qualified)
	if def != nil {
		def.AddParent(vm.scope())
	} else {
		def = definition.New(kind, name)
		def.Source = ast.SourceOf(node)
		if super != nil && !super.IsUnknown() {
			def.AddParent(super)
		} else if kind == definition.KindClass {
			def.AddParent(vm.registry.Resolve("Object"))
		}
		def.AddParent(vm.scope())
		def.Define(definition.KindKeyword, "self", selfKeyword(def))
		ns.Define(definition.KindConst, name, def)
	}

	vm.associate(node, def)
	vm.pushScope(def)
	vm.pushVisibility()
}

// reopenTarget finds the definition an opening refers back to, or nil when
// the opening is fresh.  Bare names search the lexical chain and the core
// registry; qualified names only their namespace.
func (vm *VM) reopenTarget(ns *definition.Definition, name string, qualified bool) *definition.Definition {
	if qualified {
		if def := ns.LookupLocal(definition.KindConst, name); def != nil {
			return def
		}
		if ns == vm.root {
			return vm.loadCoreConst(name)
		}
		return nil
	}
	if def := vm.scope().Lookup(definition.KindConst, name); def != nil {
		return def
	}
	return vm.loadCoreConst(name)
}

func selfKeyword(value *definition.Definition) *definition.Definition {
	kw := definition.New(definition.KindKeyword, "self")
	kw.Value = value
	return kw
}

// preSClass enters class << receiver.  The receiver's definition becomes the
// scope and new methods become singleton methods until the body closes.
func preSClass(vm *VM, node *ast.Node) {
	vm.values.AddStack()
	var recv *ast.Node
	if len(node.Children) > 0 {
		recv = node.Children[0]
		vm.ignore(recv)
	}
	target := vm.singletonTarget(recv)
	vm.associate(node, target)
	vm.pushScope(target)
	vm.pushDefKind(definition.KindMethod)
	vm.pushVisibility()
}

func postSClass(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	vm.popScope()
	vm.popDefKind()
	vm.popVisibility()
	vm.values.Push(vm.bodyValue(frame))
}

// singletonTarget resolves the receiver of an sclass or defs node.  Anything
// but self or a constant path gets a throwaway scope, so the body still
// balances even though its definitions go nowhere.
func (vm *VM) singletonTarget(recv *ast.Node) *definition.Definition {
	if recv != nil {
		switch recv.Type {
		case ast.NSelf:
			if kw := vm.scope().Lookup(definition.KindKeyword, "self"); kw != nil {
				return kw.ValueOrSelf()
			}
		case ast.NConst, ast.NCBase:
			if def := vm.resolveConstPath(recv); !def.IsUnknown() {
				return def
			}
		}
	}
	anon := definition.New(definition.KindClass, "singleton")
	anon.Source = ast.SourceOf(recv)
	anon.AddParent(vm.scope())
	return anon
}

func preDef(vm *VM, node *ast.Node) {
	vm.values.AddStack()
	vm.openMethod(node, vm.scope(), vm.defKind(), node.Name())
}

func preDefs(vm *VM, node *ast.Node) {
	vm.values.AddStack()
	target := vm.scope()
	if recv := node.Receiver(); recv != nil {
		vm.ignore(recv)
		target = vm.singletonTarget(recv)
	}
	var name string
	if len(node.Children) > 1 {
		name = node.Children[1].Str
	}
	vm.openMethod(node, target, definition.KindMethod, name)
}

// openMethod registers a method definition on target and pushes it as the
// scope its arguments and body evaluate in.  Inside the body of an instance
// method self denotes an instance of the enclosing type.
func (vm *VM) openMethod(node *ast.Node, target *definition.Definition, kind definition.Kind, name string) {
	def := definition.New(kind, name)
	def.MethodCallKind = kind
	def.Visibility = vm.visibility()
	def.Signature = &definition.Signature{}
	def.Source = ast.SourceOf(node)
	def.AddParent(target)

	if kind == definition.KindInstanceMethod &&
		(target.Kind == definition.KindClass || target.Kind == definition.KindModule) {
		def.Define(definition.KindKeyword, "self", selfKeyword(definition.InstanceOf(target)))
	}

	if lines := vm.comments.Leading(node); lines != nil {
		if mapping := docstring.Parse(lines); mapping != nil {
			vm.docs[def] = mapping
		}
	}

	target.Define(kind, name, def)
	vm.associate(node, def)
	vm.pushScope(def)
}

// postDef closes a method body.  Documented return types become the method's
// return value, and the instance variables, class variables, and constants
// the body created surface on the enclosing scope.  A definition evaluates
// to the method name symbol, which is what makes private def foo work.
func postDef(vm *VM, node *ast.Node) {
	vm.values.Pop()
	def := vm.popScope()

	if mapping := vm.docs[def]; mapping != nil {
		if types := mapping.ReturnTypes(); len(types) > 0 {
			def.ReturnValue = definition.Unknown()
			if class := vm.resolveDocType(types[0]); class != nil {
				def.ReturnValue = definition.InstanceOf(class)
			}
		}
	}

	scope := vm.scope()
	scope.Copy(def, definition.KindIVar)
	scope.Copy(def, definition.KindCVar)
	scope.Copy(def, definition.KindConst)

	// initialize doubles as the constructor: the class gains a new method
	// with the same signature, shadowing the inherited catch-all.
	if def.Name == "initialize" && def.Kind == definition.KindInstanceMethod &&
		scope.Kind == definition.KindClass {
		ctor := definition.New(definition.KindMethod, "new")
		ctor.MethodCallKind = definition.KindMethod
		ctor.Signature = def.Signature
		ctor.Source = def.Source
		ctor.AddParent(scope)
		scope.Define(definition.KindMethod, "new", ctor)
	}

	sym := vm.registry.NewInstance("Symbol")
	sym.Name = def.Name
	sym.Source = def.Source
	vm.values.Push(sym)
}

// resolveDocType resolves a documented type name along the scope chain and
// the core registry.  Misses are not unresolved references, documentation
// may name types the analyzed code never loads.
func (vm *VM) resolveDocType(name string) *definition.Definition {
	var def *definition.Definition
	for i, part := range strings.Split(name, "::") {
		if part == "" {
			continue
		}
		if i == 0 {
			def = vm.scope().Lookup(definition.KindConst, part)
			if def == nil {
				def = vm.loadCoreConst(part)
			}
		} else {
			def = def.Lookup(definition.KindConst, part)
		}
		if def == nil {
			return nil
		}
	}
	return def
}

// preBlock opens a block scope.  Blocks are lexically transparent: lookups
// fall through to the defining scope, but assignments inside create
// independent bindings.
func preBlock(vm *VM, node *ast.Node) {
	vm.values.AddStack()
	block := definition.New(definition.KindBlock, "block")
	block.Source = ast.SourceOf(node)
	block.Signature = &definition.Signature{}
	block.AddParent(vm.scope())
	vm.associate(node, block)
	vm.pushScope(block)
}

// postBlock closes a block.  The whole expression evaluates to the result of
// the call the block was passed to, which sits first in the frame.  A block
// given to bare define_method turns into an instance method of the enclosing
// scope.
func postBlock(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	block := vm.popScope()

	result := definition.Unknown()
	if len(frame) > 0 {
		result = frame[0]
	}

	if name, ok := definedMethodName(node); ok {
		block.Kind = definition.KindInstanceMethod
		block.Name = name
		block.Visibility = vm.visibility()
		vm.scope().Define(definition.KindInstanceMethod, name, block)
		vm.associate(node, block)
	}
	vm.values.Push(result)
}

// definedMethodName matches the define_method(:name) do ... end form.
func definedMethodName(node *ast.Node) (string, bool) {
	if len(node.Children) == 0 {
		return "", false
	}
	send := node.Children[0]
	if send == nil || (send.Type != ast.NSend && send.Type != ast.NCSend) {
		return "", false
	}
	if send.Receiver() != nil || methodName(send) != "define_method" {
		return "", false
	}
	if len(send.Children) < 3 {
		return "", false
	}
	return send.Children[2].LiteralString()
}

var argKinds = map[ast.Type]definition.ArgKind{
	ast.NArg:       definition.ArgRequired,
	ast.NOptArg:    definition.ArgOptional,
	ast.NRestArg:   definition.ArgRest,
	ast.NBlockArg:  definition.ArgBlock,
	ast.NKwArg:     definition.ArgKeyword,
	ast.NKwOptArg:  definition.ArgKeywordOptional,
	ast.NKwRestArg: definition.ArgKeywordRest,
	ast.NShadowArg: definition.ArgShadow,
}

// preArg opens a frame for the parameter's default value, if any.
func preArg(vm *VM, node *ast.Node) {
	vm.values.AddStack()
}

// postArg turns a declared parameter into a local variable of the open
// method or block scope and appends it to the signature.  Documented
// parameter types become parents, so calls through the parameter resolve.
// A block parameter hiding an outer variable is recorded for the shadowing
// analysis; explicit shadow declarations (|a; b|) are deliberate and skipped.
func postArg(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	method := vm.scope()

	var name string
	if len(node.Children) > 0 && node.Children[0].Token {
		name = node.Children[0].Str
	}

	param := definition.New(definition.KindLVar, name)
	param.Source = ast.SourceOf(node)
	if len(frame) > 0 {
		param.Value = frame[len(frame)-1]
	}
	if mapping := vm.docs[method]; mapping != nil {
		for _, typ := range mapping.ParamTypes(name) {
			if class := vm.resolveDocType(typ); class != nil {
				param.AddParent(definition.InstanceOf(class))
			}
		}
	}

	if method.IsBlock() && node.Type != ast.NShadowArg && name != "" {
		if outer := method.Lookup(definition.KindLVar, name); outer != nil {
			vm.shadows = append(vm.shadows, Shadow{Name: name, Source: param.Source, Outer: outer})
		}
	}

	if method.Signature != nil && node.Type != ast.NShadowArg {
		method.Signature.Add(definition.Param{Name: name, Kind: argKinds[node.Type], Def: param})
	}
	if name != "" {
		method.Define(definition.KindLVar, name, param)
		vm.track(param)
	}
	vm.associate(node, param)
}
