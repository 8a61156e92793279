// Copyright © 2024 The ruby-lint authors

package vm

import (
	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
)

type hookFn func(vm *VM, node *ast.Node)

// handler is the pair of hooks run around a node's children.  Node types
// without an entry traverse structurally: children left to right, values
// bubbling into whatever frame is open.
type handler struct {
	pre  hookFn
	post hookFn
}

// dispatch is the per-type handler table.  It is fixed at init; the engine
// never dispatches on anything but the node type.
var dispatch = func() map[ast.Type]handler {
	m := map[ast.Type]handler{
		// Assignments.  The four plain variants share one pair.
		ast.NMasgn:   {preMasgn, postMasgn},
		ast.NOpAsgn:  {preOpAssign, postOpAssign},
		ast.NOrAsgn:  {preCondAssign, postOrAssign},
		ast.NAndAsgn: {preCondAssign, postAndAssign},

		// References.
		ast.NLVar:    {nil, postVarRef},
		ast.NIVar:    {nil, postVarRef},
		ast.NCVar:    {nil, postVarRef},
		ast.NGVar:    {nil, postGVarRef},
		ast.NNthRef:  {nil, postMagicGVarRef},
		ast.NBackRef: {nil, postMagicGVarRef},
		ast.NConst:   {preConstRef, postConstRef},
		ast.NSelf:    {nil, postSelf},

		// Literals.
		ast.NInt:    {nil, postPrimitive},
		ast.NFloat:  {nil, postPrimitive},
		ast.NStr:    {nil, postPrimitive},
		ast.NSym:    {nil, postPrimitive},
		ast.NTrue:   {nil, postPrimitive},
		ast.NFalse:  {nil, postPrimitive},
		ast.NNil:    {nil, postPrimitive},
		ast.NDStr:   {preFramed, postDynamicLiteral},
		ast.NDSym:   {preFramed, postDynamicLiteral},
		ast.NXStr:   {preFramed, postDynamicLiteral},
		ast.NRegexp: {preFramed, postDynamicLiteral},
		ast.NIRange: {preFramed, postRange},
		ast.NERange: {preFramed, postRange},
		ast.NArray:  {preFramed, postArray},
		ast.NHash:   {preFramed, postHash},
		ast.NPair:   {preFramed, postPair},

		// Scopes.
		ast.NModule: {preModule, postScopePop},
		ast.NClass:  {preClass, postScopePop},
		ast.NSClass: {preSClass, postSClass},
		ast.NDef:    {preDef, postDef},
		ast.NDefs:   {preDefs, postDef},
		ast.NBlock:  {preBlock, postBlock},

		// Method parameters.
		ast.NArg:       {preArg, postArg},
		ast.NOptArg:    {preArg, postArg},
		ast.NRestArg:   {preArg, postArg},
		ast.NBlockArg:  {preArg, postArg},
		ast.NKwArg:     {preArg, postArg},
		ast.NKwOptArg:  {preArg, postArg},
		ast.NKwRestArg: {preArg, postArg},
		ast.NShadowArg: {preArg, postArg},

		// Calls and call-shaped keywords.
		ast.NSend:    {preSend, postSend},
		ast.NCSend:   {preSend, postSend},
		ast.NAlias:   {preOpaque, postAlias},
		ast.NUndef:   {preOpaque, postUndef},
		ast.NDefined: {preOpaque, postDefined},
		ast.NYield:   {preFramed, postUnknownValue},
		ast.NSuper:   {preFramed, postUnknownValue},
		ast.NZSuper:  {preFramed, postUnknownValue},
		ast.NReturn:  {preFramed, postDiscard},
	}
	for _, t := range []ast.Type{ast.NLVarAsgn, ast.NIVarAsgn, ast.NCVarAsgn, ast.NGVarAsgn} {
		m[t] = handler{preAssign, postAssign}
	}
	m[ast.NConstAsgn] = handler{preConstAssign, postConstAssign}
	return m
}()

// preFramed opens a value frame for handlers that collect child values.
func preFramed(vm *VM, node *ast.Node) {
	vm.values.AddStack()
}

// preOpaque suppresses descent into every child: the post handler consumes
// the children syntactically.
func preOpaque(vm *VM, node *ast.Node) {
	for _, child := range node.Children {
		vm.ignore(child)
	}
}

// postUnknownValue discards collected child values and produces unknown.
func postUnknownValue(vm *VM, node *ast.Node) {
	vm.values.Pop()
	vm.values.Push(definition.Unknown())
}

// postDiscard drops the collected child values.
func postDiscard(vm *VM, node *ast.Node) {
	vm.values.Pop()
}

// postScopePop closes a module or class body, which evaluates to the last
// value the body produced.
func postScopePop(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	vm.popScope()
	vm.popVisibility()
	vm.values.Push(vm.bodyValue(frame))
}

// bodyValue interprets the frame of a scope body: its last value, nil when
// the body was empty.
func (vm *VM) bodyValue(frame []*definition.Definition) *definition.Definition {
	if len(frame) > 0 {
		return frame[len(frame)-1]
	}
	return vm.registry.NewInstance("NilClass")
}
