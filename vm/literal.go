// Copyright © 2024 The ruby-lint authors

package vm

import (
	"strconv"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
)

var literalKinds = map[ast.Type]definition.Kind{
	ast.NInt:    definition.KindInt,
	ast.NFloat:  definition.KindFloat,
	ast.NStr:    definition.KindStr,
	ast.NSym:    definition.KindSym,
	ast.NTrue:   definition.KindTrue,
	ast.NFalse:  definition.KindFalse,
	ast.NNil:    definition.KindNil,
}

// postPrimitive produces the instance definition for a primitive literal.
// The literal's rendering becomes the definition name, which keeps graph
// dumps readable.
func postPrimitive(vm *VM, node *ast.Node) {
	kind := literalKinds[node.Type]
	def := vm.newLiteral(kind, node)
	switch node.Type {
	case ast.NInt:
		def.Name = strconv.FormatInt(node.Int, 10)
	case ast.NFloat:
		def.Name = strconv.FormatFloat(node.Float, 'g', -1, 64)
	case ast.NStr, ast.NSym:
		def.Name = node.Str
	}
	vm.associate(node, def)
	vm.values.Push(def)
}

// postDynamicLiteral covers literals with interpolated children: dstr, dsym,
// xstr, and regexp.  The children's values are consumed; the resulting
// instance is all the single pass can say.
func postDynamicLiteral(vm *VM, node *ast.Node) {
	vm.values.Pop()
	var kind definition.Kind
	switch node.Type {
	case ast.NDSym:
		kind = definition.KindSym
	case ast.NRegexp:
		kind = definition.KindRegexp
	default:
		kind = definition.KindStr
	}
	def := vm.newLiteral(kind, node)
	vm.associate(node, def)
	vm.values.Push(def)
}

func postRange(vm *VM, node *ast.Node) {
	vm.values.Pop()
	def := vm.newLiteral(definition.KindRange, node)
	vm.associate(node, def)
	vm.values.Push(def)
}

// postArray wraps the collected element values into an Array instance with
// index-keyed members, preserving order for multiple assignment.
func postArray(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	arr := vm.newLiteral(definition.KindArray, node)
	for i, value := range frame {
		key := strconv.Itoa(i)
		member := definition.New(definition.KindMember, key)
		member.Value = value
		member.Source = ast.SourceOf(node)
		arr.Define(definition.KindMember, key, member)
	}
	vm.associate(node, arr)
	vm.values.Push(arr)
}

// postPair builds a hash member keyed by the literal rendering of the key.
// Dynamic keys cannot name a member and produce nothing.
func postPair(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	if len(node.Children) == 0 {
		return
	}
	key, ok := node.Children[0].LiteralString()
	if !ok {
		return
	}
	value := definition.Unknown()
	if len(frame) > 0 {
		value = frame[len(frame)-1]
	}
	member := definition.New(definition.KindMember, key)
	member.Value = value
	member.Source = ast.SourceOf(node)
	vm.associate(node, member)
	vm.values.Push(member)
}

func postHash(vm *VM, node *ast.Node) {
	frame := vm.values.Pop()
	hash := vm.newLiteral(definition.KindHash, node)
	for _, member := range frame {
		if member.Kind == definition.KindMember {
			hash.Define(definition.KindMember, member.Name, member)
		}
	}
	vm.associate(node, hash)
	vm.values.Push(hash)
}

// newLiteral builds an instance of the built-in class backing a literal
// kind, located at the literal itself.
func (vm *VM) newLiteral(kind definition.Kind, node *ast.Node) *definition.Definition {
	class, ok := definition.LiteralClassName(kind)
	if !ok {
		return definition.Unknown()
	}
	def := vm.registry.NewInstance(class)
	def.Source = ast.SourceOf(node)
	return def
}
