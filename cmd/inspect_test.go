// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/parser/token"
)

func builtinDef(kind definition.Kind, name string) *definition.Definition {
	d := definition.New(kind, name)
	d.Source = &token.Location{File: "corelib", Pos: -1}
	return d
}

func TestDescribeDefinition(t *testing.T) {
	method := definition.New(definition.KindInstanceMethod, "total")
	method.Visibility = definition.Private
	method.Signature = &definition.Signature{}
	method.Signature.Add(definition.Param{Name: "items", Kind: definition.ArgRequired})
	method.Source = &token.Location{File: "app.rb", Pos: 10, Line: 3, Col: 3}

	line := describeDefinition(method)
	assert.Contains(t, line, "instance method total(items)")
	assert.Contains(t, line, "private")
	assert.Contains(t, line, "app.rb:3:3")

	v := definition.New(definition.KindLVar, "x")
	v.Value = definition.New(definition.KindInt, "42")
	assert.Contains(t, describeDefinition(v), "local variable x = integer 42")

	assert.Contains(t, describeDefinition(builtinDef(definition.KindClass, "String")), "(built-in)")
}

func TestGraphMembers_SkipsKeywordsAndBuiltins(t *testing.T) {
	root := definition.New(definition.KindRoot, "main")
	root.Define(definition.KindKeyword, "self", definition.New(definition.KindKeyword, "self"))
	root.Define(definition.KindConst, "Integer", builtinDef(definition.KindClass, "Integer"))

	user := definition.New(definition.KindClass, "Order")
	user.Source = &token.Location{File: "app.rb", Pos: 0, Line: 1, Col: 1}
	root.Define(definition.KindConst, "Order", user)

	members := graphMembers(root)
	require.Len(t, members, 1)
	assert.Same(t, user, members[0])
}

func TestGraphMembers_KeepsExtendedBuiltins(t *testing.T) {
	// Re-opening a core class hangs analyzed methods off a built-in
	// definition; the dump must not hide those.
	str := builtinDef(definition.KindClass, "String")
	added := definition.New(definition.KindInstanceMethod, "shout")
	added.Source = &token.Location{File: "app.rb", Pos: 5, Line: 2, Col: 3}
	str.Define(definition.KindInstanceMethod, "shout", added)

	root := definition.New(definition.KindRoot, "main")
	root.Define(definition.KindConst, "String", str)

	members := graphMembers(root)
	require.Len(t, members, 1)
	assert.Same(t, str, members[0])
}

func TestWriteGraphTree(t *testing.T) {
	root := definition.New(definition.KindRoot, "main")
	order := definition.New(definition.KindClass, "Order")
	order.Source = &token.Location{File: "app.rb", Pos: 0, Line: 1, Col: 1}
	total := definition.New(definition.KindInstanceMethod, "total")
	total.Signature = &definition.Signature{}
	order.Define(definition.KindInstanceMethod, "total", total)
	root.Define(definition.KindConst, "Order", order)

	var buf bytes.Buffer
	require.NoError(t, writeGraphTree(&buf, root))

	out := buf.String()
	assert.Contains(t, out, "root main")
	assert.Contains(t, out, "\n  class Order")
	assert.Contains(t, out, "\n    instance method total()")
}

func TestWriteGraphTree_CycleTerminates(t *testing.T) {
	// Aliases put one definition under two names; re-opened scopes can even
	// make a definition reachable from itself.
	a := definition.New(definition.KindClass, "A")
	b := definition.New(definition.KindClass, "B")
	a.Define(definition.KindConst, "B", b)
	b.Define(definition.KindConst, "A", a)

	var buf bytes.Buffer
	require.NoError(t, writeGraphTree(&buf, a))
	assert.Contains(t, buf.String(), "class B")
}

func TestBuildGraphNode(t *testing.T) {
	root := definition.New(definition.KindRoot, "main")
	order := definition.New(definition.KindClass, "Order")
	order.Source = &token.Location{File: "app.rb", Pos: 0, Line: 1, Col: 1}
	order.References = 2
	root.Define(definition.KindConst, "Order", order)

	node := buildGraphNode(root, map[*definition.Definition]bool{})
	require.Len(t, node.Members, 1)
	assert.Equal(t, "class", node.Members[0].Kind)
	assert.Equal(t, "Order", node.Members[0].Name)
	assert.Equal(t, "app.rb:1:1", node.Members[0].Source)
	assert.Equal(t, 2, node.Members[0].References)

	// The whole tree must be encodable.
	_, err := json.Marshal(node)
	require.NoError(t, err)
}
