// Copyright © 2024 The ruby-lint authors

package sexp

import (
	"testing"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *ast.Node {
	t.Helper()
	nodes, err := Parse("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0]
}

// --- structure tests ---

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src   string
		typ   ast.Type
		check func(t *testing.T, n *ast.Node)
	}{
		{"(int 10)", ast.NInt, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, int64(10), n.Int)
		}},
		{"(int -3)", ast.NInt, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, int64(-3), n.Int)
		}},
		{"(float 10.5)", ast.NFloat, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, 10.5, n.Float)
		}},
		{`(str "hello")`, ast.NStr, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, "hello", n.Str)
		}},
		{`(str "a\nb")`, ast.NStr, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, "a\nb", n.Str)
		}},
		{"(sym :name)", ast.NSym, func(t *testing.T, n *ast.Node) {
			assert.Equal(t, "name", n.Str)
		}},
		{"(true)", ast.NTrue, nil},
		{"(false)", ast.NFalse, nil},
		{"(nil)", ast.NNil, nil},
	}
	for _, test := range tests {
		n := parseOne(t, test.src)
		assert.Equal(t, test.typ, n.Type, "source %s", test.src)
		assert.False(t, n.Token, "source %s", test.src)
		if test.check != nil {
			test.check(t, n)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	n := parseOne(t, "(lvasgn :number (int 10))")
	require.Equal(t, ast.NLVarAsgn, n.Type)
	require.Len(t, n.Children, 2)

	name := n.Children[0]
	assert.Equal(t, ast.NSym, name.Type)
	assert.True(t, name.Token)
	assert.Equal(t, "number", name.Str)
	assert.Equal(t, "number", n.Name())

	val := n.Children[1]
	assert.Equal(t, ast.NInt, val.Type)
	assert.Equal(t, int64(10), val.Int)
}

func TestParseNestedSend(t *testing.T) {
	n := parseOne(t, `(send (lvar :user) :update (hash (pair (sym :name) (str "Alice"))))`)
	require.Equal(t, ast.NSend, n.Type)
	require.Len(t, n.Children, 3)
	assert.Equal(t, ast.NLVar, n.Children[0].Type)
	assert.Equal(t, "update", ast.CallName(n))

	hash := n.Children[2]
	require.Equal(t, ast.NHash, hash.Type)
	require.Len(t, hash.Children, 1)
	pair := hash.Children[0]
	require.Equal(t, ast.NPair, pair.Type)
	assert.Equal(t, "name", pair.Children[0].Str)
}

func TestParseNilPlaceholder(t *testing.T) {
	n := parseOne(t, "(send nil :puts)")
	require.Len(t, n.Children, 2)
	recv := n.Children[0]
	assert.True(t, recv.IsNil())
	assert.True(t, recv.Token)
	assert.Nil(t, n.Receiver())
}

func TestParseProgramSequence(t *testing.T) {
	nodes, err := Parse("test", []byte("(lvasgn :a (int 1))\n(lvasgn :b (int 2))"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].Name())
	assert.Equal(t, "b", nodes[1].Name())
}

func TestParseUnknownTag(t *testing.T) {
	n := parseOne(t, "(preexe (int 1))")
	assert.Equal(t, ast.NUnknown, n.Type)
	assert.Equal(t, "preexe", n.Str)
	require.Len(t, n.Children, 1)
	assert.Equal(t, ast.NInt, n.Children[0].Type)
}

func TestParseDashTags(t *testing.T) {
	n := parseOne(t, "(op-asgn (lvasgn :x) :+ (int 1))")
	assert.Equal(t, ast.NOpAsgn, n.Type)
	require.Len(t, n.Children, 3)
	assert.Equal(t, ast.NLVarAsgn, n.Children[0].Type)
	assert.Equal(t, "+", n.Children[1].Str)
}

func TestParseLocations(t *testing.T) {
	n := parseOne(t, "(begin\n  (lvasgn :a (int 1)))")
	require.Equal(t, ast.NBegin, n.Type)
	assert.Equal(t, 1, n.Source.Line)
	assert.Equal(t, 1, n.Source.Col)

	asgn := n.Children[0]
	assert.Equal(t, 2, asgn.Source.Line)
	assert.Equal(t, 3, asgn.Source.Col)
	assert.Equal(t, "test:2:3", asgn.Source.String())
}

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		"(lvasgn :a (int 1))",
		`(send nil :puts (str "hello"))`,
		"(class (const nil :Person) nil (def :greet (args (arg :name)) (nil)))",
		"(masgn (mlhs (lvasgn :a) (lvasgn :b)) (array (int 1) (int 2)))",
	}
	for _, src := range sources {
		n := parseOne(t, src)
		assert.Equal(t, src, n.String(), "round trip %s", src)
	}
}

// --- error tests ---

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
	}{
		{"(lvasgn :a"},
		{")"},
		{"(123)"},
		{`(str "unterminated)`},
		{"(int 99999999999999999999999999)"},
	}
	for _, test := range tests {
		_, err := Parse("test", []byte(test.src))
		assert.Error(t, err, "source %s", test.src)
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("(") })
	assert.NotPanics(t, func() { MustParse("(int 1)") })
}
