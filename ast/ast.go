// Copyright © 2024 The ruby-lint authors

// Package ast defines the syntax tree consumed by the analysis engine.  Nodes
// form a uniform tagged structure: one Node type, a closed set of type tags,
// and payload fields for leaf values.  Frontends (the s-expression reader and
// the tree-sitter Ruby parser) lower their input into this shape.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/h2dkb/ruby-lint/parser/token"
)

// Type is the tag of a Node.
type Type uint

const (
	// NInvalid (0) is not a valid node type.
	NInvalid Type = iota

	// Leaf values.  These double as literal nodes, e.g. (int 1), and as raw
	// token children, e.g. the :a in (lvasgn :a ...).  Token children carry
	// the Token flag and are skipped by traversal.
	NSym
	NInt
	NFloat
	NStr
	NNil
	NTrue
	NFalse

	// Composite literals.
	NDStr
	NDSym
	NXStr
	NRegexp
	NRegOpt
	NIRange
	NERange
	NArray
	NHash
	NPair
	NSplat
	NKwSplat

	// Variable and constant references.
	NSelf
	NLVar
	NIVar
	NCVar
	NGVar
	NConst
	NCBase
	NNthRef
	NBackRef

	// Assignments.
	NLVarAsgn
	NIVarAsgn
	NCVarAsgn
	NGVarAsgn
	NConstAsgn
	NMasgn
	NMlhs
	NOpAsgn
	NOrAsgn
	NAndAsgn

	// Calls.
	NSend
	NCSend
	NBlockPass
	NYield
	NSuper
	NZSuper
	NReturn
	NAlias
	NUndef
	NDefined

	// Scopes.
	NModule
	NClass
	NSClass
	NDef
	NDefs
	NBlock

	// Method arguments.
	NArgs
	NArg
	NOptArg
	NRestArg
	NBlockArg
	NKwArg
	NKwOptArg
	NKwRestArg
	NShadowArg

	// Control flow and grouping.  These have no registered engine hooks and
	// traverse structurally.
	NBegin
	NKwBegin
	NIf
	NWhile
	NUntil
	NWhilePost
	NUntilPost
	NFor
	NCase
	NWhen
	NAnd
	NOr
	NNot
	NEnsure
	NRescue
	NResBody
	NRetry
	NBreak
	NNext
	NRedo

	// NUnknown is any tag the engine has no name for.  Unknown nodes
	// traverse structurally.
	NUnknown

	numTypes
)

var typeNames = [numTypes]string{
	NInvalid:   "invalid",
	NSym:       "sym",
	NInt:       "int",
	NFloat:     "float",
	NStr:       "str",
	NNil:       "nil",
	NTrue:      "true",
	NFalse:     "false",
	NDStr:      "dstr",
	NDSym:      "dsym",
	NXStr:      "xstr",
	NRegexp:    "regexp",
	NRegOpt:    "regopt",
	NIRange:    "irange",
	NERange:    "erange",
	NArray:     "array",
	NHash:      "hash",
	NPair:      "pair",
	NSplat:     "splat",
	NKwSplat:   "kwsplat",
	NSelf:      "self",
	NLVar:      "lvar",
	NIVar:      "ivar",
	NCVar:      "cvar",
	NGVar:      "gvar",
	NConst:     "const",
	NCBase:     "cbase",
	NNthRef:    "nth_ref",
	NBackRef:   "back_ref",
	NLVarAsgn:  "lvasgn",
	NIVarAsgn:  "ivasgn",
	NCVarAsgn:  "cvasgn",
	NGVarAsgn:  "gvasgn",
	NConstAsgn: "casgn",
	NMasgn:     "masgn",
	NMlhs:      "mlhs",
	NOpAsgn:    "op_asgn",
	NOrAsgn:    "or_asgn",
	NAndAsgn:   "and_asgn",
	NSend:      "send",
	NCSend:     "csend",
	NBlockPass: "block_pass",
	NYield:     "yield",
	NSuper:     "super",
	NZSuper:    "zsuper",
	NReturn:    "return",
	NAlias:     "alias",
	NUndef:     "undef",
	NDefined:   "defined?",
	NModule:    "module",
	NClass:     "class",
	NSClass:    "sclass",
	NDef:       "def",
	NDefs:      "defs",
	NBlock:     "block",
	NArgs:      "args",
	NArg:       "arg",
	NOptArg:    "optarg",
	NRestArg:   "restarg",
	NBlockArg:  "blockarg",
	NKwArg:     "kwarg",
	NKwOptArg:  "kwoptarg",
	NKwRestArg: "kwrestarg",
	NShadowArg: "shadowarg",
	NBegin:     "begin",
	NKwBegin:   "kwbegin",
	NIf:        "if",
	NWhile:     "while",
	NUntil:     "until",
	NWhilePost: "while_post",
	NUntilPost: "until_post",
	NFor:       "for",
	NCase:      "case",
	NWhen:      "when",
	NAnd:       "and",
	NOr:        "or",
	NNot:       "not",
	NEnsure:    "ensure",
	NRescue:    "rescue",
	NResBody:   "resbody",
	NRetry:     "retry",
	NBreak:     "break",
	NNext:      "next",
	NRedo:      "redo",
	NUnknown:   "unknown",
}

var nameTypes = func() map[string]Type {
	m := make(map[string]Type, numTypes)
	for typ, name := range typeNames {
		if name != "" {
			m[name] = Type(typ)
		}
	}
	return m
}()

func (typ Type) String() string {
	if typ >= numTypes {
		return typeNames[NInvalid]
	}
	return typeNames[typ]
}

// TypeFromName maps a dump tag spelling to its Type.  Both underscore and
// dash spellings are accepted ("op_asgn" and "op-asgn").  The second return
// is false when the tag has no dedicated type; callers typically lower such
// nodes to NUnknown.
func TypeFromName(name string) (Type, bool) {
	typ, ok := nameTypes[strings.ReplaceAll(name, "-", "_")]
	return typ, ok
}

// Node is a single syntax tree node.  Leaf values live in the payload fields
// (Str, Int, Float) selected by Type.  Token nodes are raw atoms attached as
// children of a composite node (names, keys, operators) and are never
// traversed.
type Node struct {
	Type     Type
	Token    bool
	Str      string
	Int      int64
	Float    float64
	Children []*Node
	Source   *token.Location
}

// NewNode returns a composite node with the given children.
func NewNode(typ Type, children ...*Node) *Node {
	return &Node{Type: typ, Children: children}
}

// Sym returns a symbol literal node.
func Sym(name string) *Node {
	return &Node{Type: NSym, Str: name}
}

// SymTok returns a raw symbol token, such as the target name of an
// assignment node.
func SymTok(name string) *Node {
	return &Node{Type: NSym, Str: name, Token: true}
}

// Int returns an integer literal node.
func Int(x int64) *Node {
	return &Node{Type: NInt, Int: x}
}

// IntTok returns a raw integer token.
func IntTok(x int64) *Node {
	return &Node{Type: NInt, Int: x, Token: true}
}

// Float returns a float literal node.
func Float(x float64) *Node {
	return &Node{Type: NFloat, Float: x}
}

// FloatTok returns a raw float token.
func FloatTok(x float64) *Node {
	return &Node{Type: NFloat, Float: x, Token: true}
}

// Str returns a string literal node.
func Str(s string) *Node {
	return &Node{Type: NStr, Str: s}
}

// StrTok returns a raw string token.
func StrTok(s string) *Node {
	return &Node{Type: NStr, Str: s, Token: true}
}

// Nil returns the placeholder written as a bare nil in dumps, e.g. the
// missing receiver in (send nil :puts).
func Nil() *Node {
	return &Node{Type: NNil, Token: true}
}

// IsNil returns true for nil literals and nil placeholders.
func (n *Node) IsNil() bool {
	return n == nil || n.Type == NNil
}

// Name returns the identifier a node declares or references: the first
// child's leaf value, unwrapped one level when the first child is itself a
// composite node.  It falls back to the type name.
func (n *Node) Name() string {
	if len(n.Children) == 0 {
		if n.Str != "" {
			return n.Str
		}
		return n.Type.String()
	}
	c := n.Children[0]
	if c != nil && len(c.Children) > 0 {
		c = c.Children[0]
	}
	if c != nil && c.Str != "" {
		return c.Str
	}
	return n.Type.String()
}

// ValueNode returns the child holding a node's value: the second child for
// plain variable assignments, the last child otherwise.  Returns nil for
// childless nodes.
func (n *Node) ValueNode() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	switch n.Type {
	case NLVarAsgn, NIVarAsgn, NCVarAsgn, NGVarAsgn:
		if len(n.Children) > 1 {
			return n.Children[1]
		}
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Receiver returns the explicit receiver child of calls, constant paths, and
// singleton definitions, or nil when the node type has none.
func (n *Node) Receiver() *Node {
	switch n.Type {
	case NSend, NCSend, NConst, NConstAsgn, NDefs, NSClass:
		if len(n.Children) > 0 && !n.Children[0].IsNil() {
			return n.Children[0]
		}
	}
	return nil
}

// LiteralString renders a leaf value as the string a Ruby programmer would
// write for it, used for member keys.  Composite nodes return false.
func (n *Node) LiteralString() (string, bool) {
	switch n.Type {
	case NSym, NStr:
		return n.Str, true
	case NInt:
		return strconv.FormatInt(n.Int, 10), true
	case NFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64), true
	case NTrue:
		return "true", true
	case NFalse:
		return "false", true
	case NNil:
		return "nil", true
	}
	return "", false
}

// String renders the node in dump notation.  Output from String parses back
// through the s-expression reader.
func (n *Node) String() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	if n.Token {
		switch n.Type {
		case NSym:
			sb.WriteString(":" + n.Str)
		case NInt:
			sb.WriteString(strconv.FormatInt(n.Int, 10))
		case NFloat:
			sb.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
		case NStr:
			sb.WriteString(strconv.Quote(n.Str))
		case NNil:
			sb.WriteString("nil")
		default:
			sb.WriteString(n.Type.String())
		}
		return
	}
	switch n.Type {
	case NSym:
		fmt.Fprintf(sb, "(sym :%s)", n.Str)
	case NInt:
		fmt.Fprintf(sb, "(int %d)", n.Int)
	case NFloat:
		fmt.Fprintf(sb, "(float %s)", strconv.FormatFloat(n.Float, 'g', -1, 64))
	case NStr:
		fmt.Fprintf(sb, "(str %s)", strconv.Quote(n.Str))
	default:
		sb.WriteString("(")
		sb.WriteString(n.Type.String())
		for _, c := range n.Children {
			sb.WriteString(" ")
			c.render(sb)
		}
		sb.WriteString(")")
	}
}
