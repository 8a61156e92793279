// Copyright © 2024 The ruby-lint authors

package ruby

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/h2dkb/ruby-lint/ast"
)

// lowerer converts concrete tree-sitter nodes into engine nodes.  It keeps a
// scope stack of known local variable names, because the grammar cannot tell
// a bare identifier reference from a receiverless method call; the Ruby
// parser itself makes that call the same way.
type lowerer struct {
	file     string
	source   []byte
	comments ast.CommentMap
	locals   *localScope

	// pending collects a run of adjacent comment lines until the statement
	// they document comes along.
	pending    []string
	pendingRow int
}

func (l *lowerer) text(n *sitter.Node) string {
	return n.Utf8Text(l.source)
}

// node builds a composite engine node positioned at the concrete node.
func (l *lowerer) node(typ ast.Type, src *sitter.Node, children ...*ast.Node) *ast.Node {
	n := ast.NewNode(typ, children...)
	n.Source = location(l.file, src)
	return n
}

// statements lowers the named children of a container, attaching comment
// blocks to the statement directly below them and dropping nodes with no
// lowered form.
func (l *lowerer) statements(parent *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for i := uint(0); i < parent.NamedChildCount(); i++ {
		child := parent.NamedChild(i)
		if child.Kind() == "comment" {
			l.comment(child)
			continue
		}
		// Take the pending block before descending, or a comment inside the
		// child would be mistaken for this statement's documentation.
		doc, docRow := l.pending, l.pendingRow
		l.pending = nil
		lowered := l.lower(child)
		if lowered == nil {
			continue
		}
		if len(doc) > 0 && int(child.StartPosition().Row) == docRow+1 {
			l.comments.Add(lowered, doc...)
		}
		l.pending = nil
		out = append(out, lowered)
	}
	l.pending = nil
	return out
}

// comment accumulates one comment line.  A blank line between comments starts
// a new block.
func (l *lowerer) comment(n *sitter.Node) {
	row := int(n.StartPosition().Row)
	if len(l.pending) > 0 && row != l.pendingRow+1 {
		l.pending = nil
	}
	l.pending = append(l.pending, l.text(n))
	l.pendingRow = int(n.EndPosition().Row)
}

// lower translates one concrete node.  Kinds with no translation return nil
// and vanish from the output; kinds the engine has no handler for become
// plain containers so their children still traverse.
func (l *lowerer) lower(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	// Scopes.
	case "class":
		return l.class(n)
	case "module":
		return l.module(n)
	case "singleton_class":
		return l.singletonClass(n)
	case "method":
		return l.method(n)
	case "singleton_method":
		return l.singletonMethod(n)

	// Calls.
	case "call":
		return l.call(n)
	case "element_reference":
		return l.elementReference(n)
	case "block", "do_block":
		// A block reaching here stands alone, without the call it belongs
		// to.  Treat the body as a grouping.
		return l.node(ast.NBegin, n, l.statements(n)...)
	case "lambda":
		return l.lambda(n)
	case "super":
		return l.super(n)
	case "yield":
		return l.node(ast.NYield, n, l.spliceArguments(n)...)
	case "return":
		return l.node(ast.NReturn, n, l.spliceArguments(n)...)
	case "break":
		return l.node(ast.NBreak, n, l.spliceArguments(n)...)
	case "next":
		return l.node(ast.NNext, n, l.spliceArguments(n)...)
	case "alias":
		return l.alias(n)
	case "undef":
		return l.undef(n)

	// Assignments.
	case "assignment":
		return l.assignment(n)
	case "operator_assignment":
		return l.operatorAssignment(n)

	// References.
	case "identifier":
		return l.identifier(n)
	case "constant":
		return l.node(ast.NConst, n, ast.Nil(), ast.SymTok(l.text(n)))
	case "scope_resolution":
		return l.scopeResolution(n)
	case "instance_variable":
		return l.node(ast.NIVar, n, ast.SymTok(l.text(n)))
	case "class_variable":
		return l.node(ast.NCVar, n, ast.SymTok(l.text(n)))
	case "global_variable":
		return l.node(ast.NGVar, n, ast.SymTok(l.text(n)))
	case "nth_reference":
		return l.nthReference(n)
	case "back_reference":
		return l.node(ast.NBackRef, n, ast.SymTok(l.text(n)))
	case "self":
		return l.node(ast.NSelf, n)

	// Literals.
	case "integer", "float", "string", "simple_symbol", "delimited_symbol",
		"hash_key_symbol", "bare_symbol", "bare_string", "string_array",
		"symbol_array", "array", "hash", "pair", "range", "regex",
		"true", "false", "nil", "character", "heredoc_beginning",
		"chained_string", "interpolation", "splat_argument",
		"block_argument", "hash_splat_argument":
		return l.literal(n)

	// Flow.
	case "if", "unless", "elsif", "conditional":
		return l.conditional(n)
	case "body_statement":
		return l.node(ast.NBegin, n, l.bodyParts(n)...)
	case "if_modifier", "unless_modifier":
		return l.node(ast.NIf, n,
			l.lower(n.ChildByFieldName("condition")),
			l.lower(n.ChildByFieldName("body")))
	case "while", "until":
		return l.loop(n)
	case "while_modifier", "until_modifier":
		return l.loopModifier(n)
	case "for":
		return l.forLoop(n)
	case "case", "case_match":
		return l.caseExpr(n)
	case "begin":
		return l.node(ast.NKwBegin, n, l.body(n)...)
	case "parenthesized_statements", "then", "else", "do":
		return l.group(n)
	case "binary":
		return l.binary(n)
	case "unary":
		return l.unary(n)
	case "rescue_modifier":
		return l.node(ast.NRescue, n,
			l.lower(n.ChildByFieldName("body")),
			l.node(ast.NResBody, n, l.lower(n.ChildByFieldName("handler"))))
	case "retry":
		return l.node(ast.NRetry, n)
	case "redo":
		return l.node(ast.NRedo, n)

	// Dropped outright.
	case "comment", "heredoc_body", "empty_statement", "uninterpreted",
		"escape_sequence":
		return nil
	}
	return l.fallback(n)
}

// fallback keeps unhandled kinds traversable: containers become groupings,
// leaves become unknown nodes.
func (l *lowerer) fallback(n *sitter.Node) *ast.Node {
	switch n.NamedChildCount() {
	case 0:
		return l.node(ast.NUnknown, n)
	case 1:
		return l.lower(n.NamedChild(0))
	}
	return l.group(n)
}

// group wraps a container's statements in a begin node.
func (l *lowerer) group(n *sitter.Node) *ast.Node {
	return l.node(ast.NBegin, n, l.statements(n)...)
}

func (l *lowerer) class(n *sitter.Node) *ast.Node {
	name := l.constPath(n.ChildByFieldName("name"))
	super := ast.Nil()
	if sc := n.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
		super = l.lower(sc.NamedChild(0))
	}
	l.pushLocals(true)
	body := l.body(n)
	l.popLocals()
	children := append([]*ast.Node{name, super}, body...)
	return l.node(ast.NClass, n, children...)
}

func (l *lowerer) module(n *sitter.Node) *ast.Node {
	name := l.constPath(n.ChildByFieldName("name"))
	l.pushLocals(true)
	body := l.body(n)
	l.popLocals()
	children := append([]*ast.Node{name}, body...)
	return l.node(ast.NModule, n, children...)
}

func (l *lowerer) singletonClass(n *sitter.Node) *ast.Node {
	value := l.lower(n.ChildByFieldName("value"))
	l.pushLocals(true)
	body := l.body(n)
	l.popLocals()
	children := append([]*ast.Node{value}, body...)
	return l.node(ast.NSClass, n, children...)
}

func (l *lowerer) method(n *sitter.Node) *ast.Node {
	name := l.methodName(n.ChildByFieldName("name"))
	l.pushLocals(true)
	params := l.params(n, n.ChildByFieldName("parameters"))
	body := l.methodBody(n)
	l.popLocals()
	children := append([]*ast.Node{ast.SymTok(name), params}, body...)
	return l.node(ast.NDef, n, children...)
}

func (l *lowerer) singletonMethod(n *sitter.Node) *ast.Node {
	object := l.lower(n.ChildByFieldName("object"))
	name := l.methodName(n.ChildByFieldName("name"))
	l.pushLocals(true)
	params := l.params(n, n.ChildByFieldName("parameters"))
	body := l.methodBody(n)
	l.popLocals()
	children := append([]*ast.Node{object, ast.SymTok(name), params}, body...)
	return l.node(ast.NDefs, n, children...)
}

// methodBody lowers the body of a def, covering both the body_statement of
// the long form and the bare expression of an endless definition.
func (l *lowerer) methodBody(n *sitter.Node) []*ast.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "body_statement" {
			return l.bodyStatement(body)
		}
		if lowered := l.lower(body); lowered != nil {
			return []*ast.Node{lowered}
		}
	}
	return nil
}

// body lowers the body field of a class-like node.
func (l *lowerer) body(n *sitter.Node) []*ast.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return l.bodyStatement(body)
	}
	// The begin keyword holds its statements directly.
	if n.Kind() == "begin" {
		return l.bodyParts(n)
	}
	return nil
}

// bodyStatement lowers statements plus any rescue, else, or ensure tail into
// the wrapped shape the engine traverses.
func (l *lowerer) bodyStatement(n *sitter.Node) []*ast.Node {
	return l.bodyParts(n)
}

func (l *lowerer) bodyParts(n *sitter.Node) []*ast.Node {
	var plain []*ast.Node
	var rescues []*ast.Node
	var elseNode, ensureNode *ast.Node

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "comment" {
			l.comment(child)
			continue
		}
		doc, docRow := l.pending, l.pendingRow
		l.pending = nil
		switch child.Kind() {
		case "rescue":
			rescues = append(rescues, l.rescueClause(child))
		case "else":
			elseNode = l.group(child)
		case "ensure":
			ensureNode = l.node(ast.NBegin, child, l.statements(child)...)
		default:
			lowered := l.lower(child)
			if lowered == nil {
				continue
			}
			if len(doc) > 0 && int(child.StartPosition().Row) == docRow+1 {
				l.comments.Add(lowered, doc...)
			}
			plain = append(plain, lowered)
		}
		l.pending = nil
	}
	l.pending = nil

	if len(rescues) == 0 && elseNode == nil && ensureNode == nil {
		return plain
	}
	wrapped := ast.NewNode(ast.NBegin, plain...)
	if len(plain) > 0 {
		wrapped.Source = plain[0].Source
	}
	var out *ast.Node = wrapped
	if len(rescues) > 0 || elseNode != nil {
		children := append([]*ast.Node{wrapped}, rescues...)
		if elseNode != nil {
			children = append(children, elseNode)
		}
		out = ast.NewNode(ast.NRescue, children...)
		out.Source = wrapped.Source
	}
	if ensureNode != nil {
		out = ast.NewNode(ast.NEnsure, out, ensureNode)
		out.Source = wrapped.Source
	}
	return []*ast.Node{out}
}

// rescueClause lowers one rescue arm: the exception classes, the capture
// variable, and the handler statements.
func (l *lowerer) rescueClause(n *sitter.Node) *ast.Node {
	var children []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "comment":
			l.comment(child)
		case "exceptions":
			var classes []*ast.Node
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if lowered := l.lower(child.NamedChild(j)); lowered != nil {
					classes = append(classes, lowered)
				}
			}
			children = append(children, l.node(ast.NArray, child, classes...))
		case "exception_variable":
			if child.NamedChildCount() > 0 {
				children = append(children, l.assignTarget(child.NamedChild(0)))
			}
		case "then":
			children = append(children, l.statements(child)...)
		default:
			if lowered := l.lower(child); lowered != nil {
				children = append(children, lowered)
			}
		}
	}
	return l.node(ast.NResBody, n, children...)
}

// params lowers a parameter list into an args node.  Parameter names become
// known locals of the scope that just opened, before default values lower,
// so a default may refer to the parameters on its left.  Names behind the
// ";" of block parameters are shadow declarations, not parameters.
func (l *lowerer) params(owner, n *sitter.Node) *ast.Node {
	src := n
	if src == nil {
		src = owner
	}
	args := l.node(ast.NArgs, src)
	if n == nil {
		return args
	}
	shadow := false
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			if child.Kind() == ";" {
				shadow = true
			}
			continue
		}
		var p *ast.Node
		if shadow && child.Kind() == "identifier" {
			name := l.text(child)
			l.locals.add(name)
			p = l.node(ast.NShadowArg, child, ast.SymTok(name))
		} else {
			p = l.param(child)
		}
		if p != nil {
			args.Children = append(args.Children, p)
		}
	}
	return args
}

func (l *lowerer) param(n *sitter.Node) *ast.Node {
	switch n.Kind() {
	case "identifier":
		name := l.text(n)
		l.locals.add(name)
		return l.node(ast.NArg, n, ast.SymTok(name))
	case "optional_parameter":
		name := l.text(n.ChildByFieldName("name"))
		l.locals.add(name)
		return l.node(ast.NOptArg, n, ast.SymTok(name),
			l.lower(n.ChildByFieldName("value")))
	case "keyword_parameter":
		name := l.text(n.ChildByFieldName("name"))
		l.locals.add(name)
		if value := n.ChildByFieldName("value"); value != nil {
			return l.node(ast.NKwOptArg, n, ast.SymTok(name), l.lower(value))
		}
		return l.node(ast.NKwArg, n, ast.SymTok(name))
	case "splat_parameter":
		return l.namedParam(n, ast.NRestArg)
	case "hash_splat_parameter":
		return l.namedParam(n, ast.NKwRestArg)
	case "block_parameter":
		return l.namedParam(n, ast.NBlockArg)
	case "forward_parameter":
		// def f(...) forwards everything; an anonymous rest keeps arity open.
		return l.node(ast.NRestArg, n)
	case "destructured_parameter":
		var parts []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if p := l.param(n.NamedChild(i)); p != nil {
				parts = append(parts, p)
			}
		}
		return l.node(ast.NMlhs, n, parts...)
	case "hash_splat_nil":
		return nil
	}
	return nil
}

// namedParam lowers starred and block parameters, whose name is optional.
func (l *lowerer) namedParam(n *sitter.Node, typ ast.Type) *ast.Node {
	if name := n.ChildByFieldName("name"); name != nil {
		text := l.text(name)
		l.locals.add(text)
		return l.node(typ, n, ast.SymTok(text))
	}
	return l.node(typ, n)
}

// methodName renders the name slot of a def: identifiers and operators read
// verbatim, setters append the equals sign.
func (l *lowerer) methodName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "setter" {
		if id := n.ChildByFieldName("name"); id != nil {
			return l.text(id) + "="
		}
		return strings.TrimSpace(l.text(n))
	}
	return l.text(n)
}

// constPath lowers the name slot of a class or module opening.
func (l *lowerer) constPath(n *sitter.Node) *ast.Node {
	if n == nil {
		return ast.Nil()
	}
	switch n.Kind() {
	case "constant":
		return l.node(ast.NConst, n, ast.Nil(), ast.SymTok(l.text(n)))
	case "scope_resolution":
		return l.scopeResolution(n)
	}
	return l.lower(n)
}

// localScope is one frame of the known-locals stack.  A barrier frame starts
// a fresh method or class body; block frames read through to their outer
// bindings the way a block captures its environment.
type localScope struct {
	outer   *localScope
	barrier bool
	names   map[string]struct{}
}

func newLocalScope(outer *localScope, barrier bool) *localScope {
	return &localScope{outer: outer, barrier: barrier, names: make(map[string]struct{})}
}

func (s *localScope) add(name string) {
	if name != "" {
		s.names[name] = struct{}{}
	}
}

func (s *localScope) has(name string) bool {
	for cur := s; cur != nil; cur = cur.outer {
		if _, ok := cur.names[name]; ok {
			return true
		}
		if cur.barrier {
			return false
		}
	}
	return false
}

func (l *lowerer) pushLocals(barrier bool) {
	l.locals = newLocalScope(l.locals, barrier)
}

func (l *lowerer) popLocals() {
	l.locals = l.locals.outer
}
