// Copyright © 2024 The ruby-lint authors

package ruby

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/h2dkb/ruby-lint/ast"
)

// at positions a prebuilt node at the concrete node.
func (l *lowerer) at(n *ast.Node, src *sitter.Node) *ast.Node {
	n.Source = location(l.file, src)
	return n
}

func compact(nodes ...*ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// call lowers a method call, with or without receiver, parentheses, safe
// navigation, and an attached block.
func (l *lowerer) call(n *sitter.Node) *ast.Node {
	method := n.ChildByFieldName("method")
	if method != nil && method.Kind() == "super" {
		sup := l.node(ast.NSuper, n, l.arguments(n.ChildByFieldName("arguments"))...)
		if blk := n.ChildByFieldName("block"); blk != nil {
			return l.blockNode(blk, sup)
		}
		return sup
	}

	recv := ast.Nil()
	if r := n.ChildByFieldName("receiver"); r != nil {
		recv = l.lower(r)
	}
	name := l.methodName(method)
	if name == "" {
		// a.(x) is shorthand for a.call(x).
		name = "call"
	}
	typ := ast.NSend
	if l.safeNavigation(n) {
		typ = ast.NCSend
	}
	children := []*ast.Node{recv, ast.SymTok(name)}
	children = append(children, l.arguments(n.ChildByFieldName("arguments"))...)
	send := l.node(typ, n, children...)
	if blk := n.ChildByFieldName("block"); blk != nil {
		return l.blockNode(blk, send)
	}
	return send
}

func (l *lowerer) safeNavigation(n *sitter.Node) bool {
	if op := n.ChildByFieldName("operator"); op != nil {
		return l.text(op) == "&."
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); !child.IsNamed() && l.text(child) == "&." {
			return true
		}
	}
	return false
}

// arguments flattens an argument list.  Trailing keyword pairs collapse into
// a single hash argument, the way Ruby passes them.
func (l *lowerer) arguments(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	var args []*ast.Node
	var pairs []*ast.Node
	var pairSrc *sitter.Node
	flush := func() {
		if len(pairs) > 0 {
			args = append(args, l.node(ast.NHash, pairSrc, pairs...))
			pairs, pairSrc = nil, nil
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "pair", "hash_splat_argument":
			if pairSrc == nil {
				pairSrc = child
			}
			if lowered := l.lower(child); lowered != nil {
				pairs = append(pairs, lowered)
			}
		default:
			flush()
			if lowered := l.lower(child); lowered != nil {
				args = append(args, lowered)
			}
		}
	}
	flush()
	return args
}

// blockNode attaches a brace or do block to its call.  Block locals read
// through to the surrounding bindings, so the scope frame is not a barrier.
func (l *lowerer) blockNode(n *sitter.Node, send *ast.Node) *ast.Node {
	l.pushLocals(false)
	params := l.params(n, n.ChildByFieldName("parameters"))
	body := l.blockBody(n)
	l.popLocals()
	children := append([]*ast.Node{send, params}, body...)
	return l.node(ast.NBlock, n, children...)
}

func (l *lowerer) blockBody(n *sitter.Node) []*ast.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return l.bodyParts(body)
	}
	return nil
}

func (l *lowerer) lambda(n *sitter.Node) *ast.Node {
	send := l.node(ast.NSend, n, ast.Nil(), ast.SymTok("lambda"))
	l.pushLocals(false)
	params := l.params(n, n.ChildByFieldName("parameters"))
	var body []*ast.Node
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.blockBody(b)
	}
	l.popLocals()
	children := append([]*ast.Node{send, params}, body...)
	return l.node(ast.NBlock, n, children...)
}

func (l *lowerer) elementReference(n *sitter.Node) *ast.Node {
	obj := l.lower(n.ChildByFieldName("object"))
	children := []*ast.Node{obj, ast.SymTok("[]")}
	children = append(children, l.elementArgs(n)...)
	return l.node(ast.NSend, n, children...)
}

// elementArgs lowers the subscript of an element reference.  The object is
// always the first named child.
func (l *lowerer) elementArgs(n *sitter.Node) []*ast.Node {
	var args []*ast.Node
	for i := uint(1); i < n.NamedChildCount(); i++ {
		if lowered := l.lower(n.NamedChild(i)); lowered != nil {
			args = append(args, lowered)
		}
	}
	return args
}

// super lowers the bare keyword, which forwards the enclosing method's
// arguments.  A super with its own arguments arrives as a call node.
func (l *lowerer) super(n *sitter.Node) *ast.Node {
	return l.node(ast.NZSuper, n)
}

// spliceArguments lowers keyword statements such as return and yield, whose
// operands sit in an optional argument list.
func (l *lowerer) spliceArguments(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "argument_list" {
			out = append(out, l.arguments(child)...)
			continue
		}
		if lowered := l.lower(child); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (l *lowerer) alias(n *sitter.Node) *ast.Node {
	newName := n.ChildByFieldName("name")
	oldName := n.ChildByFieldName("alias")
	if newName == nil && n.NamedChildCount() > 0 {
		newName = n.NamedChild(0)
	}
	if oldName == nil && n.NamedChildCount() > 1 {
		oldName = n.NamedChild(1)
	}
	return l.node(ast.NAlias, n, l.methodRef(newName), l.methodRef(oldName))
}

func (l *lowerer) undef(n *sitter.Node) *ast.Node {
	var refs []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		refs = append(refs, l.methodRef(n.NamedChild(i)))
	}
	return l.node(ast.NUndef, n, refs...)
}

// methodRef lowers a method name slot of alias and undef.  Globals stay
// globals so aliasing $LAST_MATCH_INFO style variables works.
func (l *lowerer) methodRef(n *sitter.Node) *ast.Node {
	if n == nil {
		return ast.Sym("")
	}
	switch n.Kind() {
	case "global_variable":
		return l.node(ast.NGVar, n, ast.SymTok(l.text(n)))
	case "back_reference":
		return l.node(ast.NBackRef, n, ast.SymTok(l.text(n)))
	case "nth_reference":
		return l.nthReference(n)
	case "simple_symbol":
		return l.at(ast.Sym(strings.TrimPrefix(l.text(n), ":")), n)
	case "delimited_symbol":
		return l.at(ast.Sym(l.contentText(n)), n)
	case "setter":
		return l.at(ast.Sym(l.methodName(n)), n)
	}
	return l.at(ast.Sym(l.text(n)), n)
}

func (l *lowerer) assignment(n *sitter.Node) *ast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil {
		return l.rhs(right)
	}
	switch left.Kind() {
	case "identifier":
		l.locals.add(l.text(left))
		return l.node(ast.NLVarAsgn, n, ast.SymTok(l.text(left)), l.rhs(right))
	case "instance_variable":
		return l.node(ast.NIVarAsgn, n, ast.SymTok(l.text(left)), l.rhs(right))
	case "class_variable":
		return l.node(ast.NCVarAsgn, n, ast.SymTok(l.text(left)), l.rhs(right))
	case "global_variable":
		return l.node(ast.NGVarAsgn, n, ast.SymTok(l.text(left)), l.rhs(right))
	case "constant":
		return l.node(ast.NConstAsgn, n, ast.Nil(), ast.SymTok(l.text(left)), l.rhs(right))
	case "scope_resolution":
		scope, name := l.scopeParts(left)
		return l.node(ast.NConstAsgn, n, scope, name, l.rhs(right))
	case "element_reference":
		obj := l.lower(left.ChildByFieldName("object"))
		children := []*ast.Node{obj, ast.SymTok("[]=")}
		children = append(children, l.elementArgs(left)...)
		children = append(children, l.rhs(right))
		return l.node(ast.NSend, n, children...)
	case "call":
		recv := ast.Nil()
		if r := left.ChildByFieldName("receiver"); r != nil {
			recv = l.lower(r)
		}
		name := l.methodName(left.ChildByFieldName("method")) + "="
		typ := ast.NSend
		if l.safeNavigation(left) {
			typ = ast.NCSend
		}
		return l.node(typ, n, recv, ast.SymTok(name), l.rhs(right))
	case "left_assignment_list":
		mlhs := l.node(ast.NMlhs, left, l.mlhsTargets(left)...)
		return l.node(ast.NMasgn, n, mlhs, l.rhs(right))
	}
	return l.rhs(right)
}

// rhs lowers the value side of an assignment.  Several comma separated
// values read as one array.
func (l *lowerer) rhs(n *sitter.Node) *ast.Node {
	if n == nil {
		return ast.NewNode(ast.NNil)
	}
	if n.Kind() == "right_assignment_list" {
		var parts []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if lowered := l.lower(n.NamedChild(i)); lowered != nil {
				parts = append(parts, lowered)
			}
		}
		return l.node(ast.NArray, n, parts...)
	}
	return l.lower(n)
}

func (l *lowerer) mlhsTargets(n *sitter.Node) []*ast.Node {
	var targets []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		targets = append(targets, l.assignTarget(n.NamedChild(i)))
	}
	return targets
}

// assignTarget lowers a target with no value attached, as found in multiple
// assignment, rescue captures, and for loops.
func (l *lowerer) assignTarget(n *sitter.Node) *ast.Node {
	if n == nil {
		return ast.NewNode(ast.NUnknown)
	}
	switch n.Kind() {
	case "identifier":
		l.locals.add(l.text(n))
		return l.node(ast.NLVarAsgn, n, ast.SymTok(l.text(n)))
	case "instance_variable":
		return l.node(ast.NIVarAsgn, n, ast.SymTok(l.text(n)))
	case "class_variable":
		return l.node(ast.NCVarAsgn, n, ast.SymTok(l.text(n)))
	case "global_variable":
		return l.node(ast.NGVarAsgn, n, ast.SymTok(l.text(n)))
	case "constant":
		return l.node(ast.NConstAsgn, n, ast.Nil(), ast.SymTok(l.text(n)))
	case "rest_assignment", "splat_argument":
		if n.NamedChildCount() > 0 {
			return l.node(ast.NSplat, n, l.assignTarget(n.NamedChild(0)))
		}
		return l.node(ast.NSplat, n)
	case "destructured_left_assignment", "left_assignment_list":
		return l.node(ast.NMlhs, n, l.mlhsTargets(n)...)
	}
	// Attribute and index targets have call semantics the pairing pass
	// cannot follow.  A placeholder keeps the target count intact.
	return l.node(ast.NUnknown, n)
}

func (l *lowerer) operatorAssignment(n *sitter.Node) *ast.Node {
	target := l.assignTarget(n.ChildByFieldName("left"))
	right := l.lower(n.ChildByFieldName("right"))
	switch op := l.opText(n); op {
	case "||=":
		return l.node(ast.NOrAsgn, n, compact(target, right)...)
	case "&&=":
		return l.node(ast.NAndAsgn, n, compact(target, right)...)
	default:
		op = strings.TrimSuffix(op, "=")
		return l.node(ast.NOpAsgn, n, compact(target, ast.SymTok(op), right)...)
	}
}

func (l *lowerer) opText(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return l.text(op)
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); !child.IsNamed() {
			return l.text(child)
		}
	}
	return ""
}

// identifier resolves a bare name.  Names bound earlier in the scope read
// as locals, everything else as a receiverless call, which is how Ruby
// itself disambiguates them.
func (l *lowerer) identifier(n *sitter.Node) *ast.Node {
	text := l.text(n)
	if l.locals.has(text) {
		return l.node(ast.NLVar, n, ast.SymTok(text))
	}
	return l.node(ast.NSend, n, ast.Nil(), ast.SymTok(text))
}

func (l *lowerer) scopeResolution(n *sitter.Node) *ast.Node {
	scope, name := l.scopeParts(n)
	if nm := n.ChildByFieldName("name"); nm != nil && nm.Kind() == "identifier" {
		// Foo::bar is a method call written with the scope operator.
		return l.node(ast.NSend, n, scope, name)
	}
	return l.node(ast.NConst, n, scope, name)
}

// scopeParts splits Foo::Bar into the scope expression and trailing name.
// A missing scope means the lookup is anchored at the root.
func (l *lowerer) scopeParts(n *sitter.Node) (*ast.Node, *ast.Node) {
	var scope *ast.Node
	if sc := n.ChildByFieldName("scope"); sc != nil {
		scope = l.lower(sc)
	} else {
		scope = l.node(ast.NCBase, n)
	}
	name := ast.SymTok("")
	if nm := n.ChildByFieldName("name"); nm != nil {
		name = ast.SymTok(l.text(nm))
	}
	return scope, name
}

func (l *lowerer) nthReference(n *sitter.Node) *ast.Node {
	num, _ := strconv.ParseInt(strings.TrimPrefix(l.text(n), "$"), 10, 64)
	return l.node(ast.NNthRef, n, ast.IntTok(num))
}

func (l *lowerer) literal(n *sitter.Node) *ast.Node {
	switch n.Kind() {
	case "integer":
		text := strings.ReplaceAll(l.text(n), "_", "")
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return l.node(ast.NUnknown, n)
		}
		return l.at(ast.Int(v), n)
	case "float":
		text := strings.ReplaceAll(l.text(n), "_", "")
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.node(ast.NUnknown, n)
		}
		return l.at(ast.Float(v), n)
	case "string", "bare_string":
		return l.stringNode(n, ast.NStr, ast.NDStr)
	case "chained_string":
		var parts []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if lowered := l.lower(n.NamedChild(i)); lowered != nil {
				parts = append(parts, lowered)
			}
		}
		return l.node(ast.NDStr, n, parts...)
	case "character":
		return l.at(ast.Str(strings.TrimPrefix(l.text(n), "?")), n)
	case "heredoc_beginning":
		// The body arrives later in the statement stream and is dropped
		// there; the expression slot keeps an empty string.
		return l.at(ast.Str(""), n)
	case "simple_symbol":
		return l.at(ast.Sym(strings.TrimPrefix(l.text(n), ":")), n)
	case "hash_key_symbol":
		return l.at(ast.Sym(l.text(n)), n)
	case "delimited_symbol", "bare_symbol":
		return l.stringNode(n, ast.NSym, ast.NDSym)
	case "string_array", "symbol_array":
		var elems []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if lowered := l.lower(n.NamedChild(i)); lowered != nil {
				elems = append(elems, lowered)
			}
		}
		return l.node(ast.NArray, n, elems...)
	case "array":
		var elems []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if lowered := l.lower(n.NamedChild(i)); lowered != nil {
				elems = append(elems, lowered)
			}
		}
		return l.node(ast.NArray, n, elems...)
	case "hash":
		var parts []*ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if lowered := l.lower(n.NamedChild(i)); lowered != nil {
				parts = append(parts, lowered)
			}
		}
		return l.node(ast.NHash, n, parts...)
	case "pair":
		return l.pair(n)
	case "range":
		return l.rangeNode(n)
	case "regex":
		return l.regex(n)
	case "interpolation":
		if n.NamedChildCount() == 1 {
			return l.lower(n.NamedChild(0))
		}
		return l.group(n)
	case "splat_argument":
		if n.NamedChildCount() > 0 {
			return l.node(ast.NSplat, n, l.lower(n.NamedChild(0)))
		}
		return l.node(ast.NSplat, n)
	case "hash_splat_argument":
		if n.NamedChildCount() > 0 {
			return l.node(ast.NKwSplat, n, l.lower(n.NamedChild(0)))
		}
		return l.node(ast.NKwSplat, n)
	case "block_argument":
		if n.NamedChildCount() > 0 {
			return l.node(ast.NBlockPass, n, l.lower(n.NamedChild(0)))
		}
		return l.node(ast.NBlockPass, n)
	case "true":
		return l.node(ast.NTrue, n)
	case "false":
		return l.node(ast.NFalse, n)
	case "nil":
		return l.node(ast.NNil, n)
	}
	return l.fallback(n)
}

// stringNode lowers string and symbol literals, picking the dynamic node
// type when the literal interpolates.
func (l *lowerer) stringNode(n *sitter.Node, plain, dynamic ast.Type) *ast.Node {
	var parts []*ast.Node
	var buf strings.Builder
	interpolated := false
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_content", "escape_sequence", "heredoc_content":
			buf.WriteString(l.text(child))
		case "interpolation":
			interpolated = true
			if buf.Len() > 0 {
				parts = append(parts, l.at(ast.Str(buf.String()), child))
				buf.Reset()
			}
			if lowered := l.lower(child); lowered != nil {
				parts = append(parts, lowered)
			}
		}
	}
	if !interpolated {
		if plain == ast.NSym {
			return l.at(ast.Sym(buf.String()), n)
		}
		return l.at(ast.Str(buf.String()), n)
	}
	if buf.Len() > 0 {
		parts = append(parts, l.at(ast.Str(buf.String()), n))
	}
	return l.node(dynamic, n, parts...)
}

func (l *lowerer) contentText(n *sitter.Node) string {
	var buf strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_content", "escape_sequence", "heredoc_content":
			buf.WriteString(l.text(child))
		}
	}
	return buf.String()
}

func (l *lowerer) pair(n *sitter.Node) *ast.Node {
	key := l.lower(n.ChildByFieldName("key"))
	value := l.lower(n.ChildByFieldName("value"))
	if value == nil {
		// {x:} shorthand reads the value from the name next to it.
		value = l.shorthandValue(n.ChildByFieldName("key"))
	}
	return l.node(ast.NPair, n, compact(key, value)...)
}

func (l *lowerer) shorthandValue(key *sitter.Node) *ast.Node {
	if key == nil {
		return nil
	}
	name := strings.TrimSuffix(l.text(key), ":")
	if l.locals.has(name) {
		return l.node(ast.NLVar, key, ast.SymTok(name))
	}
	return l.node(ast.NSend, key, ast.Nil(), ast.SymTok(name))
}

func (l *lowerer) rangeNode(n *sitter.Node) *ast.Node {
	typ := ast.NIRange
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); !child.IsNamed() && l.text(child) == "..." {
			typ = ast.NERange
		}
	}
	begin := ast.Nil()
	if b := n.ChildByFieldName("begin"); b != nil {
		begin = l.lower(b)
	}
	end := ast.Nil()
	if e := n.ChildByFieldName("end"); e != nil {
		end = l.lower(e)
	}
	return l.node(typ, n, compact(begin, end)...)
}

func (l *lowerer) regex(n *sitter.Node) *ast.Node {
	var children []*ast.Node
	interpolated := false
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if n.NamedChild(i).Kind() == "interpolation" {
			interpolated = true
		}
	}
	if interpolated {
		part := l.stringNode(n, ast.NStr, ast.NDStr)
		children = append(children, part.Children...)
	} else {
		children = append(children, ast.Str(l.contentText(n)))
	}
	children = append(children, l.node(ast.NRegOpt, n))
	return l.node(ast.NRegexp, n, children...)
}

func (l *lowerer) conditional(n *sitter.Node) *ast.Node {
	children := compact(l.lower(n.ChildByFieldName("condition")))
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		if lowered := l.lower(cons); lowered != nil {
			children = append(children, lowered)
		}
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if lowered := l.lower(alt); lowered != nil {
			children = append(children, lowered)
		}
	}
	return l.node(ast.NIf, n, children...)
}

func (l *lowerer) loop(n *sitter.Node) *ast.Node {
	typ := ast.NWhile
	if n.Kind() == "until" {
		typ = ast.NUntil
	}
	cond := l.lower(n.ChildByFieldName("condition"))
	var body *ast.Node
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.lower(b)
	}
	return l.node(typ, n, compact(cond, body)...)
}

func (l *lowerer) loopModifier(n *sitter.Node) *ast.Node {
	typ := ast.NWhilePost
	if n.Kind() == "until_modifier" {
		typ = ast.NUntilPost
	}
	return l.node(typ, n, compact(
		l.lower(n.ChildByFieldName("condition")),
		l.lower(n.ChildByFieldName("body")))...)
}

func (l *lowerer) forLoop(n *sitter.Node) *ast.Node {
	pattern := l.assignTarget(n.ChildByFieldName("pattern"))
	var value *ast.Node
	if in := n.ChildByFieldName("value"); in != nil {
		if in.NamedChildCount() > 0 {
			value = l.lower(in.NamedChild(0))
		} else {
			value = l.lower(in)
		}
	}
	var body *ast.Node
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.group(b)
	}
	return l.node(ast.NFor, n, compact(pattern, value, body)...)
}

func (l *lowerer) caseExpr(n *sitter.Node) *ast.Node {
	var children []*ast.Node
	if v := n.ChildByFieldName("value"); v != nil {
		if lowered := l.lower(v); lowered != nil {
			children = append(children, lowered)
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "when", "in_clause":
			children = append(children, l.when(child))
		case "else":
			children = append(children, l.group(child))
		}
	}
	return l.node(ast.NCase, n, children...)
}

func (l *lowerer) when(n *sitter.Node) *ast.Node {
	var children []*ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "then" {
			children = append(children, l.group(child))
			continue
		}
		if lowered := l.lower(child); lowered != nil {
			children = append(children, lowered)
		}
	}
	return l.node(ast.NWhen, n, children...)
}

func (l *lowerer) binary(n *sitter.Node) *ast.Node {
	left := l.lower(n.ChildByFieldName("left"))
	right := l.lower(n.ChildByFieldName("right"))
	switch op := l.opText(n); op {
	case "&&", "and":
		return l.node(ast.NAnd, n, compact(left, right)...)
	case "||", "or":
		return l.node(ast.NOr, n, compact(left, right)...)
	default:
		return l.node(ast.NSend, n, compact(left, ast.SymTok(op), right)...)
	}
}

func (l *lowerer) unary(n *sitter.Node) *ast.Node {
	operand := n.ChildByFieldName("operand")
	if operand == nil && n.NamedChildCount() > 0 {
		operand = n.NamedChild(0)
	}
	op := l.opText(n)
	switch op {
	case "defined?":
		return l.node(ast.NDefined, n, compact(l.lower(operand))...)
	case "!", "not":
		return l.node(ast.NNot, n, compact(l.lower(operand))...)
	case "-", "+":
		if operand != nil {
			switch operand.Kind() {
			case "integer":
				inner := l.literal(operand)
				if op == "-" && inner.Type == ast.NInt {
					inner.Int = -inner.Int
				}
				return l.at(inner, n)
			case "float":
				inner := l.literal(operand)
				if op == "-" && inner.Type == ast.NFloat {
					inner.Float = -inner.Float
				}
				return l.at(inner, n)
			}
		}
		return l.node(ast.NSend, n, compact(l.lower(operand), ast.SymTok(op+"@"))...)
	}
	return l.node(ast.NSend, n, compact(l.lower(operand), ast.SymTok(op))...)
}
