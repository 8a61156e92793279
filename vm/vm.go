// Copyright © 2024 The ruby-lint authors

// Package vm walks a Ruby syntax tree once, front to back, and builds the
// definition graph for it.  It executes nothing: assignments, scopes, and
// calls are replayed against definition tables, and anything the single pass
// cannot determine becomes the unknown sentinel instead of an error.
package vm

import (
	"context"
	"fmt"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/docstring"
	"github.com/h2dkb/ruby-lint/parser/token"
)

// Tracer observes scope entries.  The returned function is called when the
// scope is left again.
type Tracer interface {
	Enter(ctx context.Context, def *definition.Definition) (context.Context, func())
}

// UnresolvedCall is a method call whose context or method never resolved.
type UnresolvedCall struct {
	Node *ast.Node
	Name string

	// Context is the definition the method was looked up on.  When the
	// receiver itself never resolved this is the unknown sentinel.
	Context *definition.Definition
	Source  *token.Location
}

// UnresolvedRef is a variable or constant read that never resolved.
type UnresolvedRef struct {
	Name   string
	Kind   definition.Kind
	Source *token.Location
}

// Shadow records a block parameter hiding an outer variable.
type Shadow struct {
	Name   string
	Source *token.Location
	Outer  *definition.Definition
}

// VM is a single-use traversal engine.  Build one per tree, call Run once,
// then read the frozen graph through the accessors.
type VM struct {
	registry *definition.Registry
	root     *definition.Definition

	scopes       []*definition.Definition
	values       NestedStack
	vars         NestedStack
	defKinds     []definition.Kind
	visibilities []definition.Visibility

	// lastValue buffers the most recent assignment value for handlers whose
	// frame came back empty.
	lastValue *definition.Definition

	ignored map[*ast.Node]bool
	assoc   map[*ast.Node]*definition.Definition
	docs    map[*definition.Definition]*docstring.Mapping

	comments ast.CommentMap
	file     string
	tracer   Tracer
	ctx      context.Context

	unresolvedCalls []UnresolvedCall
	unresolvedRefs  []UnresolvedRef
	shadows         []Shadow
	variables       []*definition.Definition
	tracked         map[*definition.Definition]bool

	ran bool
}

// Option configures a VM.
type Option func(*VM)

// WithComments supplies the comment map of the tree so method docstrings can
// refine parameter and return types.
func WithComments(comments ast.CommentMap) Option {
	return func(vm *VM) { vm.comments = comments }
}

// WithTracer installs a scope tracer.
func WithTracer(tr Tracer) Option {
	return func(vm *VM) { vm.tracer = tr }
}

// WithFile sets the file name used when a node carries no location.
func WithFile(name string) Option {
	return func(vm *VM) { vm.file = name }
}

// New returns a VM with a fresh definition graph seeded from the core
// registry.
func New(opts ...Option) *VM {
	reg := definition.NewRegistry()
	vm := &VM{
		registry: reg,
		root:     reg.NewRoot(),
		ignored:  make(map[*ast.Node]bool),
		assoc:    make(map[*ast.Node]*definition.Definition),
		docs:     make(map[*definition.Definition]*docstring.Mapping),
		tracked:  make(map[*definition.Definition]bool),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// consistencyError reports a broken engine invariant: a stack underflow, an
// argument split that came up short, or a mutation of frozen state.  It is
// raised as a panic and recovered at the Run boundary.
type consistencyError struct {
	source *token.Location
	msg    string
}

func (e *consistencyError) Error() string {
	if e.source != nil {
		return fmt.Sprintf("%s: %s", e.source, e.msg)
	}
	return e.msg
}

func (vm *VM) fail(node *ast.Node, format string, v ...interface{}) {
	source := ast.SourceOf(node)
	if source == nil && vm.file != "" {
		source = &token.Location{File: vm.file}
	}
	panic(&consistencyError{source: source, msg: fmt.Sprintf(format, v...)})
}

// Run traverses the given top level nodes and freezes the resulting graph.
// A VM runs exactly once; further calls return an error.  Semantic gaps
// never fail the run, only internal consistency violations do.
func (vm *VM) Run(ctx context.Context, nodes []*ast.Node) (err error) {
	if vm.ran {
		return fmt.Errorf("vm: already ran")
	}
	vm.ran = true
	vm.ctx = ctx
	vm.scopes = []*definition.Definition{vm.root}
	vm.defKinds = []definition.Kind{definition.KindInstanceMethod}
	vm.visibilities = []definition.Visibility{definition.Public}

	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *consistencyError:
				err = e
			case *definition.FrozenError:
				err = fmt.Errorf("vm: %w", e)
			default:
				panic(r)
			}
		}
		vm.finish()
	}()

	for _, node := range nodes {
		vm.traverse(node)
	}
	return nil
}

// finish freezes the graph in one transition and drops the working state.
func (vm *VM) finish() {
	vm.root.Freeze()
	for _, d := range vm.assoc {
		d.Freeze()
	}
	for _, d := range vm.variables {
		d.Freeze()
	}
	for _, s := range vm.shadows {
		s.Outer.Freeze()
	}
	for _, c := range vm.unresolvedCalls {
		c.Context.Freeze()
	}
	vm.scopes = nil
	vm.values = NestedStack{}
	vm.vars = NestedStack{}
	vm.lastValue = nil
	vm.ignored = nil
}

func (vm *VM) traverse(node *ast.Node) {
	if node == nil || node.Token || vm.ignored[node] {
		return
	}
	h := dispatch[node.Type]
	if h.pre != nil {
		h.pre(vm, node)
	}
	leave := vm.enterTrace(node)
	for _, child := range node.Children {
		vm.traverse(child)
	}
	if h.post != nil {
		h.post(vm, node)
	}
	if leave != nil {
		leave()
	}
}

func (vm *VM) enterTrace(node *ast.Node) func() {
	if vm.tracer == nil {
		return nil
	}
	switch node.Type {
	case ast.NModule, ast.NClass, ast.NSClass, ast.NDef, ast.NDefs, ast.NBlock:
	default:
		return nil
	}
	ctx, done := vm.tracer.Enter(vm.ctx, vm.scope())
	prev := vm.ctx
	vm.ctx = ctx
	return func() {
		vm.ctx = prev
		done()
	}
}

// scope returns the innermost open scope.
func (vm *VM) scope() *definition.Definition {
	return vm.scopes[len(vm.scopes)-1]
}

func (vm *VM) pushScope(d *definition.Definition) {
	vm.scopes = append(vm.scopes, d)
}

func (vm *VM) popScope() *definition.Definition {
	if len(vm.scopes) <= 1 {
		panic(&consistencyError{msg: "scope stack popped past root"})
	}
	d := vm.scopes[len(vm.scopes)-1]
	vm.scopes = vm.scopes[:len(vm.scopes)-1]
	return d
}

// defKind is the member kind newly defined methods receive: instance by
// default, singleton inside class << self.
func (vm *VM) defKind() definition.Kind {
	return vm.defKinds[len(vm.defKinds)-1]
}

func (vm *VM) pushDefKind(k definition.Kind) {
	vm.defKinds = append(vm.defKinds, k)
}

func (vm *VM) popDefKind() {
	vm.defKinds = vm.defKinds[:len(vm.defKinds)-1]
}

func (vm *VM) visibility() definition.Visibility {
	return vm.visibilities[len(vm.visibilities)-1]
}

func (vm *VM) setVisibility(v definition.Visibility) {
	vm.visibilities[len(vm.visibilities)-1] = v
}

func (vm *VM) pushVisibility() {
	vm.visibilities = append(vm.visibilities, definition.Public)
}

func (vm *VM) popVisibility() {
	vm.visibilities = vm.visibilities[:len(vm.visibilities)-1]
}

// ignore suppresses traversal of a child node.
func (vm *VM) ignore(node *ast.Node) {
	if node != nil {
		vm.ignored[node] = true
	}
}

// associate links a syntax node to the definition it produced or resolved.
func (vm *VM) associate(node *ast.Node, d *definition.Definition) {
	if node != nil && d != nil {
		vm.assoc[node] = d
	}
}

// track registers a variable definition for the unused variable analysis.
// Recording the same definition twice is harmless.
func (vm *VM) track(d *definition.Definition) {
	if d == nil || vm.tracked[d] {
		return
	}
	vm.tracked[d] = true
	vm.variables = append(vm.variables, d)
}

// Root returns the root of the definition graph.  After Run the graph is
// frozen and safe for concurrent use.
func (vm *VM) Root() *definition.Definition {
	return vm.root
}

// DefinitionOf returns the definition associated with a node, or nil.
func (vm *VM) DefinitionOf(node *ast.Node) *definition.Definition {
	return vm.assoc[node]
}

// DocOf returns the documentation mapping parsed from a method's leading
// comment, or nil when the comment carried no tags.
func (vm *VM) DocOf(d *definition.Definition) *docstring.Mapping {
	return vm.docs[d]
}

// Associations returns the node to definition table.  Callers must treat it
// as read-only.
func (vm *VM) Associations() map[*ast.Node]*definition.Definition {
	return vm.assoc
}

// UnresolvedCalls returns every call whose context or method never resolved.
func (vm *VM) UnresolvedCalls() []UnresolvedCall {
	return vm.unresolvedCalls
}

// UnresolvedRefs returns every variable or constant read that never
// resolved.
func (vm *VM) UnresolvedRefs() []UnresolvedRef {
	return vm.unresolvedRefs
}

// Shadows returns the recorded block parameter shadowing sites.
func (vm *VM) Shadows() []Shadow {
	return vm.shadows
}

// Variables returns every variable and parameter definition the run created,
// in creation order.
func (vm *VM) Variables() []*definition.Definition {
	return vm.variables
}
