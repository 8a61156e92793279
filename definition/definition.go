// Copyright © 2024 The ruby-lint authors

// Package definition models the graph an analysis run produces: every class,
// module, method, variable, and constant a program defines or references,
// with parents, members, values, and the calls between them.  After a run the
// graph is frozen and safe for concurrent readers.
package definition

import (
	"fmt"

	"github.com/h2dkb/ruby-lint/parser/token"
)

// Kind discriminates what a Definition stands for.
type Kind uint

const (
	// KindInvalid (0) is not a valid definition kind.
	KindInvalid Kind = iota

	KindRoot
	KindModule
	KindClass

	// KindMethod is a class-level (singleton) method.  KindInstanceMethod is
	// a method on instances.  The two live in separate member tables.
	KindMethod
	KindInstanceMethod
	KindBlock

	KindLVar
	KindIVar
	KindCVar
	KindGVar
	KindConst

	// KindMember is a keyed slot of a collection, e.g. a hash entry.
	KindMember
	// KindKeyword holds language keywords tracked per scope, e.g. self.
	KindKeyword

	// Value kinds produced for literals.
	KindArray
	KindHash
	KindInt
	KindFloat
	KindStr
	KindSym
	KindRegexp
	KindRange
	KindTrue
	KindFalse
	KindNil

	// KindUnknown marks a statically indeterminate value.
	KindUnknown

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid:        "invalid",
	KindRoot:           "root",
	KindModule:         "module",
	KindClass:          "class",
	KindMethod:         "method",
	KindInstanceMethod: "instance method",
	KindBlock:          "block",
	KindLVar:           "local variable",
	KindIVar:           "instance variable",
	KindCVar:           "class variable",
	KindGVar:           "global variable",
	KindConst:          "constant",
	KindMember:         "member",
	KindKeyword:        "keyword",
	KindArray:          "array",
	KindHash:           "hash",
	KindInt:            "integer",
	KindFloat:          "float",
	KindStr:            "string",
	KindSym:            "symbol",
	KindRegexp:         "regexp",
	KindRange:          "range",
	KindTrue:           "true",
	KindFalse:          "false",
	KindNil:            "nil",
	KindUnknown:        "unknown",
}

func (k Kind) String() string {
	if k >= numKinds {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// Visibility is the declared visibility of a method.
type Visibility uint

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// MemberKey addresses one entry of a definition's member table.
type MemberKey struct {
	Kind Kind
	Name string
}

// CallSite records one direction of a method call: where it happened and who
// the other party was.
type CallSite struct {
	Source     *token.Location
	Definition *Definition
}

// Definition is a single node of the graph.  Fields are exported for
// consumers of a frozen graph; during construction mutation goes through the
// methods below, which enforce freeze semantics.
type Definition struct {
	Kind Kind
	Name string

	// Value is the definition of the currently assigned value, when one is
	// statically known.
	Value *Definition

	// Parents are consulted by Lookup in order.  Lexical scopes, superclasses,
	// and included modules all arrive here.
	Parents []*Definition

	// Instance is true when this definition denotes an instance of a type
	// rather than the type itself.
	Instance bool

	// MethodCallKind is the member kind method lookups against this
	// definition use: KindMethod or KindInstanceMethod.
	MethodCallKind Kind

	Visibility  Visibility
	Signature   *Signature
	ReturnValue *Definition

	// References counts reads and reassignments.
	References int

	Calls   []CallSite
	Callers []CallSite

	Source *token.Location

	members map[MemberKey]*Definition
	order   []MemberKey
	frozen  bool
}

// New returns an empty definition of the given kind.
func New(kind Kind, name string) *Definition {
	callKind := KindInstanceMethod
	if kind == KindClass || kind == KindModule {
		callKind = KindMethod
	}
	return &Definition{
		Kind:           kind,
		Name:           name,
		MethodCallKind: callKind,
		members:        make(map[MemberKey]*Definition),
	}
}

// unknownDefinition is shared by every engine run.  It is frozen from birth;
// tracking operations against it are silently dropped.
var unknownDefinition = func() *Definition {
	d := New(KindUnknown, "unknown")
	d.Source = &token.Location{File: "unknown", Pos: -1}
	d.frozen = true
	return d
}()

// Unknown returns the sentinel definition for statically indeterminate
// values.  Semantic gaps produce it; they are never errors.
func Unknown() *Definition {
	return unknownDefinition
}

// IsUnknown reports whether d is (or denotes) a statically indeterminate
// value.
func (d *Definition) IsUnknown() bool {
	return d == nil || d.Kind == KindUnknown
}

// IsConstant reports whether d can appear in a constant path.
func (d *Definition) IsConstant() bool {
	switch d.Kind {
	case KindClass, KindModule, KindConst, KindRoot:
		return true
	}
	return false
}

// IsMethod reports whether d is a method of either call kind.
func (d *Definition) IsMethod() bool {
	return d.Kind == KindMethod || d.Kind == KindInstanceMethod
}

// IsBlock reports whether d is a block scope.
func (d *Definition) IsBlock() bool {
	return d.Kind == KindBlock
}

// IsCore reports whether the definition comes from the built-in catalog
// rather than analyzed source.
func (d *Definition) IsCore() bool {
	return d.Source != nil && d.Source.Pos < 0
}

// Frozen reports whether the definition has been frozen.
func (d *Definition) Frozen() bool {
	return d.frozen
}

// FrozenError is the panic value raised by structural mutation of a frozen
// definition.  It indicates misuse of a finished graph.
type FrozenError struct {
	Def *Definition
}

func (err *FrozenError) Error() string {
	return fmt.Sprintf("mutation of frozen definition %s", err.Def)
}

func (d *Definition) checkFrozen() {
	if d.frozen {
		panic(&FrozenError{Def: d})
	}
}

// Define inserts or overwrites a member.  Overwriting keeps the member's
// original position in the ordered list.
func (d *Definition) Define(kind Kind, name string, def *Definition) {
	d.checkFrozen()
	key := MemberKey{Kind: kind, Name: name}
	if _, ok := d.members[key]; !ok {
		d.order = append(d.order, key)
	}
	d.members[key] = def
}

// Remove deletes a member when present.
func (d *Definition) Remove(kind Kind, name string) {
	d.checkFrozen()
	key := MemberKey{Kind: kind, Name: name}
	if _, ok := d.members[key]; !ok {
		return
	}
	delete(d.members, key)
	for i, entry := range d.order {
		if entry == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Has reports whether d itself holds the member.  Parents are not consulted.
func (d *Definition) Has(kind Kind, name string) bool {
	_, ok := d.members[MemberKey{Kind: kind, Name: name}]
	return ok
}

// LookupLocal returns the member held by d itself, or nil.
func (d *Definition) LookupLocal(kind Kind, name string) *Definition {
	return d.members[MemberKey{Kind: kind, Name: name}]
}

// Lookup resolves a member against d and then its parents, depth-first in
// insertion order.  Parent graphs may contain cycles (re-opened scopes);
// each definition is visited once.
func (d *Definition) Lookup(kind Kind, name string) *Definition {
	return d.lookup(kind, name, make(map[*Definition]bool))
}

func (d *Definition) lookup(kind Kind, name string, seen map[*Definition]bool) *Definition {
	if seen[d] {
		return nil
	}
	seen[d] = true
	if def := d.members[MemberKey{Kind: kind, Name: name}]; def != nil {
		return def
	}
	for _, parent := range d.Parents {
		if def := parent.lookup(kind, name, seen); def != nil {
			return def
		}
	}
	return nil
}

// Copy merges every member of the given kind from other into d, in other's
// insertion order.  The definitions themselves are shared, not cloned.
func (d *Definition) Copy(other *Definition, kind Kind) {
	d.checkFrozen()
	for _, def := range other.ListKind(kind) {
		d.Define(kind, def.Name, def)
	}
}

// ListKind returns the members of one kind in insertion order.
func (d *Definition) ListKind(kind Kind) []*Definition {
	var defs []*Definition
	for _, key := range d.order {
		if key.Kind == kind {
			defs = append(defs, d.members[key])
		}
	}
	return defs
}

// List returns every member in insertion order.
func (d *Definition) List() []*Definition {
	defs := make([]*Definition, 0, len(d.order))
	for _, key := range d.order {
		defs = append(defs, d.members[key])
	}
	return defs
}

// Keys returns the member keys in insertion order.
func (d *Definition) Keys() []MemberKey {
	keys := make([]MemberKey, len(d.order))
	copy(keys, d.order)
	return keys
}

// AddParent appends a parent unless it is already present.
func (d *Definition) AddParent(parent *Definition) {
	if parent == nil {
		return
	}
	d.checkFrozen()
	for _, p := range d.Parents {
		if p == parent {
			return
		}
	}
	d.Parents = append(d.Parents, parent)
}

// AddReference bumps the reference counter.  Frozen definitions (including
// the unknown sentinel) drop the update.
func (d *Definition) AddReference() {
	if d.frozen {
		return
	}
	d.References++
}

// AddCall records an outgoing call on d.  Dropped when frozen.
func (d *Definition) AddCall(site CallSite) {
	if d.frozen {
		return
	}
	d.Calls = append(d.Calls, site)
}

// AddCaller records an incoming call on d.  Dropped when frozen.
func (d *Definition) AddCaller(site CallSite) {
	if d.frozen {
		return
	}
	d.Callers = append(d.Callers, site)
}

// Freeze marks d and every reachable definition immutable in one pass.
// After Freeze the graph may be shared between goroutines without locking.
func (d *Definition) Freeze() {
	d.freeze(make(map[*Definition]bool))
}

func (d *Definition) freeze(seen map[*Definition]bool) {
	if d == nil || seen[d] {
		return
	}
	seen[d] = true
	d.frozen = true
	d.Value.freeze(seen)
	d.ReturnValue.freeze(seen)
	for _, p := range d.Parents {
		p.freeze(seen)
	}
	for _, m := range d.members {
		m.freeze(seen)
	}
	if d.Signature != nil {
		for _, param := range d.Signature.Params {
			param.Def.freeze(seen)
		}
	}
	for _, site := range d.Calls {
		site.Definition.freeze(seen)
	}
	for _, site := range d.Callers {
		site.Definition.freeze(seen)
	}
}

func (d *Definition) String() string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s", d.Kind, d.Name)
}

// QualifiedName renders the definition with its owner when one is recorded:
// Owner#name for instance methods, Owner.name for singleton methods, the
// bare name otherwise.
func (d *Definition) QualifiedName() string {
	if d == nil {
		return "<nil>"
	}
	owner := d.owner()
	switch d.Kind {
	case KindInstanceMethod:
		if owner != nil {
			return owner.Name + "#" + d.Name
		}
	case KindMethod:
		if owner != nil {
			return owner.Name + "." + d.Name
		}
	}
	return d.Name
}

// owner returns the class or module the definition hangs off, when one was
// recorded as its first parent.
func (d *Definition) owner() *Definition {
	if len(d.Parents) == 0 {
		return nil
	}
	p := d.Parents[0]
	if p.Kind == KindClass || p.Kind == KindModule {
		return p
	}
	return nil
}

// ValueOrSelf returns the assigned value when one is known, otherwise d.
// References push this onto the value stack.
func (d *Definition) ValueOrSelf() *Definition {
	if d.Value != nil {
		return d.Value
	}
	return d
}

// ArgKind classifies one method parameter.
type ArgKind uint

const (
	ArgRequired ArgKind = iota
	ArgOptional
	ArgRest
	ArgBlock
	ArgKeyword
	ArgKeywordOptional
	ArgKeywordRest
	ArgShadow
)

// Param is one declared parameter of a method or block.
type Param struct {
	Name string
	Kind ArgKind
	Def  *Definition
}

// Signature is the ordered parameter list of a method.
type Signature struct {
	Params []Param
}

// Add appends a parameter.
func (s *Signature) Add(p Param) {
	s.Params = append(s.Params, p)
}

// MinArity returns the number of positional arguments a call must provide.
func (s *Signature) MinArity() int {
	var n int
	for _, p := range s.Params {
		if p.Kind == ArgRequired {
			n++
		}
	}
	return n
}

// MaxArity returns the number of positional arguments a call may provide, or
// -1 when the method takes a rest argument.
func (s *Signature) MaxArity() int {
	var n int
	for _, p := range s.Params {
		switch p.Kind {
		case ArgRequired, ArgOptional:
			n++
		case ArgRest:
			return -1
		}
	}
	return n
}

func (s *Signature) String() string {
	var out string
	for i, p := range s.Params {
		if i > 0 {
			out += ", "
		}
		switch p.Kind {
		case ArgOptional:
			out += p.Name + " = ?"
		case ArgRest:
			out += "*" + p.Name
		case ArgBlock:
			out += "&" + p.Name
		case ArgKeyword:
			out += p.Name + ":"
		case ArgKeywordOptional:
			out += p.Name + ": ?"
		case ArgKeywordRest:
			out += "**" + p.Name
		default:
			out += p.Name
		}
	}
	return "(" + out + ")"
}
