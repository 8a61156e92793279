// Copyright © 2024 The ruby-lint authors

package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStringsUnique(t *testing.T) {
	seen := map[string]Kind{}
	for k := Kind(0); k < numKinds; k++ {
		s := k.String()
		assert.NotEqual(t, "", s)
		if prev, ok := seen[s]; ok {
			t.Errorf("kinds %d and %d share the name %q", prev, k, s)
		}
		seen[s] = k
	}
	assert.Equal(t, "invalid", Kind(1000).String())
}

func TestDefineAndLookup(t *testing.T) {
	class := New(KindClass, "Person")
	create := New(KindMethod, "create")
	update := New(KindInstanceMethod, "update")
	class.Define(KindMethod, "create", create)
	class.Define(KindInstanceMethod, "update", update)

	assert.Same(t, create, class.LookupLocal(KindMethod, "create"))
	assert.Same(t, update, class.LookupLocal(KindInstanceMethod, "update"))
	// The two method kinds live in separate tables.
	assert.Nil(t, class.LookupLocal(KindInstanceMethod, "create"))
	assert.Nil(t, class.LookupLocal(KindMethod, "update"))

	assert.True(t, class.Has(KindMethod, "create"))
	assert.False(t, class.Has(KindMethod, "update"))
}

func TestLookupRecursesParents(t *testing.T) {
	parent := New(KindClass, "Base")
	save := New(KindInstanceMethod, "save")
	parent.Define(KindInstanceMethod, "save", save)

	child := New(KindClass, "Person")
	child.AddParent(parent)

	assert.Same(t, save, child.Lookup(KindInstanceMethod, "save"))
	assert.Nil(t, child.LookupLocal(KindInstanceMethod, "save"))
	assert.Nil(t, child.Lookup(KindInstanceMethod, "destroy"))
}

func TestLookupOrderFollowsParents(t *testing.T) {
	first := New(KindModule, "First")
	second := New(KindModule, "Second")
	a := New(KindInstanceMethod, "run")
	b := New(KindInstanceMethod, "run")
	first.Define(KindInstanceMethod, "run", a)
	second.Define(KindInstanceMethod, "run", b)

	class := New(KindClass, "Runner")
	class.AddParent(first)
	class.AddParent(second)
	assert.Same(t, a, class.Lookup(KindInstanceMethod, "run"))
}

func TestLookupSurvivesParentCycles(t *testing.T) {
	a := New(KindClass, "A")
	b := New(KindClass, "B")
	a.AddParent(b)
	b.AddParent(a)

	m := New(KindInstanceMethod, "poke")
	b.Define(KindInstanceMethod, "poke", m)

	assert.Same(t, m, a.Lookup(KindInstanceMethod, "poke"))
	assert.Nil(t, a.Lookup(KindInstanceMethod, "missing"))
}

func TestAddParentDeduplicates(t *testing.T) {
	class := New(KindClass, "Person")
	mod := New(KindModule, "Trackable")
	class.AddParent(mod)
	class.AddParent(mod)
	class.AddParent(nil)
	require.Len(t, class.Parents, 1)
	assert.Same(t, mod, class.Parents[0])
}

func TestDefineOverwriteKeepsOrder(t *testing.T) {
	scope := New(KindBlock, "block")
	first := New(KindLVar, "a")
	second := New(KindLVar, "b")
	scope.Define(KindLVar, "a", first)
	scope.Define(KindLVar, "b", second)

	replacement := New(KindLVar, "a")
	scope.Define(KindLVar, "a", replacement)

	list := scope.ListKind(KindLVar)
	require.Len(t, list, 2)
	assert.Same(t, replacement, list[0])
	assert.Same(t, second, list[1])
}

func TestRemove(t *testing.T) {
	scope := New(KindClass, "Person")
	m := New(KindInstanceMethod, "save")
	scope.Define(KindInstanceMethod, "save", m)
	scope.Remove(KindInstanceMethod, "save")
	assert.False(t, scope.Has(KindInstanceMethod, "save"))
	assert.Empty(t, scope.List())
	// Removing again is harmless.
	scope.Remove(KindInstanceMethod, "save")
}

func TestCopySharesDefinitions(t *testing.T) {
	mod := New(KindModule, "Trackable")
	track := New(KindInstanceMethod, "track")
	count := New(KindMethod, "count")
	mod.Define(KindInstanceMethod, "track", track)
	mod.Define(KindMethod, "count", count)

	class := New(KindClass, "Person")
	class.Copy(mod, KindInstanceMethod)

	assert.Same(t, track, class.LookupLocal(KindInstanceMethod, "track"))
	assert.Nil(t, class.LookupLocal(KindMethod, "count"))
}

func TestFreezePanicsOnStructuralMutation(t *testing.T) {
	class := New(KindClass, "Person")
	method := New(KindInstanceMethod, "save")
	class.Define(KindInstanceMethod, "save", method)
	class.Freeze()

	require.True(t, class.Frozen())
	require.True(t, method.Frozen(), "freeze must reach members")

	assert.PanicsWithError(t, "mutation of frozen definition class Person", func() {
		class.Define(KindInstanceMethod, "destroy", New(KindInstanceMethod, "destroy"))
	})
	assert.Panics(t, func() { class.AddParent(New(KindModule, "M")) })
	assert.Panics(t, func() { class.Remove(KindInstanceMethod, "save") })
}

func TestFreezeDropsTrackingUpdates(t *testing.T) {
	method := New(KindInstanceMethod, "save")
	method.Freeze()

	method.AddReference()
	method.AddCall(CallSite{Definition: New(KindInstanceMethod, "other")})
	method.AddCaller(CallSite{Definition: New(KindInstanceMethod, "other")})

	assert.Equal(t, 0, method.References)
	assert.Empty(t, method.Calls)
	assert.Empty(t, method.Callers)
}

func TestUnknownSentinel(t *testing.T) {
	u := Unknown()
	assert.True(t, u.IsUnknown())
	assert.True(t, u.Frozen())
	assert.Same(t, u, Unknown())

	// Tracking operations against the sentinel are dropped, not fatal.
	u.AddReference()
	u.AddCall(CallSite{Definition: New(KindInstanceMethod, "x")})
	assert.Equal(t, 0, u.References)
	assert.Empty(t, u.Calls)

	var missing *Definition
	assert.True(t, missing.IsUnknown())
}

func TestValueOrSelf(t *testing.T) {
	value := New(KindInt, "Integer")
	lvar := New(KindLVar, "number")
	assert.Same(t, lvar, lvar.ValueOrSelf())
	lvar.Value = value
	assert.Same(t, value, lvar.ValueOrSelf())
}

func TestSignatureArity(t *testing.T) {
	tests := []struct {
		sig *Signature
		min int
		max int
		str string
	}{
		{formals(), 0, 0, "()"},
		{formals("a", "b"), 2, 2, "(a, b)"},
		{formals("a", optArg, "b"), 1, 2, "(a, b = ?)"},
		{formals(optArg, "a", "b", "c"), 0, 3, "(a = ?, b = ?, c = ?)"},
		{formals("a", varArg, "rest"), 1, -1, "(a, *rest)"},
		{formals("a", blockArg, "block"), 1, 1, "(a, &block)"},
		{formals(varArg, "args", blockArg, "block"), 0, -1, "(*args, &block)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.min, test.sig.MinArity(), test.str)
		assert.Equal(t, test.max, test.sig.MaxArity(), test.str)
		assert.Equal(t, test.str, test.sig.String())
	}
}

func TestRegistryResolvesAncestry(t *testing.T) {
	reg := NewRegistry()

	object := reg.Resolve("Object")
	require.NotNil(t, object)
	assert.Same(t, object, reg.Resolve("Object"), "resolution must be cached")

	// Kernel methods surface on Object through the parent chain.
	assert.NotNil(t, object.Lookup(KindInstanceMethod, "puts"))
	assert.Nil(t, object.LookupLocal(KindInstanceMethod, "puts"))

	str := reg.Resolve("String")
	require.NotNil(t, str)
	assert.NotNil(t, str.Lookup(KindInstanceMethod, "between?"), "String includes Comparable")
	assert.NotNil(t, str.Lookup(KindInstanceMethod, "upcase"))

	arr := reg.Resolve("Array")
	require.NotNil(t, arr)
	assert.NotNil(t, arr.Lookup(KindInstanceMethod, "map"), "Array includes Enumerable")

	nme := reg.Resolve("NoMethodError")
	require.NotNil(t, nme)
	assert.NotNil(t, nme.Lookup(KindInstanceMethod, "message"), "exceptions inherit from Exception")

	assert.Nil(t, reg.Resolve("DefinitelyNotBuiltIn"))
}

func TestRegistryMethodSignatures(t *testing.T) {
	reg := NewRegistry()
	kernel := reg.Resolve("Kernel")
	require.NotNil(t, kernel)

	puts := kernel.LookupLocal(KindInstanceMethod, "puts")
	require.NotNil(t, puts)
	require.NotNil(t, puts.Signature)
	assert.Equal(t, 0, puts.Signature.MinArity())
	assert.Equal(t, -1, puts.Signature.MaxArity())

	sub := reg.Resolve("String").LookupLocal(KindInstanceMethod, "sub")
	require.NotNil(t, sub)
	assert.Equal(t, 1, sub.Signature.MinArity())
	assert.Equal(t, 2, sub.Signature.MaxArity())
}

func TestRegistryNewRoot(t *testing.T) {
	reg := NewRegistry()
	root := reg.NewRoot()

	require.Equal(t, KindRoot, root.Kind)
	assert.Equal(t, KindInstanceMethod, root.MethodCallKind)
	assert.NotNil(t, root.Lookup(KindInstanceMethod, "puts"), "top level sees Kernel")

	self := root.LookupLocal(KindKeyword, "self")
	require.NotNil(t, self)
	assert.Same(t, root, self.Value)

	stdout := root.LookupLocal(KindGVar, "$stdout")
	require.NotNil(t, stdout)
	require.NotNil(t, stdout.Value)
	assert.NotNil(t, stdout.Value.Lookup(KindInstanceMethod, "puts"))

	argv := root.LookupLocal(KindConst, "ARGV")
	require.NotNil(t, argv)
	assert.Equal(t, KindArray, argv.Kind)
	assert.True(t, argv.Instance)
}

func TestClassLevelLookupThroughObject(t *testing.T) {
	reg := NewRegistry()
	person := New(KindClass, "Person")
	person.AddParent(reg.Resolve("Object"))

	// Macros and class methods every class responds to resolve through
	// the Object entry of the catalog.
	assert.NotNil(t, person.Lookup(KindMethod, "new"))
	assert.NotNil(t, person.Lookup(KindMethod, "attr_reader"))
	assert.NotNil(t, person.Lookup(KindMethod, "include"))
	assert.Nil(t, person.Lookup(KindMethod, "upcase"))
}

func TestRegistryNewInstance(t *testing.T) {
	reg := NewRegistry()

	arr := reg.NewInstance("Array")
	assert.Equal(t, KindArray, arr.Kind)
	assert.True(t, arr.Instance)
	assert.Equal(t, KindInstanceMethod, arr.MethodCallKind)
	assert.NotNil(t, arr.Lookup(KindInstanceMethod, "push"))

	tm := reg.NewInstance("Time")
	assert.Equal(t, KindClass, tm.Kind)
	assert.True(t, tm.Instance)
	assert.NotNil(t, tm.Lookup(KindInstanceMethod, "strftime"))
	assert.Nil(t, tm.LookupLocal(KindInstanceMethod, "strftime"))

	assert.True(t, reg.NewInstance("NotAClass").IsUnknown())
}

func TestInstanceOf(t *testing.T) {
	class := New(KindClass, "Person")
	save := New(KindInstanceMethod, "save")
	class.Define(KindInstanceMethod, "save", save)

	inst := InstanceOf(class)
	assert.True(t, inst.Instance)
	assert.Equal(t, KindInstanceMethod, inst.MethodCallKind)
	assert.Equal(t, "Person", inst.Name)
	assert.Same(t, save, inst.Lookup(KindInstanceMethod, "save"))
}

func TestLiteralClassName(t *testing.T) {
	name, ok := LiteralClassName(KindInt)
	require.True(t, ok)
	assert.Equal(t, "Integer", name)

	_, ok = LiteralClassName(KindClass)
	assert.False(t, ok)
}
