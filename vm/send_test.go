// Copyright © 2024 The ruby-lint authors

package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2dkb/ruby-lint/definition"
)

func TestCallRecording(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :Mailer) nil
			(def :deliver (args) (nil)))
		(lvasgn :m (send (const nil :Mailer) :new))
		(send (lvar :m) :deliver)
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	root := vm.Root()
	mailer := root.LookupLocal(definition.KindConst, "Mailer")
	require.NotNil(t, mailer)

	m := root.LookupLocal(definition.KindLVar, "m")
	require.NotNil(t, m)
	assert.True(t, m.Value.Instance)
	assert.Equal(t, "Mailer", m.Value.Name)

	deliver := mailer.LookupLocal(definition.KindInstanceMethod, "deliver")
	require.NotNil(t, deliver)
	require.Len(t, deliver.Callers, 1)
	assert.Same(t, root, deliver.Callers[0].Definition)

	found := false
	for _, call := range root.Calls {
		if call.Definition == deliver {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUndefinedMethod(t *testing.T) {
	vm := runVM(t, `(lvasgn :x (send nil :nonexistent_method))`)

	x := vm.Root().LookupLocal(definition.KindLVar, "x")
	require.NotNil(t, x)
	assert.True(t, x.Value.IsUnknown())

	calls := vm.UnresolvedCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "nonexistent_method", calls[0].Name)
	assert.Same(t, vm.Root(), calls[0].Context)
}

func TestUnresolvedReceiverPropagates(t *testing.T) {
	vm := runVM(t, `(send (send nil :mystery) :follow)`)

	calls := vm.UnresolvedCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "mystery", calls[0].Name)
	assert.Equal(t, "follow", calls[1].Name)
	assert.Same(t, definition.Unknown(), calls[1].Context)
}

func TestReturnValueFlows(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :Row) nil nil)
		(class (const nil :Repo) nil
			(def :initialize (args)
				(ivasgn :@row (send (const nil :Row) :new)))
			(send nil :attr_reader (sym :row)))
		(lvasgn :r (send (send (const nil :Repo) :new) :row))
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	repo := vm.Root().LookupLocal(definition.KindConst, "Repo")
	require.NotNil(t, repo)

	reader := repo.LookupLocal(definition.KindInstanceMethod, "row")
	require.NotNil(t, reader)
	require.NotNil(t, reader.ReturnValue)
	assert.Equal(t, "Row", reader.ReturnValue.Name)

	r := vm.Root().LookupLocal(definition.KindLVar, "r")
	require.NotNil(t, r)
	assert.True(t, r.Value.Instance)
	assert.Equal(t, "Row", r.Value.Name)
}

func TestAttributeWriter(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :Conf) nil
			(send nil :attr_accessor (sym :path)))
	`)

	conf := vm.Root().LookupLocal(definition.KindConst, "Conf")
	require.NotNil(t, conf)
	assert.NotNil(t, conf.LookupLocal(definition.KindInstanceMethod, "path"))

	writer := conf.LookupLocal(definition.KindInstanceMethod, "path=")
	require.NotNil(t, writer)
	require.NotNil(t, writer.Signature)
	assert.Equal(t, 1, writer.Signature.MinArity())
}

func TestIncludeIsIdempotent(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :Money) nil
			(send nil :include (const nil :Comparable))
			(send nil :include (const nil :Comparable)))
		(lvasgn :m (send (const nil :Money) :new))
		(send (lvar :m) :between? (int 1) (int 9))
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	money := vm.Root().LookupLocal(definition.KindConst, "Money")
	require.NotNil(t, money)
	assert.Len(t, money.Parents, 3)
}

func TestIncludeProvidesInstanceMethods(t *testing.T) {
	vm := runVM(t, `
		(module (const nil :Greeter)
			(def :hello (args) (nil)))
		(class (const nil :Pine) nil
			(send nil :include (const nil :Greeter)))
		(lvasgn :tree (send (const nil :Pine) :new))
		(send (lvar :tree) :hello)
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	pine := vm.Root().LookupLocal(definition.KindConst, "Pine")
	require.NotNil(t, pine)
	// include links the module in, it does not copy methods over.
	assert.Nil(t, pine.LookupLocal(definition.KindInstanceMethod, "hello"))
}

func TestExtendAddsSingletonMethods(t *testing.T) {
	vm := runVM(t, `
		(module (const nil :Helper)
			(def :assist (args) (nil)))
		(class (const nil :Desk) nil
			(send nil :extend (const nil :Helper)))
		(send (const nil :Desk) :assist)
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	desk := vm.Root().LookupLocal(definition.KindConst, "Desk")
	require.NotNil(t, desk)
	assert.NotNil(t, desk.LookupLocal(definition.KindMethod, "assist"))
}

func TestAliasMethodCall(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :List) nil
			(def :size (args) (int 0))
			(send nil :alias_method (sym :length) (sym :size)))
	`)

	list := vm.Root().LookupLocal(definition.KindConst, "List")
	require.NotNil(t, list)

	size := list.LookupLocal(definition.KindInstanceMethod, "size")
	length := list.LookupLocal(definition.KindInstanceMethod, "length")
	require.NotNil(t, size)
	require.NotNil(t, length)
	assert.Same(t, size, length)
}

func TestAliasKeyword(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :List) nil
			(def :size (args) (int 0))
			(alias (sym :count) (sym :size)))
	`)

	list := vm.Root().LookupLocal(definition.KindConst, "List")
	require.NotNil(t, list)
	assert.Same(t,
		list.LookupLocal(definition.KindInstanceMethod, "size"),
		list.LookupLocal(definition.KindInstanceMethod, "count"))
}

func TestAliasGlobal(t *testing.T) {
	vm := runVM(t, `(alias (gvar :$MATCH) (back_ref :$&))`)

	root := vm.Root()
	match := root.LookupLocal(definition.KindGVar, "$MATCH")
	require.NotNil(t, match)
	assert.Same(t, root.LookupLocal(definition.KindGVar, "$&"), match)
}

func TestUndefKeyword(t *testing.T) {
	vm := runVM(t, `
		(class (const nil :Legacy) nil
			(def :secret (args) (nil))
			(undef (sym :secret)))
	`)

	legacy := vm.Root().LookupLocal(definition.KindConst, "Legacy")
	require.NotNil(t, legacy)
	assert.Nil(t, legacy.LookupLocal(definition.KindInstanceMethod, "secret"))
}

func TestIndexAssignment(t *testing.T) {
	vm := runVM(t, `
		(lvasgn :h (hash))
		(send (lvar :h) :[]= (sym :key) (int 7))
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	h := vm.Root().LookupLocal(definition.KindLVar, "h")
	require.NotNil(t, h)

	member := h.Value.LookupLocal(definition.KindMember, "key")
	require.NotNil(t, member)
	assert.Equal(t, "7", member.Value.Name)
}

func TestModuleFunctionCall(t *testing.T) {
	vm := runVM(t, `
		(module (const nil :Util)
			(def :calc (args) (int 1))
			(send nil :module_function (sym :calc)))
		(send (const nil :Util) :calc)
	`)

	assert.Empty(t, vm.UnresolvedCalls())

	util := vm.Root().LookupLocal(definition.KindConst, "Util")
	require.NotNil(t, util)
	assert.NotNil(t, util.LookupLocal(definition.KindMethod, "calc"))
	assert.NotNil(t, util.LookupLocal(definition.KindInstanceMethod, "calc"))
}

func TestDefinedKeyword(t *testing.T) {
	vm := runVM(t, `(lvasgn :check (defined? (lvar :whatever)))`)

	check := vm.Root().LookupLocal(definition.KindLVar, "check")
	require.NotNil(t, check)
	assert.Equal(t, definition.KindStr, check.Value.Kind)

	// The operand is never evaluated, so nothing gets recorded for it.
	assert.Empty(t, vm.UnresolvedRefs())
	assert.Empty(t, vm.UnresolvedCalls())
}

func TestSafeNavigation(t *testing.T) {
	vm := runVM(t, `
		(lvasgn :s (str "hi"))
		(lvasgn :up (csend (lvar :s) :upcase))
	`)

	assert.Empty(t, vm.UnresolvedCalls())
	assert.NotNil(t, vm.Root().LookupLocal(definition.KindLVar, "up"))
}

func TestCoreMethodOnLiteral(t *testing.T) {
	vm := runVM(t, `
		(lvasgn :parts (send (str "a,b") :split (str ",")))
	`)

	assert.Empty(t, vm.UnresolvedCalls())
}
