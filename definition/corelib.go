// Copyright © 2024 The ruby-lint authors

package definition

import (
	"sort"

	"github.com/h2dkb/ruby-lint/parser/token"
)

// corelibSource marks definitions that come from the built-in catalog rather
// than analyzed source.  The negative offset means "not navigable".
var corelibSource = &token.Location{File: "corelib", Pos: -1}

// Registry builds definitions for Ruby's built-in constants on demand.  A
// registry belongs to a single engine run; the definitions it hands out are
// mutable until that run freezes its graph.
type Registry struct {
	built map[string]*Definition
}

// NewRegistry returns an empty registry backed by the built-in catalog.
func NewRegistry() *Registry {
	return &Registry{built: make(map[string]*Definition)}
}

// Resolve returns the definition of a built-in constant, building it and its
// ancestry on first use.  Unknown names return nil.
func (r *Registry) Resolve(name string) *Definition {
	if d, ok := r.built[name]; ok {
		return d
	}
	ct, ok := coreIndex[name]
	if !ok {
		return nil
	}
	kind := KindClass
	if ct.module {
		kind = KindModule
	}
	d := New(kind, name)
	d.Source = corelibSource
	// Register before resolving parents so mutually referential entries
	// settle on one definition.
	r.built[name] = d
	if !ct.module && name != "BasicObject" {
		parent := ct.parent
		if parent == "" {
			parent = "Object"
		}
		d.AddParent(r.Resolve(parent))
	}
	for _, mod := range ct.includes {
		d.AddParent(r.Resolve(mod))
	}
	for _, m := range ct.instance {
		d.Define(KindInstanceMethod, m.name, r.newCoreMethod(KindInstanceMethod, m))
	}
	for _, m := range ct.singleton {
		d.Define(KindMethod, m.name, r.newCoreMethod(KindMethod, m))
	}
	for _, c := range ct.consts {
		d.Define(KindConst, c.name, r.NewInstance(c.class))
	}
	return d
}

// Names returns every constant the registry can provide, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(coreIndex))
	for name := range coreIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewInstance returns a fresh instance definition of the named built-in
// class, or the unknown sentinel when the class is not in the catalog.
func (r *Registry) NewInstance(name string) *Definition {
	class := r.Resolve(name)
	if class == nil {
		return Unknown()
	}
	return InstanceOf(class)
}

// NewRoot returns the root scope of a fresh graph: the implicit main object
// with Object as parent and the standard globals and constants seeded.
func (r *Registry) NewRoot() *Definition {
	root := New(KindRoot, "main")
	root.Source = corelibSource
	root.AddParent(r.Resolve("Object"))

	self := New(KindKeyword, "self")
	self.Value = root
	self.Source = corelibSource
	root.Define(KindKeyword, "self", self)

	for _, g := range coreGlobals {
		gvar := New(KindGVar, g.name)
		gvar.Value = r.NewInstance(g.class)
		gvar.Source = corelibSource
		root.Define(KindGVar, g.name, gvar)
	}
	for _, c := range coreRootConsts {
		root.Define(KindConst, c.name, r.NewInstance(c.class))
	}
	return root
}

func (r *Registry) newCoreMethod(kind Kind, m coreMethod) *Definition {
	d := New(kind, m.name)
	d.Source = corelibSource
	d.Signature = m.formals
	return d
}

// InstanceOf returns a definition denoting one instance of the given class.
// Members resolve through the class via the parent chain; method calls use
// the instance table.  Instances of the literal-backed built-ins carry their
// literal kind, so an Integer instance and the value of (int 1) look alike.
func InstanceOf(class *Definition) *Definition {
	d := New(class.Kind, class.Name)
	if kind, ok := literalKinds[class.Name]; ok {
		d.Kind = kind
	}
	d.Instance = true
	d.MethodCallKind = KindInstanceMethod
	d.Source = class.Source
	d.AddParent(class)
	return d
}

// literalKinds maps built-in class names to the definition kind their
// instances carry, and literalClasses is the inverse used when a literal
// needs its class ancestry.
var literalKinds = map[string]Kind{
	"Array":      KindArray,
	"Hash":       KindHash,
	"Integer":    KindInt,
	"Float":      KindFloat,
	"String":     KindStr,
	"Symbol":     KindSym,
	"Regexp":     KindRegexp,
	"Range":      KindRange,
	"TrueClass":  KindTrue,
	"FalseClass": KindFalse,
	"NilClass":   KindNil,
}

var literalClasses = func() map[Kind]string {
	m := make(map[Kind]string, len(literalKinds))
	for name, kind := range literalKinds {
		m[kind] = name
	}
	return m
}()

// LiteralClassName returns the built-in class backing a literal kind.
func LiteralClassName(kind Kind) (string, bool) {
	name, ok := literalClasses[kind]
	return name, ok
}

// coreMethod is one method entry of the catalog.
type coreMethod struct {
	name    string
	formals *Signature
}

// coreConst is a constant nested under a catalog entry, e.g. Math::PI.
type coreConst struct {
	name  string
	class string
}

// coreType is one catalog entry.  parent defaults to Object for classes.
type coreType struct {
	name      string
	module    bool
	parent    string
	includes  []string
	instance  []coreMethod
	singleton []coreMethod
	consts    []coreConst
}

// Markers for formals.  A marker switches the parameter kind for the names
// that follow it.
const (
	optArg   = "?"
	varArg   = "*"
	blockArg = "&"
)

func formals(names ...string) *Signature {
	sig := &Signature{}
	kind := ArgRequired
	for _, name := range names {
		switch name {
		case optArg:
			kind = ArgOptional
			continue
		case varArg:
			kind = ArgRest
			continue
		case blockArg:
			kind = ArgBlock
			continue
		}
		sig.Add(Param{Name: name, Kind: kind})
	}
	return sig
}

var coreIndex = func() map[string]*coreType {
	m := make(map[string]*coreType, len(coreTable))
	for i := range coreTable {
		m[coreTable[i].name] = &coreTable[i]
	}
	return m
}()

var coreGlobals = []struct{ name, class string }{
	{"$stdout", "IO"},
	{"$stderr", "IO"},
	{"$stdin", "IO"},
	{"$0", "String"},
	{"$PROGRAM_NAME", "String"},
	{"$LOAD_PATH", "Array"},
	{"$:", "Array"},
	{"$,", "String"},
	{"$;", "String"},
	{"$/", "String"},
}

var coreRootConsts = []coreConst{
	{"ARGV", "Array"},
	{"ENV", "Hash"},
	{"STDOUT", "IO"},
	{"STDERR", "IO"},
	{"STDIN", "IO"},
	{"RUBY_VERSION", "String"},
	{"RUBY_PLATFORM", "String"},
	{"RUBY_RELEASE_DATE", "String"},
}

var coreTable = []coreType{
	{
		name: "BasicObject",
		instance: []coreMethod{
			{"==", formals("other")},
			{"!", formals()},
			{"!=", formals("other")},
			{"equal?", formals("other")},
			{"instance_eval", formals(varArg, "args", blockArg, "block")},
			{"method_missing", formals("name", varArg, "args")},
			{"__send__", formals("name", varArg, "args")},
		},
	},
	{
		name:     "Object",
		parent:   "BasicObject",
		includes: []string{"Kernel"},
		instance: []coreMethod{
			{"class", formals()},
			{"frozen?", formals()},
			{"freeze", formals()},
			{"dup", formals()},
			{"clone", formals()},
			{"tap", formals(blockArg, "block")},
			{"to_s", formals()},
			{"inspect", formals()},
			{"respond_to?", formals("name", optArg, "include_all")},
			{"send", formals("name", varArg, "args")},
			{"public_send", formals("name", varArg, "args")},
			{"method", formals("name")},
			{"methods", formals()},
			{"instance_variable_get", formals("name")},
			{"instance_variable_set", formals("name", "value")},
			{"instance_variables", formals()},
			{"is_a?", formals("class")},
			{"kind_of?", formals("class")},
			{"instance_of?", formals("class")},
			{"nil?", formals()},
			{"hash", formals()},
			{"object_id", formals()},
			{"eql?", formals("other")},
			{"display", formals(optArg, "port")},
			{"extend", formals(varArg, "modules")},
			{"<=>", formals("other")},
			{"===", formals("other")},
			{"itself", formals()},
			{"then", formals(blockArg, "block")},
			{"yield_self", formals(blockArg, "block")},
		},
		// Methods callable on class objects.  Every class inherits from
		// Object, so class-level lookups end up here.
		singleton: []coreMethod{
			{"new", formals(varArg, "args", blockArg, "block")},
			{"allocate", formals()},
			{"superclass", formals()},
			{"ancestors", formals()},
			{"name", formals()},
			{"instance_methods", formals(optArg, "include_super")},
			{"public_instance_methods", formals(optArg, "include_super")},
			{"method_defined?", formals("name")},
			{"const_get", formals("name", optArg, "inherit")},
			{"const_set", formals("name", "value")},
			{"const_defined?", formals("name", optArg, "inherit")},
			{"attr_reader", formals(varArg, "names")},
			{"attr_writer", formals(varArg, "names")},
			{"attr_accessor", formals(varArg, "names")},
			{"attr", formals(varArg, "names")},
			{"include", formals(varArg, "modules")},
			{"prepend", formals(varArg, "modules")},
			{"extend", formals(varArg, "modules")},
			{"include?", formals("module")},
			{"private", formals(varArg, "names")},
			{"public", formals(varArg, "names")},
			{"protected", formals(varArg, "names")},
			{"module_function", formals(varArg, "names")},
			{"define_method", formals("name", optArg, "body", blockArg, "block")},
			{"alias_method", formals("new_name", "old_name")},
			{"undef_method", formals(varArg, "names")},
			{"remove_method", formals(varArg, "names")},
			{"private_constant", formals(varArg, "names")},
			{"class_eval", formals(varArg, "args", blockArg, "block")},
			{"module_eval", formals(varArg, "args", blockArg, "block")},
			{"freeze", formals()},
			{"instance_method", formals("name")},
		},
	},
	{
		name:   "Kernel",
		module: true,
		instance: []coreMethod{
			{"puts", formals(varArg, "args")},
			{"print", formals(varArg, "args")},
			{"p", formals(varArg, "args")},
			{"pp", formals(varArg, "args")},
			{"require", formals("path")},
			{"require_relative", formals("path")},
			{"load", formals("path", optArg, "wrap")},
			{"raise", formals(optArg, "exception", "message", "backtrace")},
			{"fail", formals(optArg, "exception", "message", "backtrace")},
			{"loop", formals(blockArg, "block")},
			{"lambda", formals(blockArg, "block")},
			{"proc", formals(blockArg, "block")},
			{"format", formals("format", varArg, "values")},
			{"sprintf", formals("format", varArg, "values")},
			{"printf", formals(varArg, "args")},
			{"rand", formals(optArg, "max")},
			{"srand", formals(optArg, "seed")},
			{"sleep", formals(optArg, "duration")},
			{"gets", formals(optArg, "separator")},
			{"exit", formals(optArg, "status")},
			{"exit!", formals(optArg, "status")},
			{"abort", formals(optArg, "message")},
			{"at_exit", formals(blockArg, "block")},
			{"catch", formals(optArg, "tag", blockArg, "block")},
			{"throw", formals("tag", optArg, "value")},
			{"binding", formals()},
			{"block_given?", formals()},
			{"caller", formals(optArg, "start", "length")},
			{"__method__", formals()},
			{"Integer", formals("value", optArg, "base")},
			{"Float", formals("value")},
			{"String", formals("value")},
			{"Array", formals("value")},
			{"Hash", formals("value")},
			{"open", formals("name", varArg, "args", blockArg, "block")},
			{"system", formals(varArg, "args")},
			{"spawn", formals(varArg, "args")},
			{"exec", formals(varArg, "args")},
			{"`", formals("command")},
			{"warn", formals(varArg, "messages")},
			{"freeze", formals()},
			{"frozen?", formals()},
		},
	},
	{
		name:   "Module",
		parent: "Object",
		instance: []coreMethod{
			{"ancestors", formals()},
			{"name", formals()},
			{"instance_methods", formals(optArg, "include_super")},
			{"included_modules", formals()},
			{"module_eval", formals(varArg, "args", blockArg, "block")},
			{"const_get", formals("name", optArg, "inherit")},
			{"const_set", formals("name", "value")},
		},
	},
	{
		name:   "Class",
		parent: "Module",
		instance: []coreMethod{
			{"new", formals(varArg, "args", blockArg, "block")},
			{"allocate", formals()},
			{"superclass", formals()},
		},
	},
	{
		name:   "Comparable",
		module: true,
		instance: []coreMethod{
			{"<", formals("other")},
			{"<=", formals("other")},
			{">", formals("other")},
			{">=", formals("other")},
			{"==", formals("other")},
			{"between?", formals("min", "max")},
			{"clamp", formals("min", optArg, "max")},
		},
	},
	{
		name:   "Enumerable",
		module: true,
		instance: []coreMethod{
			{"each_with_index", formals(blockArg, "block")},
			{"each_with_object", formals("memo", blockArg, "block")},
			{"each_slice", formals("size", blockArg, "block")},
			{"each_cons", formals("size", blockArg, "block")},
			{"map", formals(blockArg, "block")},
			{"collect", formals(blockArg, "block")},
			{"flat_map", formals(blockArg, "block")},
			{"select", formals(blockArg, "block")},
			{"filter", formals(blockArg, "block")},
			{"filter_map", formals(blockArg, "block")},
			{"reject", formals(blockArg, "block")},
			{"reduce", formals(optArg, "initial", "operator", blockArg, "block")},
			{"inject", formals(optArg, "initial", "operator", blockArg, "block")},
			{"find", formals(blockArg, "block")},
			{"detect", formals(blockArg, "block")},
			{"find_index", formals(optArg, "value", blockArg, "block")},
			{"include?", formals("value")},
			{"member?", formals("value")},
			{"to_a", formals()},
			{"to_h", formals(blockArg, "block")},
			{"entries", formals()},
			{"sort", formals(blockArg, "block")},
			{"sort_by", formals(blockArg, "block")},
			{"min", formals(optArg, "n")},
			{"max", formals(optArg, "n")},
			{"min_by", formals(blockArg, "block")},
			{"max_by", formals(blockArg, "block")},
			{"minmax", formals()},
			{"sum", formals(optArg, "initial")},
			{"count", formals(optArg, "value", blockArg, "block")},
			{"tally", formals()},
			{"first", formals(optArg, "n")},
			{"group_by", formals(blockArg, "block")},
			{"partition", formals(blockArg, "block")},
			{"zip", formals(varArg, "others")},
			{"take", formals("n")},
			{"take_while", formals(blockArg, "block")},
			{"drop", formals("n")},
			{"drop_while", formals(blockArg, "block")},
			{"all?", formals(optArg, "pattern", blockArg, "block")},
			{"any?", formals(optArg, "pattern", blockArg, "block")},
			{"none?", formals(optArg, "pattern", blockArg, "block")},
			{"one?", formals(optArg, "pattern", blockArg, "block")},
			{"each_entry", formals(blockArg, "block")},
			{"lazy", formals()},
			{"uniq", formals(blockArg, "block")},
		},
	},
	{
		name:     "Array",
		includes: []string{"Enumerable"},
		instance: []coreMethod{
			{"each", formals(blockArg, "block")},
			{"each_index", formals(blockArg, "block")},
			{"push", formals(varArg, "values")},
			{"append", formals(varArg, "values")},
			{"pop", formals(optArg, "n")},
			{"shift", formals(optArg, "n")},
			{"unshift", formals(varArg, "values")},
			{"prepend", formals(varArg, "values")},
			{"<<", formals("value")},
			{"[]", formals("index", optArg, "length")},
			{"[]=", formals("index", "value", optArg, "extra")},
			{"+", formals("other")},
			{"-", formals("other")},
			{"*", formals("times")},
			{"&", formals("other")},
			{"|", formals("other")},
			{"at", formals("index")},
			{"dig", formals("index", varArg, "rest")},
			{"fetch", formals("index", optArg, "default", blockArg, "block")},
			{"length", formals()},
			{"size", formals()},
			{"empty?", formals()},
			{"first", formals(optArg, "n")},
			{"last", formals(optArg, "n")},
			{"map!", formals(blockArg, "block")},
			{"select!", formals(blockArg, "block")},
			{"reject!", formals(blockArg, "block")},
			{"compact", formals()},
			{"compact!", formals()},
			{"flatten", formals(optArg, "depth")},
			{"flatten!", formals(optArg, "depth")},
			{"join", formals(optArg, "separator")},
			{"reverse", formals()},
			{"reverse!", formals()},
			{"rotate", formals(optArg, "count")},
			{"sort!", formals(blockArg, "block")},
			{"uniq!", formals(blockArg, "block")},
			{"index", formals(optArg, "value", blockArg, "block")},
			{"rindex", formals(optArg, "value", blockArg, "block")},
			{"insert", formals("index", varArg, "values")},
			{"delete", formals("value", blockArg, "block")},
			{"delete_at", formals("index")},
			{"delete_if", formals(blockArg, "block")},
			{"clear", formals()},
			{"concat", formals(varArg, "others")},
			{"slice", formals("index", optArg, "length")},
			{"slice!", formals("index", optArg, "length")},
			{"sample", formals(optArg, "n")},
			{"shuffle", formals()},
			{"pack", formals("template")},
			{"product", formals(varArg, "others")},
			{"transpose", formals()},
			{"assoc", formals("key")},
			{"combination", formals("n", blockArg, "block")},
			{"permutation", formals(optArg, "n", blockArg, "block")},
			{"fill", formals(optArg, "value", "start", "length", blockArg, "block")},
			{"values_at", formals(varArg, "indexes")},
			{"freeze", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(optArg, "size", "default", blockArg, "block")},
		},
	},
	{
		name:     "Hash",
		includes: []string{"Enumerable"},
		instance: []coreMethod{
			{"[]", formals("key")},
			{"[]=", formals("key", "value")},
			{"fetch", formals("key", optArg, "default", blockArg, "block")},
			{"store", formals("key", "value")},
			{"dig", formals("key", varArg, "rest")},
			{"key?", formals("key")},
			{"has_key?", formals("key")},
			{"member?", formals("key")},
			{"value?", formals("value")},
			{"has_value?", formals("value")},
			{"keys", formals()},
			{"values", formals()},
			{"values_at", formals(varArg, "keys")},
			{"each", formals(blockArg, "block")},
			{"each_pair", formals(blockArg, "block")},
			{"each_key", formals(blockArg, "block")},
			{"each_value", formals(blockArg, "block")},
			{"merge", formals(varArg, "others", blockArg, "block")},
			{"merge!", formals(varArg, "others", blockArg, "block")},
			{"update", formals(varArg, "others", blockArg, "block")},
			{"delete", formals("key", blockArg, "block")},
			{"delete_if", formals(blockArg, "block")},
			{"empty?", formals()},
			{"length", formals()},
			{"size", formals()},
			{"invert", formals()},
			{"key", formals("value")},
			{"clear", formals()},
			{"default", formals(optArg, "key")},
			{"default=", formals("value")},
			{"transform_keys", formals(blockArg, "block")},
			{"transform_values", formals(blockArg, "block")},
			{"slice", formals(varArg, "keys")},
			{"except", formals(varArg, "keys")},
			{"compact", formals()},
			{"to_a", formals()},
			{"to_h", formals(blockArg, "block")},
			{"freeze", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(optArg, "default", blockArg, "block")},
		},
	},
	{
		name:     "String",
		includes: []string{"Comparable"},
		instance: []coreMethod{
			{"length", formals()},
			{"size", formals()},
			{"bytesize", formals()},
			{"empty?", formals()},
			{"upcase", formals()},
			{"upcase!", formals()},
			{"downcase", formals()},
			{"downcase!", formals()},
			{"capitalize", formals()},
			{"capitalize!", formals()},
			{"swapcase", formals()},
			{"strip", formals()},
			{"strip!", formals()},
			{"lstrip", formals()},
			{"rstrip", formals()},
			{"chomp", formals(optArg, "separator")},
			{"chomp!", formals(optArg, "separator")},
			{"chop", formals()},
			{"chars", formals()},
			{"bytes", formals()},
			{"lines", formals(optArg, "separator")},
			{"split", formals(optArg, "pattern", "limit")},
			{"sub", formals("pattern", optArg, "replacement", blockArg, "block")},
			{"sub!", formals("pattern", optArg, "replacement", blockArg, "block")},
			{"gsub", formals("pattern", optArg, "replacement", blockArg, "block")},
			{"gsub!", formals("pattern", optArg, "replacement", blockArg, "block")},
			{"tr", formals("from", "to")},
			{"delete", formals("chars")},
			{"squeeze", formals(optArg, "chars")},
			{"include?", formals("other")},
			{"start_with?", formals(varArg, "prefixes")},
			{"end_with?", formals(varArg, "suffixes")},
			{"index", formals("pattern", optArg, "start")},
			{"rindex", formals("pattern", optArg, "start")},
			{"slice", formals("index", optArg, "length")},
			{"slice!", formals("index", optArg, "length")},
			{"[]", formals("index", optArg, "length")},
			{"[]=", formals("index", "value", optArg, "extra")},
			{"insert", formals("index", "other")},
			{"concat", formals(varArg, "others")},
			{"<<", formals("value")},
			{"+", formals("other")},
			{"*", formals("times")},
			{"%", formals("args")},
			{"=~", formals("pattern")},
			{"match", formals("pattern", optArg, "start")},
			{"match?", formals("pattern", optArg, "start")},
			{"scan", formals("pattern", blockArg, "block")},
			{"count", formals(varArg, "sets")},
			{"to_i", formals(optArg, "base")},
			{"to_f", formals()},
			{"to_r", formals()},
			{"to_c", formals()},
			{"to_s", formals()},
			{"to_str", formals()},
			{"to_sym", formals()},
			{"intern", formals()},
			{"reverse", formals()},
			{"center", formals("width", optArg, "padding")},
			{"ljust", formals("width", optArg, "padding")},
			{"rjust", formals("width", optArg, "padding")},
			{"each_char", formals(blockArg, "block")},
			{"each_line", formals(optArg, "separator", blockArg, "block")},
			{"each_byte", formals(blockArg, "block")},
			{"ord", formals()},
			{"chr", formals()},
			{"hex", formals()},
			{"oct", formals()},
			{"succ", formals()},
			{"next", formals()},
			{"encode", formals(varArg, "args")},
			{"encoding", formals()},
			{"force_encoding", formals("encoding")},
			{"valid_encoding?", formals()},
			{"unpack", formals("template")},
			{"unpack1", formals("template")},
			{"freeze", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(optArg, "value")},
		},
	},
	{
		name:     "Symbol",
		includes: []string{"Comparable"},
		instance: []coreMethod{
			{"to_s", formals()},
			{"to_sym", formals()},
			{"to_proc", formals()},
			{"id2name", formals()},
			{"length", formals()},
			{"size", formals()},
			{"empty?", formals()},
			{"upcase", formals()},
			{"downcase", formals()},
			{"capitalize", formals()},
			{"succ", formals()},
			{"next", formals()},
			{"[]", formals("index", optArg, "length")},
			{"=~", formals("pattern")},
			{"match?", formals("pattern", optArg, "start")},
		},
	},
	{
		name:     "Numeric",
		includes: []string{"Comparable"},
		instance: []coreMethod{
			{"abs", formals()},
			{"zero?", formals()},
			{"positive?", formals()},
			{"negative?", formals()},
			{"nonzero?", formals()},
			{"integer?", formals()},
			{"finite?", formals()},
			{"infinite?", formals()},
			{"step", formals(optArg, "limit", "step", blockArg, "block")},
			{"coerce", formals("other")},
			{"clamp", formals("min", optArg, "max")},
		},
	},
	{
		name:   "Integer",
		parent: "Numeric",
		instance: []coreMethod{
			{"times", formals(blockArg, "block")},
			{"upto", formals("limit", blockArg, "block")},
			{"downto", formals("limit", blockArg, "block")},
			{"to_s", formals(optArg, "base")},
			{"to_i", formals()},
			{"to_int", formals()},
			{"to_f", formals()},
			{"to_r", formals()},
			{"chr", formals(optArg, "encoding")},
			{"ord", formals()},
			{"succ", formals()},
			{"next", formals()},
			{"pred", formals()},
			{"ceil", formals(optArg, "digits")},
			{"floor", formals(optArg, "digits")},
			{"round", formals(optArg, "digits")},
			{"truncate", formals(optArg, "digits")},
			{"divmod", formals("other")},
			{"div", formals("other")},
			{"modulo", formals("other")},
			{"fdiv", formals("other")},
			{"pow", formals("exponent", optArg, "modulus")},
			{"gcd", formals("other")},
			{"lcm", formals("other")},
			{"even?", formals()},
			{"odd?", formals()},
			{"digits", formals(optArg, "base")},
			{"bit_length", formals()},
			{"+", formals("other")},
			{"-", formals("other")},
			{"*", formals("other")},
			{"/", formals("other")},
			{"%", formals("other")},
			{"**", formals("other")},
			{"<=>", formals("other")},
			{"<", formals("other")},
			{"<=", formals("other")},
			{">", formals("other")},
			{">=", formals("other")},
			{"==", formals("other")},
			{"&", formals("other")},
			{"|", formals("other")},
			{"^", formals("other")},
			{"<<", formals("count")},
			{">>", formals("count")},
			{"~", formals()},
			{"-@", formals()},
			{"+@", formals()},
			{"[]", formals("bit")},
		},
	},
	{
		name:   "Float",
		parent: "Numeric",
		instance: []coreMethod{
			{"to_i", formals()},
			{"to_int", formals()},
			{"to_f", formals()},
			{"to_r", formals()},
			{"to_s", formals()},
			{"round", formals(optArg, "digits")},
			{"ceil", formals(optArg, "digits")},
			{"floor", formals(optArg, "digits")},
			{"truncate", formals(optArg, "digits")},
			{"nan?", formals()},
			{"divmod", formals("other")},
			{"modulo", formals("other")},
			{"fdiv", formals("other")},
			{"+", formals("other")},
			{"-", formals("other")},
			{"*", formals("other")},
			{"/", formals("other")},
			{"%", formals("other")},
			{"**", formals("other")},
			{"<=>", formals("other")},
			{"<", formals("other")},
			{"<=", formals("other")},
			{">", formals("other")},
			{">=", formals("other")},
			{"==", formals("other")},
			{"-@", formals()},
			{"+@", formals()},
		},
		consts: []coreConst{
			{"INFINITY", "Float"},
			{"NAN", "Float"},
			{"EPSILON", "Float"},
			{"MAX", "Float"},
			{"MIN", "Float"},
		},
	},
	{
		name: "Regexp",
		instance: []coreMethod{
			{"match", formals("string", optArg, "start")},
			{"match?", formals("string", optArg, "start")},
			{"=~", formals("string")},
			{"===", formals("string")},
			{"source", formals()},
			{"options", formals()},
			{"names", formals()},
			{"named_captures", formals()},
			{"casefold?", formals()},
		},
		singleton: []coreMethod{
			{"new", formals("pattern", optArg, "options")},
			{"escape", formals("string")},
			{"quote", formals("string")},
			{"union", formals(varArg, "patterns")},
			{"last_match", formals(optArg, "n")},
		},
	},
	{
		name: "MatchData",
		instance: []coreMethod{
			{"[]", formals("index", optArg, "length")},
			{"captures", formals()},
			{"named_captures", formals()},
			{"names", formals()},
			{"pre_match", formals()},
			{"post_match", formals()},
			{"to_a", formals()},
			{"begin", formals("n")},
			{"end", formals("n")},
			{"size", formals()},
			{"length", formals()},
		},
	},
	{
		name:     "Range",
		includes: []string{"Enumerable"},
		instance: []coreMethod{
			{"each", formals(blockArg, "block")},
			{"begin", formals()},
			{"end", formals()},
			{"first", formals(optArg, "n")},
			{"last", formals(optArg, "n")},
			{"min", formals(optArg, "n")},
			{"max", formals(optArg, "n")},
			{"size", formals()},
			{"count", formals(optArg, "value", blockArg, "block")},
			{"to_a", formals()},
			{"include?", formals("value")},
			{"cover?", formals("value")},
			{"member?", formals("value")},
			{"step", formals("n", blockArg, "block")},
			{"exclude_end?", formals()},
			{"===", formals("value")},
		},
		singleton: []coreMethod{
			{"new", formals("first", "last", optArg, "exclusive")},
		},
	},
	{
		name: "NilClass",
		instance: []coreMethod{
			{"nil?", formals()},
			{"to_a", formals()},
			{"to_h", formals()},
			{"to_s", formals()},
			{"to_i", formals()},
			{"to_f", formals()},
			{"inspect", formals()},
			{"&", formals("other")},
			{"|", formals("other")},
			{"^", formals("other")},
		},
	},
	{
		name: "TrueClass",
		instance: []coreMethod{
			{"&", formals("other")},
			{"|", formals("other")},
			{"^", formals("other")},
			{"to_s", formals()},
			{"inspect", formals()},
		},
	},
	{
		name: "FalseClass",
		instance: []coreMethod{
			{"&", formals("other")},
			{"|", formals("other")},
			{"^", formals("other")},
			{"to_s", formals()},
			{"inspect", formals()},
		},
	},
	{
		name: "Proc",
		instance: []coreMethod{
			{"call", formals(varArg, "args")},
			{"[]", formals(varArg, "args")},
			{"yield", formals(varArg, "args")},
			{"arity", formals()},
			{"curry", formals(optArg, "arity")},
			{"lambda?", formals()},
			{"to_proc", formals()},
			{"parameters", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(blockArg, "block")},
		},
	},
	{
		name: "Method",
		instance: []coreMethod{
			{"call", formals(varArg, "args")},
			{"arity", formals()},
			{"name", formals()},
			{"owner", formals()},
			{"receiver", formals()},
			{"unbind", formals()},
			{"to_proc", formals()},
			{"parameters", formals()},
			{"source_location", formals()},
		},
	},
	{
		name: "Exception",
		instance: []coreMethod{
			{"message", formals()},
			{"full_message", formals(varArg, "options")},
			{"backtrace", formals()},
			{"backtrace_locations", formals()},
			{"cause", formals()},
			{"exception", formals(optArg, "message")},
			{"to_s", formals()},
			{"inspect", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(optArg, "message")},
			{"exception", formals(optArg, "message")},
		},
	},
	{name: "ScriptError", parent: "Exception"},
	{name: "LoadError", parent: "ScriptError"},
	{name: "NotImplementedError", parent: "ScriptError"},
	{name: "SyntaxError", parent: "ScriptError"},
	{name: "StandardError", parent: "Exception"},
	{name: "ArgumentError", parent: "StandardError"},
	{name: "FrozenError", parent: "RuntimeError"},
	{name: "IOError", parent: "StandardError"},
	{name: "EOFError", parent: "IOError"},
	{name: "IndexError", parent: "StandardError"},
	{name: "KeyError", parent: "IndexError"},
	{name: "StopIteration", parent: "IndexError"},
	{
		name:   "NameError",
		parent: "StandardError",
		instance: []coreMethod{
			{"name", formals()},
			{"receiver", formals()},
		},
	},
	{name: "NoMethodError", parent: "NameError"},
	{name: "RangeError", parent: "StandardError"},
	{name: "RegexpError", parent: "StandardError"},
	{name: "RuntimeError", parent: "StandardError"},
	{name: "SecurityError", parent: "Exception"},
	{name: "ThreadError", parent: "StandardError"},
	{name: "TypeError", parent: "StandardError"},
	{name: "ZeroDivisionError", parent: "StandardError"},
	{name: "SystemExit", parent: "Exception"},
	{name: "SignalException", parent: "Exception"},
	{name: "Interrupt", parent: "SignalException"},
	{
		name: "Struct",
		instance: []coreMethod{
			{"members", formals()},
			{"to_a", formals()},
			{"to_h", formals()},
			{"[]", formals("key")},
			{"[]=", formals("key", "value")},
			{"each", formals(blockArg, "block")},
		},
		singleton: []coreMethod{
			{"new", formals(varArg, "names", blockArg, "block")},
		},
	},
	{
		name:   "Math",
		module: true,
		singleton: []coreMethod{
			{"sqrt", formals("x")},
			{"cbrt", formals("x")},
			{"sin", formals("x")},
			{"cos", formals("x")},
			{"tan", formals("x")},
			{"asin", formals("x")},
			{"acos", formals("x")},
			{"atan", formals("x")},
			{"atan2", formals("y", "x")},
			{"sinh", formals("x")},
			{"cosh", formals("x")},
			{"tanh", formals("x")},
			{"exp", formals("x")},
			{"log", formals("x", optArg, "base")},
			{"log2", formals("x")},
			{"log10", formals("x")},
			{"hypot", formals("x", "y")},
			{"pow", formals("x", "y")},
		},
		consts: []coreConst{
			{"PI", "Float"},
			{"E", "Float"},
		},
	},
	{
		name:     "Time",
		includes: []string{"Comparable"},
		instance: []coreMethod{
			{"year", formals()},
			{"month", formals()},
			{"mon", formals()},
			{"day", formals()},
			{"hour", formals()},
			{"min", formals()},
			{"sec", formals()},
			{"usec", formals()},
			{"nsec", formals()},
			{"wday", formals()},
			{"yday", formals()},
			{"zone", formals()},
			{"to_i", formals()},
			{"to_f", formals()},
			{"to_s", formals()},
			{"to_a", formals()},
			{"strftime", formals("format")},
			{"+", formals("seconds")},
			{"-", formals("other")},
			{"<=>", formals("other")},
			{"utc?", formals()},
			{"utc", formals()},
			{"getutc", formals()},
			{"localtime", formals(optArg, "offset")},
			{"getlocal", formals(optArg, "offset")},
			{"monday?", formals()},
			{"sunday?", formals()},
		},
		singleton: []coreMethod{
			{"now", formals()},
			{"at", formals("seconds", optArg, "microseconds")},
			{"local", formals("year", varArg, "rest")},
			{"mktime", formals("year", varArg, "rest")},
			{"utc", formals("year", varArg, "rest")},
			{"gm", formals("year", varArg, "rest")},
		},
	},
	{
		name:     "IO",
		includes: []string{"Enumerable"},
		instance: []coreMethod{
			{"read", formals(optArg, "length", "buffer")},
			{"readline", formals(optArg, "separator")},
			{"readlines", formals(optArg, "separator")},
			{"write", formals(varArg, "strings")},
			{"puts", formals(varArg, "args")},
			{"print", formals(varArg, "args")},
			{"printf", formals("format", varArg, "args")},
			{"gets", formals(optArg, "separator")},
			{"getc", formals()},
			{"each_line", formals(optArg, "separator", blockArg, "block")},
			{"each_char", formals(blockArg, "block")},
			{"each_byte", formals(blockArg, "block")},
			{"close", formals()},
			{"closed?", formals()},
			{"flush", formals()},
			{"sync", formals()},
			{"sync=", formals("value")},
			{"fileno", formals()},
			{"eof?", formals()},
			{"rewind", formals()},
			{"seek", formals("offset", optArg, "whence")},
			{"pos", formals()},
			{"tty?", formals()},
		},
		singleton: []coreMethod{
			{"read", formals("name", varArg, "args")},
			{"write", formals("name", "string", varArg, "args")},
			{"foreach", formals("name", optArg, "separator", blockArg, "block")},
			{"readlines", formals("name", varArg, "args")},
		},
	},
	{
		name:   "File",
		parent: "IO",
		instance: []coreMethod{
			{"path", formals()},
			{"size", formals()},
			{"mtime", formals()},
			{"atime", formals()},
			{"ctime", formals()},
			{"truncate", formals("length")},
		},
		singleton: []coreMethod{
			{"open", formals("name", varArg, "args", blockArg, "block")},
			{"new", formals("name", varArg, "args")},
			{"read", formals("name", varArg, "args")},
			{"write", formals("name", "string", varArg, "args")},
			{"readlines", formals("name", varArg, "args")},
			{"exist?", formals("path")},
			{"exists?", formals("path")},
			{"file?", formals("path")},
			{"directory?", formals("path")},
			{"readable?", formals("path")},
			{"writable?", formals("path")},
			{"executable?", formals("path")},
			{"symlink?", formals("path")},
			{"basename", formals("path", optArg, "suffix")},
			{"dirname", formals("path")},
			{"extname", formals("path")},
			{"join", formals(varArg, "parts")},
			{"split", formals("path")},
			{"expand_path", formals("path", optArg, "base")},
			{"absolute_path", formals("path", optArg, "base")},
			{"realpath", formals("path", optArg, "base")},
			{"delete", formals(varArg, "paths")},
			{"unlink", formals(varArg, "paths")},
			{"rename", formals("from", "to")},
			{"size", formals("path")},
			{"stat", formals("path")},
			{"chmod", formals("mode", varArg, "paths")},
			{"mtime", formals("path")},
			{"foreach", formals("name", optArg, "separator", blockArg, "block")},
		},
	},
	{
		name:     "Dir",
		includes: []string{"Enumerable"},
		instance: []coreMethod{
			{"each", formals(blockArg, "block")},
			{"path", formals()},
			{"read", formals()},
			{"close", formals()},
		},
		singleton: []coreMethod{
			{"entries", formals("path")},
			{"children", formals("path")},
			{"glob", formals("pattern", optArg, "flags", blockArg, "block")},
			{"[]", formals(varArg, "patterns")},
			{"exist?", formals("path")},
			{"mkdir", formals("path", optArg, "mode")},
			{"rmdir", formals("path")},
			{"delete", formals("path")},
			{"home", formals(optArg, "user")},
			{"pwd", formals()},
			{"getwd", formals()},
			{"chdir", formals(optArg, "path", blockArg, "block")},
			{"foreach", formals("path", blockArg, "block")},
			{"tmpdir", formals()},
		},
	},
	{
		name:   "Process",
		module: true,
		singleton: []coreMethod{
			{"pid", formals()},
			{"ppid", formals()},
			{"exit", formals(optArg, "status")},
			{"exit!", formals(optArg, "status")},
			{"spawn", formals(varArg, "args")},
			{"fork", formals(blockArg, "block")},
			{"wait", formals(optArg, "pid", "flags")},
			{"waitpid", formals(optArg, "pid", "flags")},
			{"kill", formals("signal", varArg, "pids")},
			{"clock_gettime", formals("clock", optArg, "unit")},
		},
	},
	{
		name: "Thread",
		instance: []coreMethod{
			{"join", formals(optArg, "limit")},
			{"value", formals()},
			{"alive?", formals()},
			{"status", formals()},
			{"kill", formals()},
			{"exit", formals()},
			{"wakeup", formals()},
			{"run", formals()},
			{"name", formals()},
			{"name=", formals("value")},
			{"[]", formals("key")},
			{"[]=", formals("key", "value")},
		},
		singleton: []coreMethod{
			{"new", formals(varArg, "args", blockArg, "block")},
			{"start", formals(varArg, "args", blockArg, "block")},
			{"current", formals()},
			{"main", formals()},
			{"list", formals()},
			{"pass", formals()},
			{"stop", formals()},
		},
	},
	{
		name: "Mutex",
		instance: []coreMethod{
			{"synchronize", formals(blockArg, "block")},
			{"lock", formals()},
			{"unlock", formals()},
			{"try_lock", formals()},
			{"locked?", formals()},
			{"owned?", formals()},
			{"sleep", formals(optArg, "timeout")},
		},
		singleton: []coreMethod{
			{"new", formals()},
		},
	},
	{
		name: "Random",
		instance: []coreMethod{
			{"rand", formals(optArg, "max")},
			{"bytes", formals("size")},
			{"seed", formals()},
		},
		singleton: []coreMethod{
			{"new", formals(optArg, "seed")},
			{"rand", formals(optArg, "max")},
			{"new_seed", formals()},
			{"bytes", formals("size")},
		},
	},
	{
		name:   "GC",
		module: true,
		singleton: []coreMethod{
			{"start", formals(varArg, "options")},
			{"enable", formals()},
			{"disable", formals()},
			{"stat", formals(optArg, "key")},
			{"count", formals()},
			{"compact", formals()},
		},
	},
	{
		name:   "ObjectSpace",
		module: true,
		singleton: []coreMethod{
			{"each_object", formals(optArg, "class", blockArg, "block")},
			{"count_objects", formals(optArg, "result")},
			{"garbage_collect", formals()},
		},
	},
	{
		name:   "Marshal",
		module: true,
		singleton: []coreMethod{
			{"dump", formals("value", optArg, "limit")},
			{"load", formals("source", optArg, "proc")},
		},
	},
	{
		name:   "Signal",
		module: true,
		singleton: []coreMethod{
			{"trap", formals("signal", optArg, "command", blockArg, "block")},
			{"list", formals()},
			{"signame", formals("number")},
		},
	},
}
