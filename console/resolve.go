// Copyright © 2024 The ruby-lint authors

package console

import (
	"fmt"
	"strings"

	"github.com/h2dkb/ruby-lint/definition"
)

func (c *console) resolve(path string) (*definition.Definition, error) {
	return resolvePath(c.result.Machine.Root(), path)
}

// ResolvePath resolves a Ruby-notation query path against a graph root, the
// same resolution the interactive commands use.
func ResolvePath(root *definition.Definition, path string) (*definition.Definition, error) {
	return resolvePath(root, path)
}

// resolvePath walks a query path to a definition.  Paths use Ruby notation:
// Foo::Bar names constants, Foo#m an instance method, Foo.m a singleton
// method.  Sigiled member names (Foo#@count) address variables, and bare
// names try constants first and then variables of the top level.
func resolvePath(root *definition.Definition, path string) (*definition.Definition, error) {
	if path == "" {
		return nil, fmt.Errorf("missing path argument")
	}

	rest, member, memberKind := splitMember(path)

	cur := root
	if rest != "" {
		segs := strings.Split(rest, "::")
		for i, seg := range segs {
			if seg == "" {
				if i == 0 {
					// A leading :: anchors at the root, where we already are.
					continue
				}
				return nil, fmt.Errorf("bad path %q", path)
			}
			next := cur.Lookup(definition.KindConst, seg)
			if next == nil && i == 0 && len(segs) == 1 {
				next = lookupBare(cur, seg)
			}
			if next == nil {
				return nil, fmt.Errorf("nothing named %s under %s", seg, cur.Name)
			}
			cur = next
		}
	}
	if member == "" {
		return cur, nil
	}

	kind := memberKind
	if sigil := sigilKind(member); sigil != definition.KindInvalid {
		kind = sigil
	}
	def := cur.Lookup(kind, member)
	if def == nil {
		return nil, fmt.Errorf("no %s %s on %s", kind, member, cur.Name)
	}
	return def, nil
}

// splitMember separates the trailing #name or .name member from a path.
func splitMember(path string) (rest, name string, kind definition.Kind) {
	if i := strings.IndexByte(path, '#'); i >= 0 {
		return path[:i], path[i+1:], definition.KindInstanceMethod
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:], definition.KindMethod
	}
	return path, "", definition.KindInvalid
}

// sigilKind maps a variable sigil to its definition kind.
func sigilKind(name string) definition.Kind {
	switch {
	case strings.HasPrefix(name, "@@"):
		return definition.KindCVar
	case strings.HasPrefix(name, "@"):
		return definition.KindIVar
	case strings.HasPrefix(name, "$"):
		return definition.KindGVar
	}
	return definition.KindInvalid
}

// lookupBare tries the kinds a bare top level name can mean.
func lookupBare(scope *definition.Definition, name string) *definition.Definition {
	if sigil := sigilKind(name); sigil != definition.KindInvalid {
		return scope.Lookup(sigil, name)
	}
	for _, kind := range []definition.Kind{
		definition.KindLVar,
		definition.KindInstanceMethod,
		definition.KindMethod,
	} {
		if def := scope.Lookup(kind, name); def != nil {
			return def
		}
	}
	return nil
}
