// Copyright © 2024 The ruby-lint authors

package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/diagnostic"
)

// console binds the loaded result to the command loop.
type console struct {
	result *analysis.Result
	out    io.Writer
}

// dispatch runs one command line and reports whether the session is over.
func (c *console) dispatch(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "exit", "quit":
		return true
	case "help":
		c.help()
	case "diag":
		c.diag()
	case "lookup":
		c.lookup(arg)
	case "members":
		c.members(arg)
	case "calls":
		c.calls(arg)
	case "callers":
		c.callers(arg)
	default:
		fmt.Fprintf(c.out, "unknown command %q, try help\n", name)
	}
	return false
}

func (c *console) help() {
	fmt.Fprint(c.out, `Commands:
  lookup PATH          show one definition (Foo::Bar, Foo#method, Foo.method, $global)
  members PATH [KIND]  list the member table of a definition
  calls PATH           list the calls a scope makes
  callers PATH         list the sites calling a method
  diag                 show the diagnostics of the loaded file
  help                 this text
  exit                 leave the console
`)
}

func (c *console) diag() {
	if len(c.result.Diagnostics) == 0 {
		fmt.Fprintln(c.out, "no diagnostics")
		return
	}
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	if err := r.RenderAll(c.out, c.result.Diagnostics); err != nil {
		fmt.Fprintln(c.out, err)
	}
}

func (c *console) lookup(arg string) {
	def, err := c.resolve(arg)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.describe(def)
}

func (c *console) describe(def *definition.Definition) {
	fmt.Fprintf(c.out, "%s %s\n", def.Kind, def.QualifiedName())
	switch {
	case def.IsCore():
		fmt.Fprintln(c.out, "  source      built-in")
	case def.Source != nil:
		fmt.Fprintf(c.out, "  source      %s\n", def.Source)
	}
	if def.IsMethod() {
		fmt.Fprintf(c.out, "  visibility  %s\n", def.Visibility)
		if def.Signature != nil {
			fmt.Fprintf(c.out, "  signature   %s\n", def.Signature)
			fmt.Fprintf(c.out, "  arity       %s\n", arityString(def.Signature))
		}
	}
	if def.Value != nil {
		fmt.Fprintf(c.out, "  value       %s\n", def.Value)
	}
	fmt.Fprintf(c.out, "  references  %d\n", def.References)
	if len(def.Parents) > 0 {
		names := make([]string, 0, len(def.Parents))
		for _, p := range def.Parents {
			names = append(names, p.String())
		}
		fmt.Fprintf(c.out, "  parents     %s\n", strings.Join(names, ", "))
	}
}

func (c *console) members(arg string) {
	path, kindName, hasKind := strings.Cut(arg, " ")
	def, err := c.resolve(path)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	var filter definition.Kind
	if hasKind {
		kindName = strings.TrimSpace(kindName)
		k, ok := memberKinds[kindName]
		if !ok {
			fmt.Fprintf(c.out, "unknown kind %q (known: %s)\n", kindName, strings.Join(memberKindNames(), ", "))
			return
		}
		filter = k
	}
	n := 0
	for _, key := range def.Keys() {
		if hasKind && key.Kind != filter {
			continue
		}
		if !hasKind && key.Kind == definition.KindKeyword {
			continue
		}
		fmt.Fprintf(c.out, "%-16s %s\n", key.Kind, key.Name)
		n++
	}
	if n == 0 {
		fmt.Fprintln(c.out, "no members")
	}
}

func (c *console) calls(arg string) {
	def, err := c.resolve(arg)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	if len(def.Calls) == 0 {
		fmt.Fprintln(c.out, "no calls")
		return
	}
	for _, site := range def.Calls {
		fmt.Fprintf(c.out, "%-24s %s\n", siteLocation(site), site.Definition.QualifiedName())
	}
}

func (c *console) callers(arg string) {
	def, err := c.resolve(arg)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	if len(def.Callers) == 0 {
		fmt.Fprintln(c.out, "no callers")
		return
	}
	for _, site := range def.Callers {
		fmt.Fprintf(c.out, "%-24s %s\n", siteLocation(site), callerName(site.Definition))
	}
}

func siteLocation(site definition.CallSite) string {
	if site.Source == nil {
		return "-"
	}
	return site.Source.String()
}

// callerName names a calling scope; the root scope reads as the file top
// level.
func callerName(def *definition.Definition) string {
	if def == nil {
		return "?"
	}
	if def.Kind == definition.KindRoot {
		return "(top level)"
	}
	return def.QualifiedName()
}

// arityString renders the accepted positional argument counts.
func arityString(sig *definition.Signature) string {
	min, max := sig.MinArity(), sig.MaxArity()
	switch {
	case max < 0:
		return fmt.Sprintf("at least %d", min)
	case min == max:
		return fmt.Sprintf("%d", min)
	default:
		return fmt.Sprintf("%d..%d", min, max)
	}
}

// memberKinds maps the KIND argument of the members command to member table
// kinds.
var memberKinds = map[string]definition.Kind{
	"const":   definition.KindConst,
	"method":  definition.KindMethod,
	"imethod": definition.KindInstanceMethod,
	"lvar":    definition.KindLVar,
	"ivar":    definition.KindIVar,
	"cvar":    definition.KindCVar,
	"gvar":    definition.KindGVar,
	"member":  definition.KindMember,
}

func memberKindNames() []string {
	names := make([]string, 0, len(memberKinds))
	for name := range memberKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
