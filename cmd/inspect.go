// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/h2dkb/ruby-lint/analysis"
	"github.com/h2dkb/ruby-lint/console"
	"github.com/h2dkb/ruby-lint/definition"
)

var (
	inspectJSON bool
	inspectPath string
	inspectAll  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] FILE",
	Short: "Dump the definition graph of a file",
	Long: `Dump the definition graph of a file.

The file is analyzed and the resulting graph is written as an indented tree,
one definition per line with its signature, visibility, and source location.
Built-in definitions the file merely references are hidden unless --all is
given; built-in classes the file re-opens stay visible.

Use --path to dump a single subtree. Paths use Ruby notation:
  Foo::Bar       a nested constant
  Foo#method     an instance method
  Foo.method     a singleton method
  $stdout        a global variable

Examples:
  ruby-lint inspect app.rb                       # Dump the whole graph
  ruby-lint inspect --path Order app.rb          # Dump one class
  ruby-lint inspect --path Order#total app.rb    # Dump one method
  ruby-lint inspect --json app.rb > graph.json   # Machine readable form`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := analysis.NewLinter().AnalyzeFile(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ruby-lint inspect: %v\n", err)
			os.Exit(2)
		}
		def := result.Machine.Root()
		if inspectPath != "" {
			def, err = console.ResolvePath(def, inspectPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ruby-lint inspect: %v\n", err)
				os.Exit(2)
			}
		}
		if inspectJSON {
			err = writeGraphJSON(os.Stdout, def)
		} else {
			err = writeGraphTree(os.Stdout, def)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	},
}

// writeGraphTree dumps a definition and its member table as an indented
// tree.  Revisited definitions (aliases, re-opened scopes) print without
// their members, so cyclic graphs terminate.
func writeGraphTree(w io.Writer, root *definition.Definition) error {
	seen := make(map[*definition.Definition]bool)
	var walk func(def *definition.Definition, depth int) error
	walk = func(def *definition.Definition, depth int) error {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describeDefinition(def)); err != nil {
			return err
		}
		if seen[def] {
			return nil
		}
		seen[def] = true
		for _, member := range graphMembers(def) {
			if err := walk(member, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, 0)
}

// describeDefinition renders the one line form of a definition.
func describeDefinition(def *definition.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", def.Kind, def.Name)
	if def.IsMethod() {
		if def.Signature != nil {
			sb.WriteString(def.Signature.String())
		}
		if def.Visibility != definition.Public {
			fmt.Fprintf(&sb, " %s", def.Visibility)
		}
	}
	if def.Value != nil {
		fmt.Fprintf(&sb, " = %s", def.Value)
	}
	switch {
	case def.IsCore():
		sb.WriteString("  (built-in)")
	case def.Source != nil:
		fmt.Fprintf(&sb, "  %s", def.Source)
	}
	return sb.String()
}

// graphNode is the JSON form of one definition.
type graphNode struct {
	Kind       string       `json:"kind"`
	Name       string       `json:"name"`
	Source     string       `json:"source,omitempty"`
	Builtin    bool         `json:"builtin,omitempty"`
	Signature  string       `json:"signature,omitempty"`
	Visibility string       `json:"visibility,omitempty"`
	Value      string       `json:"value,omitempty"`
	References int          `json:"references,omitempty"`
	Members    []*graphNode `json:"members,omitempty"`
}

func writeGraphJSON(w io.Writer, root *definition.Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildGraphNode(root, make(map[*definition.Definition]bool)))
}

func buildGraphNode(def *definition.Definition, seen map[*definition.Definition]bool) *graphNode {
	node := &graphNode{
		Kind:       def.Kind.String(),
		Name:       def.Name,
		Builtin:    def.IsCore(),
		References: def.References,
	}
	if !def.IsCore() && def.Source != nil {
		node.Source = def.Source.String()
	}
	if def.IsMethod() {
		if def.Signature != nil {
			node.Signature = def.Signature.String()
		}
		if def.Visibility != definition.Public {
			node.Visibility = def.Visibility.String()
		}
	}
	if def.Value != nil {
		node.Value = def.Value.String()
	}
	if seen[def] {
		return node
	}
	seen[def] = true
	for _, member := range graphMembers(def) {
		node.Members = append(node.Members, buildGraphNode(member, seen))
	}
	return node
}

// graphMembers returns the members a dump shows, in insertion order.
// Keywords never show; built-ins only show with --all or when analyzed code
// extended them.
func graphMembers(def *definition.Definition) []*definition.Definition {
	var members []*definition.Definition
	for _, key := range def.Keys() {
		if key.Kind == definition.KindKeyword {
			continue
		}
		member := def.LookupLocal(key.Kind, key.Name)
		if member == nil {
			continue
		}
		if !inspectAll && member.IsCore() && !extendsCore(member, make(map[*definition.Definition]bool)) {
			continue
		}
		members = append(members, member)
	}
	return members
}

// extendsCore reports whether a built-in definition holds any member that
// came from analyzed source, as after re-opening a core class.
func extendsCore(def *definition.Definition, seen map[*definition.Definition]bool) bool {
	if seen[def] {
		return false
	}
	seen[def] = true
	for _, member := range def.List() {
		if member == nil {
			continue
		}
		if !member.IsCore() {
			return true
		}
		if extendsCore(member, seen) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false,
		"Output the graph as JSON.")
	inspectCmd.Flags().StringVar(&inspectPath, "path", "",
		"Dump only the definition at this path (e.g. Foo::Bar or Foo#method).")
	inspectCmd.Flags().BoolVar(&inspectAll, "all", false,
		"Include built-in definitions in the dump.")
}
