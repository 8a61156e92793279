// Copyright © 2024 The ruby-lint authors

package console

import (
	"sort"
	"strings"

	"github.com/h2dkb/ruby-lint/definition"
)

// commandNames complete at the start of the line.
var commandNames = []string{"callers", "calls", "diag", "exit", "help", "lookup", "members", "quit"}

// pathCompleter implements readline.AutoCompleter over the definition
// graph: command names at the start of the line, graph paths after.
type pathCompleter struct {
	root *definition.Definition
}

func (c *pathCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed, backwards from the cursor.
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var candidates []string
	if start == 0 {
		candidates = matchPrefix(commandNames, prefix)
	} else {
		candidates = c.pathCandidates(prefix)
	}
	if len(candidates) == 0 {
		return nil, 0
	}
	sort.Strings(candidates)

	// Each completion entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

// pathCandidates completes the last segment of a graph path.
func (c *pathCompleter) pathCandidates(prefix string) []string {
	head, tail, sep := splitLastSep(prefix)
	container := c.root
	if sep != "" {
		if head == "" {
			return nil
		}
		def, err := resolvePath(c.root, head)
		if err != nil {
			return nil
		}
		container = def
	}

	var kinds []definition.Kind
	switch sep {
	case "#":
		kinds = []definition.Kind{definition.KindInstanceMethod, definition.KindIVar, definition.KindCVar}
	case ".":
		kinds = []definition.Kind{definition.KindMethod}
	default:
		kinds = []definition.Kind{definition.KindConst}
		if strings.HasPrefix(tail, "$") {
			kinds = []definition.Kind{definition.KindGVar}
		}
	}

	base := prefix[:len(prefix)-len(tail)]
	seen := make(map[string]bool)
	var out []string
	for _, kind := range kinds {
		for _, member := range container.ListKind(kind) {
			if strings.HasPrefix(member.Name, tail) && !seen[member.Name] {
				seen[member.Name] = true
				out = append(out, base+member.Name)
			}
		}
	}
	return out
}

// splitLastSep splits a path at its last :: or # or . separator.
func splitLastSep(s string) (head, tail, sep string) {
	best, bestSep, bestLen := -1, "", 0
	if i := strings.LastIndex(s, "::"); i > best {
		best, bestSep, bestLen = i, "::", 2
	}
	if i := strings.LastIndexByte(s, '#'); i > best {
		best, bestSep, bestLen = i, "#", 1
	}
	if i := strings.LastIndexByte(s, '.'); i > best {
		best, bestSep, bestLen = i, ".", 1
	}
	if best < 0 {
		return "", s, ""
	}
	return s[:best], s[best+bestLen:], bestSep
}

func matchPrefix(names []string, prefix string) []string {
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}
