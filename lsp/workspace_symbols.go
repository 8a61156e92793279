// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"sort"
	"strings"

	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request. The searchable
// surface is the set of open documents; their definition graphs are
// flattened and matched against the query.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)

	docs := s.docs.All()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	var results []protocol.SymbolInformation
	for _, doc := range docs {
		s.ensureAnalysis(doc)

		doc.mu.Lock()
		result := doc.result
		doc.mu.Unlock()
		if result == nil {
			continue
		}

		seen := make(map[*definition.Definition]bool)
		collectSymbolInfo(result.Machine.Root(), doc.URI, uriToPath(doc.URI), query, "", seen, &results)
	}
	return results, nil
}

// collectSymbolInfo flattens one scope of the graph into SymbolInformation
// entries, descending into classes and modules with their qualified name as
// the container.
func collectSymbolInfo(scope *definition.Definition, uri, docPath, query, container string, seen map[*definition.Definition]bool, out *[]protocol.SymbolInformation) {
	seenLoc := make(map[[2]int]bool)
	for _, member := range scope.List() {
		if seen[member] {
			continue
		}
		seen[member] = true

		if !outlineKind(member.Kind) || member.IsCore() {
			continue
		}
		if member.Source == nil || member.Source.Line == 0 || member.Source.File != docPath {
			continue
		}
		locKey := [2]int{member.Source.Line, member.Source.Col}
		if seenLoc[locKey] {
			continue
		}
		seenLoc[locKey] = true

		if matchesQuery(member.Name, query) {
			si := protocol.SymbolInformation{
				Name: member.Name,
				Kind: mapDefinitionKind(member.Kind),
				Location: protocol.Location{
					URI:   uri,
					Range: rubyToLSPRange(member.Source, len(member.Name)),
				},
			}
			if container != "" {
				c := container
				si.ContainerName = &c
			}
			*out = append(*out, si)
		}

		if member.Kind == definition.KindClass || member.Kind == definition.KindModule {
			collectSymbolInfo(member, uri, docPath, query, member.QualifiedName(), seen, out)
		}
	}
}

// matchesQuery performs case-insensitive substring matching. An empty query
// matches everything (per LSP spec: empty string requests all symbols).
func matchesQuery(name, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), lowerQuery)
}
