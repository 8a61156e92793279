// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"path/filepath"
	"sort"

	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/parser/token"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
// Reference sites come from the node association table of the latest engine
// run: every node resolved to the chosen definition is a use of it.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	line := int(params.Position.Line)
	col := int(params.Position.Character)

	_, def := definitionAtPosition(doc, line, col)
	if def == nil || !navigableKind(def.Kind) {
		return nil, nil
	}

	var locs []protocol.Location

	// Optionally include the declaration.
	if params.Context.IncludeDeclaration && def.Source != nil && !def.IsCore() {
		locs = append(locs, protocol.Location{
			URI:   s.resolveURI(params.TextDocument.URI, def.Source.File),
			Range: rubyToLSPRange(def.Source, len(def.Name)),
		})
	}

	for _, loc := range referenceSites(doc, def) {
		locs = append(locs, protocol.Location{
			URI:   s.resolveURI(params.TextDocument.URI, loc.File),
			Range: rubyToLSPRange(loc, len(def.Name)),
		})
	}

	return locs, nil
}

// referenceSites collects the source spans of every node associated with
// def, except the declaration itself. An assignment associates both the
// whole assignment node and its target token, so spans that strictly
// contain another collected span are dropped in favor of the tighter one.
func referenceSites(doc *Document, def *definition.Definition) []*token.Location {
	doc.mu.Lock()
	result := doc.result
	doc.mu.Unlock()
	if result == nil {
		return nil
	}

	var spans []*token.Location
	for node, d := range result.Machine.Associations() {
		if d != def {
			continue
		}
		loc := node.Source
		if loc == nil || loc.Line == 0 || loc == def.Source {
			continue
		}
		// The assignment that declared a variable associates to it as a
		// whole; it is the declaration, not a use.
		if def.Source != nil && (sameSpan(loc, def.Source) || spanContains(loc, def.Source)) {
			continue
		}
		spans = append(spans, loc)
	}

	var sites []*token.Location
	for _, loc := range spans {
		wraps := false
		for _, other := range spans {
			if loc != other && spanContains(loc, other) {
				wraps = true
				break
			}
		}
		if !wraps {
			sites = append(sites, loc)
		}
	}

	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Line != sites[j].Line {
			return sites[i].Line < sites[j].Line
		}
		return sites[i].Col < sites[j].Col
	})
	return sites
}

// sameSpan reports whether two locations cover the same source text.
func sameSpan(a, b *token.Location) bool {
	return a.Line == b.Line && a.Col == b.Col &&
		a.EndLine == b.EndLine && a.EndCol == b.EndCol
}

// spanContains reports whether a strictly contains b.
func spanContains(a, b *token.Location) bool {
	if a.EndLine == 0 || b.EndLine == 0 {
		return false
	}
	if a.Line == b.Line && a.Col == b.Col && a.EndLine == b.EndLine && a.EndCol == b.EndCol {
		return false
	}
	startsBefore := a.Line < b.Line || (a.Line == b.Line && a.Col <= b.Col)
	endsAfter := a.EndLine > b.EndLine || (a.EndLine == b.EndLine && a.EndCol >= b.EndCol)
	return startsBefore && endsAfter
}

// resolveURI resolves a file path from the engine into a document URI.
// If the file matches the current document, the original URI is returned.
func (s *Server) resolveURI(currentURI, file string) string {
	if file == "" || file == uriToPath(currentURI) {
		return currentURI
	}
	path := file
	if !filepath.IsAbs(path) && s.rootPath != "" {
		path = filepath.Join(s.rootPath, path)
	}
	return pathToURI(path)
}
