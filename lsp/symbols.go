// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request. The outline is the definition graph filtered to members declared
// in the requested file, with classes and modules contributing their own
// members as children.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	result := doc.result
	doc.mu.Unlock()
	if result == nil {
		return nil, nil
	}

	docPath := uriToPath(params.TextDocument.URI)
	seen := make(map[*definition.Definition]bool)

	// Return as []DocumentSymbol (the preferred hierarchical form).
	return collectSymbols(result.Machine.Root(), docPath, seen), nil
}

// collectSymbols gathers the outline entries of one scope, in declaration
// order. The seen set guards against cycles from re-opened classes whose
// graph edges point back up.
func collectSymbols(scope *definition.Definition, docPath string, seen map[*definition.Definition]bool) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	// Synthesized members, like the constructor a def initialize produces,
	// share their span with the declaration that produced them; only the
	// first entry per span is reported.
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

		r := rubyToLSPRange(member.Source, len(member.Name))
		sym := protocol.DocumentSymbol{
			Name:           member.Name,
			Detail:         symbolDetail(member),
			Kind:           mapDefinitionKind(member.Kind),
			Range:          r,
			SelectionRange: r,
		}
		if member.Kind == definition.KindClass || member.Kind == definition.KindModule {
			sym.Children = collectSymbols(member, docPath, seen)
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

// outlineKind reports whether definitions of this kind belong in the
// document outline. Locals and block scopes stay out.
func outlineKind(kind definition.Kind) bool {
	switch kind {
	case definition.KindClass, definition.KindModule,
		definition.KindMethod, definition.KindInstanceMethod,
		definition.KindConst, definition.KindIVar, definition.KindCVar,
		definition.KindGVar:
		return true
	}
	return false
}

// symbolDetail builds a short detail string (e.g., method signature).
func symbolDetail(def *definition.Definition) *string {
	if !def.IsMethod() || def.Signature == nil {
		return nil
	}
	s := def.Signature.String()
	return &s
}
