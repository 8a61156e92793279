// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
// Candidates are the definitions visible from the scope enclosing the
// cursor; the typed prefix selects the member kind the way Ruby sigils do,
// so @x offers instance variables and a capitalized prefix offers constants.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	line := int(params.Position.Line)
	col := int(params.Position.Character)
	prefix := wordAtPosition(doc.Content, line, col)

	scope := scopeAtPosition(doc, line, col)
	if scope == nil {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, def := range visibleDefinitions(scope, prefix) {
		kind := mapCompletionItemKind(def.Kind)
		item := protocol.CompletionItem{
			Label: def.Name,
			Kind:  &kind,
		}
		if def.IsMethod() && def.Signature != nil {
			detail := def.Signature.String()
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items, nil
}

// visibleDefinitions collects the definitions reachable from scope through
// its parent chain whose kind matches the prefix and whose name begins with
// it. The innermost occurrence of a name wins, matching shadowing.
func visibleDefinitions(scope *definition.Definition, prefix string) []*definition.Definition {
	wanted := completionKinds(prefix)

	var out []*definition.Definition
	seenScopes := make(map[*definition.Definition]bool)
	seenNames := make(map[string]bool)

	var walk func(d *definition.Definition)
	walk = func(d *definition.Definition) {
		if d == nil || seenScopes[d] {
			return
		}
		seenScopes[d] = true
		for _, m := range d.List() {
			if !wanted[m.Kind] || seenNames[m.Name] {
				continue
			}
			if prefix != "" && !strings.HasPrefix(m.Name, prefix) {
				continue
			}
			seenNames[m.Name] = true
			out = append(out, m)
		}
		for _, p := range d.Parents {
			walk(p)
		}
	}
	walk(scope)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// completionKinds maps a typed prefix to the member kinds it can denote.
func completionKinds(prefix string) map[definition.Kind]bool {
	switch {
	case strings.HasPrefix(prefix, "@@"):
		return map[definition.Kind]bool{definition.KindCVar: true}
	case strings.HasPrefix(prefix, "@"):
		return map[definition.Kind]bool{definition.KindIVar: true}
	case strings.HasPrefix(prefix, "$"):
		return map[definition.Kind]bool{definition.KindGVar: true}
	case prefix != "" && unicode.IsUpper(rune(prefix[0])):
		return map[definition.Kind]bool{
			definition.KindConst:  true,
			definition.KindClass:  true,
			definition.KindModule: true,
		}
	}
	return map[definition.Kind]bool{
		definition.KindLVar:           true,
		definition.KindMethod:         true,
		definition.KindInstanceMethod: true,
		definition.KindConst:          true,
		definition.KindClass:          true,
		definition.KindModule:         true,
	}
}

// mapCompletionItemKind converts a definition kind to an LSP CompletionItemKind.
func mapCompletionItemKind(kind definition.Kind) protocol.CompletionItemKind {
	switch kind {
	case definition.KindMethod, definition.KindInstanceMethod:
		return protocol.CompletionItemKindMethod
	case definition.KindConst:
		return protocol.CompletionItemKindConstant
	case definition.KindClass:
		return protocol.CompletionItemKindClass
	case definition.KindModule:
		return protocol.CompletionItemKindModule
	case definition.KindIVar, definition.KindCVar:
		return protocol.CompletionItemKindField
	default:
		return protocol.CompletionItemKindVariable
	}
}
