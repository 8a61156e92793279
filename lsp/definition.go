// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"github.com/tliron/glsp"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	line := int(params.Position.Line)
	col := int(params.Position.Character)

	_, def := definitionAtPosition(doc, line, col)
	if def == nil || def.Source == nil || !navigableKind(def.Kind) {
		return nil, nil
	}

	// Built-in definitions have no navigable source.
	if def.IsCore() {
		return nil, nil
	}

	return protocol.Location{
		URI:   s.resolveURI(params.TextDocument.URI, def.Source.File),
		Range: rubyToLSPRange(def.Source, len(def.Name)),
	}, nil
}
