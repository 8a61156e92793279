// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/docstring"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
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

	var mapping *docstring.Mapping
	doc.mu.Lock()
	if doc.result != nil {
		mapping = doc.result.Machine.DocOf(def)
	}
	doc.mu.Unlock()

	content := buildHoverContent(def, mapping)
	if content == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}, nil
}

// buildHoverContent builds Markdown hover text for a definition.
func buildHoverContent(def *definition.Definition, mapping *docstring.Mapping) string {
	var sb strings.Builder

	// Header: **kind** `qualified name`
	fmt.Fprintf(&sb, "**%s** `%s`", def.Kind, def.QualifiedName())

	// Declaration for methods.
	if def.IsMethod() && def.Signature != nil {
		name := def.Name
		if def.Kind == definition.KindMethod {
			name = "self." + name
		}
		fmt.Fprintf(&sb, "\n\n```ruby\ndef %s%s\n```", name, def.Signature)
	}

	// Assigned value for variables, when statically known.
	if !def.IsMethod() && def.Value != nil && !def.Value.IsUnknown() {
		fmt.Fprintf(&sb, "\n\nValue: `%s`", def.Value)
	}

	// Documented return type.
	if mapping != nil {
		if types := mapping.ReturnTypes(); len(types) > 0 {
			fmt.Fprintf(&sb, "\n\nReturns `%s`", strings.Join(types, "`, `"))
		}
	}

	// Source location.
	if def.IsCore() {
		sb.WriteString("\n\n*Built-in*")
	} else if def.Source != nil && def.Source.File != "" {
		fmt.Fprintf(&sb, "\n\n*Defined in %s:%d*", def.Source.File, def.Source.Line)
	}

	return sb.String()
}
