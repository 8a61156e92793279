// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/definition"
	"github.com/h2dkb/ruby-lint/parser/token"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// rubyToLSPPosition converts a 1-based source location to a 0-based LSP
// position.
func rubyToLSPPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// rubyToLSPRange converts a source location to an LSP range. Locations carry
// an end-exclusive EndLine/EndCol, which matches the LSP range convention;
// when the end is missing, nameLen characters are used for the range width.
func rubyToLSPRange(loc *token.Location, nameLen int) protocol.Range {
	start := rubyToLSPPosition(loc)
	var end protocol.Position
	if loc.EndLine > 0 && loc.EndCol > 0 {
		end = protocol.Position{
			Line:      safeUint(loc.EndLine - 1),
			Character: safeUint(loc.EndCol - 1),
		}
	} else {
		end = protocol.Position{
			Line:      start.Line,
			Character: start.Character + safeUint(nameLen),
		}
	}
	return protocol.Range{Start: start, End: end}
}

// definitionAtPosition resolves the definition under the given 0-based LSP
// position. It walks the node associations of the document's latest engine
// run and picks the innermost node whose span contains the position, so that
// in a chain like Greeter.new.greet each segment resolves separately. The
// returned node is the association site, which may differ from the
// definition's own source.
func definitionAtPosition(doc *Document, line, col int) (*ast.Node, *definition.Definition) {
	if doc == nil || doc.result == nil {
		return nil, nil
	}
	// Convert LSP 0-based to 1-based.
	srcLine := line + 1
	srcCol := col + 1

	var (
		bestNode *ast.Node
		bestDef  *definition.Definition
	)
	for node, def := range doc.result.Machine.Associations() {
		loc := node.Source
		if loc == nil || loc.Line == 0 {
			continue
		}
		if !locContains(loc, srcLine, srcCol) {
			continue
		}
		if bestNode == nil || spanLess(loc, bestNode.Source) {
			bestNode = node
			bestDef = def
		}
	}
	return bestNode, bestDef
}

// locContains checks whether a 1-based position falls within the half-open
// span [start, end) of loc. Locations without end information only match
// their exact start.
func locContains(loc *token.Location, line, col int) bool {
	if loc.EndLine == 0 || loc.EndCol == 0 {
		return line == loc.Line && col == loc.Col
	}
	if line < loc.Line || line > loc.EndLine {
		return false
	}
	if line == loc.Line && col < loc.Col {
		return false
	}
	if line == loc.EndLine && col >= loc.EndCol {
		return false
	}
	return true
}

// spanLess reports whether a covers strictly less source text than b,
// ordering first by line extent and then by column extent.
func spanLess(a, b *token.Location) bool {
	aLines := a.EndLine - a.Line
	bLines := b.EndLine - b.Line
	if aLines != bLines {
		return aLines < bLines
	}
	aCols := a.EndCol - a.Col
	bCols := b.EndCol - b.Col
	return aCols < bCols
}

// scopeAtPosition returns the innermost scope definition whose declaration
// span contains the given 0-based LSP position, falling back to the root
// scope. Only declaration sites count; a constant reference resolves to the
// same class definition but does not place the position inside its body.
func scopeAtPosition(doc *Document, line, col int) *definition.Definition {
	if doc == nil || doc.result == nil {
		return nil
	}
	srcLine := line + 1
	srcCol := col + 1

	var (
		bestLoc *token.Location
		best    *definition.Definition
	)
	for node, def := range doc.result.Machine.Associations() {
		if !scopeKind(def.Kind) || node.Source != def.Source {
			continue
		}
		loc := node.Source
		if loc == nil || loc.Line == 0 || !locContains(loc, srcLine, srcCol) {
			continue
		}
		if bestLoc == nil || spanLess(loc, bestLoc) {
			bestLoc = loc
			best = def
		}
	}
	if best == nil {
		return doc.result.Machine.Root()
	}
	return best
}

// scopeKind reports whether definitions of this kind own a lexical scope.
func scopeKind(kind definition.Kind) bool {
	switch kind {
	case definition.KindClass, definition.KindModule,
		definition.KindMethod, definition.KindInstanceMethod,
		definition.KindBlock:
		return true
	}
	return false
}

// mapDefinitionKind converts a definition kind to an LSP SymbolKind.
func mapDefinitionKind(kind definition.Kind) protocol.SymbolKind {
	switch kind {
	case definition.KindClass:
		return protocol.SymbolKindClass
	case definition.KindModule:
		return protocol.SymbolKindModule
	case definition.KindMethod, definition.KindInstanceMethod:
		return protocol.SymbolKindMethod
	case definition.KindConst:
		return protocol.SymbolKindConstant
	case definition.KindIVar, definition.KindCVar:
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindVariable
	}
}

// navigableKind reports whether a definition of this kind is worth
// surfacing for hover and navigation. Literal value definitions are
// excluded; hovering the middle of an array literal should stay quiet.
func navigableKind(kind definition.Kind) bool {
	switch kind {
	case definition.KindClass, definition.KindModule,
		definition.KindMethod, definition.KindInstanceMethod,
		definition.KindLVar, definition.KindIVar, definition.KindCVar,
		definition.KindGVar, definition.KindConst, definition.KindKeyword:
		return true
	}
	return false
}

// wordAtPosition extracts the identifier-like word at the given 0-based LSP
// position from the document content. The cursor can be inside or at the
// end of a word; in both cases the full word is returned.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := lines[line]
	if col < 0 || col > len(ln) {
		return ""
	}
	// Clamp col to the line length (cursor can be at end of line).
	if col >= len(ln) {
		col = len(ln)
	}
	// Scan backwards from cursor.
	start := col
	for start > 0 && isIdentChar(ln[start-1]) {
		start--
	}
	// Scan forwards from cursor.
	end := col
	for end < len(ln) && isIdentChar(ln[end]) {
		end++
	}
	return ln[start:end]
}

// isIdentChar covers Ruby identifier characters plus the @ and $ sigils and
// the ? and ! method suffixes.
func isIdentChar(c byte) bool {
	if c >= 'a' && c <= 'z' {
		return true
	}
	if c >= 'A' && c <= 'Z' {
		return true
	}
	if c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '_', '@', '$', '?', '!':
		return true
	}
	return false
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
