// Copyright © 2024 The ruby-lint authors

package lsp

import (
	"sort"

	"github.com/tliron/glsp"

	"github.com/h2dkb/ruby-lint/definition"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// callHierarchyData is stored in CallHierarchyItem.Data to carry the
// declaration position between the prepare request and the incoming or
// outgoing calls requests.
type callHierarchyData struct {
	URI  string `json:"uri"`
	Line int    `json:"line"` // 0-based declaration position
	Col  int    `json:"col"`
}

// textDocumentPrepareCallHierarchy handles the
// textDocument/prepareCallHierarchy request by resolving the method under
// the cursor.
func (s *Server) textDocumentPrepareCallHierarchy(_ *glsp.Context, params *protocol.CallHierarchyPrepareParams) ([]protocol.CallHierarchyItem, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	_, def := definitionAtPosition(doc, int(params.Position.Line), int(params.Position.Character))
	if def == nil || !def.IsMethod() || def.Source == nil || def.IsCore() {
		return nil, nil
	}

	item := defToCallHierarchyItem(def, s.resolveURI(params.TextDocument.URI, def.Source.File))
	return []protocol.CallHierarchyItem{item}, nil
}

// callHierarchyIncomingCalls handles the callHierarchy/incomingCalls
// request. The caller sites recorded on the definition during the run are
// grouped by calling scope.
func (s *Server) callHierarchyIncomingCalls(_ *glsp.Context, params *protocol.CallHierarchyIncomingCallsParams) ([]protocol.CallHierarchyIncomingCall, error) {
	data := decodeCallHierarchyData(params.Item.Data)
	if data == nil {
		return nil, nil
	}
	doc := s.docs.Get(data.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	_, def := definitionAtPosition(doc, data.Line, data.Col)
	if def == nil || !def.IsMethod() {
		return nil, nil
	}

	groups := make(map[*definition.Definition][]protocol.Range)
	var order []*definition.Definition
	for _, site := range def.Callers {
		caller := hoistCaller(site.Definition)
		// Top level calls have no hierarchy item to hang from.
		if caller == nil || caller.Source == nil || caller.IsCore() || site.Source == nil {
			continue
		}
		if _, ok := groups[caller]; !ok {
			order = append(order, caller)
		}
		groups[caller] = append(groups[caller], rubyToLSPRange(site.Source, len(def.Name)))
	}

	var result []protocol.CallHierarchyIncomingCall
	for _, caller := range order {
		result = append(result, protocol.CallHierarchyIncomingCall{
			From:       defToCallHierarchyItem(caller, s.resolveURI(data.URI, caller.Source.File)),
			FromRanges: groups[caller],
		})
	}
	return result, nil
}

// callHierarchyOutgoingCalls handles the callHierarchy/outgoingCalls
// request. The call sites recorded on the definition are grouped by callee;
// calls into the built-in catalog are skipped because they have no source
// to navigate to.
func (s *Server) callHierarchyOutgoingCalls(_ *glsp.Context, params *protocol.CallHierarchyOutgoingCallsParams) ([]protocol.CallHierarchyOutgoingCall, error) {
	data := decodeCallHierarchyData(params.Item.Data)
	if data == nil {
		return nil, nil
	}
	doc := s.docs.Get(data.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	_, def := definitionAtPosition(doc, data.Line, data.Col)
	if def == nil || !scopeKind(def.Kind) {
		return nil, nil
	}

	groups := make(map[*definition.Definition][]protocol.Range)
	var order []*definition.Definition
	for _, site := range callSitesWithin(doc, def) {
		callee := site.Definition
		if callee == nil || callee.Source == nil || callee.IsCore() || site.Source == nil {
			continue
		}
		if _, ok := groups[callee]; !ok {
			order = append(order, callee)
		}
		groups[callee] = append(groups[callee], rubyToLSPRange(site.Source, len(callee.Name)))
	}

	var result []protocol.CallHierarchyOutgoingCall
	for _, callee := range order {
		result = append(result, protocol.CallHierarchyOutgoingCall{
			To:         defToCallHierarchyItem(callee, s.resolveURI(data.URI, callee.Source.File)),
			FromRanges: groups[callee],
		})
	}
	return result, nil
}

// callSitesWithin returns the call sites recorded on def plus those of
// every block scope nested inside it, in source order. Calls made inside an
// each body are recorded on the block, and the hierarchy attributes them to
// the enclosing method.
func callSitesWithin(doc *Document, def *definition.Definition) []definition.CallSite {
	doc.mu.Lock()
	result := doc.result
	doc.mu.Unlock()

	sites := append([]definition.CallSite(nil), def.Calls...)
	if result == nil {
		return sites
	}

	var blocks []*definition.Definition
	for _, d := range result.Machine.Associations() {
		if d.Kind == definition.KindBlock && hoistCaller(d) == def {
			blocks = append(blocks, d)
		}
	}
	sortBySource(blocks)
	for _, b := range blocks {
		sites = append(sites, b.Calls...)
	}
	return sites
}

// sortBySource orders definitions by their declaration position.
func sortBySource(defs []*definition.Definition) {
	sort.Slice(defs, func(i, j int) bool {
		a, b := defs[i].Source, defs[j].Source
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// hoistCaller lifts a calling scope out of any enclosing blocks: a call made
// inside an each body belongs to the method that contains it.
func hoistCaller(def *definition.Definition) *definition.Definition {
	for def != nil && def.Kind == definition.KindBlock {
		if len(def.Parents) == 0 {
			return nil
		}
		def = def.Parents[0]
	}
	return def
}

// defToCallHierarchyItem creates a CallHierarchyItem for a definition.
func defToCallHierarchyItem(def *definition.Definition, uri string) protocol.CallHierarchyItem {
	r := rubyToLSPRange(def.Source, len(def.Name))
	return protocol.CallHierarchyItem{
		Name:           def.QualifiedName(),
		Kind:           mapDefinitionKind(def.Kind),
		Detail:         symbolDetail(def),
		URI:            uri,
		Range:          r,
		SelectionRange: r,
		Data: callHierarchyData{
			URI:  uri,
			Line: int(r.Start.Line),
			Col:  int(r.Start.Character),
		},
	}
}

// decodeCallHierarchyData decodes the data field from a CallHierarchyItem.
// In tests the data arrives as a Go struct; over the wire it arrives as
// map[string]any from JSON deserialization.
func decodeCallHierarchyData(data any) *callHierarchyData {
	if data == nil {
		return nil
	}
	// Direct struct (in-process / test path).
	if d, ok := data.(callHierarchyData); ok {
		return &d
	}
	if d, ok := data.(*callHierarchyData); ok {
		return d
	}
	// JSON-deserialized path (over the wire).
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	uri, _ := m["uri"].(string)
	if uri == "" {
		return nil
	}
	line, _ := m["line"].(float64)
	col, _ := m["col"].(float64)
	return &callHierarchyData{
		URI:  uri,
		Line: int(line),
		Col:  int(col),
	}
}
