// Copyright © 2024 The ruby-lint authors

package ast

// CommentMap associates nodes with the raw comment lines immediately
// preceding them in source order.  Frontends that see comments (the Ruby
// parser) populate it; the engine consults it when building method
// definitions.
type CommentMap map[*Node][]string

// Add appends comment lines for a node.
func (m CommentMap) Add(n *Node, lines ...string) {
	if n == nil || len(lines) == 0 {
		return
	}
	m[n] = append(m[n], lines...)
}

// Leading returns the comment lines preceding n, or nil.
func (m CommentMap) Leading(n *Node) []string {
	if m == nil {
		return nil
	}
	return m[n]
}
