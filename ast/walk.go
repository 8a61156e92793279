// Copyright © 2024 The ruby-lint authors

package ast

import "github.com/h2dkb/ruby-lint/parser/token"

// Walk calls fn for every non-token node in the trees, depth-first.
// parent is nil for top-level nodes.
func Walk(nodes []*Node, fn func(node *Node, parent *Node, depth int)) {
	for _, n := range nodes {
		walkNode(n, nil, 0, fn)
	}
}

func walkNode(node *Node, parent *Node, depth int, fn func(*Node, *Node, int)) {
	if node == nil || node.Token {
		return
	}
	fn(node, parent, depth)
	for _, child := range node.Children {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkType calls fn for every node of the given type.
func WalkType(nodes []*Node, typ Type, fn func(node *Node)) {
	Walk(nodes, func(node *Node, _ *Node, _ int) {
		if node.Type == typ {
			fn(node)
		}
	})
}

// CallName returns the method name of a send node, or "".
func CallName(n *Node) string {
	if n == nil || (n.Type != NSend && n.Type != NCSend) || len(n.Children) < 2 {
		return ""
	}
	name := n.Children[1]
	if name.Type != NSym {
		return ""
	}
	return name.Str
}

// CallArgs returns the argument children of a send node.
func CallArgs(n *Node) []*Node {
	if n == nil || (n.Type != NSend && n.Type != NCSend) || len(n.Children) < 2 {
		return nil
	}
	return n.Children[2:]
}

// SourceOf returns the best source location for a node: the node's own
// location when present, otherwise the first located child's.
func SourceOf(n *Node) *token.Location {
	if n == nil {
		return nil
	}
	if n.Source != nil && n.Source.Line > 0 {
		return n.Source
	}
	for _, c := range n.Children {
		if c != nil && c.Source != nil && c.Source.Line > 0 {
			return c.Source
		}
	}
	return n.Source
}
