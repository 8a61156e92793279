// Copyright © 2024 The ruby-lint authors

// Package ruby parses Ruby source with the tree-sitter grammar and lowers
// the concrete syntax tree into the node shape the engine consumes.  The
// lowering mirrors the whitequark dump format, so output from this frontend
// and from the s-expression reader is interchangeable.
package ruby

import (
	"errors"
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/parser/token"
)

// Parser wraps a tree-sitter parser configured for Ruby.  A Parser is
// reusable across files but not safe for concurrent use.
type Parser struct {
	ts *sitter.Parser
}

// File is the result of parsing one source file.
type File struct {
	// Name is the file name positions refer to.
	Name string

	// Nodes are the lowered top level statements.
	Nodes []*ast.Node

	// Comments maps nodes to the comment block directly above them.
	Comments ast.CommentMap

	// Errors lists the positions tree-sitter could not make sense of.  A
	// file with errors still lowers; the malformed regions come out as
	// unknown nodes.
	Errors []*token.LocationError
}

// NewParser returns a parser for Ruby source.  Callers own the parser and
// release it with Close.
func NewParser() (*Parser, error) {
	lang := sitter.NewLanguage(tree_sitter_ruby.Language())
	if lang == nil {
		return nil, errors.New("ruby: grammar failed to load")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("ruby: %w", err)
	}
	return &Parser{ts: p}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
}

// Parse lowers source into engine nodes.  The file name is recorded on every
// node position.
func (p *Parser) Parse(file string, source []byte) (*File, error) {
	tree := p.ts.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("ruby: %s: parse failed", file)
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &lowerer{
		file:     file,
		source:   source,
		comments: ast.CommentMap{},
		locals:   newLocalScope(nil, true),
	}
	return &File{
		Name:     file,
		Nodes:    l.statements(root),
		Comments: l.comments,
		Errors:   syntaxErrors(file, root, source),
	}, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, source)
}

// syntaxErrors walks the concrete tree and collects every error and missing
// node as a located error.
func syntaxErrors(file string, node *sitter.Node, source []byte) []*token.LocationError {
	var errs []*token.LocationError
	if node.IsError() {
		text := node.Utf8Text(source)
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		errs = append(errs, &token.LocationError{
			Err:    fmt.Errorf("unexpected %q", text),
			Source: location(file, node),
		})
	} else if node.IsMissing() {
		errs = append(errs, &token.LocationError{
			Err:    fmt.Errorf("missing %s", node.Kind()),
			Source: location(file, node),
		})
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		errs = append(errs, syntaxErrors(file, node.Child(i), source)...)
	}
	return errs
}

// location converts a node's zero based tree-sitter span into the one based
// form the engine reports.
func location(file string, node *sitter.Node) *token.Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return &token.Location{
		File:    file,
		Path:    file,
		Pos:     int(node.StartByte()),
		Line:    int(start.Row) + 1,
		Col:     int(start.Column) + 1,
		EndLine: int(end.Row) + 1,
		EndCol:  int(end.Column) + 1,
	}
}
