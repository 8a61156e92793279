// Copyright © 2024 The ruby-lint authors

// Package parser picks the right frontend for a source file.  Ruby files go
// through the tree-sitter lowering, s-expression dumps through the reader;
// both produce the same node shape.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/parser/ruby"
	"github.com/h2dkb/ruby-lint/parser/sexp"
	"github.com/h2dkb/ruby-lint/parser/token"
)

// Source is a parsed file ready to run through the engine.
type Source struct {
	// Name is the file name node positions refer to.
	Name string

	// Nodes are the top level statements.
	Nodes []*ast.Node

	// Comments maps nodes to the comment block directly above them.  The
	// s-expression reader leaves it empty.
	Comments ast.CommentMap

	// Errors are recoverable syntax problems.  The nodes around them still
	// lower, so analysis of the rest of the file proceeds.
	Errors []*token.LocationError
}

// rubyNames are extensionless file names treated as Ruby source.
var rubyNames = map[string]bool{
	"Gemfile":   true,
	"Rakefile":  true,
	"Guardfile": true,
}

// IsRubyFile reports whether path names a file the Ruby frontend accepts.
func IsRubyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rb", ".rake", ".gemspec", ".ru":
		return true
	case "":
		return rubyNames[filepath.Base(path)]
	}
	return false
}

// IsDumpFile reports whether path names an s-expression dump.  Standard
// input arrives under a pseudo name and reads as a dump.
func IsDumpFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rlint", ".sexp", ".ast":
		return true
	}
	return path == "-" || path == "<stdin>"
}

// Parse lowers source under the frontend selected by the file name.
func Parse(name string, source []byte) (*Source, error) {
	if IsRubyFile(name) {
		p, err := ruby.NewParser()
		if err != nil {
			return nil, err
		}
		defer p.Close()
		f, err := p.Parse(name, source)
		if err != nil {
			return nil, err
		}
		return &Source{
			Name:     f.Name,
			Nodes:    f.Nodes,
			Comments: f.Comments,
			Errors:   f.Errors,
		}, nil
	}
	if !IsDumpFile(name) {
		return nil, fmt.Errorf("parser: %s: unsupported file type", name)
	}
	nodes, err := sexp.Parse(name, source)
	if err != nil {
		return nil, err
	}
	return &Source{
		Name:     name,
		Nodes:    nodes,
		Comments: ast.CommentMap{},
	}, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*Source, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, source)
}
