// Copyright © 2024 The ruby-lint authors

/*
Package docstring extracts YARD style tags from method comment blocks.

	tag    := param | return
	param  := '@param' <types>? <name> <text>?
	return := '@return' <types>? <text>?
	types  := '[' <type> (',' <type>)* ']'

Anything that does not parse as a tag is free text and is skipped.
*/
package docstring

import (
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// Param is one documented method parameter.
type Param struct {
	Name  string
	Types []string
	Text  string
}

// Mapping holds the tags extracted from one comment block.
type Mapping struct {
	Params  []Param
	Returns []string

	// ReturnText is the free text following the @return types.
	ReturnText string
}

// ParamTypes returns the documented types of the named parameter, or nil.
func (m *Mapping) ParamTypes(name string) []string {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Types
		}
	}
	return nil
}

// ReturnTypes returns the documented return types, or nil.
func (m *Mapping) ReturnTypes() []string {
	return m.Returns
}

// Parse scans comment lines for YARD tags.  It returns nil when the block
// carries no tags at all.
func Parse(lines []string) *Mapping {
	m := &Mapping{}
	for _, line := range lines {
		tag := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if !strings.HasPrefix(tag, "@") {
			continue
		}
		node, _ := tagline(parsec.NewScanner([]byte(tag)))
		if node == nil {
			continue
		}
		var terms []*parsec.Terminal
		flatten(node, &terms)
		if len(terms) == 0 {
			continue
		}
		switch terms[0].Name {
		case "PARAM":
			var p Param
			for _, term := range terms[1:] {
				switch term.Name {
				case "TYPE":
					p.Types = append(p.Types, typeName(term.Value))
				case "NAME":
					if p.Name == "" {
						p.Name = term.Value
					}
				case "TEXT":
					p.Text = strings.TrimSpace(term.Value)
				}
			}
			if p.Name != "" {
				m.Params = append(m.Params, p)
			}
		case "RETURN":
			for _, term := range terms[1:] {
				switch term.Name {
				case "TYPE":
					m.Returns = append(m.Returns, typeName(term.Value))
				case "TEXT":
					m.ReturnText = strings.TrimSpace(term.Value)
				}
			}
		}
	}
	if len(m.Params) == 0 && len(m.Returns) == 0 {
		return nil
	}
	return m
}

// typeName normalizes a documented type: generics collapse to the base
// constant, so Array<String> refines to Array.
func typeName(v string) string {
	if i := strings.IndexByte(v, '<'); i >= 0 {
		return v[:i]
	}
	return v
}

var tagline = newTagParser()

func newTagParser() parsec.Parser {
	atParam := parsec.Atom("@param", "PARAM")
	atReturn := parsec.Atom("@return", "RETURN")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	comma := parsec.Atom(",", "COMMA")
	typename := parsec.Token(`[A-Za-z_][A-Za-z0-9_:]*(?:<[^>\]]*>)?`, "TYPE")
	name := parsec.Token(`[a-z_][A-Za-z0-9_]*[?!]?`, "NAME")
	text := parsec.Token(`[^\s][^\n]*`, "TEXT")

	types := parsec.Maybe(nil, parsec.And(nil, openB, parsec.Many(nil, typename, comma), closeB))
	param := parsec.And(nil, atParam, types, name, parsec.Maybe(nil, text))
	ret := parsec.And(nil, atReturn, types, parsec.Maybe(nil, text))
	return parsec.OrdChoice(nil, param, ret)
}

func flatten(node parsec.ParsecNode, out *[]*parsec.Terminal) {
	switch n := node.(type) {
	case *parsec.Terminal:
		*out = append(*out, n)
	case []parsec.ParsecNode:
		for _, c := range n {
			flatten(c, out)
		}
	}
}
