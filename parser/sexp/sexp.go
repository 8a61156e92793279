// Copyright © 2024 The ruby-lint authors

// Package sexp reads the textual s-expression dumps emitted by Ruby parser
// tooling, e.g. (lvasgn :a (int 1)), and lowers them into ast nodes.
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/h2dkb/ruby-lint/ast"
	"github.com/h2dkb/ruby-lint/parser/token"
)

// Parse reads every node in src.
func Parse(file string, src []byte) ([]*ast.Node, error) {
	return New(token.NewScanner(file, src)).ParseProgram()
}

// MustParse reads src and panics on malformed input.  It keeps tree fixtures
// in tests readable.
func MustParse(src string) []*ast.Node {
	nodes, err := Parse("sexp", []byte(src))
	if err != nil {
		panic(err)
	}
	return nodes
}

// Parser reads a stream of dump tokens into ast nodes.
type Parser struct {
	src *tokenSource
}

// New initializes and returns a new Parser reading tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return &Parser{src: newTokenSource(scanner)}
}

// ParseProgram parses a sequence of nodes until the end of input.  A dump
// holding a single root node and a dump holding several top-level nodes are
// both accepted.
func (p *Parser) ParseProgram() ([]*ast.Node, error) {
	var nodes []*ast.Node
	for {
		node, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Parse parses a single node.  At the end of input Parse returns io.EOF.
func (p *Parser) Parse() (*ast.Node, error) {
	if p.src.Peek().Type == token.EOF {
		return nil, io.EOF
	}
	return p.parseNode()
}

func (p *Parser) parseNode() (*ast.Node, error) {
	tok := p.src.Scan()
	switch tok.Type {
	case token.PAREN_L:
		return p.parseList(tok)
	case token.NIL:
		// A bare top-level nil is the dump of an empty program.
		node := &ast.Node{Type: ast.NNil}
		return p.located(node, tok), nil
	case token.ERROR:
		return nil, p.errorf(tok, "%s", tok.Text)
	default:
		return nil, p.errorf(tok, "unexpected token %s", tok.Type)
	}
}

func (p *Parser) parseList(open *token.Token) (*ast.Node, error) {
	tag := p.src.Scan()
	if tag.Type != token.TAG && tag.Type != token.NIL {
		if tag.Type == token.ERROR {
			return nil, p.errorf(tag, "%s", tag.Text)
		}
		return nil, p.errorf(tag, "expected node tag, found %s", tag.Type)
	}

	var children []*ast.Node
	for {
		peek := p.src.Peek()
		switch peek.Type {
		case token.PAREN_R:
			closeTok := p.src.Scan()
			return p.newNode(tag, children, open, closeTok)
		case token.PAREN_L:
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case token.SYMBOL:
			tok := p.src.Scan()
			children = append(children, p.located(ast.SymTok(tok.Text[1:]), tok))
		case token.INT:
			tok := p.src.Scan()
			x, err := strconv.ParseInt(tok.Text, 10, 64)
			if err != nil {
				return nil, p.errorf(tok, "integer literal overflows int64: %s", tok.Text)
			}
			children = append(children, p.located(ast.IntTok(x), tok))
		case token.FLOAT:
			tok := p.src.Scan()
			x, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				return nil, p.errorf(tok, "invalid float literal: %s", tok.Text)
			}
			children = append(children, p.located(ast.FloatTok(x), tok))
		case token.STRING:
			tok := p.src.Scan()
			children = append(children, p.located(ast.StrTok(unquote(tok.Text)), tok))
		case token.NIL:
			tok := p.src.Scan()
			children = append(children, p.located(ast.Nil(), tok))
		case token.EOF:
			return nil, p.errorf(open, "unmatched %s", open.Text)
		case token.ERROR:
			p.src.Scan()
			return nil, p.errorf(peek, "%s", peek.Text)
		default:
			p.src.Scan()
			return nil, p.errorf(peek, "unexpected token %s", peek.Type)
		}
	}
}

// newNode builds the node for a closed list, collapsing single-child literal
// forms like (int 1) into their payload representation.
func (p *Parser) newNode(tag *token.Token, children []*ast.Node, open, close *token.Token) (*ast.Node, error) {
	loc := &token.Location{
		File:    open.Source.File,
		Path:    open.Source.Path,
		Pos:     open.Source.Pos,
		Line:    open.Source.Line,
		Col:     open.Source.Col,
		EndLine: close.Source.EndLine,
		EndCol:  close.Source.EndCol,
	}

	if tag.Type == token.NIL {
		if len(children) != 0 {
			return nil, p.errorf(tag, "nil literal with children")
		}
		node := &ast.Node{Type: ast.NNil, Source: loc}
		return node, nil
	}

	typ, ok := ast.TypeFromName(tag.Text)
	if !ok {
		node := &ast.Node{Type: ast.NUnknown, Str: tag.Text, Children: children, Source: loc}
		return node, nil
	}

	// Collapse literal forms into payload fields.
	switch typ {
	case ast.NInt, ast.NFloat, ast.NStr, ast.NSym:
		if len(children) == 1 && children[0].Token && children[0].Type == typ {
			leaf := children[0]
			node := &ast.Node{Type: typ, Str: leaf.Str, Int: leaf.Int, Float: leaf.Float, Source: loc}
			return node, nil
		}
	}

	node := &ast.Node{Type: typ, Children: children, Source: loc}
	return node, nil
}

func (p *Parser) located(n *ast.Node, tok *token.Token) *ast.Node {
	n.Source = tok.Source
	return n
}

func (p *Parser) errorf(tok *token.Token, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: tok.Source,
	}
}

// unquote interprets the escape sequences Ruby's inspect uses when printing
// dump strings.  Unrecognized escapes keep the escaped character.
func unquote(text string) string {
	text = text[1 : len(text)-1] // strip quotes
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'e':
			sb.WriteByte(0x1b)
		case '0':
			sb.WriteByte(0)
		case 'a':
			sb.WriteByte(7)
		case 'b':
			sb.WriteByte(8)
		case 'f':
			sb.WriteByte(12)
		case 'v':
			sb.WriteByte(11)
		case 's':
			sb.WriteByte(' ')
		case 'u':
			if r, next, ok := unquoteUnicode(text, i); ok {
				sb.WriteRune(r)
				i = next
			} else {
				sb.WriteByte('u')
			}
		default:
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}

// unquoteUnicode reads \u{hhhh} or \uhhhh starting at the 'u' index.  It
// returns the rune, the index of the last consumed byte, and success.
func unquoteUnicode(text string, i int) (rune, int, bool) {
	if i+1 < len(text) && text[i+1] == '{' {
		end := strings.IndexByte(text[i+1:], '}')
		if end < 0 {
			return 0, 0, false
		}
		end += i + 1
		x, err := strconv.ParseUint(text[i+2:end], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		return rune(x), end, true
	}
	if i+4 < len(text) {
		x, err := strconv.ParseUint(text[i+1:i+5], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		return rune(x), i + 4, true
	}
	return 0, 0, false
}

// tokenSource wraps a Scanner with single token lookahead.
type tokenSource struct {
	scanner *token.Scanner
	peek    *token.Token
}

func newTokenSource(scanner *token.Scanner) *tokenSource {
	return &tokenSource{scanner: scanner}
}

func (src *tokenSource) Scan() *token.Token {
	if src.peek != nil {
		tok := src.peek
		src.peek = nil
		return tok
	}
	return src.scanner.Scan()
}

func (src *tokenSource) Peek() *token.Token {
	if src.peek == nil {
		src.peek = src.scanner.Scan()
	}
	return src.peek
}
