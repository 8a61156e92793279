// Copyright © 2024 The ruby-lint authors

package token

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner splits an s-expression dump into tokens.  The entire source is held
// in memory; dump files are small.
type Scanner struct {
	file string
	path string
	src  []byte

	start     int // byte offset of the current token
	pos       int // byte offset of the next unread rune
	line, col int // 1-based position of pos
	startLine int
	startCol  int
}

// NewScanner initializes and returns a new Scanner reading from src.
func NewScanner(file string, src []byte) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// SetPath associates a physical location (e.g. filesystem path) with s to aid
// in debugging projects which scan many ungrouped files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

const symbolRunes = "+-*/%<>=!~^&|[]?@$"

// Scan returns the next token in the stream.  At the end of input Scan
// returns EOF tokens forever.
func (s *Scanner) Scan() *Token {
	s.acceptSeq(unicode.IsSpace)
	s.ignore()
	c, ok := s.peek()
	switch {
	case !ok:
		return s.emit(EOF)
	case c == '(':
		s.scanRune()
		return s.emit(PAREN_L)
	case c == ')':
		s.scanRune()
		return s.emit(PAREN_R)
	case c == ':':
		s.scanRune()
		if s.acceptSeq(isSymbolRune) == 0 {
			return s.errorf("empty symbol literal")
		}
		return s.emit(SYMBOL)
	case c == '"':
		return s.scanString()
	case c == '-' || isDigit(c):
		return s.scanNumber()
	case isTagRune(c):
		s.acceptSeq(isTagRune)
		if s.text() == "nil" {
			return s.emit(NIL)
		}
		return s.emit(TAG)
	default:
		s.scanRune()
		return s.errorf("unexpected character %q", c)
	}
}

// scanString scans a double-quoted string literal including both quotes.
// Escape sequences are preserved verbatim for the reader to interpret.
func (s *Scanner) scanString() *Token {
	s.scanRune() // opening quote
	for {
		c, ok := s.peek()
		if !ok || c == '\n' {
			return s.errorf("unterminated string literal")
		}
		s.scanRune()
		if c == '\\' {
			if _, ok := s.peek(); ok {
				s.scanRune()
			}
			continue
		}
		if c == '"' {
			return s.emit(STRING)
		}
	}
}

func (s *Scanner) scanNumber() *Token {
	s.acceptRune('-')
	if s.acceptSeq(isDigit) == 0 {
		return s.errorf("malformed number literal %q", s.text())
	}
	typ := INT
	if c, ok := s.peek(); ok && c == '.' {
		// A trailing dot without digits is not part of the number.
		if c2, ok := s.peekAt(1); ok && isDigit(c2) {
			s.scanRune()
			s.acceptSeq(isDigit)
			typ = FLOAT
		}
	}
	if s.acceptAny("eE") {
		s.acceptAny("+-")
		if s.acceptSeq(isDigit) == 0 {
			return s.errorf("malformed exponent in %q", s.text())
		}
		typ = FLOAT
	}
	return s.emit(typ)
}

// emit returns a token containing the text scanned since the last emit,
// located at the token's first rune.
func (s *Scanner) emit(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.text(),
		Source: s.loc(),
	}
	s.ignore()
	return tok
}

func (s *Scanner) errorf(format string, v ...interface{}) *Token {
	tok := s.emit(ERROR)
	tok.Text = fmt.Sprintf(format, v...)
	return tok
}

// ignore discards all text scanned since the last emit.
func (s *Scanner) ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

func (s *Scanner) text() string {
	return string(s.src[s.start:s.pos])
}

// loc returns a Location spanning the current token.
func (s *Scanner) loc() *Location {
	return &Location{
		File:    s.file,
		Path:    s.path,
		Pos:     s.start,
		Line:    s.startLine,
		Col:     s.startCol,
		EndLine: s.line,
		EndCol:  s.col,
	}
}

func (s *Scanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRune(s.src[s.pos:])
	return c, true
}

// peekAt looks ahead n runes past the next unread rune.
func (s *Scanner) peekAt(n int) (rune, bool) {
	pos := s.pos
	for ; n > 0; n-- {
		if pos >= len(s.src) {
			return 0, false
		}
		_, size := utf8.DecodeRune(s.src[pos:])
		pos += size
	}
	if pos >= len(s.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRune(s.src[pos:])
	return c, true
}

func (s *Scanner) scanRune() {
	c, size := utf8.DecodeRune(s.src[s.pos:])
	s.pos += size
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *Scanner) accept(fn func(rune) bool) bool {
	c, ok := s.peek()
	if !ok || !fn(c) {
		return false
	}
	s.scanRune()
	return true
}

func (s *Scanner) acceptRune(c rune) bool {
	return s.accept(func(r rune) bool { return r == c })
}

func (s *Scanner) acceptAny(charset string) bool {
	return s.accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) acceptSeq(fn func(rune) bool) int {
	var n int
	for s.accept(fn) {
		n++
	}
	return n
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isTagRune accepts the characters used by node type tags.  The question
// mark appears in exactly one tag, defined?.
func isTagRune(c rune) bool {
	return c == '_' || c == '-' || c == '?' || isDigit(c) || unicode.IsLetter(c)
}

func isSymbolRune(c rune) bool {
	return c == '_' || isDigit(c) || unicode.IsLetter(c) || strings.ContainsRune(symbolRunes, c)
}
