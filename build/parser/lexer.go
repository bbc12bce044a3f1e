// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
)

// lexer splits Python source into tokens.
// INDENT and DEDENT tokens are computed from an indentation stack.
// Newlines inside brackets are ignored.
type lexer struct {
	file fmterr.File
	errs *fmterr.Errors

	src  []rune
	pos  int
	line int
	col  int

	indents []int
	depth   int
	toks    []Token
}

func lex(file fmterr.File, errs *fmterr.Errors, src string) []Token {
	l := &lexer{
		file:    file,
		errs:    errs,
		src:     []rune(src),
		line:    1,
		col:     1,
		indents: []int{0},
	}
	l.run()
	return l.toks
}

func (l *lexer) run() {
	atLineStart := true
	for {
		if atLineStart && l.depth == 0 {
			if !l.indentation() {
				if l.eof() {
					break
				}
				continue
			}
			atLineStart = false
		}
		l.skipSpaces()
		if l.eof() {
			break
		}
		c := l.peek()
		switch {
		case c == '#':
			l.skipComment()
		case c == '\n':
			pos := l.position()
			l.advance()
			if l.depth == 0 {
				l.emit(NEWLINE, "\n", pos)
				atLineStart = true
			}
		case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
			l.number()
		case isIdentStart(c):
			l.identifier()
		case c == '\'' || c == '"':
			l.str(l.position(), false)
		default:
			l.operator()
		}
	}
	pos := l.position()
	if n := len(l.toks); n > 0 && l.toks[n-1].Type != NEWLINE {
		l.emit(NEWLINE, "", pos)
	}
	if l.depth > 0 {
		l.errorf(pos, "unexpected end of file: unclosed bracket")
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(DEDENT, "", pos)
	}
	l.emit(EOF, "", pos)
}

// indentation processes the indentation at the start of a line.
// It returns false if the line is blank or only contains a comment.
func (l *lexer) indentation() bool {
	width := l.indentWidth()
	if l.eof() {
		return false
	}
	switch l.peek() {
	case '\n', '#', '\r':
		l.skipComment()
		if !l.eof() {
			l.advance()
		}
		return false
	}
	pos := l.position()
	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		l.emit(INDENT, "", pos)
		return true
	}
	for width < top {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(DEDENT, "", pos)
		top = l.indents[len(l.indents)-1]
	}
	if width != top {
		l.errorf(pos, "unindent does not match any outer indentation level")
	}
	return true
}

func (l *lexer) indentWidth() int {
	width := 0
	for !l.eof() {
		switch l.peek() {
		case ' ':
			width++
		case '\t':
			width = (width/8 + 1) * 8
		case '\f':
			width = 0
		default:
			return width
		}
		l.advance()
	}
	return width
}

func (l *lexer) skipSpaces() {
	for !l.eof() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\f' || c == '\r':
			l.advance()
		case c == '\\' && l.peekAt(1) == '\n':
			l.advance()
			l.advance()
		case c == '\\' && l.peekAt(1) == '\r' && l.peekAt(2) == '\n':
			l.advance()
			l.advance()
			l.advance()
		default:
			return
		}
	}
}

// skipComment moves to the end of the line, leaving the newline unread.
func (l *lexer) skipComment() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *lexer) number() {
	pos := l.position()
	start := l.pos
	typ := INT
	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		l.advance()
		for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	} else {
		l.digits()
		if l.peek() == '.' {
			typ = FLOAT
			l.advance()
			l.digits()
		}
		if (l.peek() == 'e' || l.peek() == 'E') &&
			(isDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && isDigit(l.peekAt(2)))) {
			typ = FLOAT
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			l.digits()
		}
	}
	text := string(l.src[start:l.pos])
	if !l.eof() && isIdentStart(l.peek()) {
		l.errorf(pos, "invalid number literal %s%c", text, l.peek())
	}
	l.emit(typ, text, pos)
}

func (l *lexer) digits() {
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *lexer) identifier() {
	pos := l.position()
	start := l.pos
	for !l.eof() && (isIdentStart(l.peek()) || unicode.IsDigit(l.peek())) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if q := l.peek(); q == '\'' || q == '"' {
		switch text {
		case "r", "R":
			l.str(pos, true)
			return
		case "u", "U":
			l.str(pos, false)
			return
		}
	}
	typ, ok := keywords[text]
	if !ok {
		typ = NAME
	}
	l.emit(typ, text, pos)
}

// str reads a string literal starting at the current quote.
func (l *lexer) str(pos pyast.Pos, raw bool) {
	q := l.advance()
	triple := false
	if l.peek() == q && l.peekAt(1) == q {
		l.advance()
		l.advance()
		triple = true
	}
	var b strings.Builder
	for {
		if l.eof() {
			l.errorf(pos, "unterminated string literal")
			break
		}
		c := l.peek()
		if c == q {
			if !triple {
				l.advance()
				break
			}
			if l.peekAt(1) == q && l.peekAt(2) == q {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		if c == '\n' && !triple {
			l.errorf(pos, "unterminated string literal")
			break
		}
		l.advance()
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if raw {
			b.WriteRune(c)
			if !l.eof() {
				b.WriteRune(l.advance())
			}
			continue
		}
		l.escape(&b)
	}
	l.emit(STRING, b.String(), pos)
}

var simpleEscapes = map[rune]rune{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// escape decodes an escape sequence after its backslash.
func (l *lexer) escape(b *strings.Builder) {
	if l.eof() {
		return
	}
	pos := l.position()
	c := l.advance()
	if r, ok := simpleEscapes[c]; ok {
		b.WriteRune(r)
		return
	}
	switch c {
	case '\n':
		// Line continuation inside a string.
	case 'x':
		l.hexEscape(b, pos, 2)
	case 'u':
		l.hexEscape(b, pos, 4)
	case 'U':
		l.hexEscape(b, pos, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(c - '0')
		for range 2 {
			if d := l.peek(); d < '0' || d > '7' {
				break
			}
			val = val*8 + int(l.advance()-'0')
		}
		b.WriteRune(rune(val))
	default:
		// Unknown escapes are kept as is.
		b.WriteRune('\\')
		b.WriteRune(c)
	}
}

func (l *lexer) hexEscape(b *strings.Builder, pos pyast.Pos, n int) {
	var digits strings.Builder
	for range n {
		if l.eof() || !isHexDigit(l.peek()) {
			break
		}
		digits.WriteRune(l.advance())
	}
	val, err := strconv.ParseUint(digits.String(), 16, 32)
	if digits.Len() != n || err != nil || val > unicode.MaxRune {
		l.errorf(pos, "invalid escape sequence")
		return
	}
	b.WriteRune(rune(val))
}

func (l *lexer) operator() {
	pos := l.position()
	for _, op := range operators {
		if !l.hasPrefix(op.text) {
			continue
		}
		for range len(op.text) {
			l.advance()
		}
		switch op.typ {
		case LPAREN, LBRACKET:
			l.depth++
		case RPAREN, RBRACKET:
			if l.depth > 0 {
				l.depth--
			}
		}
		l.emit(op.typ, op.text, pos)
		return
	}
	l.errorf(pos, "unexpected character %q", l.advance())
}

func (l *lexer) hasPrefix(s string) bool {
	i := l.pos
	for _, c := range s {
		if i >= len(l.src) || l.src[i] != c {
			return false
		}
		i++
	}
	return true
}

func (l *lexer) emit(typ TokenType, lexeme string, pos pyast.Pos) {
	l.toks = append(l.toks, Token{Type: typ, Lexeme: lexeme, Pos: pos})
}

func (l *lexer) errorf(pos pyast.Pos, format string, a ...any) {
	l.errs.Append(l.file.ErrorfAt(pos, format, a...))
}

func (l *lexer) position() pyast.Pos {
	return pyast.Pos{Line: l.line, Col: l.col}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

func (l *lexer) peekAt(k int) rune {
	if l.pos+k >= len(l.src) {
		return 0
	}
	return l.src[l.pos+k]
}

func (l *lexer) advance() rune {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}
