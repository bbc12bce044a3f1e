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
	"fmt"

	"github.com/gx-org/pyflat/build/pyast"
)

// TokenType is the type of a lexical token.
type TokenType int

// Token types.
const (
	EOF TokenType = iota
	NEWLINE
	INDENT
	DEDENT
	NAME
	INT
	FLOAT
	STRING

	// Keywords.
	DEF
	RETURN
	PASS
	IF
	ELIF
	ELSE
	WHILE
	AND
	OR
	NOT
	IN
	IS
	TRUE
	FALSE
	NONE

	// Operators.
	PLUS
	MINUS
	STAR
	DSTAR
	SLASH
	DSLASH
	PERCENT
	AT
	LSHIFT
	RSHIFT
	AMPER
	VBAR
	CIRCUMFLEX
	TILDE
	LT
	GT
	EQ
	NE
	LE
	GE
	ASSIGN

	// Augmented assignments.
	PLUSEQ
	MINUSEQ
	STAREQ
	DSTAREQ
	SLASHEQ
	DSLASHEQ
	PERCENTEQ
	ATEQ
	LSHIFTEQ
	RSHIFTEQ
	AMPEREQ
	VBAREQ
	CIRCUMFLEXEQ

	// Delimiters.
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMI
	DOT
	ARROW
)

var keywords = map[string]TokenType{
	"def":    DEF,
	"return": RETURN,
	"pass":   PASS,
	"if":     IF,
	"elif":   ELIF,
	"else":   ELSE,
	"while":  WHILE,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"in":     IN,
	"is":     IS,
	"True":   TRUE,
	"False":  FALSE,
	"None":   NONE,
}

// operators ordered from the longest to the shortest so that
// the lexer always matches the longest operator.
var operators = []struct {
	text string
	typ  TokenType
}{
	{"**=", DSTAREQ},
	{"//=", DSLASHEQ},
	{"<<=", LSHIFTEQ},
	{">>=", RSHIFTEQ},
	{"**", DSTAR},
	{"//", DSLASH},
	{"<<", LSHIFT},
	{">>", RSHIFT},
	{"<=", LE},
	{">=", GE},
	{"==", EQ},
	{"!=", NE},
	{"->", ARROW},
	{"+=", PLUSEQ},
	{"-=", MINUSEQ},
	{"*=", STAREQ},
	{"/=", SLASHEQ},
	{"%=", PERCENTEQ},
	{"@=", ATEQ},
	{"&=", AMPEREQ},
	{"|=", VBAREQ},
	{"^=", CIRCUMFLEXEQ},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"@", AT},
	{"&", AMPER},
	{"|", VBAR},
	{"^", CIRCUMFLEX},
	{"~", TILDE},
	{"<", LT},
	{">", GT},
	{"=", ASSIGN},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACKET},
	{"]", RBRACKET},
	{",", COMMA},
	{":", COLON},
	{";", SEMI},
	{".", DOT},
}

var tokenNames = map[TokenType]string{
	EOF:     "end of file",
	NEWLINE: "newline",
	INDENT:  "indent",
	DEDENT:  "dedent",
	NAME:    "name",
	INT:     "integer",
	FLOAT:   "float",
	STRING:  "string",
}

func init() {
	for text, typ := range keywords {
		tokenNames[typ] = text
	}
	for _, op := range operators {
		tokenNames[op.typ] = op.text
	}
}

// String returns a description of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token.
type Token struct {
	Type TokenType
	// Lexeme is the source text of the token,
	// except for strings where it is the decoded value.
	Lexeme string
	Pos    pyast.Pos
}

// String returns a description of the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case NAME, INT, FLOAT:
		return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
	case STRING:
		return fmt.Sprintf("string %q", t.Lexeme)
	case EOF, NEWLINE, INDENT, DEDENT:
		return t.Type.String()
	}
	return fmt.Sprintf("%q", t.Type.String())
}
