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

// Package parser parses a subset of Python into pyast trees.
//
// The subset covers function definitions, return, pass, assignments,
// augmented assignments, if and while statements, and expressions built from
// names, literals, unary and binary operators, comparisons, boolean operators,
// calls, attributes, subscripts and tuples.
package parser

import (
	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
)

// ParseFile parses the source of a Python file.
// If the source contains syntax errors, a partial module is returned together
// with an error listing all the errors found.
func ParseFile(name string, src []byte) (*pyast.Module, error) {
	p := &parser{file: fmterr.File{Name: name}}
	p.toks = lex(p.file, &p.errs, string(src))
	mod := &pyast.Module{Body: p.stmts(EOF)}
	return mod, p.errs.ToError()
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (pyast.Expr, error) {
	p := &parser{}
	p.toks = lex(p.file, &p.errs, src)
	var expr pyast.Expr
	func() {
		defer p.recoverBailout()
		expr = p.exprList()
		p.skip(NEWLINE)
		p.expect(EOF)
	}()
	if err := p.errs.ToError(); err != nil {
		return nil, err
	}
	return expr, nil
}

// bailout is raised by the parser to abandon the current statement
// after a syntax error has been recorded.
type bailout struct{}

type parser struct {
	file fmterr.File
	errs fmterr.Errors

	toks []Token
	pos  int
}

func (p *parser) recoverBailout() {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
}

// ----------------------------------------------------------------------------
// Statements.

// stmts parses statements until a given token type.
func (p *parser) stmts(end TokenType) []pyast.Stmt {
	var stmts []pyast.Stmt
	for !p.at(end) && !p.at(EOF) {
		stmts = append(stmts, p.stmtOrSync()...)
	}
	return stmts
}

// stmtOrSync parses a statement. On a syntax error, the rest of the line
// and any block indented below it are skipped.
func (p *parser) stmtOrSync() (stmts []pyast.Stmt) {
	start := p.pos
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		p.sync(start)
		stmts = nil
	}()
	return p.stmt()
}

func (p *parser) sync(start int) {
	depth := 0
	for !p.at(NEWLINE) && !p.at(EOF) {
		depth += nesting(p.next())
	}
	p.skip(NEWLINE)
	if p.at(INDENT) {
		depth += nesting(p.next())
	}
	for depth > 0 && !p.at(EOF) {
		depth += nesting(p.next())
	}
	if p.pos == start && !p.at(EOF) {
		p.next()
	}
}

// nesting returns the change of indentation level caused by a token.
func nesting(tok Token) int {
	switch tok.Type {
	case INDENT:
		return 1
	case DEDENT:
		return -1
	}
	return 0
}

func (p *parser) stmt() []pyast.Stmt {
	switch p.tok().Type {
	case DEF:
		return []pyast.Stmt{p.funcDef()}
	case IF:
		return []pyast.Stmt{p.ifStmt()}
	case WHILE:
		return []pyast.Stmt{p.whileStmt()}
	case INDENT:
		p.errorf("unexpected indent")
	case DEDENT:
		p.errorf("unexpected dedent")
	}
	return p.simpleStmts()
}

func (p *parser) funcDef() *pyast.FunctionDef {
	def := p.expect(DEF)
	name := p.expect(NAME)
	p.expect(LPAREN)
	var params []string
	for !p.at(RPAREN) {
		params = append(params, p.expect(NAME).Lexeme)
		if !p.at(COMMA) {
			break
		}
		p.next()
	}
	p.expect(RPAREN)
	p.expect(COLON)
	return &pyast.FunctionDef{
		Loc:    def.Pos,
		Name:   name.Lexeme,
		Params: params,
		Body:   p.block(),
	}
}

func (p *parser) ifStmt() *pyast.If {
	kw := p.next() // if or elif
	stmt := &pyast.If{Loc: kw.Pos, Test: p.test()}
	p.expect(COLON)
	stmt.Body = p.block()
	switch p.tok().Type {
	case ELIF:
		stmt.Orelse = []pyast.Stmt{p.ifStmt()}
	case ELSE:
		p.next()
		p.expect(COLON)
		stmt.Orelse = p.block()
	}
	return stmt
}

func (p *parser) whileStmt() *pyast.While {
	kw := p.expect(WHILE)
	stmt := &pyast.While{Loc: kw.Pos, Test: p.test()}
	p.expect(COLON)
	stmt.Body = p.block()
	return stmt
}

// block parses the body of a compound statement: either an indented
// block or simple statements on the same line.
func (p *parser) block() []pyast.Stmt {
	if !p.at(NEWLINE) {
		return p.simpleStmts()
	}
	p.next()
	p.expect(INDENT)
	body := p.stmts(DEDENT)
	p.expect(DEDENT)
	return body
}

func (p *parser) simpleStmts() []pyast.Stmt {
	var stmts []pyast.Stmt
	for {
		stmts = append(stmts, p.simpleStmt())
		if !p.at(SEMI) {
			break
		}
		p.next()
		if p.at(NEWLINE) {
			break
		}
	}
	p.expect(NEWLINE)
	return stmts
}

var augOps = map[TokenType]pyast.Operator{
	PLUSEQ:       pyast.Add,
	MINUSEQ:      pyast.Sub,
	STAREQ:       pyast.Mult,
	ATEQ:         pyast.MatMult,
	SLASHEQ:      pyast.Div,
	PERCENTEQ:    pyast.Mod,
	DSTAREQ:      pyast.Pow,
	LSHIFTEQ:     pyast.LShift,
	RSHIFTEQ:     pyast.RShift,
	VBAREQ:       pyast.BitOr,
	CIRCUMFLEXEQ: pyast.BitXor,
	AMPEREQ:      pyast.BitAnd,
	DSLASHEQ:     pyast.FloorDiv,
}

func (p *parser) simpleStmt() pyast.Stmt {
	tok := p.tok()
	switch tok.Type {
	case PASS:
		p.next()
		return &pyast.Pass{Loc: tok.Pos}
	case RETURN:
		p.next()
		ret := &pyast.Return{Loc: tok.Pos}
		if p.startsExpr() {
			ret.Value = p.exprList()
		}
		return ret
	}
	first := p.exprList()
	if op, ok := augOps[p.tok().Type]; ok {
		p.checkTarget(first, false)
		p.next()
		return &pyast.AugAssign{
			Loc:    first.Pos(),
			Target: first,
			Op:     op,
			Value:  p.exprList(),
		}
	}
	if !p.at(ASSIGN) {
		return &pyast.ExprStmt{Loc: first.Pos(), Value: first}
	}
	targets := []pyast.Expr{first}
	for {
		p.checkTarget(targets[len(targets)-1], true)
		p.expect(ASSIGN)
		value := p.exprList()
		if !p.at(ASSIGN) {
			return &pyast.Assign{
				Loc:     first.Pos(),
				Targets: targets,
				Value:   value,
			}
		}
		targets = append(targets, value)
	}
}

// checkTarget reports an error if an expression cannot be assigned to.
func (p *parser) checkTarget(expr pyast.Expr, tupleOK bool) {
	switch exprT := expr.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Subscript:
		return
	case *pyast.Tuple:
		if tupleOK {
			for _, elt := range exprT.Elts {
				p.checkTarget(elt, true)
			}
			return
		}
	}
	p.errs.Append(p.file.Errorf(expr, "cannot assign to expression"))
	panic(bailout{})
}

// ----------------------------------------------------------------------------
// Expressions.

// exprList parses expressions separated by commas.
// A single expression without a trailing comma is not a tuple.
func (p *parser) exprList() pyast.Expr {
	first := p.test()
	if !p.at(COMMA) {
		return first
	}
	elts := []pyast.Expr{first}
	for p.at(COMMA) {
		p.next()
		if !p.startsExpr() {
			break
		}
		elts = append(elts, p.test())
	}
	return &pyast.Tuple{Loc: first.Pos(), Elts: elts}
}

func (p *parser) test() pyast.Expr {
	return p.boolOp(OR, pyast.Or, p.andTest)
}

func (p *parser) andTest() pyast.Expr {
	return p.boolOp(AND, pyast.And, p.notTest)
}

func (p *parser) boolOp(typ TokenType, op pyast.BoolOperator, operand func() pyast.Expr) pyast.Expr {
	first := operand()
	if !p.at(typ) {
		return first
	}
	values := []pyast.Expr{first}
	for p.at(typ) {
		p.next()
		values = append(values, operand())
	}
	return &pyast.BoolOp{Loc: first.Pos(), Op: op, Values: values}
}

func (p *parser) notTest() pyast.Expr {
	if !p.at(NOT) {
		return p.comparison()
	}
	tok := p.next()
	return &pyast.UnaryOp{Loc: tok.Pos, Op: pyast.Not, Operand: p.notTest()}
}

func (p *parser) comparison() pyast.Expr {
	left := p.bitOr()
	var ops []pyast.CmpOperator
	var comparators []pyast.Expr
	for {
		op, ok := p.cmpOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.bitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return &pyast.Compare{
		Loc:         left.Pos(),
		Left:        left,
		Ops:         ops,
		Comparators: comparators,
	}
}

var cmpOps = map[TokenType]pyast.CmpOperator{
	EQ: pyast.Eq,
	NE: pyast.NotEq,
	LT: pyast.Lt,
	LE: pyast.LtE,
	GT: pyast.Gt,
	GE: pyast.GtE,
	IN: pyast.In,
}

// cmpOp consumes a comparison operator, including the two-word
// operators "not in" and "is not".
func (p *parser) cmpOp() (pyast.CmpOperator, bool) {
	switch p.tok().Type {
	case NOT:
		if p.peek(1).Type != IN {
			return 0, false
		}
		p.next()
		p.next()
		return pyast.NotIn, true
	case IS:
		p.next()
		if p.at(NOT) {
			p.next()
			return pyast.IsNot, true
		}
		return pyast.Is, true
	}
	op, ok := cmpOps[p.tok().Type]
	if ok {
		p.next()
	}
	return op, ok
}

var (
	bitOrOps  = map[TokenType]pyast.Operator{VBAR: pyast.BitOr}
	bitXorOps = map[TokenType]pyast.Operator{CIRCUMFLEX: pyast.BitXor}
	bitAndOps = map[TokenType]pyast.Operator{AMPER: pyast.BitAnd}
	shiftOps  = map[TokenType]pyast.Operator{LSHIFT: pyast.LShift, RSHIFT: pyast.RShift}
	arithOps  = map[TokenType]pyast.Operator{PLUS: pyast.Add, MINUS: pyast.Sub}
	termOps   = map[TokenType]pyast.Operator{
		STAR:    pyast.Mult,
		SLASH:   pyast.Div,
		DSLASH:  pyast.FloorDiv,
		PERCENT: pyast.Mod,
		AT:      pyast.MatMult,
	}
)

// binary parses left-associative binary operations.
func (p *parser) binary(ops map[TokenType]pyast.Operator, operand func() pyast.Expr) pyast.Expr {
	left := operand()
	for {
		op, ok := ops[p.tok().Type]
		if !ok {
			return left
		}
		p.next()
		left = &pyast.BinOp{
			Loc:   left.Pos(),
			Left:  left,
			Op:    op,
			Right: operand(),
		}
	}
}

func (p *parser) bitOr() pyast.Expr  { return p.binary(bitOrOps, p.bitXor) }
func (p *parser) bitXor() pyast.Expr { return p.binary(bitXorOps, p.bitAnd) }
func (p *parser) bitAnd() pyast.Expr { return p.binary(bitAndOps, p.shift) }
func (p *parser) shift() pyast.Expr  { return p.binary(shiftOps, p.arith) }
func (p *parser) arith() pyast.Expr  { return p.binary(arithOps, p.term) }
func (p *parser) term() pyast.Expr   { return p.binary(termOps, p.factor) }

var unaryOps = map[TokenType]pyast.UnaryOperator{
	PLUS:  pyast.UAdd,
	MINUS: pyast.USub,
	TILDE: pyast.Invert,
}

func (p *parser) factor() pyast.Expr {
	op, ok := unaryOps[p.tok().Type]
	if !ok {
		return p.power()
	}
	tok := p.next()
	return &pyast.UnaryOp{Loc: tok.Pos, Op: op, Operand: p.factor()}
}

// power parses x ** y. The operator is right-associative
// and binds tighter than a unary operator on its left.
func (p *parser) power() pyast.Expr {
	base := p.primary()
	if !p.at(DSTAR) {
		return base
	}
	p.next()
	return &pyast.BinOp{
		Loc:   base.Pos(),
		Left:  base,
		Op:    pyast.Pow,
		Right: p.factor(),
	}
}

func (p *parser) primary() pyast.Expr {
	expr := p.atom()
	for {
		switch p.tok().Type {
		case LPAREN:
			expr = p.call(expr)
		case LBRACKET:
			p.next()
			expr = &pyast.Subscript{Loc: expr.Pos(), Value: expr, Index: p.exprList()}
			p.expect(RBRACKET)
		case DOT:
			p.next()
			attr := p.expect(NAME)
			expr = &pyast.Attribute{Loc: expr.Pos(), Value: expr, Attr: attr.Lexeme}
		default:
			return expr
		}
	}
}

func (p *parser) call(fun pyast.Expr) pyast.Expr {
	p.expect(LPAREN)
	call := &pyast.Call{Loc: fun.Pos(), Func: fun}
	for !p.at(RPAREN) {
		if p.at(NAME) && p.peek(1).Type == ASSIGN {
			name := p.next()
			p.next()
			call.Keywords = append(call.Keywords, &pyast.Keyword{
				Loc:   name.Pos,
				Arg:   name.Lexeme,
				Value: p.test(),
			})
		} else {
			if len(call.Keywords) > 0 {
				p.errorf("positional argument follows keyword argument")
			}
			call.Args = append(call.Args, p.test())
		}
		if !p.at(COMMA) {
			break
		}
		p.next()
	}
	p.expect(RPAREN)
	return call
}

func (p *parser) atom() pyast.Expr {
	tok := p.tok()
	switch tok.Type {
	case NAME:
		p.next()
		return &pyast.Name{Loc: tok.Pos, ID: tok.Lexeme}
	case INT:
		p.next()
		return &pyast.Constant{Loc: tok.Pos, Kind: pyast.Int, Value: tok.Lexeme}
	case FLOAT:
		p.next()
		return &pyast.Constant{Loc: tok.Pos, Kind: pyast.Float, Value: tok.Lexeme}
	case STRING:
		// Adjacent string literals are concatenated.
		value := ""
		for p.at(STRING) {
			value += p.next().Lexeme
		}
		return &pyast.Constant{Loc: tok.Pos, Kind: pyast.Str, Value: value}
	case TRUE, FALSE:
		p.next()
		return &pyast.Constant{Loc: tok.Pos, Kind: pyast.Bool, Value: tok.Lexeme}
	case NONE:
		p.next()
		return &pyast.Constant{Loc: tok.Pos, Kind: pyast.None, Value: tok.Lexeme}
	case LPAREN:
		return p.paren()
	}
	p.errorf("expected expression, found %s", tok)
	return nil
}

// paren parses a parenthesized expression or a tuple.
func (p *parser) paren() pyast.Expr {
	lparen := p.expect(LPAREN)
	if p.at(RPAREN) {
		p.next()
		return &pyast.Tuple{Loc: lparen.Pos}
	}
	expr := p.exprList()
	p.expect(RPAREN)
	if tuple, ok := expr.(*pyast.Tuple); ok {
		tuple.Loc = lparen.Pos
	}
	return expr
}

// ----------------------------------------------------------------------------
// Tokens.

// startsExpr returns true if the current token can start an expression.
func (p *parser) startsExpr() bool {
	switch p.tok().Type {
	case NAME, INT, FLOAT, STRING, TRUE, FALSE, NONE, LPAREN, MINUS, PLUS, TILDE, NOT:
		return true
	}
	return false
}

func (p *parser) tok() Token {
	return p.peek(0)
}

func (p *parser) peek(k int) Token {
	if p.pos+k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+k]
}

func (p *parser) at(typ TokenType) bool {
	return p.tok().Type == typ
}

func (p *parser) next() Token {
	tok := p.tok()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) skip(typ TokenType) {
	if p.at(typ) {
		p.next()
	}
}

// expect consumes a token of a given type or abandons the current statement.
func (p *parser) expect(typ TokenType) Token {
	if !p.at(typ) {
		p.errorf("expected %q, found %s", typ.String(), p.tok())
	}
	return p.next()
}

// errorf records an error at the current token and abandons the current statement.
func (p *parser) errorf(format string, a ...any) {
	p.errs.Append(p.file.ErrorfAt(p.tok().Pos, format, a...))
	panic(bailout{})
}
