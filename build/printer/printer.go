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

// Package printer renders pyast trees as Python source.
//
// The output follows the layout of Python's ast.unparse: four spaces per
// indentation level, a blank line before function definitions, and only the
// parentheses required by operator precedence.
package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	pyfmt "github.com/gx-org/pyflat/base/fmt"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/pkg/errors"
)

// precedence of an expression, from the loosest to the tightest binding.
type precedence int

const (
	precTuple precedence = iota
	precTest
	precOr
	precAnd
	precNot
	precCmp
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precFactor
	precPower
	precAtom
)

var binaryPrec = map[pyast.Operator]precedence{
	pyast.Add:      precArith,
	pyast.Sub:      precArith,
	pyast.Mult:     precTerm,
	pyast.MatMult:  precTerm,
	pyast.Div:      precTerm,
	pyast.Mod:      precTerm,
	pyast.FloorDiv: precTerm,
	pyast.Pow:      precPower,
	pyast.LShift:   precShift,
	pyast.RShift:   precShift,
	pyast.BitOr:    precBitOr,
	pyast.BitXor:   precBitXor,
	pyast.BitAnd:   precBitAnd,
}

type printer struct {
	s      strings.Builder
	indent int
	err    error
}

// String returns the source of a node.
// Nodes which cannot be printed are rendered as comments.
func String(node pyast.Node) string {
	p := &printer{}
	p.node(node)
	return p.s.String()
}

// Fprint writes the source of a node, followed by a newline unless the
// source is empty.
func Fprint(w io.Writer, node pyast.Node) error {
	p := &printer{}
	p.node(node)
	if p.err != nil {
		return p.err
	}
	out := p.s.String()
	if out != "" {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func (p *printer) write(ss ...string) {
	for _, s := range ss {
		p.s.WriteString(s)
	}
}

// maybeNewline starts a new line unless nothing has been written yet.
func (p *printer) maybeNewline() {
	if p.s.Len() > 0 {
		p.write("\n")
	}
}

// fill starts a new indented line.
func (p *printer) fill(text string) {
	p.maybeNewline()
	p.write(strings.Repeat(pyfmt.IndentUnit, p.indent), text)
}

func (p *printer) unsupported(node pyast.Node) {
	if p.err == nil {
		p.err = errors.Errorf("cannot print node of type %T", node)
	}
	p.write(fmt.Sprintf("<%T>", node))
}

func (p *printer) node(node pyast.Node) {
	switch nodeT := node.(type) {
	case *pyast.Module:
		p.stmts(nodeT.Body)
	case pyast.Stmt:
		p.stmt(nodeT)
	case pyast.Expr:
		p.expr(nodeT, precTest)
	case *pyast.Keyword:
		p.keyword(nodeT)
	default:
		p.unsupported(node)
	}
}

// ----------------------------------------------------------------------------
// Statements.

func (p *printer) stmts(stmts []pyast.Stmt) {
	for _, stmt := range stmts {
		p.stmt(stmt)
	}
}

func (p *printer) block(body []pyast.Stmt) {
	p.write(":")
	p.indent++
	p.stmts(body)
	p.indent--
}

func (p *printer) stmt(stmt pyast.Stmt) {
	switch stmtT := stmt.(type) {
	case *pyast.FunctionDef:
		p.maybeNewline()
		p.fill("def " + stmtT.Name + "(" + strings.Join(stmtT.Params, ", ") + ")")
		p.block(stmtT.Body)
	case *pyast.Return:
		p.fill("return")
		if stmtT.Value != nil {
			p.write(" ")
			p.expr(stmtT.Value, precTest)
		}
	case *pyast.Assign:
		p.fill("")
		for _, target := range stmtT.Targets {
			p.expr(target, precTuple)
			p.write(" = ")
		}
		p.expr(stmtT.Value, precTest)
	case *pyast.AugAssign:
		p.fill("")
		p.expr(stmtT.Target, precTuple)
		p.write(" ", stmtT.Op.String(), "= ")
		p.expr(stmtT.Value, precTest)
	case *pyast.ExprStmt:
		p.fill("")
		p.expr(stmtT.Value, precTest)
	case *pyast.Pass:
		p.fill("pass")
	case *pyast.If:
		p.ifStmt(stmtT)
	case *pyast.While:
		p.fill("while ")
		p.expr(stmtT.Test, precTest)
		p.block(stmtT.Body)
	default:
		p.fill("")
		p.unsupported(stmt)
	}
}

func (p *printer) ifStmt(stmt *pyast.If) {
	p.fill("if ")
	p.expr(stmt.Test, precTest)
	p.block(stmt.Body)
	// An else clause only made of an if statement is printed as elif.
	for len(stmt.Orelse) == 1 {
		elif, ok := stmt.Orelse[0].(*pyast.If)
		if !ok {
			break
		}
		stmt = elif
		p.fill("elif ")
		p.expr(stmt.Test, precTest)
		p.block(stmt.Body)
	}
	if len(stmt.Orelse) > 0 {
		p.fill("else")
		p.block(stmt.Orelse)
	}
}

// ----------------------------------------------------------------------------
// Expressions.

// expr prints an expression in a context requiring a given precedence.
func (p *printer) expr(expr pyast.Expr, ctx precedence) {
	switch exprT := expr.(type) {
	case *pyast.Name:
		p.write(exprT.ID)
	case *pyast.Constant:
		p.write(constant(exprT))
	case *pyast.UnaryOp:
		p.unaryOp(exprT, ctx)
	case *pyast.BinOp:
		p.binOp(exprT, ctx)
	case *pyast.Call:
		p.call(exprT)
	case *pyast.Tuple:
		p.tuple(exprT, ctx)
	case *pyast.Compare:
		p.compare(exprT, ctx)
	case *pyast.BoolOp:
		p.boolOp(exprT, ctx)
	case *pyast.Attribute:
		p.expr(exprT.Value, precAtom)
		if cst, ok := exprT.Value.(*pyast.Constant); ok && cst.Kind == pyast.Int {
			p.write(" ")
		}
		p.write(".", exprT.Attr)
	case *pyast.Subscript:
		p.subscript(exprT)
	default:
		p.unsupported(expr)
	}
}

func (p *printer) parenIf(cond bool, f func()) {
	if cond {
		p.write("(")
	}
	f()
	if cond {
		p.write(")")
	}
}

func (p *printer) unaryOp(expr *pyast.UnaryOp, ctx precedence) {
	prec := precFactor
	if expr.Op == pyast.Not {
		prec = precNot
	}
	p.parenIf(ctx > prec, func() {
		p.write(expr.Op.String())
		if prec != precFactor {
			p.write(" ")
		}
		p.expr(expr.Operand, prec)
	})
}

func (p *printer) binOp(expr *pyast.BinOp, ctx precedence) {
	prec, ok := binaryPrec[expr.Op]
	if !ok {
		p.unsupported(expr)
		return
	}
	left, right := prec, prec+1
	if expr.Op == pyast.Pow {
		left, right = prec+1, prec
	}
	p.parenIf(ctx > prec, func() {
		p.expr(expr.Left, left)
		p.write(" ", expr.Op.String(), " ")
		p.expr(expr.Right, right)
	})
}

func (p *printer) call(expr *pyast.Call) {
	p.expr(expr.Func, precAtom)
	p.write("(")
	first := true
	sep := func() {
		if !first {
			p.write(", ")
		}
		first = false
	}
	for _, arg := range expr.Args {
		sep()
		p.expr(arg, precTest)
	}
	for _, kw := range expr.Keywords {
		sep()
		p.keyword(kw)
	}
	p.write(")")
}

func (p *printer) keyword(kw *pyast.Keyword) {
	p.write(kw.Arg, "=")
	p.expr(kw.Value, precTest)
}

func (p *printer) items(elts []pyast.Expr) {
	if len(elts) == 1 {
		p.expr(elts[0], precTest)
		p.write(",")
		return
	}
	for i, elt := range elts {
		if i > 0 {
			p.write(", ")
		}
		p.expr(elt, precTest)
	}
}

func (p *printer) tuple(expr *pyast.Tuple, ctx precedence) {
	p.parenIf(len(expr.Elts) == 0 || ctx > precTuple, func() {
		p.items(expr.Elts)
	})
}

func (p *printer) compare(expr *pyast.Compare, ctx precedence) {
	p.parenIf(ctx > precCmp, func() {
		p.expr(expr.Left, precCmp+1)
		for i, op := range expr.Ops {
			p.write(" ", op.String(), " ")
			if i < len(expr.Comparators) {
				p.expr(expr.Comparators[i], precCmp+1)
			}
		}
	})
}

// boolOp prints a boolean operation. Each operand after the first requires
// a tighter precedence than the previous one.
func (p *printer) boolOp(expr *pyast.BoolOp, ctx precedence) {
	prec := precOr
	if expr.Op == pyast.And {
		prec = precAnd
	}
	p.parenIf(ctx > prec, func() {
		valPrec := prec
		for i, val := range expr.Values {
			if i > 0 {
				p.write(" ", expr.Op.String(), " ")
			}
			valPrec++
			p.expr(val, valPrec)
		}
	})
}

func (p *printer) subscript(expr *pyast.Subscript) {
	p.expr(expr.Value, precAtom)
	p.write("[")
	if tuple, ok := expr.Index.(*pyast.Tuple); ok && len(tuple.Elts) > 0 {
		p.items(tuple.Elts)
	} else {
		p.expr(expr.Index, precTuple)
	}
	p.write("]")
}

// constant returns the source of a literal.
// Numbers are printed as written in the source.
func constant(cst *pyast.Constant) string {
	if cst.Kind == pyast.Str {
		return quote(cst.Value)
	}
	return cst.Value
}

// quote returns a Python string literal for s, using single quotes
// unless the string contains single quotes but no double quotes.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, c := range s {
		switch {
		case c == q || c == '\\':
			b.WriteRune('\\')
			b.WriteRune(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(c):
			b.WriteRune(c)
		case c < 0x100:
			fmt.Fprintf(&b, `\x%02x`, c)
		case c < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			fmt.Fprintf(&b, `\U%08x`, c)
		}
	}
	b.WriteRune(q)
	return b.String()
}
