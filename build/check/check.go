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

// Package check verifies that function bodies are in three-address form.
package check

import (
	"slices"

	"github.com/gx-org/pyflat/base/ordered"
	"github.com/gx-org/pyflat/base/uname"
	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/gx-org/pyflat/internal/exprdeps"
	"golang.org/x/exp/maps"
)

// Report is the result of a verification.
type Report struct {
	file   string
	prefix string
	temps  map[string]*ordered.Map[string, pyast.Pos]
	errs   fmterr.Errors
}

func newReport(file, prefix string) *Report {
	return &Report{
		file:   file,
		prefix: prefix,
		temps:  make(map[string]*ordered.Map[string, pyast.Pos]),
	}
}

// Module verifies all the functions defined at the top level of a module,
// including the functions they define.
// The file name is only used to build error messages.
func Module(file string, mod *pyast.Module, prefix string) *Report {
	r := newReport(file, prefix)
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			continue
		}
		r.funcDef(fn.Name, fn)
	}
	return r
}

// Func verifies a single function.
func Func(file string, fn *pyast.FunctionDef, prefix string) *Report {
	r := newReport(file, prefix)
	r.funcDef(fn.Name, fn)
	return r
}

// Err returns the violations found or nil if all the functions are flat.
func (r *Report) Err() error {
	return r.errs.ToError()
}

// Functions returns the qualified names of the functions verified, sorted.
// A nested function g in f is named f.g.
func (r *Report) Functions() []string {
	keys := maps.Keys(r.temps)
	slices.Sort(keys)
	return keys
}

// Temps returns the temporaries of a function in order of definition.
func (r *Report) Temps(fun string) []string {
	temps, ok := r.temps[fun]
	if !ok {
		return nil
	}
	return slices.Collect(temps.Keys())
}

type funcChecker struct {
	r      *Report
	name   string
	params map[string]bool
	temps  *ordered.Map[string, pyast.Pos]
}

func (r *Report) funcDef(name string, fn *pyast.FunctionDef) {
	fc := &funcChecker{
		r:      r,
		name:   name,
		params: make(map[string]bool),
		temps:  ordered.NewMap[string, pyast.Pos](),
	}
	for _, param := range fn.Params {
		fc.params[param] = true
	}
	r.temps[name] = fc.temps
	fc.stmts(fn.Body)
}

func (fc *funcChecker) errorf(node pyast.Node, format string, a ...any) {
	args := append([]any{fc.name}, a...)
	fc.r.errs.Append(fmterr.Errorf(fc.r.file, node.Pos(), "function %s: "+format, args...))
}

func (fc *funcChecker) stmt(stmt pyast.Stmt) {
	switch stmtT := stmt.(type) {
	case *pyast.Assign:
		fc.value(stmtT, stmtT.Value)
		for _, target := range stmtT.Targets {
			fc.define(stmtT, target)
		}
	case *pyast.Return:
		if stmtT.Value != nil {
			fc.value(stmtT, stmtT.Value)
		}
	case *pyast.If:
		fc.stmts(stmtT.Body)
		fc.stmts(stmtT.Orelse)
	case *pyast.While:
		fc.stmts(stmtT.Body)
	case *pyast.FunctionDef:
		fc.r.funcDef(fc.name+"."+stmtT.Name, stmtT)
	}
}

func (fc *funcChecker) stmts(stmts []pyast.Stmt) {
	for _, stmt := range stmts {
		fc.stmt(stmt)
	}
}

// value checks the value of an assignment or a return statement.
func (fc *funcChecker) value(stmt pyast.Stmt, value pyast.Expr) {
	if !flat(value) {
		fc.errorf(stmt, "expression is not in three-address form")
	}
	for _, ident := range exprdeps.Idents(value) {
		if !fc.isTemp(ident.ID) {
			continue
		}
		if _, defined := fc.temps.Load(ident.ID); !defined {
			fc.errorf(stmt, "temporary %s used before assignment", ident.ID)
		}
	}
}

// define records the temporaries assigned by a target.
func (fc *funcChecker) define(stmt pyast.Stmt, target pyast.Expr) {
	switch targetT := target.(type) {
	case *pyast.Name:
		if !fc.isTemp(targetT.ID) {
			return
		}
		if _, loaded := fc.temps.LoadOrStore(targetT.ID, stmt.Pos()); loaded {
			fc.errorf(stmt, "temporary %s assigned more than once", targetT.ID)
		}
	case *pyast.Tuple:
		for _, elt := range targetT.Elts {
			fc.define(stmt, elt)
		}
	}
}

func (fc *funcChecker) isTemp(name string) bool {
	return !fc.params[name] && uname.Generated(fc.r.prefix, name)
}

// isOperation returns true for the expressions bound to temporaries
// by the lowering pass.
func isOperation(expr pyast.Expr) bool {
	switch expr.(type) {
	case *pyast.UnaryOp, *pyast.BinOp, *pyast.Call:
		return true
	}
	return false
}

// operand returns true if an expression can be the operand of an operation
// in three-address form: any expression other than an operation, with tuples
// only made of such operands.
func operand(expr pyast.Expr) bool {
	if isOperation(expr) {
		return false
	}
	tuple, ok := expr.(*pyast.Tuple)
	if !ok {
		return true
	}
	for _, elt := range tuple.Elts {
		if !operand(elt) {
			return false
		}
	}
	return true
}

// flat returns true if an expression is an operand or a single operation
// applied to operands.
// Keyword arguments and the called expression are not checked.
func flat(expr pyast.Expr) bool {
	switch exprT := expr.(type) {
	case *pyast.UnaryOp:
		return operand(exprT.Operand)
	case *pyast.BinOp:
		return operand(exprT.Left) && operand(exprT.Right)
	case *pyast.Call:
		for _, arg := range exprT.Args {
			if !operand(arg) {
				return false
			}
		}
		return true
	}
	return operand(expr)
}
