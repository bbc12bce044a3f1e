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

package lower

import "github.com/gx-org/pyflat/build/pyast"

// isOperation returns true if the expression is a unary operation,
// a binary operation or a call.
func isOperation(expr pyast.Expr) bool {
	switch expr.(type) {
	case *pyast.UnaryOp, *pyast.BinOp, *pyast.Call:
		return true
	}
	return false
}

func isTuple(expr pyast.Expr) bool {
	_, ok := expr.(*pyast.Tuple)
	return ok
}

// flatten decomposes an expression into a list of assignments to temporaries
// and a value which can be used once all the assignments have been executed.
//
// The value is a name, a constant, a tuple of names and constants, or a copy
// of an expression kind the pass does not decompose.
func (fl *funcLowerer) flatten(expr pyast.Expr) ([]*pyast.Assign, pyast.Expr) {
	switch exprT := expr.(type) {
	case *pyast.UnaryOp:
		// The operation is always bound to a temporary,
		// even if the operand is already a name or a constant.
		assigns, operand := fl.flatten(exprT.Operand)
		return fl.bind(assigns, &pyast.UnaryOp{
			Loc:     exprT.Loc,
			Op:      exprT.Op,
			Operand: operand,
		})
	case *pyast.BinOp:
		left, x := fl.flatten(exprT.Left)
		right, y := fl.flatten(exprT.Right)
		return fl.bind(append(left, right...), &pyast.BinOp{
			Loc:   exprT.Loc,
			Left:  x,
			Op:    exprT.Op,
			Right: y,
		})
	case *pyast.Call:
		assigns, args := fl.operands(exprT.Args)
		return fl.bind(assigns, &pyast.Call{
			Loc:      exprT.Loc,
			Func:     keep(fl.errs, exprT.Func),
			Args:     args,
			Keywords: keepAll(fl.errs, exprT.Keywords),
		})
	case *pyast.Tuple:
		assigns, elts := fl.operands(exprT.Elts)
		return assigns, &pyast.Tuple{
			Loc:  exprT.Loc,
			Elts: elts,
		}
	default:
		return nil, keep(fl.errs, expr)
	}
}

// operands flattens the arguments of a call or the elements of a tuple.
// Only operations are flattened: other expressions, including names,
// constants and tuples, are kept as is.
func (fl *funcLowerer) operands(exprs []pyast.Expr) ([]*pyast.Assign, []pyast.Expr) {
	var assigns []*pyast.Assign
	vals := make([]pyast.Expr, len(exprs))
	for i, expr := range exprs {
		if !isOperation(expr) {
			vals[i] = keep(fl.errs, expr)
			continue
		}
		var sub []*pyast.Assign
		sub, vals[i] = fl.flatten(expr)
		assigns = append(assigns, sub...)
	}
	return assigns, vals
}

// bind appends the assignment of an operation to a new temporary
// and returns a reference to that temporary.
func (fl *funcLowerer) bind(assigns []*pyast.Assign, op pyast.Expr) ([]*pyast.Assign, pyast.Expr) {
	name := fl.temps.Next()
	assigns = append(assigns, &pyast.Assign{
		Loc:     op.Pos(),
		Targets: []pyast.Expr{pyast.NewName(name)},
		Value:   op,
	})
	return assigns, pyast.NewName(name)
}
