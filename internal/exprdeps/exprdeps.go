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

// Package exprdeps extracts identifier dependencies from AST expressions.
package exprdeps

import (
	"slices"

	"github.com/gx-org/pyflat/base/ordered"
	"github.com/gx-org/pyflat/build/pyast"
)

func idents(done *ordered.Map[string, *pyast.Name], expr pyast.Expr) {
	switch exprT := expr.(type) {
	case *pyast.Name:
		done.LoadOrStore(exprT.ID, exprT)
	case *pyast.UnaryOp:
		idents(done, exprT.Operand)
	case *pyast.BinOp:
		idents(done, exprT.Left)
		idents(done, exprT.Right)
	case *pyast.Call:
		idents(done, exprT.Func)
		for _, arg := range exprT.Args {
			idents(done, arg)
		}
		for _, kw := range exprT.Keywords {
			idents(done, kw.Value)
		}
	case *pyast.Tuple:
		for _, elt := range exprT.Elts {
			idents(done, elt)
		}
	case *pyast.Compare:
		idents(done, exprT.Left)
		for _, cmp := range exprT.Comparators {
			idents(done, cmp)
		}
	case *pyast.BoolOp:
		for _, val := range exprT.Values {
			idents(done, val)
		}
	case *pyast.Attribute:
		idents(done, exprT.Value)
	case *pyast.Subscript:
		idents(done, exprT.Value)
		idents(done, exprT.Index)
	}
}

// Idents returns all the identifiers read by an expression,
// in order of first occurrence.
func Idents(expr pyast.Expr) []*pyast.Name {
	done := ordered.NewMap[string, *pyast.Name]()
	idents(done, expr)
	return slices.Collect(done.Values())
}
