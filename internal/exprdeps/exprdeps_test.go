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

package exprdeps_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/gx-org/pyflat/internal/exprdeps"
)

func names(vals []*pyast.Name) []string {
	ss := make([]string, len(vals))
	for i, val := range vals {
		ss[i] = val.ID
	}
	return ss
}

func TestIdents(t *testing.T) {
	xVar := pyast.NewName("x")
	yVar := pyast.NewName("y")
	one := &pyast.Constant{Kind: pyast.Int, Value: "1"}
	tests := []struct {
		expr pyast.Expr
		want []string
	}{
		{
			expr: xVar,
			want: []string{"x"},
		},
		{
			expr: one,
			want: []string{},
		},
		{
			expr: &pyast.BinOp{
				Left:  xVar,
				Op:    pyast.Add,
				Right: yVar,
			},
			want: []string{"x", "y"},
		},
		{
			expr: &pyast.BinOp{
				Left:  xVar,
				Op:    pyast.Mult,
				Right: xVar,
			},
			want: []string{"x"},
		},
		{
			expr: &pyast.Call{
				Func: pyast.NewName("f"),
				Args: []pyast.Expr{&pyast.UnaryOp{Op: pyast.USub, Operand: yVar}, one},
				Keywords: []*pyast.Keyword{
					{Arg: "k", Value: &pyast.Attribute{Value: pyast.NewName("A"), Attr: "b"}},
				},
			},
			want: []string{"f", "y", "A"},
		},
		{
			expr: &pyast.Tuple{Elts: []pyast.Expr{
				&pyast.Compare{Left: yVar, Ops: []pyast.CmpOperator{pyast.Lt}, Comparators: []pyast.Expr{xVar}},
				&pyast.BoolOp{Op: pyast.Or, Values: []pyast.Expr{xVar, pyast.NewName("z")}},
				&pyast.Subscript{Value: pyast.NewName("a"), Index: pyast.NewName("i")},
			}},
			want: []string{"y", "x", "z", "a", "i"},
		},
	}
	for i, test := range tests {
		refs := exprdeps.Idents(test.expr)
		got := names(refs)
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: incorrect identifier list: got %v but want %v", i, got, test.want)
		}
	}
}
