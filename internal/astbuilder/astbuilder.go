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

// Package astbuilder provides helper functions to build AST trees.
package astbuilder

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/pkg/errors"
)

type cloner struct {
	errs fmterr.Errors
}

func (cl *cloner) clone(n pyast.Node) pyast.Node {
	switch nT := n.(type) {
	case nil:
		return nil
	case *pyast.Module:
		return &pyast.Module{Body: cloneAll(cl, nT.Body)}
	case *pyast.FunctionDef:
		o := *nT
		o.Params = slices.Clone(nT.Params)
		o.Body = cloneAll(cl, nT.Body)
		return &o
	case *pyast.Return:
		o := *nT
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.Assign:
		o := *nT
		o.Targets = cloneAll(cl, nT.Targets)
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.AugAssign:
		o := *nT
		o.Target = clone(cl, nT.Target)
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.ExprStmt:
		o := *nT
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.Pass:
		o := *nT
		return &o
	case *pyast.If:
		o := *nT
		o.Test = clone(cl, nT.Test)
		o.Body = cloneAll(cl, nT.Body)
		o.Orelse = cloneAll(cl, nT.Orelse)
		return &o
	case *pyast.While:
		o := *nT
		o.Test = clone(cl, nT.Test)
		o.Body = cloneAll(cl, nT.Body)
		return &o
	case *pyast.Name:
		o := *nT
		return &o
	case *pyast.Constant:
		o := *nT
		return &o
	case *pyast.UnaryOp:
		o := *nT
		o.Operand = clone(cl, nT.Operand)
		return &o
	case *pyast.BinOp:
		o := *nT
		o.Left = clone(cl, nT.Left)
		o.Right = clone(cl, nT.Right)
		return &o
	case *pyast.Call:
		o := *nT
		o.Func = clone(cl, nT.Func)
		o.Args = cloneAll(cl, nT.Args)
		o.Keywords = cloneAll(cl, nT.Keywords)
		return &o
	case *pyast.Keyword:
		o := *nT
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.Tuple:
		o := *nT
		o.Elts = cloneAll(cl, nT.Elts)
		return &o
	case *pyast.Compare:
		o := *nT
		o.Left = clone(cl, nT.Left)
		o.Ops = slices.Clone(nT.Ops)
		o.Comparators = cloneAll(cl, nT.Comparators)
		return &o
	case *pyast.BoolOp:
		o := *nT
		o.Values = cloneAll(cl, nT.Values)
		return &o
	case *pyast.Attribute:
		o := *nT
		o.Value = clone(cl, nT.Value)
		return &o
	case *pyast.Subscript:
		o := *nT
		o.Value = clone(cl, nT.Value)
		o.Index = clone(cl, nT.Index)
		return &o
	default:
		cl.errs.Append(errors.Errorf("%T not supported", nT))
		return nil
	}
}

func clone[T pyast.Node](cl *cloner, n T) (outT T) {
	out := cl.clone(n)
	if out == nil {
		return
	}
	outT, ok := out.(T)
	if !ok {
		cl.errs.Append(errors.Errorf("cannot cast %T to %s", out, reflect.TypeFor[T]().Name()))
	}
	return
}

func cloneAll[T pyast.Node](cl *cloner, ns []T) []T {
	if ns == nil {
		return nil
	}
	out := make([]T, len(ns))
	for i, n := range ns {
		out[i] = clone(cl, n)
	}
	return out
}

// Clone returns a deep copy of a node.
// The copy shares no node with the original tree.
func Clone[T pyast.Node](n T) (outT T, err error) {
	cl := &cloner{}
	outT = clone(cl, n)
	if cl.errs.Empty() {
		return
	}
	err = fmt.Errorf("cannot clone AST:\n%+v", cl.errs.ToError())
	return
}

// CloneAll returns a deep copy of a slice of nodes.
func CloneAll[T pyast.Node](ns []T) ([]T, error) {
	cl := &cloner{}
	out := cloneAll(cl, ns)
	if cl.errs.Empty() {
		return out, nil
	}
	return nil, fmt.Errorf("cannot clone AST:\n%+v", cl.errs.ToError())
}
