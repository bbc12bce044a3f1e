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

import (
	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/pkg/errors"
)

// stmt lowers a statement into one or more statements.
// The test of a conditional or a loop is kept as is, its body is lowered
// with the temporaries of the enclosing function.
func (fl *funcLowerer) stmt(stmt pyast.Stmt) []pyast.Stmt {
	switch stmtT := stmt.(type) {
	case nil:
		fl.errs.Append(fmterr.Internal(errors.Errorf("nil statement in the body of %s", fl.name)))
		return nil
	case *pyast.Return:
		return fl.returnStmt(stmtT)
	case *pyast.Assign:
		return fl.assignStmt(stmtT)
	case *pyast.If:
		return []pyast.Stmt{&pyast.If{
			Loc:    stmtT.Loc,
			Test:   keep(fl.errs, stmtT.Test),
			Body:   fl.body(stmtT.Body),
			Orelse: fl.body(stmtT.Orelse),
		}}
	case *pyast.While:
		return []pyast.Stmt{&pyast.While{
			Loc:  stmtT.Loc,
			Test: keep(fl.errs, stmtT.Test),
			Body: fl.body(stmtT.Body),
		}}
	case *pyast.FunctionDef:
		return []pyast.Stmt{fl.nested(stmtT)}
	default:
		return []pyast.Stmt{keep(fl.errs, stmt)}
	}
}

// body lowers a list of statements, splicing the statements each of them
// lowers into.
func (fl *funcLowerer) body(stmts []pyast.Stmt) []pyast.Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]pyast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, fl.stmt(stmt)...)
	}
	return out
}

func (fl *funcLowerer) returnStmt(ret *pyast.Return) []pyast.Stmt {
	if !isOperation(ret.Value) && !isTuple(ret.Value) {
		return []pyast.Stmt{keep(fl.errs, pyast.Stmt(ret))}
	}
	assigns, value := fl.flatten(ret.Value)
	return append(toStmts(assigns), &pyast.Return{
		Loc:   ret.Loc,
		Value: value,
	})
}

// assignStmt lowers an assignment.
// A tuple value is not lowered, even if it contains operations.
func (fl *funcLowerer) assignStmt(asg *pyast.Assign) []pyast.Stmt {
	if !isOperation(asg.Value) {
		return []pyast.Stmt{keep(fl.errs, pyast.Stmt(asg))}
	}
	assigns, value := fl.flatten(asg.Value)
	return append(toStmts(assigns), &pyast.Assign{
		Loc:     asg.Loc,
		Targets: keepAll(fl.errs, asg.Targets),
		Value:   value,
	})
}

func toStmts(assigns []*pyast.Assign) []pyast.Stmt {
	stmts := make([]pyast.Stmt, len(assigns), len(assigns)+1)
	for i, asg := range assigns {
		stmts[i] = asg
	}
	return stmts
}
