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

// Package lower rewrites function bodies into three-address form.
//
// Every unary operation, binary operation and call nested in the value of a
// return or an assignment, including those in the bodies of if and while
// statements, is bound to a fresh temporary variable, in evaluation order, so that each statement of the lowered body performs at most one operation
// on names and constants. Temporaries are named v0, v1, ... and the numbering
// restarts for each function.
//
// The input tree is never modified: the pass builds a new tree sharing no node
// with its input.
package lower

import (
	"slices"

	"github.com/gx-org/pyflat/base/logger"
	"github.com/gx-org/pyflat/base/uname"
	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/gx-org/pyflat/internal/astbuilder"
	"github.com/pkg/errors"
)

// DefaultPrefix is the prefix of temporary variables.
const DefaultPrefix = "v"

type (
	// Option configures the lowering pass.
	Option interface {
		apply(*config) error
	}

	// Prefix sets the prefix of temporary variables.
	Prefix string

	config struct {
		prefix string
	}
)

func (p Prefix) apply(cfg *config) error {
	if p == "" {
		return errors.Errorf("temporary variable prefix cannot be empty")
	}
	cfg.prefix = string(p)
	return nil
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{prefix: DefaultPrefix}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// funcLowerer lowers the body of a single function.
type funcLowerer struct {
	name  string
	temps *uname.Seq
	errs  *fmterr.Errors
}

// Module lowers all the functions defined at the top level of a module.
// Other top-level statements are copied unchanged.
func Module(mod *pyast.Module, opts ...Option) (*pyast.Module, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	errs := &fmterr.Errors{}
	temps := uname.NewSeq(cfg.prefix)
	out := &pyast.Module{Body: make([]pyast.Stmt, 0, len(mod.Body))}
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			out.Body = append(out.Body, keep(errs, stmt))
			continue
		}
		temps.Reset()
		fl := &funcLowerer{name: fn.Name, temps: temps, errs: errs}
		out.Body = append(out.Body, fl.funcDef(fn))
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return out, nil
}

// Func lowers a single function.
func Func(fn *pyast.FunctionDef, opts ...Option) (*pyast.FunctionDef, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	fl := &funcLowerer{
		name:  fn.Name,
		temps: uname.NewSeq(cfg.prefix),
		errs:  &fmterr.Errors{},
	}
	out := fl.funcDef(fn)
	if err := fl.errs.ToError(); err != nil {
		return nil, err
	}
	return out, nil
}

// funcDef builds a new function definition with a lowered body.
func (fl *funcLowerer) funcDef(fn *pyast.FunctionDef) *pyast.FunctionDef {
	body := fl.body(fn.Body)
	logger.LogLowering(fl.name, len(fn.Body), len(body), fl.temps.Count())
	return &pyast.FunctionDef{
		Loc:    fn.Loc,
		Name:   fn.Name,
		Params: slices.Clone(fn.Params),
		Body:   body,
	}
}

// nested lowers a function defined inside the body of another function.
// The nested function numbers its temporaries from 0 and does not change
// the numbering of the enclosing function.
func (fl *funcLowerer) nested(fn *pyast.FunctionDef) *pyast.FunctionDef {
	sub := &funcLowerer{
		name:  fl.name + "." + fn.Name,
		temps: uname.NewSeq(fl.temps.Prefix()),
		errs:  fl.errs,
	}
	return sub.funcDef(fn)
}

// keep returns a copy of a node the pass does not rewrite.
func keep[T pyast.Node](errs *fmterr.Errors, n T) T {
	out, err := astbuilder.Clone(n)
	if err != nil {
		errs.Append(fmterr.Internal(err))
	}
	return out
}

func keepAll[T pyast.Node](errs *fmterr.Errors, ns []T) []T {
	out, err := astbuilder.CloneAll(ns)
	if err != nil {
		errs.Append(fmterr.Internal(err))
	}
	return out
}
