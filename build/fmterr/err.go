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

// Package fmterr formats errors attached to positions in Python source.
package fmterr

import (
	"fmt"
	"runtime/debug"

	"github.com/gx-org/pyflat/build/pyast"
	"github.com/pkg/errors"
)

type (
	// ErrorWithPos is an error attached to a position in a source file.
	ErrorWithPos interface {
		error
		File() string
		Pos() pyast.Pos
		Err() error
	}

	errorWithPos struct {
		file string
		pos  pyast.Pos
		err  error
	}
)

// Position adds position information to an error.
func Position(file string, pos pyast.Pos, err error) ErrorWithPos {
	return errorWithPos{
		file: file,
		pos:  pos,
		err:  err,
	}
}

// Errorf returns a formatted compiler error for the user.
func Errorf(file string, pos pyast.Pos, format string, a ...any) error {
	return Position(file, pos, errors.Errorf(format, a...))
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("pyflat internal error. This is a bug in pyflat. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(file string, pos pyast.Pos, format string, a ...any) error {
	return Internal(Errorf(file, pos, format, a...))
}

// Error returns a string description of the error.
func (err errorWithPos) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	return PosString(err.file, err.pos) + " " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) File() string {
	return err.file
}

func (err errorWithPos) Pos() pyast.Pos {
	return err.pos
}

func (err errorWithPos) Err() error {
	return err.err
}

// PosString returns a position as a string that can be used for an error.
func PosString(file string, pos pyast.Pos) string {
	switch {
	case file == "":
		return pos.String() + ":"
	case !pos.IsValid():
		return file + ":"
	}
	return file + ":" + pos.String() + ":"
}
