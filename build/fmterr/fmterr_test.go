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

package fmterr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/pkg/errors"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			err:  fmterr.Errorf("a.py", pyast.Pos{Line: 3, Col: 5}, "unexpected %s", "indent"),
			want: "a.py:3:5: unexpected indent",
		},
		{
			err:  fmterr.Errorf("a.py", pyast.Pos{}, "empty"),
			want: "a.py: empty",
		},
		{
			err:  fmterr.Errorf("", pyast.Pos{Line: 1, Col: 1}, "no file"),
			want: "1:1: no file",
		},
		{
			err:  fmterr.File{Name: "b.py"}.Errorf(&pyast.Name{Loc: pyast.Pos{Line: 2, Col: 7}, ID: "x"}, "bad name"),
			want: "b.py:2:7: bad name",
		},
	}
	for i, test := range tests {
		got := test.err.Error()
		if got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
		if gotV := fmt.Sprintf("%v", test.err); gotV != test.want {
			t.Errorf("test %d: %%v formatting: got %q but want %q", i, gotV, test.want)
		}
	}
}

func TestErrorWithPos(t *testing.T) {
	cause := errors.New("cause")
	err := fmterr.Position("c.py", pyast.Pos{Line: 4, Col: 1}, cause)
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap its cause", err)
	}
	if err.File() != "c.py" || err.Pos().Line != 4 {
		t.Errorf("incorrect position: %s %s", err.File(), err.Pos())
	}
	if verbose := fmt.Sprintf("%+v", err); !strings.Contains(verbose, "Error generated at:") {
		t.Errorf("verbose formatting does not include a stack trace:\n%s", verbose)
	}
}

func TestErrors(t *testing.T) {
	var errs fmterr.Errors
	if !errs.Empty() || errs.ToError() != nil {
		t.Fatalf("new error set is not empty")
	}
	errs.Append(nil)
	if !errs.Empty() {
		t.Fatalf("appending nil changed the set")
	}
	errs.Append(errors.New("first"))
	errs.Append(errors.New("second"))
	if errs.Len() != 2 {
		t.Errorf("got %d errors but want 2", errs.Len())
	}
	if got, want := errs.ToError().Error(), "first\nsecond"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if got := len(errs.Errors()); got != 2 {
		t.Errorf("got %d errors but want 2", got)
	}
}

func TestInternal(t *testing.T) {
	err := fmterr.Internalf("d.py", pyast.Pos{Line: 1, Col: 2}, "nil statement")
	if !strings.Contains(err.Error(), "internal error") || !strings.Contains(err.Error(), "d.py:1:2: nil statement") {
		t.Errorf("unexpected internal error message: %q", err.Error())
	}
}
