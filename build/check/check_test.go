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

package check_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pyflat/build/check"
	"github.com/gx-org/pyflat/build/parser"
	"github.com/gx-org/pyflat/build/pyast"
)

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := parser.ParseFile("test.py", []byte(strings.TrimSpace(src)+"\n"))
	if err != nil {
		t.Fatalf("cannot parse source:\n%s\nerror:\n%+v", src, err)
	}
	return mod
}

func TestFlat(t *testing.T) {
	mod := parse(t, `
def foo(a, b, c, d):
    v0 = -a
    v1 = a - b
    v2 = c ** v1
    v3 = v2 + d
    v4 = baz(v0, v3, k=A + 123)
    return v4

def bar(x):
    def inner(y):
        v0 = y + 1
        return v0
    v0 = x * 2
    a = v0
    return (a, v0)
`)
	r := check.Module("test.py", mod, "v")
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error:\n%v", err)
	}
	if diff := cmp.Diff([]string{"bar", "bar.inner", "foo"}, r.Functions()); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"v0", "v1", "v2", "v3", "v4"}, r.Temps("foo")); diff != "" {
		t.Errorf("temporaries of foo mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"v0"}, r.Temps("bar.inner")); diff != "" {
		t.Errorf("temporaries of bar.inner mismatch (-want +got):\n%s", diff)
	}
	if got := r.Temps("unknown"); got != nil {
		t.Errorf("got temporaries %v for an unknown function", got)
	}
}

func TestViolations(t *testing.T) {
	tests := []struct {
		src  string
		errs []string
	}{
		{
			src: `
def f(a, b):
    return a + b * 2
`,
			errs: []string{"test.py:2:5: function f: expression is not in three-address form"},
		},
		{
			src: `
def f(a, b):
    x = g(a + 1)
    return x
`,
			errs: []string{"test.py:2:5: function f: expression is not in three-address form"},
		},
		{
			src: `
def f(a, b):
    return (a + 1, b)
`,
			errs: []string{"test.py:2:5: function f: expression is not in three-address form"},
		},
		{
			src: `
def f(a):
    v0 = -a
    v0 = a + 1
    return v0
`,
			errs: []string{"test.py:3:5: function f: temporary v0 assigned more than once"},
		},
		{
			src: `
def f(a):
    v1 = v0 + 1
    v0 = -a
    return v1
`,
			errs: []string{"test.py:2:5: function f: temporary v0 used before assignment"},
		},
		{
			src: `
def f(a):
    def g(b):
        return b * 2 + 1
    return g(a)
`,
			errs: []string{"test.py:3:9: function f.g: expression is not in three-address form"},
		},
		{
			src: `
def f(a):
    if a:
        return a + 1 + 2
    while a:
        v0 = -a
    v0 = a
    return v0
`,
			errs: []string{
				"test.py:3:9: function f: expression is not in three-address form",
				"test.py:6:5: function f: temporary v0 assigned more than once",
			},
		},
		{
			src: `
def f(a, b):
    v0 = a + b
    return v1
`,
			errs: []string{"test.py:3:5: function f: temporary v1 used before assignment"},
		},
	}
	for i, test := range tests {
		err := check.Module("test.py", parse(t, test.src), "v").Err()
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", i)
			continue
		}
		for _, want := range test.errs {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("test %d: error %q does not contain %q", i, err.Error(), want)
			}
		}
	}
}

func TestNotTemporaries(t *testing.T) {
	mod := parse(t, `
def f(v0, a):
    v01 = a
    value = v0 + a
    x = y = v01
    return value
`)
	fn := mod.Body[0].(*pyast.FunctionDef)
	r := check.Func("test.py", fn, "v")
	if err := r.Err(); err != nil {
		t.Errorf("unexpected error:\n%v", err)
	}
	if got := r.Temps("f"); len(got) != 0 {
		t.Errorf("got temporaries %v, want none", got)
	}
}
