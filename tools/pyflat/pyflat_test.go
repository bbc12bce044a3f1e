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

package pyflat_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pyflat/base/logger"
	"github.com/gx-org/pyflat/tools/pyflat"
)

const fooSrc = `def foo(a, b, c, d):
    return baz(-a, c**(a-b)+d, k=A+123)
`

const fooOut = `def foo(a, b, c, d):
    v0 = -a
    v1 = a - b
    v2 = c ** v1
    v3 = v2 + d
    v4 = baz(v0, v3, k=A + 123)
    return v4
`

func TestProcess(t *testing.T) {
	tests := []struct {
		opts pyflat.Options
		src  string
		want string
	}{
		{
			src:  fooSrc,
			want: fooOut,
		},
		{
			opts: pyflat.Options{Verify: true},
			src:  fooSrc,
			want: fooOut,
		},
		{
			opts: pyflat.Options{Prefix: "t"},
			src:  "def f(x):\n    return x * x + 1\n",
			want: "def f(x):\n    t0 = x * x\n    t1 = t0 + 1\n    return t1\n",
		},
		{
			opts: pyflat.Options{Number: true},
			src:  "def f(x):\n    return -x\n",
			want: "1 def f(x):\n2     v0 = -x\n3     return v0\n",
		},
		{
			src:  "",
			want: "",
		},
	}
	for i, test := range tests {
		got, err := pyflat.Process("test.py", []byte(test.src), test.opts)
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		opts pyflat.Options
		src  string
		err  string
	}{
		{
			src: "def f(x:\n    return x\n",
			err: "test.py:1:8:",
		},
		{
			opts: pyflat.Options{Verify: true},
			src:  "def f(x):\n    y = (x + 1, x)\n    return y\n",
			err:  "test.py:2:5: function f: expression is not in three-address form",
		},
	}
	for i, test := range tests {
		_, err := pyflat.Process("test.py", []byte(test.src), test.opts)
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", i)
			continue
		}
		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("test %d: error %q does not contain %q", i, err.Error(), test.err)
		}
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.py": "def a(x):\n    return -x\n",
		"b.py": "def b(x):\n    return x + 1\n",
	})
	a, b := filepath.Join(dir, "a.py"), filepath.Join(dir, "b.py")
	var out strings.Builder
	r := &pyflat.Runner{Workers: 2, Stdout: &out}
	if err := r.Run(context.Background(), []string{b, a}); err != nil {
		t.Fatalf("%+v", err)
	}
	want := "# " + b + "\ndef b(x):\n    v0 = x + 1\n    return v0\n" +
		"# " + a + "\ndef a(x):\n    v0 = -x\n    return v0\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStdin(t *testing.T) {
	var out strings.Builder
	r := &pyflat.Runner{
		Stdin:  strings.NewReader(fooSrc),
		Stdout: &out,
	}
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(fooOut, out.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRunOutputFolder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"foo.py": fooSrc,
	})
	outDir := filepath.Join(t.TempDir(), "out")
	r := &pyflat.Runner{
		Options:      pyflat.Options{Verify: true},
		OutputFolder: outDir,
	}
	if err := r.Run(context.Background(), []string{filepath.Join(dir, "foo.py")}); err != nil {
		t.Fatalf("%+v", err)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "foo.py"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fooOut, string(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.py":  "def f(:\n    pass\n",
		"good.py": "def g(x):\n    return -x\n",
	})
	var out strings.Builder
	r := &pyflat.Runner{Stdout: &out}
	names := []string{
		filepath.Join(dir, "bad.py"),
		filepath.Join(dir, "good.py"),
		filepath.Join(dir, "missing.py"),
	}
	err := r.Run(context.Background(), names)
	if err == nil {
		t.Fatalf("expected an error")
	}
	for _, want := range []string{"cannot lower " + names[0], "cannot read " + names[2]} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err.Error(), want)
		}
	}
	if !strings.Contains(out.String(), "v0 = -x") {
		t.Errorf("output of the valid file is missing:\n%s", out.String())
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &pyflat.Runner{Stdin: strings.NewReader(fooSrc), Stdout: &strings.Builder{}}
	if err := r.Run(ctx, nil); err == nil {
		t.Errorf("expected an error for a canceled context")
	}
}

func TestRunOutputCollision(t *testing.T) {
	root := t.TempDir()
	var names []string
	for _, dir := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
		name := filepath.Join(root, dir, "x.py")
		if err := os.WriteFile(name, []byte("def "+dir+"(x):\n    return -x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	outDir := filepath.Join(root, "out")
	r := &pyflat.Runner{OutputFolder: outDir}
	err := r.Run(context.Background(), names)
	if err == nil {
		t.Fatalf("expected an error for two files written to the same path")
	}
	if want := "are both written to x.py"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output folder %s has been created: %v", outDir, err)
	}
}

func TestProcessErrorsNotLogged(t *testing.T) {
	var logs strings.Builder
	if err := logger.Init(logger.Config{Level: slog.LevelWarn, Output: &logs}); err != nil {
		t.Fatal(err)
	}
	defer logger.Init(logger.Config{Output: io.Discard})
	if _, err := pyflat.Process("test.py", []byte("def f(:\n    pass\n"), pyflat.Options{}); err == nil {
		t.Fatalf("expected an error")
	}
	if logs.Len() != 0 {
		t.Errorf("returned error has also been logged:\n%s", logs.String())
	}
}
