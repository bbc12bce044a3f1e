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

// Package pyflat lowers Python files into three-address form.
package pyflat

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	pyfmt "github.com/gx-org/pyflat/base/fmt"
	"github.com/gx-org/pyflat/base/logger"
	"github.com/gx-org/pyflat/build/check"
	"github.com/gx-org/pyflat/build/fmterr"
	"github.com/gx-org/pyflat/build/lower"
	"github.com/gx-org/pyflat/build/parser"
	"github.com/gx-org/pyflat/build/printer"
	"github.com/gx-org/pyflat/build/pyast"
	"github.com/gx-org/pyflat/tools/pyflag"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var (
	files        = pyflag.StringList("files", "comma-separated list of Python files to lower (- for the standard input)")
	outputFolder = flag.String("output_folder", "", "folder where lowered files are written (standard output if empty)")
	prefix       = flag.String("prefix", lower.DefaultPrefix, "prefix of temporary variables")
	verify       = flag.Bool("verify", false, "verify that the output is in three-address form")
	number       = flag.Bool("number", false, "prefix output lines with line numbers")
	workers      = flag.Int("workers", runtime.NumCPU(), "maximum number of files processed concurrently")
	logLevel     = flag.String("log_level", "warn", "log level: debug, info, warn or error")
	logFormat    = flag.String("log_format", "text", "log format: text or json")
)

// StdinName is the file name designating the standard input.
const StdinName = "-"

// Options configures the processing of a single file.
type Options struct {
	// Prefix of temporary variables. Empty means lower.DefaultPrefix.
	Prefix string
	// Verify checks the output with the three-address form verifier.
	Verify bool
	// Number prefixes output lines with line numbers.
	Number bool
}

// Process parses, lowers and prints the source of a file.
func Process(name string, src []byte, opts Options) (string, error) {
	pfx := cmp.Or(opts.Prefix, lower.DefaultPrefix)

	logger.LogPhase("parse", name)
	mod, err := parser.ParseFile(name, src)
	if err != nil {
		return "", err
	}
	logger.LogPhaseComplete("parse", name)

	logger.LogPhase("lower", name)
	out, err := lower.Module(mod, lower.Prefix(pfx))
	if err != nil {
		return "", err
	}
	logger.LogPhaseComplete("lower", name)

	if opts.Verify {
		logger.LogPhase("verify", name)
		if err := check.Module(name, out, pfx).Err(); err != nil {
			return "", err
		}
		logger.LogPhaseComplete("verify", name)
	}

	var s strings.Builder
	if err := printer.Fprint(&s, out); err != nil {
		return "", fmterr.Internalf(name, pyast.Pos{}, "cannot print lowered module: %v", err)
	}
	if !opts.Number {
		return s.String(), nil
	}
	return pyfmt.Number(s.String()), nil
}

// Runner processes a list of files concurrently.
type Runner struct {
	Options

	// Workers is the maximum number of files processed at the same time.
	// Zero or less means no limit.
	Workers int
	// OutputFolder is the folder where outputs are written.
	// If empty, outputs are written to Stdout.
	OutputFolder string

	Stdin  io.Reader
	Stdout io.Writer
}

type result struct {
	out string
	err error
}

// Run processes files. Outputs are written in the order of the files, once all
// files have been processed. An error in a file does not stop the processing of
// the other files: all errors are returned together.
// When writing to an output folder, Run fails before processing any file if
// two files have the same base name.
func (r *Runner) Run(ctx context.Context, names []string) error {
	if len(names) == 0 {
		names = []string{StdinName}
	}
	if r.OutputFolder != "" {
		if err := checkOutputNames(names); err != nil {
			return err
		}
	}
	stdin, err := r.readStdin(names)
	if err != nil {
		return err
	}
	results := make([]result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].out, results[i].err = r.file(name, stdin)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var errs error
	for i, name := range names {
		if results[i].err != nil {
			errs = multierr.Append(errs, results[i].err)
			continue
		}
		errs = multierr.Append(errs, r.write(name, results[i].out, len(names) > 1))
	}
	return errs
}

// readStdin reads the standard input if one of the files designates it.
func (r *Runner) readStdin(names []string) ([]byte, error) {
	if !slices.Contains(names, StdinName) {
		return nil, nil
	}
	if r.Stdin == nil {
		return nil, errors.Errorf("no standard input to read from")
	}
	src, err := io.ReadAll(r.Stdin)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read the standard input")
	}
	return src, nil
}

func (r *Runner) file(name string, stdin []byte) (string, error) {
	logger.LogFileProcessing(name)
	src := stdin
	if name != StdinName {
		var err error
		if src, err = os.ReadFile(name); err != nil {
			return "", errors.Wrapf(err, "cannot read %s", name)
		}
	}
	out, err := Process(displayName(name), src, r.Options)
	if err != nil {
		return "", errors.Errorf("cannot lower %s:\n%s", displayName(name), pyfmt.Indent(err.Error()))
	}
	return out, nil
}

func (r *Runner) write(name, out string, header bool) error {
	if r.OutputFolder == "" {
		if header {
			out = fmt.Sprintf("# %s\n%s", displayName(name), out)
		}
		_, err := io.WriteString(r.Stdout, out)
		return err
	}
	if err := os.MkdirAll(r.OutputFolder, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create output folder")
	}
	path := filepath.Join(r.OutputFolder, outputName(name))
	logger.Debug("writing output", "file", name, "path", path)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}
	return nil
}

// checkOutputNames returns an error if two files would be written to the
// same path of the output folder.
func checkOutputNames(names []string) error {
	written := make(map[string]string)
	var errs error
	for _, name := range names {
		out := outputName(name)
		if prev, ok := written[out]; ok {
			errs = multierr.Append(errs, errors.Errorf("%s and %s are both written to %s", displayName(prev), displayName(name), out))
			continue
		}
		written[out] = name
	}
	return errs
}

func displayName(name string) string {
	if name == StdinName {
		return "<stdin>"
	}
	return name
}

func outputName(name string) string {
	if name == StdinName {
		return "stdin.py"
	}
	return filepath.Base(name)
}

// Main runs pyflat with the configuration from the command-line flags.
// Positional arguments are appended to the files given with -files.
func Main(ctx context.Context, args []string) error {
	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	cfg := logger.DefaultConfig()
	cfg.Level = level
	cfg.Format = *logFormat
	if err := logger.Init(cfg); err != nil {
		return err
	}
	if *prefix == "" {
		return errors.Errorf("no prefix specified: please use --prefix to specify a prefix for temporary variables")
	}
	r := &Runner{
		Options: Options{
			Prefix: *prefix,
			Verify: *verify,
			Number: *number,
		},
		Workers:      *workers,
		OutputFolder: *outputFolder,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
	}
	return r.Run(ctx, append(slices.Clone(*files), args...))
}
