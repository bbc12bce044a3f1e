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

// Package logger provides structured logging for pyflat tools.
//
// Logging is silent until Init is called.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// ParseLevel converts a level name (debug, info, warn or error) to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", s)
}

// Init initializes the global logger with the given configuration.
func Init(cfg Config) error {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "", "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		return errors.Errorf("unknown log format %q", cfg.Format)
	}
	defaultLogger = slog.New(handler)
	return nil
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Compiler-specific logging helpers

// LogPhase logs the start of a compilation phase.
func LogPhase(phase string, file string) {
	Debug("Starting phase", "phase", phase, "file", file)
}

// LogPhaseComplete logs the completion of a compilation phase.
func LogPhaseComplete(phase string, file string) {
	Debug("Completed phase", "phase", phase, "file", file)
}

// LogLowering logs the lowering of one function.
func LogLowering(funcName string, stmtsIn, stmtsOut, temps int) {
	Debug("Function lowered",
		"function", funcName,
		"statements_in", stmtsIn,
		"statements_out", stmtsOut,
		"temporaries", temps)
}

// LogFileProcessing logs file processing start.
func LogFileProcessing(file string) {
	Info("Processing file", "file", file)
}
