// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package tool runs external shader compilers for the tool-backed adapters.
//
// A [Tool] is one executable plus fixed leading arguments. A [Session] is the
// work directory shared by every tool-backed adapter during one benchmark
// session; each conversion gets its own [Scratch] directory inside it.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"time"
)

// ErrNotFound is returned when the executable is not available.
var ErrNotFound = errors.New("tool not found")

// Tool is an external compiler executable.
type Tool struct {
	// Name is the backend label used in logs and errors.
	Name string

	// Bin is the executable name or path.
	Bin string

	// Args are passed before the per-call arguments.
	Args []string

	// Env is appended to the process environment.
	Env []string

	// Logger receives command lines at debug level. Nil means slog.Default.
	Logger *slog.Logger
}

// New returns a tool running bin with the given leading arguments.
func New(name, bin string, args ...string) *Tool {
	return &Tool{Name: name, Bin: bin, Args: args}
}

// Available checks that the executable can be found.
func (t *Tool) Available() error {
	if t.Bin == "" {
		return fmt.Errorf("%w: no executable configured", ErrNotFound)
	}
	if _, err := exec.LookPath(t.Bin); err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return nil
}

// Output is what a finished command wrote.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Text returns stderr, or stdout when stderr is empty. Compilers disagree on
// where diagnostics go.
func (o Output) Text() string {
	if len(bytes.TrimSpace(o.Stderr)) > 0 {
		return string(o.Stderr)
	}
	return string(o.Stdout)
}

// Run runs the tool to completion. A non-zero exit status is an error; the
// output is returned in every case.
func (t *Tool) Run(ctx context.Context, stdin []byte, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, t.Bin, append(slices.Clone(t.Args), args...)...)
	if len(t.Env) > 0 {
		cmd.Env = append(os.Environ(), t.Env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	t.logger().Debug("tool finished",
		"tool", t.Name,
		"args", cmd.Args[1:],
		"elapsed", time.Since(start),
		"err", err)

	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("failed to run %s: %w", t.Bin, ctxErr)
		}
		return out, fmt.Errorf("failed to run %s: %w", t.Bin, err)
	}
	return out, nil
}

func (t *Tool) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
