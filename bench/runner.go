// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package bench times backends against a corpus.
//
// A [Runner] measures one backend in one direction: it acquires a fresh
// converter, converts every corpus entry in order under a wall clock, and
// releases the converter on every exit path. A [Suite] runs every backend
// supporting each direction and collects a [Report].
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/corpus"
)

// Policy decides what a conversion failure does to a run.
type Policy uint8

const (
	// PolicyAbort stops the run at the first failure.
	PolicyAbort Policy = iota

	// PolicyContinue records the failure and converts the remaining entries.
	PolicyContinue
)

func (p Policy) String() string {
	if p == PolicyContinue {
		return "continue"
	}
	return "abort"
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "abort", "":
		*p = PolicyAbort
	case "continue":
		*p = PolicyContinue
	default:
		return fmt.Errorf("unknown failure policy %q (want abort or continue)", text)
	}
	return nil
}

// Runner times backends. The zero value runs once and aborts on failure.
type Runner struct {
	// Runs is the number of timed passes over the corpus. Values below 1
	// mean 1.
	Runs int

	// Policy decides whether a failed conversion ends the run.
	Policy Policy

	// Timeout bounds each conversion. Zero means no limit.
	Timeout time.Duration

	// Logger receives failures and instability warnings. Nil means
	// slog.Default.
	Logger *slog.Logger
}

// EntryResult is the outcome of one corpus entry in the first pass.
type EntryResult struct {
	Name string `json:"name" yaml:"name"`

	// Size is the output size in bytes, zero when the conversion failed.
	Size int `json:"size" yaml:"size"`
}

// Failure is a conversion that failed under PolicyContinue.
type Failure struct {
	Entry string                `json:"entry" yaml:"entry"`
	Kind  shaderbench.ErrorKind `json:"kind" yaml:"kind"`
	Err   error                 `json:"-" yaml:"-"`

	// Message is Err rendered as text, for encoded reports.
	Message string `json:"message" yaml:"message"`
}

// RunResult is the measurement of one backend in one direction.
type RunResult struct {
	Backend   string                `json:"backend" yaml:"backend"`
	Direction shaderbench.Direction `json:"direction" yaml:"direction"`
	Shaders   int                   `json:"shaders" yaml:"shaders"`

	// Elapsed is the fastest pass.
	Elapsed time.Duration `json:"elapsed_ns" yaml:"elapsed"`

	// Samples holds the wall time of every pass in order.
	Samples []time.Duration `json:"samples_ns" yaml:"samples"`

	// Entries holds per-entry sizes of the first pass.
	Entries []EntryResult `json:"entries" yaml:"entries"`

	// Failures lists failed conversions of the first pass.
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Unstable is set when output sizes differed between passes.
	Unstable bool `json:"unstable,omitempty" yaml:"unstable,omitempty"`

	// Error is set by a Suite running under PolicyContinue when the run
	// could not complete, for example because the backend failed to open.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Micros returns the fastest pass in whole microseconds.
func (r *RunResult) Micros() int64 {
	return r.Elapsed.Microseconds()
}

// Failed reports whether any conversion failed or the run did not complete.
func (r *RunResult) Failed() bool {
	return len(r.Failures) > 0 || r.Error != ""
}

// RunError reports the conversion that ended a run under PolicyAbort.
type RunError struct {
	Backend   string
	Direction shaderbench.Direction
	Entry     string
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Backend, e.Direction, e.Entry, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Run measures backend b converting c in direction d.
//
// Each pass acquires a fresh converter, converts every entry once, and
// closes the converter. The result keeps the fastest pass. A backend that
// does not declare d yields an error matching shaderbench.ErrUnsupported
// without acquiring anything.
func (r *Runner) Run(ctx context.Context, b shaderbench.Backend, d shaderbench.Direction, c *corpus.Corpus) (RunResult, error) {
	res := RunResult{Backend: b.Name, Direction: d, Shaders: c.Len()}
	if !b.Supports(d) {
		return res, shaderbench.Unsupported(b.Name, d)
	}
	if c == nil || c.Language != d.Source() {
		return res, fmt.Errorf("bench: %s needs a %s corpus", d, d.Source())
	}

	runs := max(r.Runs, 1)
	for i := range runs {
		p, err := r.pass(ctx, b, d, c)
		if err != nil {
			return res, err
		}
		res.Samples = append(res.Samples, p.elapsed)
		if i == 0 {
			res.Elapsed = p.elapsed
			res.Entries = p.entries
			res.Failures = p.failures
			continue
		}
		res.Elapsed = min(res.Elapsed, p.elapsed)
		if !res.Unstable && !slices.Equal(res.Entries, p.entries) {
			res.Unstable = true
			r.logger().Warn("output sizes differ between runs",
				"backend", b.Name,
				"direction", d.String(),
				"run", i+1)
		}
	}
	return res, nil
}

type pass struct {
	elapsed  time.Duration
	entries  []EntryResult
	failures []Failure
}

func (r *Runner) pass(ctx context.Context, b shaderbench.Backend, d shaderbench.Direction, c *corpus.Corpus) (p pass, err error) {
	conv, err := b.Acquire()
	if err != nil {
		return p, err
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("backend %s: close: %w", b.Name, cerr)
		}
	}()

	p.entries = make([]EntryResult, len(c.Entries))
	var abort *RunError

	start := time.Now()
	for i := range c.Entries {
		e := &c.Entries[i]
		p.entries[i].Name = e.Name

		out, cerr := r.convert(ctx, conv, d, e)
		if cerr == nil && out.Size == 0 {
			cerr = &shaderbench.ConversionError{
				Backend:   b.Name,
				Direction: d,
				Kind:      shaderbench.KindEmpty,
				Message:   "zero-size result",
			}
		}
		if cerr != nil {
			if r.Policy == PolicyAbort || ctx.Err() != nil {
				abort = &RunError{Backend: b.Name, Direction: d, Entry: e.Name, Err: cerr}
				break
			}
			p.failures = append(p.failures, Failure{
				Entry:   e.Name,
				Kind:    shaderbench.KindOf(cerr),
				Err:     cerr,
				Message: cerr.Error(),
			})
			continue
		}
		p.entries[i].Size = out.Size
	}
	p.elapsed = time.Since(start)

	for _, f := range p.failures {
		r.logger().Warn("conversion failed",
			"backend", b.Name,
			"direction", d.String(),
			"entry", f.Entry,
			"err", f.Err)
	}
	if abort != nil {
		r.logger().Error("conversion failed",
			"backend", b.Name,
			"direction", d.String(),
			"entry", abort.Entry,
			"err", abort.Err)
		return p, abort
	}
	return p, nil
}

func (r *Runner) convert(ctx context.Context, conv shaderbench.Converter, d shaderbench.Direction, e *corpus.Entry) (shaderbench.Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return shaderbench.Convert(ctx, conv, d, e.Input())
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// IsUnsupported reports whether err marks a direction the backend lacks.
func IsUnsupported(err error) bool {
	return errors.Is(err, shaderbench.ErrUnsupported)
}
