package tool

import (
	"errors"
	"fmt"

	"github.com/gogpu/shaderbench"
)

// ErrNoSession is returned when a tool-backed adapter is opened without a
// session.
var ErrNoSession = errors.New("tool: no session")

// Open checks what every tool-backed adapter needs before its first
// conversion: a live session and an executable on PATH.
func Open(sess *Session, t *Tool) error {
	if sess == nil {
		return ErrNoSession
	}
	if t == nil {
		return fmt.Errorf("%w: no tool configured", ErrNotFound)
	}
	return t.Available()
}

// Internal builds the conversion error for a failure outside the compiler,
// such as the scratch directory being unavailable.
func Internal(backend string, d shaderbench.Direction, err error) error {
	return &shaderbench.ConversionError{
		Backend:   backend,
		Direction: d,
		Kind:      shaderbench.KindInternal,
		Err:       err,
	}
}

// EntryPoint builds the conversion error for a missing entry point name.
func EntryPoint(backend string, d shaderbench.Direction) error {
	return &shaderbench.ConversionError{
		Backend:   backend,
		Direction: d,
		Kind:      shaderbench.KindEntryPoint,
		Message:   "no entry point given",
	}
}

// Result reads the named output file from sc. A missing or empty file is a
// conversion error of kind empty.
func Result(backend string, d shaderbench.Direction, sc *Scratch, name string, out Output) (shaderbench.Result, error) {
	data, err := sc.Read(name)
	if err != nil || len(data) == 0 {
		return shaderbench.Result{}, Empty(backend, d, out)
	}
	return shaderbench.Result{Size: len(data), Output: data}, nil
}
