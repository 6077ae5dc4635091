package shaderbench

import (
	"context"
	"fmt"
	"slices"
)

// Backend describes one wrapped compiler and how to open handles to it.
type Backend struct {
	// Name is the report label, e.g. "naga" or "glslang".
	Name string

	// Directions lists the conversions the backend implements.
	Directions []Direction

	// Open creates a new handle. It may fail, e.g. when an executable is missing.
	Open func() (Converter, error)
}

// Supports reports whether the backend declares direction d.
func (b Backend) Supports(d Direction) bool {
	return slices.Contains(b.Directions, d)
}

// Acquire opens a handle guarded against use after Close.
func (b Backend) Acquire() (Converter, error) {
	if b.Open == nil {
		return nil, fmt.Errorf("backend %s: no opener", b.Name)
	}
	c, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("backend %s: open: %w", b.Name, err)
	}
	return Guard(c), nil
}

// Guard wraps c so that every call after Close fails with ErrClosed instead
// of reaching the adapter, and so that a second Close is harmless.
func Guard(c Converter) Converter {
	if g, ok := c.(*guarded); ok {
		return g
	}
	return &guarded{c: c}
}

type guarded struct {
	c      Converter
	closed bool
}

func (g *guarded) Name() string { return g.c.Name() }

func (g *guarded) closedError(d Direction) error {
	return &ConversionError{Backend: g.c.Name(), Direction: d, Kind: KindClosed, Err: ErrClosed}
}

func (g *guarded) GLSLToSPIRV(ctx context.Context, source string, stage Stage) (Result, error) {
	if g.closed {
		return Result{}, g.closedError(GLSLToSPIRV)
	}
	return g.c.GLSLToSPIRV(ctx, source, stage)
}

func (g *guarded) SPIRVToTarget(ctx context.Context, words []uint32, target Language) (Result, error) {
	if g.closed {
		return Result{}, g.closedError(SPIRVDirection(target))
	}
	return g.c.SPIRVToTarget(ctx, words, target)
}

func (g *guarded) WGSLToGLSL(ctx context.Context, source, entryPoint string) (Result, error) {
	if g.closed {
		return Result{}, g.closedError(WGSLToGLSL)
	}
	return g.c.WGSLToGLSL(ctx, source, entryPoint)
}

func (g *guarded) Close() error {
	if g.closed {
		return ErrClosed
	}
	g.closed = true
	return g.c.Close()
}
