// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirvcross wraps the SPIRV-Cross command line tool.
package spirvcross

import (
	"context"
	"strings"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/spirv"
)

// Name is the backend label.
const Name = "spirv-cross"

// DefaultBin is the executable looked up on PATH.
const DefaultBin = "spirv-cross"

// Directions lists what the backend converts.
var Directions = []shaderbench.Direction{shaderbench.SPIRVToMSL}

// Backend returns the registry entry for the adapter.
func Backend(sess *tool.Session, t *tool.Tool) shaderbench.Backend {
	return shaderbench.Backend{
		Name:       Name,
		Directions: Directions,
		Open: func() (shaderbench.Converter, error) {
			return New(sess, t)
		},
	}
}

// Converter runs spirv-cross once per conversion.
type Converter struct {
	sess *tool.Session
	tool *tool.Tool
}

// New returns a converter. It fails when the session is missing or the
// executable cannot be found.
func New(sess *tool.Session, t *tool.Tool) (*Converter, error) {
	if err := tool.Open(sess, t); err != nil {
		return nil, err
	}
	return &Converter{sess: sess, tool: t}, nil
}

// Name implements shaderbench.Converter.
func (c *Converter) Name() string { return Name }

// GLSLToSPIRV implements shaderbench.Converter.
func (c *Converter) GLSLToSPIRV(context.Context, string, shaderbench.Stage) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.GLSLToSPIRV)
}

// SPIRVToTarget converts SPIR-V words to MSL. The generated source is read
// from stdout.
func (c *Converter) SPIRVToTarget(ctx context.Context, words []uint32, target shaderbench.Language) (shaderbench.Result, error) {
	d := shaderbench.SPIRVDirection(target)
	if d != shaderbench.SPIRVToMSL {
		return shaderbench.Result{}, shaderbench.Unsupported(Name, d)
	}

	sc, err := c.sess.Scratch("spirv-cross")
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	defer sc.Remove()

	in, err := sc.Write("in.spv", spirv.Bytes(words))
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}

	out, err := c.tool.Run(ctx, nil, "--msl", in)
	if err != nil {
		return shaderbench.Result{}, tool.Failure(Name, d, out, err)
	}
	if strings.TrimSpace(string(out.Stdout)) == "" {
		return shaderbench.Result{}, tool.Empty(Name, d, out)
	}
	return shaderbench.Result{Size: len(out.Stdout), Output: out.Stdout}, nil
}

// WGSLToGLSL implements shaderbench.Converter.
func (c *Converter) WGSLToGLSL(context.Context, string, string) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.WGSLToGLSL)
}

// Close implements shaderbench.Converter. The session outlives the converter.
func (c *Converter) Close() error { return nil }
