// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslang wraps the Khronos glslangValidator reference compiler.
//
// The source is piped on stdin with an explicit stage; the SPIR-V binary is
// written to the session scratch directory and read back.
package glslang

import (
	"context"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/tool"
)

// Name is the backend label.
const Name = "glslang"

// DefaultBin is the executable looked up on PATH.
const DefaultBin = "glslangValidator"

// DefaultTargetEnv is the SPIR-V environment passed to --target-env.
const DefaultTargetEnv = "vulkan1.1"

// Directions lists what the backend converts.
var Directions = []shaderbench.Direction{shaderbench.GLSLToSPIRV}

// Options configures the adapter.
type Options struct {
	// TargetEnv is the --target-env value. Empty means DefaultTargetEnv.
	TargetEnv string
}

// Backend returns the registry entry for the adapter.
func Backend(sess *tool.Session, t *tool.Tool, opts Options) shaderbench.Backend {
	return shaderbench.Backend{
		Name:       Name,
		Directions: Directions,
		Open: func() (shaderbench.Converter, error) {
			return New(sess, t, opts)
		},
	}
}

// Converter runs glslangValidator once per conversion.
type Converter struct {
	sess *tool.Session
	tool *tool.Tool
	opts Options
}

// New returns a converter. It fails when the session is missing or the
// executable cannot be found.
func New(sess *tool.Session, t *tool.Tool, opts Options) (*Converter, error) {
	if err := tool.Open(sess, t); err != nil {
		return nil, err
	}
	if opts.TargetEnv == "" {
		opts.TargetEnv = DefaultTargetEnv
	}
	return &Converter{sess: sess, tool: t, opts: opts}, nil
}

// Name implements shaderbench.Converter.
func (c *Converter) Name() string { return Name }

// GLSLToSPIRV compiles source for stage into a Vulkan SPIR-V binary.
func (c *Converter) GLSLToSPIRV(ctx context.Context, source string, stage shaderbench.Stage) (shaderbench.Result, error) {
	const d = shaderbench.GLSLToSPIRV

	sc, err := c.sess.Scratch(Name)
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	defer sc.Remove()

	out, err := c.tool.Run(ctx, []byte(source),
		"--stdin",
		"-V",
		"-S", stage.Ext(),
		"--target-env", c.opts.TargetEnv,
		"-o", sc.Path("out.spv"))
	if err != nil {
		return shaderbench.Result{}, tool.Failure(Name, d, out, err)
	}
	return tool.Result(Name, d, sc, "out.spv", out)
}

// SPIRVToTarget implements shaderbench.Converter.
func (c *Converter) SPIRVToTarget(_ context.Context, _ []uint32, target shaderbench.Language) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.SPIRVDirection(target))
}

// WGSLToGLSL implements shaderbench.Converter.
func (c *Converter) WGSLToGLSL(context.Context, string, string) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.WGSLToGLSL)
}

// Close implements shaderbench.Converter. The session outlives the converter.
func (c *Converter) Close() error { return nil }
