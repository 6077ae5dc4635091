// Package tint wraps the Tint compiler from Dawn.
//
// Tint reads the input language from the file extension and the output
// language from --format, so every conversion writes its input to the
// session scratch directory.
package tint

import (
	"context"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/spirv"
)

// Name is the backend label.
const Name = "tint"

// DefaultBin is the executable looked up on PATH.
const DefaultBin = "tint"

// Directions lists what the backend converts.
var Directions = []shaderbench.Direction{
	shaderbench.SPIRVToWGSL,
	shaderbench.SPIRVToMSL,
	shaderbench.WGSLToGLSL,
}

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

// Converter runs tint once per conversion.
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

// SPIRVToTarget converts SPIR-V words to WGSL or MSL.
func (c *Converter) SPIRVToTarget(ctx context.Context, words []uint32, target shaderbench.Language) (shaderbench.Result, error) {
	d := shaderbench.SPIRVDirection(target)
	var format, out string
	switch d {
	case shaderbench.SPIRVToWGSL:
		format, out = "wgsl", "out.wgsl"
	case shaderbench.SPIRVToMSL:
		format, out = "msl", "out.metal"
	default:
		return shaderbench.Result{}, shaderbench.Unsupported(Name, d)
	}
	return c.run(ctx, d, "in.spv", spirv.Bytes(words), out, "--format", format)
}

// WGSLToGLSL converts the named entry point of source to GLSL.
func (c *Converter) WGSLToGLSL(ctx context.Context, source, entryPoint string) (shaderbench.Result, error) {
	const d = shaderbench.WGSLToGLSL
	if entryPoint == "" {
		return shaderbench.Result{}, tool.EntryPoint(Name, d)
	}
	return c.run(ctx, d, "in.wgsl", []byte(source), "out.glsl", "--format", "glsl", "--ep", entryPoint)
}

func (c *Converter) run(ctx context.Context, d shaderbench.Direction, in string, data []byte, out string, args ...string) (shaderbench.Result, error) {
	sc, err := c.sess.Scratch(Name)
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	defer sc.Remove()

	inPath, err := sc.Write(in, data)
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	args = append(args, "-o", sc.Path(out), inPath)

	output, err := c.tool.Run(ctx, nil, args...)
	if err != nil {
		return shaderbench.Result{}, tool.Failure(Name, d, output, err)
	}
	return tool.Result(Name, d, sc, out, output)
}

// Close implements shaderbench.Converter. The session outlives the converter.
func (c *Converter) Close() error { return nil }
