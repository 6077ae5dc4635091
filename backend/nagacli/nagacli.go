// Package nagacli wraps the naga command line translator from the wgpu
// project.
//
// naga picks the input and output languages from the file extensions. GLSL
// files carry the stage in their extension (.vert, .frag, .comp), so WGSL to
// GLSL conversions look up the entry point stage with the in-process naga
// frontend first.
package nagacli

import (
	"context"
	"errors"

	"github.com/gogpu/shaderbench"
	nagabackend "github.com/gogpu/shaderbench/backend/naga"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/spirv"
)

// Name is the backend label.
const Name = "naga-cli"

// DefaultBin is the executable looked up on PATH.
const DefaultBin = "naga"

// Directions lists what the backend converts.
var Directions = []shaderbench.Direction{
	shaderbench.GLSLToSPIRV,
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

// Converter runs naga once per conversion.
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

// GLSLToSPIRV compiles source for stage to SPIR-V.
func (c *Converter) GLSLToSPIRV(ctx context.Context, source string, stage shaderbench.Stage) (shaderbench.Result, error) {
	return c.run(ctx, shaderbench.GLSLToSPIRV, "in."+stage.Ext(), []byte(source), "out.spv")
}

// SPIRVToTarget converts SPIR-V words to WGSL or MSL.
func (c *Converter) SPIRVToTarget(ctx context.Context, words []uint32, target shaderbench.Language) (shaderbench.Result, error) {
	d := shaderbench.SPIRVDirection(target)
	var out string
	switch d {
	case shaderbench.SPIRVToWGSL:
		out = "out.wgsl"
	case shaderbench.SPIRVToMSL:
		out = "out.metal"
	default:
		return shaderbench.Result{}, shaderbench.Unsupported(Name, d)
	}
	return c.run(ctx, d, "in.spv", spirv.Bytes(words), out)
}

// WGSLToGLSL converts the named entry point of source to GLSL.
func (c *Converter) WGSLToGLSL(ctx context.Context, source, entryPoint string) (shaderbench.Result, error) {
	const d = shaderbench.WGSLToGLSL
	if entryPoint == "" {
		return shaderbench.Result{}, tool.EntryPoint(Name, d)
	}
	stage, err := nagabackend.EntryPointStage(source, entryPoint)
	if err != nil {
		return shaderbench.Result{}, rebrand(err)
	}
	return c.run(ctx, d, "in.wgsl", []byte(source), "out."+stage.Ext(), "--entry-point", entryPoint)
}

func (c *Converter) run(ctx context.Context, d shaderbench.Direction, in string, data []byte, out string, flags ...string) (shaderbench.Result, error) {
	sc, err := c.sess.Scratch("naga")
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	defer sc.Remove()

	inPath, err := sc.Write(in, data)
	if err != nil {
		return shaderbench.Result{}, tool.Internal(Name, d, err)
	}
	args := append(flags, inPath, sc.Path(out))

	output, err := c.tool.Run(ctx, nil, args...)
	if err != nil {
		return shaderbench.Result{}, tool.Failure(Name, d, output, err)
	}
	return tool.Result(Name, d, sc, out, output)
}

// rebrand reports a stage lookup failure under this backend's name.
func rebrand(err error) error {
	var ce *shaderbench.ConversionError
	if !errors.As(err, &ce) {
		return tool.Internal(Name, shaderbench.WGSLToGLSL, err)
	}
	cp := *ce
	cp.Backend = Name
	return &cp
}

// Close implements shaderbench.Converter. The session outlives the converter.
func (c *Converter) Close() error { return nil }
