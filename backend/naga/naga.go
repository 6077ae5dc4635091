// Package naga is the in-process backend built on the pure-Go naga compiler.
//
// The library has a WGSL frontend only, so the backend supports a single
// direction: WGSL to GLSL. The other operations report
// [shaderbench.ErrUnsupported].
package naga

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gonaga "github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/gogpu/shaderbench"
)

// Name is the backend label.
const Name = "naga"

// Directions lists what the backend converts.
var Directions = []shaderbench.Direction{shaderbench.WGSLToGLSL}

// Options configures the adapter.
type Options struct {
	// GLSLVersion is the generated GLSL dialect. Zero means 3.30 core.
	GLSLVersion glsl.Version

	// Validate runs the IR validator before generating code.
	Validate bool
}

var glslVersions = map[string]glsl.Version{
	"330":   glsl.Version330,
	"400":   glsl.Version400,
	"410":   glsl.Version410,
	"420":   glsl.Version420,
	"430":   glsl.Version430,
	"450":   glsl.Version450,
	"460":   glsl.Version460,
	"es300": glsl.VersionES300,
	"es310": glsl.VersionES310,
	"es320": glsl.VersionES320,
}

// ParseGLSLVersion parses a GLSL dialect such as "330", "450" or "es300".
// The empty string means 3.30 core.
func ParseGLSLVersion(s string) (glsl.Version, error) {
	if s == "" {
		return glsl.Version330, nil
	}
	v, ok := glslVersions[strings.ToLower(strings.ReplaceAll(s, " ", ""))]
	if !ok {
		return glsl.Version{}, fmt.Errorf("unknown GLSL version %q", s)
	}
	return v, nil
}

// Backend returns the registry entry for the adapter.
func Backend(opts Options) shaderbench.Backend {
	return shaderbench.Backend{
		Name:       Name,
		Directions: Directions,
		Open: func() (shaderbench.Converter, error) {
			return New(opts), nil
		},
	}
}

// Converter converts shaders in-process. It holds no resources.
type Converter struct {
	opts Options
}

// New returns a converter.
func New(opts Options) *Converter {
	if opts.GLSLVersion.Major == 0 {
		opts.GLSLVersion = glsl.Version330
	}
	return &Converter{opts: opts}
}

// Name implements shaderbench.Converter.
func (c *Converter) Name() string { return Name }

// GLSLToSPIRV implements shaderbench.Converter.
func (c *Converter) GLSLToSPIRV(context.Context, string, shaderbench.Stage) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.GLSLToSPIRV)
}

// SPIRVToTarget implements shaderbench.Converter.
func (c *Converter) SPIRVToTarget(_ context.Context, _ []uint32, target shaderbench.Language) (shaderbench.Result, error) {
	return shaderbench.Result{}, shaderbench.Unsupported(Name, shaderbench.SPIRVDirection(target))
}

// WGSLToGLSL parses, lowers and optionally validates source, then emits GLSL
// for the named entry point. The result size is the GLSL text length.
func (c *Converter) WGSLToGLSL(ctx context.Context, source, entryPoint string) (res shaderbench.Result, err error) {
	if err := ctx.Err(); err != nil {
		return shaderbench.Result{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = failure(shaderbench.KindInternal, fmt.Sprintf("compiler panic: %v", r), nil, nil)
		}
	}()

	module, err := Lower(source)
	if err != nil {
		return shaderbench.Result{}, err
	}

	if c.opts.Validate {
		verrs, err := gonaga.Validate(module)
		if err != nil {
			return shaderbench.Result{}, failure(shaderbench.KindValidate, err.Error(), nil, err)
		}
		if len(verrs) > 0 {
			diags := make([]shaderbench.Diagnostic, len(verrs))
			for i := range verrs {
				diags[i] = shaderbench.Diagnostic{Message: verrs[i].Error()}
			}
			return shaderbench.Result{}, failure(shaderbench.KindValidate, diags[0].Message, diags, verrs[0])
		}
	}

	// glsl.Compile falls back to the first entry point when the name is
	// unknown, so the check happens here.
	if err := checkEntryPoint(module, entryPoint); err != nil {
		return shaderbench.Result{}, err
	}

	code, _, err := glsl.Compile(module, glsl.Options{
		LangVersion:        c.opts.GLSLVersion,
		EntryPoint:         entryPoint,
		ForceHighPrecision: true,
	})
	if err != nil {
		return shaderbench.Result{}, failure(shaderbench.KindGenerate, err.Error(), nil, err)
	}
	return shaderbench.Result{Size: len(code), Output: []byte(code)}, nil
}

// Close implements shaderbench.Converter.
func (c *Converter) Close() error { return nil }

// Lower parses WGSL source into naga IR. Errors are conversion errors of
// kind parse carrying the source location when the frontend reports one.
func Lower(source string) (*ir.Module, error) {
	ast, err := gonaga.Parse(source)
	if err != nil {
		return nil, parseFailure(err)
	}
	module, err := gonaga.LowerWithSource(ast, source)
	if err != nil {
		return nil, parseFailure(err)
	}
	return module, nil
}

// EntryPoints lists the entry points declared in WGSL source.
func EntryPoints(source string) ([]ir.EntryPoint, error) {
	module, err := Lower(source)
	if err != nil {
		return nil, err
	}
	return module.EntryPoints, nil
}

// EntryPointStage returns the pipeline stage of the named entry point.
func EntryPointStage(source, name string) (shaderbench.Stage, error) {
	module, err := Lower(source)
	if err != nil {
		return 0, err
	}
	if err := checkEntryPoint(module, name); err != nil {
		return 0, err
	}
	for _, ep := range module.EntryPoints {
		if ep.Name == name {
			return StageOf(ep.Stage)
		}
	}
	return 0, nil
}

// StageOf maps a naga stage to a pipeline stage.
func StageOf(s ir.ShaderStage) (shaderbench.Stage, error) {
	switch s {
	case ir.StageVertex:
		return shaderbench.StageVertex, nil
	case ir.StageFragment:
		return shaderbench.StageFragment, nil
	case ir.StageCompute:
		return shaderbench.StageCompute, nil
	}
	return 0, fmt.Errorf("%w: naga stage %d", shaderbench.ErrUnknownStage, s)
}

func checkEntryPoint(module *ir.Module, name string) error {
	if name == "" {
		return failure(shaderbench.KindEntryPoint, "no entry point given", nil, nil)
	}
	names := make([]string, len(module.EntryPoints))
	for i, ep := range module.EntryPoints {
		if ep.Name == name {
			return nil
		}
		names[i] = ep.Name
	}
	msg := fmt.Sprintf("entry point %q not found", name)
	if s := suggest(name, names); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	} else if len(names) > 0 {
		msg += fmt.Sprintf(" (have %s)", strings.Join(names, ", "))
	}
	return failure(shaderbench.KindEntryPoint, msg, nil, nil)
}

// suggest returns the closest name when it is similar enough to be a typo.
func suggest(name string, names []string) string {
	lev := metrics.NewLevenshtein()
	best, score := "", 0.0
	for _, n := range names {
		if s := strutil.Similarity(name, n, lev); s > score {
			best, score = n, s
		}
	}
	if score < 0.6 {
		return ""
	}
	return best
}

// The frontend reports locations only in the error text: parse errors end
// in "line L, column C: msg", lowering errors start with "L:C: msg".
var (
	parseLocation = regexp.MustCompile(`line (\d+), column (\d+): (.*)$`)
	lowerLocation = regexp.MustCompile(`^(\d+):(\d+): (.*?)(?: \(and \d+ more errors\))?$`)
)

func parseFailure(err error) error {
	var diags []shaderbench.Diagnostic
	if d, ok := locate(err.Error()); ok {
		diags = append(diags, d)
	}

	msg := err.Error()
	if len(diags) > 0 {
		msg = diags[0].Message
	}
	return failure(shaderbench.KindParse, msg, diags, err)
}

// locate extracts the source location from a frontend error message.
func locate(text string) (shaderbench.Diagnostic, bool) {
	m := parseLocation.FindStringSubmatch(text)
	if m == nil {
		m = lowerLocation.FindStringSubmatch(text)
	}
	if m == nil {
		return shaderbench.Diagnostic{}, false
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	if line == 0 {
		return shaderbench.Diagnostic{}, false
	}
	return shaderbench.Diagnostic{Message: m[3], Line: line, Column: col}, true
}

func failure(kind shaderbench.ErrorKind, msg string, diags []shaderbench.Diagnostic, err error) error {
	return &shaderbench.ConversionError{
		Backend:     Name,
		Direction:   shaderbench.WGSLToGLSL,
		Kind:        kind,
		Message:     msg,
		Diagnostics: diags,
		Err:         err,
	}
}
