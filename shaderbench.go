// Package shaderbench benchmarks shader cross-compilation backends.
//
// Every backend is wrapped by an adapter implementing [Converter], so the
// benchmark driver can run the same corpus through heterogeneous compilers:
//   - GLSL source to SPIR-V
//   - SPIR-V to a target language (WGSL or MSL)
//   - WGSL to GLSL for a selected entry point
//
// Example usage:
//
//	conv, err := backend.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	res, err := conv.GLSLToSPIRV(ctx, source, shaderbench.StageFromName("bevy-pbr.vert"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Size)
//
// The benchmark driver lives in the bench package, the corpus loader in the
// corpus package and the adapters under backend/.
package shaderbench

import (
	"context"
	"fmt"
	"strings"
)

// Language identifies a shader representation.
type Language uint8

const (
	LanguageGLSL Language = iota + 1
	LanguageSPIRV
	LanguageWGSL
	LanguageMSL
)

// String returns the upper-case language name used in reports.
func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "GLSL"
	case LanguageSPIRV:
		return "SPIRV"
	case LanguageWGSL:
		return "WGSL"
	case LanguageMSL:
		return "MSL"
	default:
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
}

// Direction is one conversion a backend may support.
type Direction uint8

const (
	GLSLToSPIRV Direction = iota + 1
	SPIRVToWGSL
	SPIRVToMSL
	WGSLToGLSL
)

// Directions lists every direction in report order.
var Directions = []Direction{GLSLToSPIRV, SPIRVToWGSL, SPIRVToMSL, WGSLToGLSL}

// Source returns the input language of the direction.
func (d Direction) Source() Language {
	switch d {
	case GLSLToSPIRV:
		return LanguageGLSL
	case SPIRVToWGSL, SPIRVToMSL:
		return LanguageSPIRV
	case WGSLToGLSL:
		return LanguageWGSL
	}
	return 0
}

// Target returns the output language of the direction.
func (d Direction) Target() Language {
	switch d {
	case GLSLToSPIRV:
		return LanguageSPIRV
	case SPIRVToWGSL:
		return LanguageWGSL
	case SPIRVToMSL:
		return LanguageMSL
	case WGSLToGLSL:
		return LanguageGLSL
	}
	return 0
}

// String returns the report header form, e.g. "GLSL -> SPIRV".
func (d Direction) String() string {
	if d.Source() == 0 {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return d.Source().String() + " -> " + d.Target().String()
}

// Flag returns the command line form, e.g. "glsl-spirv".
func (d Direction) Flag() string {
	return strings.ToLower(d.Source().String()) + "-" + strings.ToLower(d.Target().String())
}

// MarshalText encodes the direction in its flag form.
func (d Direction) MarshalText() ([]byte, error) {
	if d.Source() == 0 {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.Flag()), nil
}

// ParseDirection parses the flag form of a direction ("glsl-spirv").
// The report form ("GLSL -> SPIRV") is accepted as well.
func ParseDirection(s string) (Direction, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "->", "-"))
	for _, d := range Directions {
		if d.Flag() == norm {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// SPIRVDirection returns the SPIR-V direction producing target, or zero
// when SPIR-V cannot be converted to target.
func SPIRVDirection(target Language) Direction {
	switch target {
	case LanguageWGSL:
		return SPIRVToWGSL
	case LanguageMSL:
		return SPIRVToMSL
	}
	return 0
}

// Result is the outcome of a successful conversion.
type Result struct {
	// Size is the byte length of the generated output.
	Size int

	// Output is the generated SPIR-V binary or target source.
	Output []byte
}

// Converter is a backend handle. A converter is owned by a single benchmark
// run and is not safe for concurrent use. No method may be called after Close.
type Converter interface {
	// Name returns the backend name used in reports.
	Name() string

	// GLSLToSPIRV translates a stage-tagged GLSL program into SPIR-V.
	GLSLToSPIRV(ctx context.Context, source string, stage Stage) (Result, error)

	// SPIRVToTarget translates SPIR-V words into WGSL or MSL.
	SPIRVToTarget(ctx context.Context, words []uint32, target Language) (Result, error)

	// WGSLToGLSL translates the named entry point of a WGSL program into GLSL.
	WGSLToGLSL(ctx context.Context, source, entryPoint string) (Result, error)

	// Close releases backend state.
	Close() error
}

// Convert dispatches the operation matching d. Input carries the fields the
// operation needs: Source and Stage for GLSL, Words for SPIR-V, Source and
// EntryPoint for WGSL.
func Convert(ctx context.Context, c Converter, d Direction, in Input) (Result, error) {
	switch d {
	case GLSLToSPIRV:
		return c.GLSLToSPIRV(ctx, in.Source, in.Stage)
	case SPIRVToWGSL:
		return c.SPIRVToTarget(ctx, in.Words, LanguageWGSL)
	case SPIRVToMSL:
		return c.SPIRVToTarget(ctx, in.Words, LanguageMSL)
	case WGSLToGLSL:
		return c.WGSLToGLSL(ctx, in.Source, in.EntryPoint)
	}
	return Result{}, Unsupported(c.Name(), d)
}

// Input is the payload handed to [Convert].
type Input struct {
	Source     string
	Stage      Stage
	Words      []uint32
	EntryPoint string
}
