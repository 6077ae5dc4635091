// Package abi exposes converters through size-or-zero functions.
//
// Each function returns the byte length of the generated output, or 0 when
// the conversion failed. On failure the diagnostics are written to sink, one
// per line, as "<message> at line N" when the line is known. Generated output
// is discarded.
package abi

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/shaderbench"
)

// ConvertGLSLToSPIRV compiles a stage-tagged GLSL program.
func ConvertGLSLToSPIRV(c shaderbench.Converter, sink io.Writer, source string, stage shaderbench.Stage) uint {
	res, err := c.GLSLToSPIRV(context.Background(), source, stage)
	return report(sink, res, err)
}

// ConvertSPIRVToWGSL translates the first wordCount words to WGSL.
func ConvertSPIRVToWGSL(c shaderbench.Converter, sink io.Writer, words []uint32, wordCount uint) uint {
	res, err := c.SPIRVToTarget(context.Background(), clamp(words, wordCount), shaderbench.LanguageWGSL)
	return report(sink, res, err)
}

// ConvertSPIRVToMSL translates the first wordCount words to MSL.
func ConvertSPIRVToMSL(c shaderbench.Converter, sink io.Writer, words []uint32, wordCount uint) uint {
	res, err := c.SPIRVToTarget(context.Background(), clamp(words, wordCount), shaderbench.LanguageMSL)
	return report(sink, res, err)
}

// ConvertWGSLToGLSL translates the named entry point of a WGSL program.
func ConvertWGSLToGLSL(c shaderbench.Converter, sink io.Writer, source, entryPoint string) uint {
	res, err := c.WGSLToGLSL(context.Background(), source, entryPoint)
	return report(sink, res, err)
}

func clamp(words []uint32, n uint) []uint32 {
	if n > uint(len(words)) {
		n = uint(len(words))
	}
	return words[:n]
}

func report(sink io.Writer, res shaderbench.Result, err error) uint {
	if err == nil {
		return uint(res.Size)
	}
	if sink == nil {
		return 0
	}
	var ce *shaderbench.ConversionError
	if errors.As(err, &ce) && len(ce.Diagnostics) > 0 {
		for _, d := range ce.Diagnostics {
			fmt.Fprintln(sink, d)
		}
		return 0
	}
	fmt.Fprintln(sink, err)
	return 0
}
