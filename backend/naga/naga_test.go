package naga

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/naga/glsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderbench"
)

func readCorpus(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "corpus", "wgsl", name))
	require.NoError(t, err)
	return string(data)
}

func conversionError(t *testing.T, err error) *shaderbench.ConversionError {
	t.Helper()
	var ce *shaderbench.ConversionError
	require.True(t, errors.As(err, &ce), "want ConversionError, got %v", err)
	return ce
}

// =============================================================================
// WGSL -> GLSL
// =============================================================================

func TestWGSLToGLSL(t *testing.T) {
	src := readCorpus(t, "quad.wgsl")
	c := New(Options{})

	tests := []struct {
		entryPoint string
		want       string
	}{
		{"vs_main", "gl_Position"},
		{"fs_main", "texture"},
	}

	for _, tt := range tests {
		t.Run(tt.entryPoint, func(t *testing.T) {
			res, err := c.WGSLToGLSL(context.Background(), src, tt.entryPoint)
			require.NoError(t, err)
			assert.Equal(t, len(res.Output), res.Size)
			assert.Positive(t, res.Size)
			assert.Contains(t, string(res.Output), "#version 330")
			assert.Contains(t, string(res.Output), tt.want)
		})
	}
}

func TestWGSLToGLSL_Compute(t *testing.T) {
	c := New(Options{GLSLVersion: glsl.Version430, Validate: true})

	res, err := c.WGSLToGLSL(context.Background(), readCorpus(t, "blur.wgsl"), "main")
	require.NoError(t, err)
	assert.Contains(t, string(res.Output), "#version 430")
}

func TestWGSLToGLSL_Deterministic(t *testing.T) {
	src := readCorpus(t, "quad.wgsl")
	c := New(Options{})

	first, err := c.WGSLToGLSL(context.Background(), src, "vs_main")
	require.NoError(t, err)
	second, err := c.WGSLToGLSL(context.Background(), src, "vs_main")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWGSLToGLSL_MissingEntryPoint(t *testing.T) {
	src := readCorpus(t, "quad.wgsl")
	c := New(Options{})

	tests := []struct {
		name       string
		entryPoint string
		contains   string
	}{
		{"typo", "vs_mian", `did you mean "vs_main"`},
		{"unrelated", "compute_everything", "have vs_main, fs_main"},
		{"empty", "", "no entry point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.WGSLToGLSL(context.Background(), src, tt.entryPoint)
			require.Error(t, err)
			assert.Zero(t, res.Size)
			ce := conversionError(t, err)
			assert.Equal(t, shaderbench.KindEntryPoint, ce.Kind)
			assert.Equal(t, Name, ce.Backend)
			assert.Contains(t, ce.Message, tt.contains)
		})
	}
}

func TestWGSLToGLSL_ParseError(t *testing.T) {
	src := "@vertex\nfn main( -> @builtin(position) vec4<f32> {\n"
	c := New(Options{})

	res, err := c.WGSLToGLSL(context.Background(), src, "main")
	require.Error(t, err)
	assert.Zero(t, res.Size)

	ce := conversionError(t, err)
	assert.Equal(t, shaderbench.KindParse, ce.Kind)
	loc, ok := ce.Location()
	require.True(t, ok)
	assert.Equal(t, 2, loc.Line)
	assert.Positive(t, loc.Column)
	assert.Equal(t, loc.Message, ce.Message)
	assert.NotContains(t, ce.Message, "parsing failed")
}

func TestWGSLToGLSL_LowerError(t *testing.T) {
	src := `@fragment
fn main() -> @location(0) vec4<f32> {
    return undefined_color;
}
`
	c := New(Options{})

	_, err := c.WGSLToGLSL(context.Background(), src, "main")
	require.Error(t, err)
	ce := conversionError(t, err)
	assert.Equal(t, shaderbench.KindParse, ce.Kind)
	require.Len(t, ce.Diagnostics, 1)
	loc, ok := ce.Location()
	require.True(t, ok)
	assert.Positive(t, loc.Line)
	assert.Contains(t, loc.Message, "undefined_color")
}

func TestLocate(t *testing.T) {
	tests := []struct {
		text string
		want shaderbench.Diagnostic
		ok   bool
	}{
		{
			text: "parse error: parsing failed with 1 error(s): line 2, column 10: expected parameter name",
			want: shaderbench.Diagnostic{Message: "expected parameter name", Line: 2, Column: 10},
			ok:   true,
		},
		{
			text: "3:5: unresolved identifier: x",
			want: shaderbench.Diagnostic{Message: "unresolved identifier: x", Line: 3, Column: 5},
			ok:   true,
		},
		{
			text: "7:1: type mismatch (and 2 more errors)",
			want: shaderbench.Diagnostic{Message: "type mismatch", Line: 7, Column: 1},
			ok:   true,
		},
		{text: "global var x: type annotation required without initializer"},
		{text: "0:0: no location"},
	}
	for _, tt := range tests {
		got, ok := locate(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestWGSLToGLSL_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).WGSLToGLSL(ctx, readCorpus(t, "quad.wgsl"), "vs_main")
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// Unsupported directions
// =============================================================================

func TestUnsupported(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()

	_, err := c.GLSLToSPIRV(ctx, "#version 450\nvoid main() {}", shaderbench.StageVertex)
	assert.ErrorIs(t, err, shaderbench.ErrUnsupported)

	_, err = c.SPIRVToTarget(ctx, []uint32{0x07230203}, shaderbench.LanguageWGSL)
	assert.ErrorIs(t, err, shaderbench.ErrUnsupported)
	assert.Equal(t, shaderbench.SPIRVToWGSL, conversionError(t, err).Direction)

	_, err = c.SPIRVToTarget(ctx, []uint32{0x07230203}, shaderbench.LanguageMSL)
	assert.Equal(t, shaderbench.SPIRVToMSL, conversionError(t, err).Direction)
}

func TestBackend(t *testing.T) {
	b := Backend(Options{})
	assert.True(t, b.Supports(shaderbench.WGSLToGLSL))
	assert.False(t, b.Supports(shaderbench.GLSLToSPIRV))

	c, err := b.Acquire()
	require.NoError(t, err)
	assert.Equal(t, Name, c.Name())
	require.NoError(t, c.Close())

	_, err = c.WGSLToGLSL(context.Background(), "", "main")
	assert.ErrorIs(t, err, shaderbench.ErrClosed)
}

// =============================================================================
// Entry point inspection
// =============================================================================

func TestEntryPointStage(t *testing.T) {
	src := readCorpus(t, "quad.wgsl")

	tests := []struct {
		name string
		want shaderbench.Stage
	}{
		{"vs_main", shaderbench.StageVertex},
		{"fs_main", shaderbench.StageFragment},
	}
	for _, tt := range tests {
		got, err := EntryPointStage(src, tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.name)
	}

	got, err := EntryPointStage(readCorpus(t, "blur.wgsl"), "main")
	require.NoError(t, err)
	assert.Equal(t, shaderbench.StageCompute, got)

	_, err = EntryPointStage(src, "nope")
	assert.Equal(t, shaderbench.KindEntryPoint, shaderbench.KindOf(err))
}

func TestEntryPoints(t *testing.T) {
	eps, err := EntryPoints(readCorpus(t, "quad.wgsl"))
	require.NoError(t, err)
	names := make([]string, len(eps))
	for i, ep := range eps {
		names[i] = ep.Name
	}
	assert.ElementsMatch(t, []string{"vs_main", "fs_main"}, names)
}

func TestSuggest(t *testing.T) {
	names := []string{"vs_main", "fs_main", "cs_main"}
	assert.Equal(t, "vs_main", suggest("vs_mian", names))
	assert.Equal(t, "fs_main", suggest("fs_mainn", names))
	assert.Empty(t, suggest("xyz", names))
	assert.Empty(t, suggest("main", nil))
}

func TestParseGLSLVersion(t *testing.T) {
	tests := []struct {
		in   string
		want glsl.Version
	}{
		{"", glsl.Version330},
		{"330", glsl.Version330},
		{"450", glsl.Version450},
		{"ES300", glsl.VersionES300},
		{"es 310", glsl.VersionES310},
	}
	for _, tt := range tests {
		got, err := ParseGLSLVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseGLSLVersion("110")
	assert.Error(t, err)
}
