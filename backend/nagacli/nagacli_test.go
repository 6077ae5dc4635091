package nagacli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gonaga "github.com/gogpu/naga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/backend/tool/tooltest"
	"github.com/gogpu/shaderbench/spirv"
)

func TestMain(m *testing.M) {
	if tooltest.Active() {
		os.Exit(fakeNaga(os.Args[1:]))
	}
	os.Exit(m.Run())
}

// fakeNaga writes "<in ext> -> <out ext> [ep]" to the output path, the last
// argument, and fails on SPIR-V without the magic number.
func fakeNaga(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "error: missing input")
		return 1
	}
	in, out := args[len(args)-2], args[len(args)-1]
	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if filepath.Ext(in) == ".spv" && !spirv.HasMagic(data) {
		fmt.Fprintln(os.Stderr, "error: Could not parse SPIR-V: InvalidHeader")
		return 1
	}
	content := filepath.Ext(in) + " -> " + filepath.Ext(out)
	if ep, ok := tooltest.Flag(args, "--entry-point"); ok {
		content += " " + ep
	}
	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		return 1
	}
	return 0
}

func newConverter(t *testing.T) *Converter {
	t.Helper()
	sess, err := tool.NewSession()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	c, err := New(sess, tooltest.Tool(Name))
	require.NoError(t, err)
	return c
}

func readWGSL(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "corpus", "wgsl", name))
	require.NoError(t, err)
	return string(data)
}

func TestGLSLToSPIRV(t *testing.T) {
	c := newConverter(t)

	tests := []struct {
		stage shaderbench.Stage
		want  string
	}{
		{shaderbench.StageVertex, ".vert -> .spv"},
		{shaderbench.StageFragment, ".frag -> .spv"},
		{shaderbench.StageCompute, ".comp -> .spv"},
	}
	for _, tt := range tests {
		res, err := c.GLSLToSPIRV(context.Background(), "void main() {}", tt.stage)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(res.Output))
	}
}

func TestSPIRVToTarget(t *testing.T) {
	c := newConverter(t)
	words := []uint32{spirv.Magic, 0x00010000, 0, 1, 0}

	res, err := c.SPIRVToTarget(context.Background(), words, shaderbench.LanguageWGSL)
	require.NoError(t, err)
	assert.Equal(t, ".spv -> .wgsl", string(res.Output))

	res, err = c.SPIRVToTarget(context.Background(), words, shaderbench.LanguageMSL)
	require.NoError(t, err)
	assert.Equal(t, ".spv -> .metal", string(res.Output))

	_, err = c.SPIRVToTarget(context.Background(), words, shaderbench.LanguageGLSL)
	assert.ErrorIs(t, err, shaderbench.ErrUnsupported)
}

func TestSPIRVToTarget_Corrupt(t *testing.T) {
	c := newConverter(t)

	res, err := c.SPIRVToTarget(context.Background(), []uint32{0, 0, 0, 0, 0}, shaderbench.LanguageMSL)
	require.Error(t, err)
	assert.Zero(t, res.Size)
	assert.Equal(t, shaderbench.KindTool, shaderbench.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "InvalidHeader"), err.Error())
}

func TestWGSLToGLSL(t *testing.T) {
	c := newConverter(t)
	src := readWGSL(t, "quad.wgsl")

	res, err := c.WGSLToGLSL(context.Background(), src, "vs_main")
	require.NoError(t, err)
	assert.Equal(t, ".wgsl -> .vert vs_main", string(res.Output))

	res, err = c.WGSLToGLSL(context.Background(), src, "fs_main")
	require.NoError(t, err)
	assert.Equal(t, ".wgsl -> .frag fs_main", string(res.Output))

	res, err = c.WGSLToGLSL(context.Background(), readWGSL(t, "blur.wgsl"), "main")
	require.NoError(t, err)
	assert.Equal(t, ".wgsl -> .comp main", string(res.Output))
}

func TestWGSLToGLSL_MissingEntryPoint(t *testing.T) {
	c := newConverter(t)
	src := readWGSL(t, "quad.wgsl")

	for _, ep := range []string{"", "vs_mian"} {
		_, err := c.WGSLToGLSL(context.Background(), src, ep)
		var ce *shaderbench.ConversionError
		require.True(t, errors.As(err, &ce), ep)
		assert.Equal(t, shaderbench.KindEntryPoint, ce.Kind)
		assert.Equal(t, Name, ce.Backend)
	}
}

func TestRealNaga(t *testing.T) {
	bin := tool.New(Name, DefaultBin)
	if err := bin.Available(); err != nil {
		t.Skip(err)
	}
	src := readWGSL(t, "quad.wgsl")
	data, err := gonaga.Compile(src)
	require.NoError(t, err)

	sess, err := tool.NewSession()
	require.NoError(t, err)
	defer sess.Close()
	c, err := New(sess, bin)
	require.NoError(t, err)

	ctx := context.Background()
	for _, target := range []shaderbench.Language{shaderbench.LanguageWGSL, shaderbench.LanguageMSL} {
		res, err := c.SPIRVToTarget(ctx, spirv.Words(data), target)
		require.NoError(t, err, target)
		assert.Positive(t, res.Size)
	}
	res, err := c.WGSLToGLSL(ctx, src, "fs_main")
	require.NoError(t, err)
	assert.Positive(t, res.Size)
}
