package glslang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/backend/tool/tooltest"
	"github.com/gogpu/shaderbench/spirv"
)

func TestMain(m *testing.M) {
	if tooltest.Active() {
		os.Exit(fakeGlslang(os.Args[1:]))
	}
	os.Exit(m.Run())
}

// fakeGlslang mimics glslangValidator: it reports syntax errors on stdout
// and writes a SPIR-V header tagged with the stage otherwise.
func fakeGlslang(args []string) int {
	src, _ := io.ReadAll(os.Stdin)
	stage, _ := tooltest.Flag(args, "-S")
	out, ok := tooltest.Flag(args, "-o")
	if !ok || !tooltest.Has(args, "--stdin") || !tooltest.Has(args, "-V") {
		fmt.Println("usage: glslangValidator")
		return 1
	}
	switch {
	case strings.Contains(string(src), "syntax_error"):
		fmt.Println("stdin")
		fmt.Println("ERROR: 0:3: 'syntax_error' : undeclared identifier")
		fmt.Println("ERROR: 1 compilation errors.  No code generated.")
		return 2
	case strings.Contains(string(src), "no_output"):
		return 0
	}
	words := []uint32{spirv.Magic, 0x00010300, 0, 1, 0}
	data := append(spirv.Bytes(words), []byte(stage)...)
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return 1
	}
	return 0
}

func newConverter(t *testing.T) *Converter {
	t.Helper()
	sess, err := tool.NewSession()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	c, err := New(sess, tooltest.Tool(Name), Options{})
	require.NoError(t, err)
	return c
}

func TestGLSLToSPIRV(t *testing.T) {
	c := newConverter(t)

	for _, stage := range []shaderbench.Stage{shaderbench.StageVertex, shaderbench.StageFragment, shaderbench.StageCompute} {
		t.Run(stage.String(), func(t *testing.T) {
			res, err := c.GLSLToSPIRV(context.Background(), "#version 450\nvoid main() {}\n", stage)
			require.NoError(t, err)
			assert.Equal(t, 20+len(stage.Ext()), res.Size)
			assert.True(t, spirv.HasMagic(res.Output))
			assert.True(t, strings.HasSuffix(string(res.Output), stage.Ext()))
		})
	}
}

func TestGLSLToSPIRV_SyntaxError(t *testing.T) {
	c := newConverter(t)

	res, err := c.GLSLToSPIRV(context.Background(), "#version 450\nvoid main() {\n syntax_error;\n}\n", shaderbench.StageVertex)
	require.Error(t, err)
	assert.Zero(t, res.Size)

	var ce *shaderbench.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, shaderbench.KindTool, ce.Kind)
	assert.Equal(t, Name, ce.Backend)
	assert.Contains(t, ce.Message, "undeclared identifier")
	loc, ok := ce.Location()
	require.True(t, ok)
	assert.Equal(t, 3, loc.Line)
}

func TestGLSLToSPIRV_NoOutput(t *testing.T) {
	c := newConverter(t)

	_, err := c.GLSLToSPIRV(context.Background(), "// no_output", shaderbench.StageFragment)
	assert.Equal(t, shaderbench.KindEmpty, shaderbench.KindOf(err))
}

func TestGLSLToSPIRV_ScratchRemoved(t *testing.T) {
	c := newConverter(t)

	_, err := c.GLSLToSPIRV(context.Background(), "void main() {}", shaderbench.StageVertex)
	require.NoError(t, err)

	entries, err := os.ReadDir(c.sess.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnsupported(t *testing.T) {
	c := newConverter(t)

	_, err := c.SPIRVToTarget(context.Background(), nil, shaderbench.LanguageWGSL)
	assert.ErrorIs(t, err, shaderbench.ErrUnsupported)
	_, err = c.WGSLToGLSL(context.Background(), "", "main")
	assert.ErrorIs(t, err, shaderbench.ErrUnsupported)
}

func TestOpen(t *testing.T) {
	_, err := New(nil, tooltest.Tool(Name), Options{})
	assert.ErrorIs(t, err, tool.ErrNoSession)

	sess, err := tool.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	b := Backend(sess, tool.New(Name, "glslangValidator-missing"), Options{})
	_, err = b.Acquire()
	assert.ErrorIs(t, err, tool.ErrNotFound)
}

func TestRealGlslang(t *testing.T) {
	bin := tool.New(Name, DefaultBin)
	if err := bin.Available(); err != nil {
		t.Skip(err)
	}
	sess, err := tool.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	c, err := New(sess, bin, Options{})
	require.NoError(t, err)

	for _, name := range []string{"bevy-pbr.vert", "bevy-pbr.frag"} {
		src, err := os.ReadFile(filepath.Join("..", "..", "corpus", "glsl", name))
		require.NoError(t, err)

		res, err := c.GLSLToSPIRV(context.Background(), string(src), shaderbench.StageFromName(name))
		require.NoError(t, err, name)
		assert.True(t, spirv.HasMagic(res.Output), name)
	}
}
