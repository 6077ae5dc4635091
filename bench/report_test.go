package bench

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderbench"
)

func sampleReport() *Report {
	return &Report{
		Runs: 1,
		Sections: []Section{
			{
				Direction: shaderbench.GLSLToSPIRV,
				Shaders:   2,
				Results: []RunResult{
					{
						Backend:   "glslang",
						Direction: shaderbench.GLSLToSPIRV,
						Shaders:   2,
						Elapsed:   1532 * time.Microsecond,
						Samples:   []time.Duration{1532 * time.Microsecond},
						Entries:   []EntryResult{{"bevy-pbr.vert", 2048}, {"bevy-pbr.frag", 4096}},
					},
					{
						Backend:   "naga-cli",
						Direction: shaderbench.GLSLToSPIRV,
						Shaders:   2,
						Elapsed:   987654 * time.Nanosecond,
						Samples:   []time.Duration{987654 * time.Nanosecond},
						Entries:   []EntryResult{{"bevy-pbr.vert", 1900}, {"bevy-pbr.frag", 0}},
						Failures: []Failure{{
							Entry:   "bevy-pbr.frag",
							Kind:    shaderbench.KindTool,
							Message: "naga-cli GLSL -> SPIRV: tool error: bad",
						}},
					},
				},
			},
			{
				Direction: shaderbench.SPIRVToWGSL,
				Shaders:   2,
				Results: []RunResult{
					{Backend: "tint", Direction: shaderbench.SPIRVToWGSL, Shaders: 2, Elapsed: 40 * time.Microsecond, Unstable: true},
					{Backend: "spirv-cross", Direction: shaderbench.SPIRVToWGSL, Error: "tool not found"},
				},
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteText(&buf, TextOptions{}))

	want := "GLSL -> SPIRV (2 shaders)\n" +
		"\tglslang: 1532 us\n" +
		"\tnaga-cli: 987 us\n" +
		"\t\tbevy-pbr.frag: naga-cli GLSL -> SPIRV: tool error: bad\n" +
		"SPIRV -> WGSL (2 shaders)\n" +
		"\ttint: 40 us\n" +
		"\t\toutput sizes differ between runs\n" +
		"\tspirv-cross: tool not found\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteText_Detail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteText(&buf, TextOptions{Detail: true}))

	assert.Contains(t, buf.String(), "\t\tbevy-pbr.vert: 2.0 kB\n")
	assert.Contains(t, buf.String(), "\t\tbevy-pbr.frag: 4.1 kB\n")
	assert.NotContains(t, buf.String(), "bevy-pbr.frag: 0 B")
}

func TestWriteText_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteText(&buf, TextOptions{Color: true}))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "1532 us")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Write(&buf, FormatJSON, TextOptions{}))

	var got struct {
		Runs     int
		Policy   string
		Sections []struct {
			Direction string
			Results   []struct {
				Backend   string
				ElapsedNS int64 `json:"elapsed_ns"`
				Failures  []struct{ Entry, Kind string }
			}
		}
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abort", got.Policy)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "glsl-spirv", got.Sections[0].Direction)
	assert.Equal(t, int64(1532000), got.Sections[0].Results[0].ElapsedNS)
	assert.Equal(t, "tool", got.Sections[0].Results[1].Failures[0].Kind)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Write(&buf, FormatYAML, TextOptions{}))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got["runs"])
	assert.True(t, strings.Contains(buf.String(), "direction: spirv-wgsl"))
	assert.True(t, strings.Contains(buf.String(), "unstable: true"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestReport_Failed(t *testing.T) {
	assert.True(t, sampleReport().Failed())
	assert.False(t, (&Report{}).Failed())
}
