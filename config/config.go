// Package config loads shaderbench settings from a TOML file.
//
// A file only needs the keys it changes; everything else keeps the value
// from [Default]:
//
//	[run]
//	runs = 5
//	policy = "continue"
//	timeout = "10s"
//	backends = ["naga", "tint"]
//
//	[corpus]
//	dir = "~/shaders"
//	wgsl = ["quad.wgsl:vs_main"]
//
//	[tools.tint]
//	bin = "/opt/dawn/bin/tint"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/glslang"
	"github.com/gogpu/shaderbench/backend/naga"
	"github.com/gogpu/shaderbench/backend/nagacli"
	"github.com/gogpu/shaderbench/backend/spirvcross"
	"github.com/gogpu/shaderbench/backend/tint"
	"github.com/gogpu/shaderbench/bench"
	"github.com/gogpu/shaderbench/corpus"
)

// Backends lists every backend name in report order.
var Backends = []string{naga.Name, nagacli.Name, glslang.Name, tint.Name, spirvcross.Name}

// Config is the complete configuration.
type Config struct {
	Log    Log             `toml:"log"`
	Run    Run             `toml:"run"`
	Corpus Corpus          `toml:"corpus"`
	Naga   Naga            `toml:"naga"`
	Tools  map[string]Tool `toml:"tools"`
}

// Log configures the logger.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`
}

// Run configures the benchmark.
type Run struct {
	Runs    int          `toml:"runs"`
	Policy  bench.Policy `toml:"policy"`
	Timeout Duration     `toml:"timeout"`

	// Format is the report encoding: text, json or yaml.
	Format string `toml:"format"`

	// Detail adds per-entry sizes to the text report.
	Detail bool `toml:"detail"`

	// Backends and Directions restrict the suite. Empty means all.
	Backends   []string `toml:"backends"`
	Directions []string `toml:"directions"`
}

// Corpus configures the corpus loader.
type Corpus struct {
	Dir          string   `toml:"dir"`
	Filter       string   `toml:"filter"`
	StrictStages bool     `toml:"strict_stages"`
	GLSL         []string `toml:"glsl"`
	SPIRV        []string `toml:"spirv"`

	// WGSL entries are "file.wgsl:entry_point".
	WGSL []string `toml:"wgsl"`
}

// Naga configures the in-process backend.
type Naga struct {
	GLSLVersion string `toml:"glsl_version"`
	Validate    bool   `toml:"validate"`
}

// Tool configures an external compiler.
type Tool struct {
	Bin string `toml:"bin"`

	// Args are prepended to every invocation, split like a shell would.
	Args string `toml:"args"`

	// TargetEnv is the glslang --target-env value.
	TargetEnv string `toml:"target_env,omitempty"`
}

// SplitArgs splits Args into words.
func (t Tool) SplitArgs() ([]string, error) {
	if strings.TrimSpace(t.Args) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(t.Args)
	if err != nil {
		return nil, fmt.Errorf("args %q: %w", t.Args, err)
	}
	return args, nil
}

// Duration is a time.Duration written as a string ("30s", "1m").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

var defaultBins = map[string]string{
	nagacli.Name:    nagacli.DefaultBin,
	glslang.Name:    glslang.DefaultBin,
	tint.Name:       tint.DefaultBin,
	spirvcross.Name: spirvcross.DefaultBin,
}

// Default returns the built-in configuration: every backend, one run,
// abort on failure, the bundled corpus.
func Default() *Config {
	m := corpus.DefaultManifest()
	c := &Config{
		Log: Log{Level: "info", Format: "text"},
		Run: Run{
			Runs:   1,
			Policy: bench.PolicyAbort,
			Format: string(bench.FormatText),
		},
		Corpus: Corpus{
			Dir:   "corpus",
			GLSL:  m.GLSL,
			SPIRV: m.SPIRV,
		},
		Naga: Naga{GLSLVersion: "330"},
	}
	for _, we := range m.WGSL {
		c.Corpus.WGSL = append(c.Corpus.WGSL, we.String())
	}
	c.fillTools()
	return c
}

func (c *Config) fillTools() {
	if c.Tools == nil {
		c.Tools = make(map[string]Tool, len(defaultBins))
	}
	for name, bin := range defaultBins {
		t := c.Tools[name]
		if t.Bin == "" {
			t.Bin = bin
		}
		if name == glslang.Name && t.TargetEnv == "" {
			t.TargetEnv = glslang.DefaultTargetEnv
		}
		c.Tools[name] = t
	}
}

// Load reads the file at path over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c := Default()
	// Tables in the file replace the default tool entries; fillTools
	// restores the fields they leave out.
	c.Tools = nil
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, describe(err))
	}
	c.fillTools()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func describe(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Errorf("line %d, column %d: %w", row, col, err)
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		return fmt.Errorf("unknown key: %s", serr.String())
	}
	return err
}

// Validate checks every value that would otherwise fail later.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Run.Runs < 1 {
		errs = append(errs, fmt.Errorf("run.runs must be at least 1, got %d", c.Run.Runs))
	}
	if c.Run.Timeout < 0 {
		errs = append(errs, errors.New("run.timeout must not be negative"))
	}
	if _, err := bench.ParseFormat(c.Run.Format); err != nil {
		errs = append(errs, fmt.Errorf("run.format: %w", err))
	}
	for _, b := range c.Run.Backends {
		if !slices.Contains(Backends, b) {
			errs = append(errs, fmt.Errorf("run.backends: unknown backend %q (have %s)", b, strings.Join(Backends, ", ")))
		}
	}
	if _, err := c.Directions(); err != nil {
		errs = append(errs, fmt.Errorf("run.directions: %w", err))
	}
	if _, err := c.Manifest(); err != nil {
		errs = append(errs, fmt.Errorf("corpus.wgsl: %w", err))
	}
	if _, err := naga.ParseGLSLVersion(c.Naga.GLSLVersion); err != nil {
		errs = append(errs, fmt.Errorf("naga.glsl_version: %w", err))
	}
	for name, t := range c.Tools {
		if _, ok := defaultBins[name]; !ok {
			errs = append(errs, fmt.Errorf("tools.%s: unknown tool", name))
			continue
		}
		if _, err := t.SplitArgs(); err != nil {
			errs = append(errs, fmt.Errorf("tools.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel parses the log level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Directions parses run.directions.
func (c *Config) Directions() ([]shaderbench.Direction, error) {
	var dirs []shaderbench.Direction
	for _, s := range c.Run.Directions {
		d, err := shaderbench.ParseDirection(s)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// Manifest builds the corpus manifest.
func (c *Config) Manifest() (corpus.Manifest, error) {
	m := corpus.Manifest{GLSL: c.Corpus.GLSL, SPIRV: c.Corpus.SPIRV}
	for _, s := range c.Corpus.WGSL {
		we, err := corpus.ParseWGSLEntry(s)
		if err != nil {
			return corpus.Manifest{}, err
		}
		m.WGSL = append(m.WGSL, we)
	}
	return m, nil
}

// CorpusDir returns the corpus directory with a leading ~ expanded.
func (c *Config) CorpusDir() (string, error) {
	return homedir.Expand(c.Corpus.Dir)
}

// Enabled reports whether the named backend takes part in the run.
func (c *Config) Enabled(name string) bool {
	return len(c.Run.Backends) == 0 || slices.Contains(c.Run.Backends, name)
}
