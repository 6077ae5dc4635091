// Package corpus loads the benchmark corpus.
//
// A corpus directory holds one sub-directory per input language:
//
//	glsl/<name>.vert, glsl/<name>.frag   GLSL sources
//	spirv/<name>.spv                     raw little-endian SPIR-V words
//	wgsl/<name>.wgsl                     WGSL programs
//
// The default corpus lives next to this package. Its SPIR-V files are built
// from the WGSL programs, either at load time or ahead of it:
//
//	go generate ./corpus
package corpus

//go:generate go run ../cmd/gencorpus -in wgsl -out spirv

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/glob"
	gonaga "github.com/gogpu/naga"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/spirv"
)

// Directory names inside a corpus root.
const (
	DirGLSL  = "glsl"
	DirSPIRV = "spirv"
	DirWGSL  = "wgsl"
)

// WGSLEntry names a WGSL program and the entry point to translate.
type WGSLEntry struct {
	Name       string `toml:"name" json:"name" yaml:"name"`
	EntryPoint string `toml:"entry_point" json:"entry_point" yaml:"entry_point"`
}

// ParseWGSLEntry parses "file.wgsl:entry".
func ParseWGSLEntry(s string) (WGSLEntry, error) {
	name, ep, ok := strings.Cut(s, ":")
	if !ok || name == "" || ep == "" {
		return WGSLEntry{}, fmt.Errorf("corpus: wgsl entry %q must be <file>:<entry point>", s)
	}
	return WGSLEntry{Name: name, EntryPoint: ep}, nil
}

func (e WGSLEntry) String() string {
	return e.Name + ":" + e.EntryPoint
}

// Manifest lists the corpus entries per input language.
type Manifest struct {
	GLSL  []string    `toml:"glsl"`
	SPIRV []string    `toml:"spirv"`
	WGSL  []WGSLEntry `toml:"wgsl"`
}

// DefaultManifest returns the entries of the bundled corpus.
func DefaultManifest() Manifest {
	return Manifest{
		GLSL:  []string{"bevy-pbr.vert", "bevy-pbr.frag"},
		SPIRV: []string{"quad", "blur"},
		WGSL: []WGSLEntry{
			{Name: "quad.wgsl", EntryPoint: "vs_main"},
			{Name: "quad.wgsl", EntryPoint: "fs_main"},
			{Name: "blur.wgsl", EntryPoint: "main"},
		},
	}
}

// Entry is one loaded corpus file. Entries are read-only after load.
type Entry struct {
	// Name is the manifest name; WGSL entries append ":<entry point>".
	Name     string
	Path     string
	Language shaderbench.Language

	// Source is the text of GLSL and WGSL entries.
	Source string

	// Stage is inferred once, at load time, for GLSL entries.
	Stage shaderbench.Stage

	// Words is the payload of SPIR-V entries.
	Words []uint32

	// EntryPoint is the function to translate for WGSL entries.
	EntryPoint string

	// Fingerprint is the xxhash of the raw file bytes.
	Fingerprint uint64
}

// Input returns the converter input for the entry.
func (e *Entry) Input() shaderbench.Input {
	return shaderbench.Input{
		Source:     e.Source,
		Stage:      e.Stage,
		Words:      e.Words,
		EntryPoint: e.EntryPoint,
	}
}

// Size returns the payload size in bytes.
func (e *Entry) Size() int {
	if e.Language == shaderbench.LanguageSPIRV {
		return len(e.Words) * 4
	}
	return len(e.Source)
}

// Corpus is the set of entries for one input language.
type Corpus struct {
	Language shaderbench.Language
	Entries  []Entry
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Release drops the loaded payloads.
func (c *Corpus) Release() {
	if c != nil {
		c.Entries = nil
	}
}

// Loader reads corpus entries from a file system.
type Loader struct {
	FS       fs.FS
	Manifest Manifest

	// StrictStages rejects GLSL names without a .vert/.frag/.comp suffix
	// instead of treating them as compute shaders.
	StrictStages bool

	filter glob.Glob
}

// NewLoader returns a loader for the corpus rooted at fsys.
func NewLoader(fsys fs.FS, m Manifest) *Loader {
	return &Loader{FS: fsys, Manifest: m}
}

// SetFilter restricts loading to entries whose manifest name matches the
// glob pattern. An empty pattern removes the filter.
func (l *Loader) SetFilter(pattern string) error {
	if pattern == "" {
		l.filter = nil
		return nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("corpus: filter %q: %w", pattern, err)
	}
	l.filter = g
	return nil
}

func (l *Loader) match(name string) bool {
	return l.filter == nil || l.filter.Match(name)
}

// Load reads every manifest entry of the given input language. The first
// unreadable entry aborts the load.
func (l *Loader) Load(lang shaderbench.Language) (*Corpus, error) {
	c := &Corpus{Language: lang}
	switch lang {
	case shaderbench.LanguageGLSL:
		for _, name := range l.Manifest.GLSL {
			if !l.match(name) {
				continue
			}
			e, err := l.LoadGLSL(name)
			if err != nil {
				return nil, err
			}
			c.Entries = append(c.Entries, e)
		}
	case shaderbench.LanguageSPIRV:
		for _, name := range l.Manifest.SPIRV {
			if !l.match(name) {
				continue
			}
			e, err := l.LoadSPIRV(name)
			if err != nil {
				return nil, err
			}
			c.Entries = append(c.Entries, e)
		}
	case shaderbench.LanguageWGSL:
		for _, we := range l.Manifest.WGSL {
			if !l.match(we.Name) && !l.match(we.String()) {
				continue
			}
			e, err := l.LoadWGSL(we)
			if err != nil {
				return nil, err
			}
			c.Entries = append(c.Entries, e)
		}
	default:
		return nil, fmt.Errorf("corpus: no entries for %s input", lang)
	}
	return c, nil
}

// LoadGLSL reads glsl/<name> and infers its stage.
func (l *Loader) LoadGLSL(name string) (Entry, error) {
	stage := shaderbench.StageFromName(name)
	if l.StrictStages {
		var err error
		if stage, err = shaderbench.ParseStage(name); err != nil {
			return Entry{}, fmt.Errorf("corpus: %w", err)
		}
	}
	p := path.Join(DirGLSL, name)
	data, err := l.read(p)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:        name,
		Path:        p,
		Language:    shaderbench.LanguageGLSL,
		Source:      string(data),
		Stage:       stage,
		Fingerprint: xxhash.Sum64(data),
	}, nil
}

// LoadSPIRV reads spirv/<name>.spv. The words are not validated.
//
// When the file is missing and wgsl/<name>.wgsl exists, the module is
// compiled from the WGSL program instead.
func (l *Loader) LoadSPIRV(name string) (Entry, error) {
	name = strings.TrimSuffix(name, ".spv")
	p := path.Join(DirSPIRV, name+".spv")
	data, err := l.read(p)
	if errors.Is(err, fs.ErrNotExist) {
		src, serr := fs.ReadFile(l.FS, path.Join(DirWGSL, name+".wgsl"))
		if serr != nil {
			return Entry{}, err
		}
		if data, err = CompileWGSL(src); err != nil {
			return Entry{}, fmt.Errorf("corpus: build %s: %w", p, err)
		}
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:        name,
		Path:        p,
		Language:    shaderbench.LanguageSPIRV,
		Words:       spirv.Words(data),
		Fingerprint: xxhash.Sum64(data),
	}, nil
}

// LoadWGSL reads wgsl/<name>.
func (l *Loader) LoadWGSL(we WGSLEntry) (Entry, error) {
	if we.EntryPoint == "" {
		return Entry{}, fmt.Errorf("corpus: wgsl entry %q has no entry point", we.Name)
	}
	p := path.Join(DirWGSL, we.Name)
	data, err := l.read(p)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:        we.String(),
		Path:        p,
		Language:    shaderbench.LanguageWGSL,
		Source:      string(data),
		EntryPoint:  we.EntryPoint,
		Fingerprint: xxhash.Sum64(data),
	}, nil
}

// CompileWGSL builds the SPIR-V form of a WGSL program.
func CompileWGSL(src []byte) ([]byte, error) {
	return gonaga.Compile(string(src))
}

func (l *Loader) read(p string) ([]byte, error) {
	if l.FS == nil {
		return nil, errors.New("corpus: loader has no file system")
	}
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", p, err)
	}
	return data, nil
}
