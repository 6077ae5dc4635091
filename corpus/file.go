package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/spirv"
)

// LanguageOf guesses the input language of a file from its name.
func LanguageOf(name string) shaderbench.Language {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".spv":
		return shaderbench.LanguageSPIRV
	case ".wgsl":
		return shaderbench.LanguageWGSL
	default:
		return shaderbench.LanguageGLSL
	}
}

// ReadFile loads a single file outside of a corpus directory.
// WGSL files are loaded without an entry point.
func ReadFile(name string) (Entry, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Entry{}, fmt.Errorf("corpus: %w", err)
	}
	e := Entry{
		Name:        filepath.Base(name),
		Path:        name,
		Language:    LanguageOf(name),
		Fingerprint: xxhash.Sum64(data),
	}
	switch e.Language {
	case shaderbench.LanguageSPIRV:
		e.Words = spirv.Words(data)
	case shaderbench.LanguageGLSL:
		e.Source = string(data)
		e.Stage = shaderbench.StageFromName(e.Name)
	default:
		e.Source = string(data)
	}
	return e, nil
}
