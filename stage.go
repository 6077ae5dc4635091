package shaderbench

import (
	"errors"
	"fmt"
	"strings"
)

// Stage is the pipeline role a shader is compiled for.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
	StageCompute
)

// ErrUnknownStage is returned by ParseStage for names without a stage suffix.
var ErrUnknownStage = errors.New("unknown shader stage")

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Ext returns the conventional GLSL file extension for the stage, without the dot.
func (s Stage) Ext() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageFragment:
		return "frag"
	default:
		return "comp"
	}
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StageFromName infers the stage from a file name: names containing ".vert"
// are vertex shaders, names containing ".frag" fragment shaders, anything
// else compute.
func StageFromName(name string) Stage {
	switch {
	case strings.Contains(name, ".vert"):
		return StageVertex
	case strings.Contains(name, ".frag"):
		return StageFragment
	default:
		return StageCompute
	}
}

// ParseStage is the strict form of StageFromName. Compute shaders must carry
// ".comp"; other names fail with ErrUnknownStage.
func ParseStage(name string) (Stage, error) {
	switch {
	case strings.Contains(name, ".vert"):
		return StageVertex, nil
	case strings.Contains(name, ".frag"):
		return StageFragment, nil
	case strings.Contains(name, ".comp"):
		return StageCompute, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
}
