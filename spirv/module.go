package spirv

import (
	"fmt"
	"strings"

	nagaspirv "github.com/gogpu/naga/spirv"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Opcode   nagaspirv.OpCode
	Operands []uint32

	// Offset is the word index of the instruction in the module.
	Offset int
}

// Name returns the opcode name, or "Op<n>" for opcodes without a table entry.
func (in Instruction) Name() string {
	if name, ok := opcodeNames[in.Opcode]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", in.Opcode)
}

// Instructions splits the words after the header into instructions.
func Instructions(words []uint32) ([]Instruction, error) {
	if _, err := ParseHeader(words); err != nil {
		return nil, err
	}

	var out []Instruction
	for offset := HeaderWords; offset < len(words); {
		word := words[offset]
		opcode := nagaspirv.OpCode(word & 0xFFFF)
		wordCount := int(word >> 16)
		if wordCount == 0 || offset+wordCount > len(words) {
			return out, fmt.Errorf("spirv: invalid word count %d at word %d", wordCount, offset)
		}
		out = append(out, Instruction{
			Opcode:   opcode,
			Operands: words[offset+1 : offset+wordCount],
			Offset:   offset,
		})
		offset += wordCount
	}
	return out, nil
}

// EntryPoint is an OpEntryPoint declaration.
type EntryPoint struct {
	Model string `json:"model" yaml:"model"`
	Name  string `json:"name" yaml:"name"`
}

// Info summarizes a module.
type Info struct {
	Header       Header       `json:"header" yaml:"header"`
	Instructions int          `json:"instructions" yaml:"instructions"`
	Functions    int          `json:"functions" yaml:"functions"`
	Capabilities []string     `json:"capabilities" yaml:"capabilities"`
	Imports      []string     `json:"imports,omitempty" yaml:"imports,omitempty"`
	EntryPoints  []EntryPoint `json:"entry_points" yaml:"entry_points"`
}

// Inspect decodes the header and walks every instruction of a module.
func Inspect(words []uint32) (Info, error) {
	h, err := ParseHeader(words)
	if err != nil {
		return Info{}, err
	}
	insts, err := Instructions(words)
	info := Info{Header: h, Instructions: len(insts)}
	for _, in := range insts {
		switch in.Opcode {
		case nagaspirv.OpCapability:
			if len(in.Operands) > 0 {
				info.Capabilities = append(info.Capabilities, lookup(capabilityNames, in.Operands[0]))
			}
		case nagaspirv.OpExtInstImport:
			if len(in.Operands) > 1 {
				info.Imports = append(info.Imports, literalString(in.Operands[1:]))
			}
		case nagaspirv.OpEntryPoint:
			if len(in.Operands) > 2 {
				info.EntryPoints = append(info.EntryPoints, EntryPoint{
					Model: lookup(executionModelNames, in.Operands[0]),
					Name:  literalString(in.Operands[2:]),
				})
			}
		case nagaspirv.OpFunction:
			info.Functions++
		}
	}
	return info, err
}

// literalString decodes a nul-terminated UTF-8 literal packed into words.
func literalString(words []uint32) string {
	var sb strings.Builder
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String()
			}
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}
