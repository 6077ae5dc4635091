// Package spirv reads SPIR-V binaries.
//
// It decodes the little-endian word stream, the five-word module header and
// the instruction framing, which is enough to describe a corpus file
// (version, id bound, capabilities, entry points). It does not validate
// modules; converters receive the words verbatim.
package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"

	nagaspirv "github.com/gogpu/naga/spirv"
)

// Magic is the first word of every SPIR-V module.
const Magic uint32 = nagaspirv.MagicNumber

// HeaderWords is the number of words in the module header.
const HeaderWords = 5

var (
	// ErrTooShort is returned for binaries shorter than the header.
	ErrTooShort = errors.New("spirv: binary shorter than header")

	// ErrBadMagic is returned when the first word is not Magic.
	ErrBadMagic = errors.New("spirv: invalid magic number")
)

// Words decodes little-endian 32-bit words. Trailing bytes that do not form
// a whole word are dropped.
func Words(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

// Bytes encodes words as little-endian bytes.
func Bytes(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}

// Header is the SPIR-V module header.
type Header struct {
	Magic     uint32 `json:"magic" yaml:"magic"`
	Version   uint32 `json:"version" yaml:"version"`
	Generator uint32 `json:"generator" yaml:"generator"`
	Bound     uint32 `json:"bound" yaml:"bound"`
	Schema    uint32 `json:"schema" yaml:"schema"`
}

// Major returns the major version number.
func (h Header) Major() int { return int(h.Version>>16) & 0xFF }

// Minor returns the minor version number.
func (h Header) Minor() int { return int(h.Version>>8) & 0xFF }

// VersionString returns the version as "major.minor".
func (h Header) VersionString() string {
	return fmt.Sprintf("%d.%d", h.Major(), h.Minor())
}

// ParseHeader decodes the header of a module.
func ParseHeader(words []uint32) (Header, error) {
	if len(words) < HeaderWords {
		return Header{}, ErrTooShort
	}
	h := Header{
		Magic:     words[0],
		Version:   words[1],
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}
	if h.Magic != Magic {
		return h, fmt.Errorf("%w: 0x%08X", ErrBadMagic, h.Magic)
	}
	return h, nil
}

// HasMagic reports whether data starts with the SPIR-V magic number.
func HasMagic(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == Magic
}
