package shaderbench

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported reports an operation the backend does not implement.
	ErrUnsupported = errors.New("unsupported conversion")

	// ErrClosed reports use of a converter after Close.
	ErrClosed = errors.New("converter is closed")
)

// ErrorKind classifies a conversion failure.
type ErrorKind uint8

const (
	KindParse ErrorKind = iota + 1
	KindValidate
	KindGenerate
	KindEntryPoint
	KindUnsupported
	KindTool
	KindInternal
	KindEmpty
	KindClosed
)

var kindNames = [...]string{
	KindParse:       "parse",
	KindValidate:    "validate",
	KindGenerate:    "generate",
	KindEntryPoint:  "entry point",
	KindUnsupported: "unsupported",
	KindTool:        "tool",
	KindInternal:    "internal",
	KindEmpty:       "empty output",
	KindClosed:      "closed",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is one message reported by a wrapped compiler.
// Line and Column are 1-based and zero when unknown.
type Diagnostic struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s at line %d", d.Message, d.Line)
}

// ConversionError describes a failed conversion.
type ConversionError struct {
	Backend     string
	Direction   Direction
	Kind        ErrorKind
	Message     string
	Diagnostics []Diagnostic

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Backend)
	if e.Direction != 0 {
		fmt.Fprintf(&sb, " %s", e.Direction)
	}
	fmt.Fprintf(&sb, ": %s error", e.Kind)
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if d, ok := e.Location(); ok {
		fmt.Fprintf(&sb, " (line %d)", d.Line)
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Location returns the first diagnostic carrying a source line.
func (e *ConversionError) Location() (Diagnostic, bool) {
	for _, d := range e.Diagnostics {
		if d.Line > 0 {
			return d, true
		}
	}
	return Diagnostic{}, false
}

// Unsupported returns the error an adapter reports for a direction it lacks.
func Unsupported(backend string, d Direction) error {
	return &ConversionError{
		Backend:   backend,
		Direction: d,
		Kind:      KindUnsupported,
		Err:       ErrUnsupported,
	}
}

// KindOf returns the kind of a conversion error, or zero for other errors.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
