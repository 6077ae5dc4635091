package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderbench"
)

// Report is the outcome of a suite.
type Report struct {
	Runs     int       `json:"runs" yaml:"runs"`
	Policy   Policy    `json:"policy" yaml:"policy"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section groups the runs of one direction.
type Section struct {
	Direction shaderbench.Direction `json:"direction" yaml:"direction"`
	Shaders   int                   `json:"shaders" yaml:"shaders"`
	Results   []RunResult           `json:"results" yaml:"results"`
}

func (r *Report) add(sec Section) {
	if len(sec.Results) > 0 {
		r.Sections = append(r.Sections, sec)
	}
}

// Failed reports whether any run recorded a failure.
func (r *Report) Failed() bool {
	for _, sec := range r.Sections {
		for i := range sec.Results {
			if sec.Results[i].Failed() {
				return true
			}
		}
	}
	return false
}

// Format is a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
}

// TextOptions configures the text report.
type TextOptions struct {
	// Color enables ANSI styling.
	Color bool

	// Detail adds per-entry output sizes.
	Detail bool
}

// Write encodes the report in the given format.
func (r *Report) Write(w io.Writer, f Format, opts TextOptions) error {
	switch f {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	case FormatText, "":
		return r.WriteText(w, opts)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// WriteText writes one header per direction followed by one line per
// backend:
//
//	GLSL -> SPIRV (2 shaders)
//		glslang: 1532 us
func (r *Report) WriteText(w io.Writer, opts TextOptions) error {
	profile := termenv.Ascii
	if opts.Color {
		profile = termenv.ANSI
	}
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	header := func(s string) string { return out.String(s).Bold().String() }
	name := func(s string) string { return out.String(s).Foreground(out.Color("6")).String() }
	bad := func(s string) string { return out.String(s).Foreground(out.Color("1")).String() }
	warn := func(s string) string { return out.String(s).Foreground(out.Color("3")).String() }

	var sb strings.Builder
	for _, sec := range r.Sections {
		fmt.Fprintf(&sb, "%s (%d shaders)\n", header(sec.Direction.String()), sec.Shaders)
		for i := range sec.Results {
			res := &sec.Results[i]
			if res.Error != "" {
				fmt.Fprintf(&sb, "\t%s: %s\n", name(res.Backend), bad(res.Error))
				continue
			}
			fmt.Fprintf(&sb, "\t%s: %d us\n", name(res.Backend), res.Micros())
			if opts.Detail {
				for _, e := range res.Entries {
					if e.Size == 0 {
						continue
					}
					fmt.Fprintf(&sb, "\t\t%s: %s\n", e.Name, humanize.Bytes(uint64(e.Size)))
				}
			}
			for _, f := range res.Failures {
				fmt.Fprintf(&sb, "\t\t%s: %s\n", f.Entry, bad(f.Message))
			}
			if res.Unstable {
				fmt.Fprintf(&sb, "\t\t%s\n", warn("output sizes differ between runs"))
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
