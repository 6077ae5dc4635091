package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/naga"
	"github.com/gogpu/shaderbench/bench"
	"github.com/gogpu/shaderbench/corpus"
	"github.com/gogpu/shaderbench/spirv"
)

// fileInfo describes one inspected file.
type fileInfo struct {
	Path        string                   `json:"path" yaml:"path"`
	Language    string                   `json:"language" yaml:"language"`
	Stage       string                   `json:"stage,omitempty" yaml:"stage,omitempty"`
	Size        int                      `json:"size" yaml:"size"`
	Fingerprint string                   `json:"fingerprint" yaml:"fingerprint"`
	EntryPoints []string                 `json:"entry_points,omitempty" yaml:"entry_points,omitempty"`
	SPIRV       *spirv.Info              `json:"spirv,omitempty" yaml:"spirv,omitempty"`
	Error       string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics []shaderbench.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Describe corpus files: stage, size, fingerprint, entry points",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := bench.ParseFormat(format)
			if err != nil {
				return err
			}
			infos := make([]fileInfo, 0, len(args))
			for _, name := range args {
				info, err := inspect(name, a.cfg.Corpus.StrictStages)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return writeInfos(cmd.OutOrStdout(), f, infos)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}

func inspect(name string, strict bool) (fileInfo, error) {
	e, err := corpus.ReadFile(name)
	if err != nil {
		return fileInfo{}, err
	}
	info := fileInfo{
		Path:        name,
		Language:    e.Language.String(),
		Size:        e.Size(),
		Fingerprint: fmt.Sprintf("%016x", e.Fingerprint),
	}

	switch e.Language {
	case shaderbench.LanguageGLSL:
		stage := e.Stage
		if strict {
			if stage, err = shaderbench.ParseStage(e.Name); err != nil {
				info.Error = err.Error()
				break
			}
		}
		info.Stage = stage.String()
	case shaderbench.LanguageSPIRV:
		si, err := spirv.Inspect(e.Words)
		if err != nil {
			info.Error = err.Error()
		}
		if si.Header.Magic != 0 {
			info.SPIRV = &si
		}
		for _, ep := range si.EntryPoints {
			info.EntryPoints = append(info.EntryPoints, ep.Name+" ("+ep.Model+")")
		}
	case shaderbench.LanguageWGSL:
		eps, err := naga.EntryPoints(e.Source)
		if err != nil {
			info.Error = err.Error()
			var ce *shaderbench.ConversionError
			if errors.As(err, &ce) {
				info.Diagnostics = ce.Diagnostics
			}
			break
		}
		for _, ep := range eps {
			label := ep.Name
			if s, err := naga.StageOf(ep.Stage); err == nil {
				label += " (" + s.String() + ")"
			}
			info.EntryPoints = append(info.EntryPoints, label)
		}
	}
	return info, nil
}

func writeInfos(w io.Writer, f bench.Format, infos []fileInfo) error {
	switch f {
	case bench.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case bench.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\n", info.Path)
		fmt.Fprintf(tw, "  language:\t%s\n", info.Language)
		if info.Stage != "" {
			fmt.Fprintf(tw, "  stage:\t%s\n", info.Stage)
		}
		fmt.Fprintf(tw, "  size:\t%s\n", humanize.IBytes(uint64(info.Size)))
		fmt.Fprintf(tw, "  fingerprint:\t%s\n", info.Fingerprint)
		if si := info.SPIRV; si != nil {
			fmt.Fprintf(tw, "  version:\t%s\n", si.Header.VersionString())
			fmt.Fprintf(tw, "  generator:\t%#08x\n", si.Header.Generator)
			fmt.Fprintf(tw, "  id bound:\t%s\n", humanize.Comma(int64(si.Header.Bound)))
			fmt.Fprintf(tw, "  instructions:\t%s\n", humanize.Comma(int64(si.Instructions)))
			fmt.Fprintf(tw, "  functions:\t%d\n", si.Functions)
			if len(si.Capabilities) > 0 {
				fmt.Fprintf(tw, "  capabilities:\t%s\n", strings.Join(si.Capabilities, ", "))
			}
		}
		if len(info.EntryPoints) > 0 {
			fmt.Fprintf(tw, "  entry points:\t%s\n", strings.Join(info.EntryPoints, ", "))
		}
		if info.Error != "" {
			fmt.Fprintf(tw, "  error:\t%s\n", info.Error)
		}
		for _, d := range info.Diagnostics {
			fmt.Fprintf(tw, "\t%s\n", d)
		}
	}
	return tw.Flush()
}
