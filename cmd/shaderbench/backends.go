package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/backend/glslang"
	"github.com/gogpu/shaderbench/backend/naga"
	"github.com/gogpu/shaderbench/backend/nagacli"
	"github.com/gogpu/shaderbench/backend/spirvcross"
	"github.com/gogpu/shaderbench/backend/tint"
	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/config"
)

// registry builds every backend named in cfg.Run.Backends (all when empty),
// in report order. Tool-backed adapters share sess.
func registry(cfg *config.Config, sess *tool.Session, logger *slog.Logger) ([]shaderbench.Backend, error) {
	var out []shaderbench.Backend
	for _, name := range config.Backends {
		if !cfg.Enabled(name) {
			continue
		}
		b, err := newBackend(cfg, name, sess, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// installed drops the tool-backed backends whose executable is missing. It
// applies only when no backend was named, so an explicit request still fails.
func installed(backends []shaderbench.Backend, logger *slog.Logger) []shaderbench.Backend {
	out := backends[:0:0]
	for _, b := range backends {
		c, err := b.Acquire()
		if errors.Is(err, tool.ErrNotFound) {
			logger.Warn("backend skipped", "backend", b.Name, "err", err)
			continue
		}
		if err == nil {
			c.Close()
		}
		out = append(out, b)
	}
	return out
}

func newBackend(cfg *config.Config, name string, sess *tool.Session, logger *slog.Logger) (shaderbench.Backend, error) {
	if name == naga.Name {
		v, err := naga.ParseGLSLVersion(cfg.Naga.GLSLVersion)
		if err != nil {
			return shaderbench.Backend{}, err
		}
		return naga.Backend(naga.Options{GLSLVersion: v, Validate: cfg.Naga.Validate}), nil
	}

	tc := cfg.Tools[name]
	args, err := tc.SplitArgs()
	if err != nil {
		return shaderbench.Backend{}, fmt.Errorf("tools.%s: %w", name, err)
	}
	t := tool.New(name, tc.Bin, args...)
	t.Logger = logger

	switch name {
	case nagacli.Name:
		return nagacli.Backend(sess, t), nil
	case glslang.Name:
		return glslang.Backend(sess, t, glslang.Options{TargetEnv: tc.TargetEnv}), nil
	case tint.Name:
		return tint.Backend(sess, t), nil
	case spirvcross.Name:
		return spirvcross.Backend(sess, t), nil
	}
	return shaderbench.Backend{}, fmt.Errorf("unknown backend %q", name)
}

func newBackendsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List backends, their directions and whether they can run here",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := tool.NewSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			all := *a.cfg
			all.Run.Backends = nil
			backends, err := registry(&all, sess, a.logger)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "BACKEND")
			for _, d := range shaderbench.Directions {
				fmt.Fprintf(tw, "\t%s", d.Flag())
			}
			fmt.Fprintln(tw, "\tSTATUS")
			for _, b := range backends {
				fmt.Fprint(tw, b.Name)
				for _, d := range shaderbench.Directions {
					mark := "-"
					if b.Supports(d) {
						mark = "yes"
					}
					fmt.Fprintf(tw, "\t%s", mark)
				}
				fmt.Fprintf(tw, "\t%s\n", status(b))
			}
			return tw.Flush()
		},
	}
}

// status opens and closes the backend once.
func status(b shaderbench.Backend) string {
	c, err := b.Acquire()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	if err := c.Close(); err != nil {
		return "close failed: " + err.Error()
	}
	if b.Name == naga.Name {
		return "ok (in-process)"
	}
	return "ok"
}
