package main

import (
	"errors"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/gogpu/shaderbench/backend/tool"
	"github.com/gogpu/shaderbench/bench"
	"github.com/gogpu/shaderbench/config"
	"github.com/gogpu/shaderbench/corpus"
)

type runFlags struct {
	backends   []string
	directions []string
	runs       int
	keepGoing  bool
	format     string
	filter     string
	timeout    time.Duration
	corpusDir  string
	detail     bool
}

func newRunCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time every backend over the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			return runSuite(cmd, a, &cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.backends, "backend", "b", nil, "backend to run (repeatable, default all)")
	fl.StringArrayVarP(&f.directions, "direction", "d", nil, "direction to run, e.g. glsl-spirv (repeatable, default all)")
	fl.IntVar(&f.runs, "runs", 1, "timed passes per backend; the fastest is reported")
	fl.BoolVar(&f.keepGoing, "keep-going", false, "record failed conversions and continue")
	fl.StringVar(&f.format, "format", "text", "report format: text, json or yaml")
	fl.StringVar(&f.filter, "filter", "", "only load corpus entries matching this glob")
	fl.DurationVar(&f.timeout, "timeout", 0, "limit for a single conversion (0 means none)")
	fl.StringVar(&f.corpusDir, "corpus", "", "corpus directory")
	fl.BoolVar(&f.detail, "detail", false, "list output sizes per entry in the text report")
	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("backend") {
		cfg.Run.Backends = f.backends
	}
	if fl.Changed("direction") {
		cfg.Run.Directions = f.directions
	}
	if fl.Changed("runs") {
		cfg.Run.Runs = f.runs
	}
	if fl.Changed("keep-going") {
		cfg.Run.Policy = bench.PolicyAbort
		if f.keepGoing {
			cfg.Run.Policy = bench.PolicyContinue
		}
	}
	if fl.Changed("format") {
		cfg.Run.Format = f.format
	}
	if fl.Changed("filter") {
		cfg.Corpus.Filter = f.filter
	}
	if fl.Changed("timeout") {
		cfg.Run.Timeout = config.Duration(f.timeout)
	}
	if fl.Changed("corpus") {
		cfg.Corpus.Dir = f.corpusDir
	}
	if fl.Changed("detail") {
		cfg.Run.Detail = f.detail
	}
	return cfg.Validate()
}

func runSuite(cmd *cobra.Command, a *app, cfg *config.Config) error {
	format, err := bench.ParseFormat(cfg.Run.Format)
	if err != nil {
		return err
	}
	dirs, err := cfg.Directions()
	if err != nil {
		return err
	}
	m, err := cfg.Manifest()
	if err != nil {
		return err
	}
	dir, err := cfg.CorpusDir()
	if err != nil {
		return err
	}
	loader := corpus.NewLoader(os.DirFS(dir), m)
	loader.StrictStages = cfg.Corpus.StrictStages
	if err := loader.SetFilter(cfg.Corpus.Filter); err != nil {
		return err
	}

	sess, err := tool.NewSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	backends, err := registry(cfg, sess, a.logger)
	if err != nil {
		return err
	}
	if len(cfg.Run.Backends) == 0 {
		backends = installed(backends, a.logger)
	}

	suite := &bench.Suite{
		Backends:   backends,
		Directions: dirs,
		Loader:     loader,
		Runner: &bench.Runner{
			Runs:    cfg.Run.Runs,
			Policy:  cfg.Run.Policy,
			Timeout: time.Duration(cfg.Run.Timeout),
			Logger:  a.logger,
		},
		Logger: a.logger,
	}

	rep, runErr := suite.Run(cmd.Context())
	if rep == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	opts := bench.TextOptions{
		Color:  isTerminal(out) && !termenv.EnvNoColor(),
		Detail: cfg.Run.Detail,
	}
	if err := rep.Write(out, format, opts); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if rep.Failed() {
		return errors.New("some conversions failed")
	}
	return nil
}
