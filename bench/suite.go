package bench

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/gogpu/shaderbench"
	"github.com/gogpu/shaderbench/corpus"
)

// Suite runs backends over every direction.
type Suite struct {
	// Backends are run in order within each direction.
	Backends []shaderbench.Backend

	// Directions restricts the suite. Empty means all, in canonical order.
	Directions []shaderbench.Direction

	Loader *corpus.Loader
	Runner *Runner
	Logger *slog.Logger
}

// Run measures every backend that supports each selected direction. The
// corpus is loaded before each run, outside the timer, and released after.
//
// Under PolicyAbort the first failing run ends the suite; the report covers
// the runs completed so far.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	if s.Loader == nil {
		return nil, errors.New("bench: suite has no corpus loader")
	}
	runner := s.Runner
	if runner == nil {
		runner = &Runner{}
	}
	rep := &Report{Runs: max(runner.Runs, 1), Policy: runner.Policy}

	for _, d := range shaderbench.Directions {
		if len(s.Directions) > 0 && !slices.Contains(s.Directions, d) {
			continue
		}
		sec := Section{Direction: d}
		for _, b := range s.Backends {
			if !b.Supports(d) {
				s.logger().Debug("backend skipped", "backend", b.Name, "direction", d.String())
				continue
			}
			if err := ctx.Err(); err != nil {
				return rep, err
			}

			c, err := s.Loader.Load(d.Source())
			if err != nil {
				return rep, err
			}
			sec.Shaders = c.Len()

			s.logger().Info("running", "backend", b.Name, "direction", d.String(), "shaders", c.Len())
			res, err := runner.Run(ctx, b, d, c)
			c.Release()
			if err != nil {
				if runner.Policy == PolicyAbort || ctx.Err() != nil {
					rep.add(sec)
					return rep, err
				}
				res.Error = err.Error()
			}
			sec.Results = append(sec.Results, res)
		}
		rep.add(sec)
	}
	return rep, nil
}

func (s *Suite) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
