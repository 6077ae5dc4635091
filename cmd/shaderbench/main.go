// Command shaderbench benchmarks shader cross-compilers.
//
// Usage:
//
//	shaderbench run [flags]          # time every backend over the corpus
//	shaderbench backends             # list backends and their directions
//	shaderbench inspect <file>...    # describe corpus files
//
// Examples:
//
//	shaderbench run                              # default corpus, all backends
//	shaderbench run -b naga -b tint -d wgsl-glsl # one direction, two backends
//	shaderbench run --runs 5 --format json       # fastest of five passes as JSON
//	shaderbench inspect corpus/spirv/quad.spv    # SPIR-V header and entry points
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
