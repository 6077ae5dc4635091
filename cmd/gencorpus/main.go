// Command gencorpus builds the SPIR-V files of a corpus from its WGSL programs.
//
// Usage:
//
//	gencorpus [options]
//
// Examples:
//
//	gencorpus -in corpus/wgsl -out corpus/spirv   # rebuild every module
//	gencorpus -in wgsl -out spirv -only quad      # rebuild spirv/quad.spv
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderbench/corpus"
	"github.com/gogpu/shaderbench/spirv"
)

var (
	in      = flag.String("in", "wgsl", "directory holding .wgsl programs")
	out     = flag.String("out", "spirv", "directory receiving .spv modules")
	only    = flag.String("only", "", "build only this program (name without extension)")
	verbose = flag.Bool("v", false, "print each module written")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Error: unexpected arguments:", strings.Join(flag.Args(), " "))
		usage()
		os.Exit(2)
	}

	n, err := build(*in, *out, *only, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if n == 0 {
		fmt.Fprintf(os.Stderr, "Error: no .wgsl programs in %s\n", *in)
		os.Exit(1)
	}
}

// build compiles every in/*.wgsl to out/<name>.spv and returns the count.
func build(in, out, only string, verbose bool) (int, error) {
	paths, err := filepath.Glob(filepath.Join(in, "*.wgsl"))
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, err
	}

	n := 0
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".wgsl")
		if only != "" && name != only {
			continue
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return n, err
		}
		data, err := corpus.CompileWGSL(src)
		if err != nil {
			return n, fmt.Errorf("%s: %w", p, err)
		}
		info, err := spirv.Inspect(spirv.Words(data))
		if err != nil {
			return n, fmt.Errorf("%s: generated module is malformed: %w", p, err)
		}

		dst := filepath.Join(out, name+".spv")
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return n, err
		}
		n++
		if verbose {
			fmt.Printf("%s: %d bytes, %d entry points\n", dst, len(data), len(info.EntryPoints))
		}
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: gencorpus [options]

Compiles each WGSL program of a corpus to SPIR-V.

Options:
`)
	flag.PrintDefaults()
}
