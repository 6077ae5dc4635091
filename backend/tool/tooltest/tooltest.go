// Package tooltest fakes external compilers in tests.
//
// The test binary re-executes itself as the compiler. A test package wires
// it up in TestMain:
//
//	func TestMain(m *testing.M) {
//	    if tooltest.Active() {
//	        os.Exit(fakeCompiler(os.Args[1:]))
//	    }
//	    os.Exit(m.Run())
//	}
//
// and points the adapter at tooltest.Tool("glslang").
package tooltest

import (
	"os"

	"github.com/gogpu/shaderbench/backend/tool"
)

const envVar = "SHADERBENCH_FAKE_TOOL"

// Tool returns a tool that runs the current test binary as a fake compiler.
func Tool(name string) *tool.Tool {
	return &tool.Tool{
		Name: name,
		Bin:  os.Args[0],
		Env:  []string{envVar + "=" + name},
	}
}

// Active reports whether the process was started as a fake compiler.
func Active() bool {
	return os.Getenv(envVar) != ""
}

// Name returns the tool name the fake was started as.
func Name() string {
	return os.Getenv(envVar)
}

// Flag returns the argument following flag.
func Flag(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// Has reports whether args contains flag.
func Has(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// Last returns the last argument, typically the input file.
func Last(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}
