package harness

import (
	"fmt"
	"strings"

	"github.com/weiihann/benchoor/config"
	"github.com/weiihann/benchoor/prereq"
)

// Benchmark ids, in run order.
const (
	IDFibonacci  = "fibonacci"
	IDMatrixMult = "matrix_mult"
	IDMemory     = "memory"
	IDFileIO     = "file_io"
	IDHTTPServer = "http_server"
)

// Descriptor identifies one benchmark and how to invoke it.
type Descriptor struct {
	ID             string
	DisplayName    string
	ExecutablePath string
	Command        CommandConfig
	// LongRunning benchmarks never exit on their own and are excluded
	// from the default run set.
	LongRunning bool

	args func(config.Config) []string
}

// NewDescriptor returns a descriptor whose arguments come from args.
// A nil args yields no benchmark arguments.
func NewDescriptor(
	id, displayName, executablePath string,
	cmd CommandConfig,
	args func(config.Config) []string,
) Descriptor {
	return Descriptor{
		ID:             id,
		DisplayName:    displayName,
		ExecutablePath: executablePath,
		Command:        cmd,
		args:           args,
	}
}

// Args returns the benchmark arguments for cfg.
func (d Descriptor) Args(cfg config.Config) []string {
	if d.args == nil {
		return nil
	}

	return d.args(cfg)
}

// Argv returns the full command line: binary followed by wrapper and
// benchmark arguments.
func (d Descriptor) Argv(cfg config.Config) []string {
	binary := d.Command.Binary
	if binary == "" {
		binary = d.ExecutablePath
	}

	benchArgs := d.Args(cfg)
	argv := make([]string, 0, 1+len(d.Command.ExtraArgs)+len(benchArgs))
	argv = append(argv, binary)
	argv = append(argv, d.Command.ExtraArgs...)
	argv = append(argv, benchArgs...)

	return argv
}

// sizeArg passes the benchmark's problem size as its only positional
// argument.
func sizeArg(id string) func(config.Config) []string {
	return func(cfg config.Config) []string {
		if p, ok := cfg.Param(id); ok {
			return []string{p}
		}

		return nil
	}
}

var displayNames = map[string]string{
	IDFibonacci:  "Fibonacci",
	IDMatrixMult: "Matrix multiplication",
	IDMemory:     "Memory allocation",
	IDFileIO:     "File I/O",
	IDHTTPServer: "HTTP server",
}

// IDs returns every benchmark id in run order.
func IDs() []string {
	return []string{IDFibonacci, IDMatrixMult, IDMemory, IDFileIO, IDHTTPServer}
}

// Descriptors returns the full descriptor set of a suite rooted at
// benchmarksDir, in run order.
func Descriptors(suite, benchmarksDir string) []Descriptor {
	ids := IDs()
	descs := make([]Descriptor, 0, len(ids))

	for _, id := range ids {
		path := ResolveBinary(benchmarksDir, suite, id)
		d := NewDescriptor(
			id, displayNames[id], path, WrapCommand(suite, id, path), sizeArg(id),
		)

		if id == IDHTTPServer {
			d.LongRunning = true
		}

		descs = append(descs, d)
	}

	return descs
}

// DefaultSet drops long-running descriptors.
func DefaultSet(descs []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(descs))

	for _, d := range descs {
		if !d.LongRunning {
			out = append(out, d)
		}
	}

	return out
}

// Select returns the descriptors named by ids, keeping the descriptor
// set's order. An empty ids selects the default set. Unknown and
// long-running ids are rejected.
func Select(descs []Descriptor, ids []string) ([]Descriptor, error) {
	if len(ids) == 0 {
		return DefaultSet(descs), nil
	}

	byID := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		byID[d.ID] = d
	}

	want := make(map[string]bool, len(ids))

	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf(
				"unknown benchmark %q (known: %s)", id, strings.Join(IDs(), ", "),
			)
		}

		if d.LongRunning {
			return nil, fmt.Errorf(
				"benchmark %q is long-running and cannot be run by the harness", id,
			)
		}

		want[id] = true
	}

	out := make([]Descriptor, 0, len(want))

	for _, d := range descs {
		if want[d.ID] {
			out = append(out, d)
		}
	}

	return out, nil
}

// Files returns the executable paths of descs.
func Files(descs []Descriptor) []string {
	files := make([]string, 0, len(descs))
	for _, d := range descs {
		files = append(files, d.ExecutablePath)
	}

	return files
}

// Capabilities returns the runtime capabilities a suite requires.
func Capabilities(suite string) []prereq.Capability {
	switch suite {
	case config.SuitePython:
		return []prereq.Capability{
			prereq.Executable("python3"),
			prereq.Command("numpy", "run: pip install numpy psutil",
				"python3", "-c", "import numpy"),
			prereq.Command("psutil", "run: pip install numpy psutil",
				"python3", "-c", "import psutil"),
		}
	case config.SuiteNode:
		return []prereq.Capability{
			prereq.Executable("node"),
			prereq.Command("mathjs", "run: npm install mathjs",
				"node", "-e", "require.resolve('mathjs')"),
		}
	case config.SuiteJava:
		return []prereq.Capability{prereq.Executable("java")}
	default:
		return nil
	}
}
