package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/weiihann/benchoor/config"
)

// javaClasses maps benchmark ids to the java suite's class names.
var javaClasses = map[string]string{
	IDFibonacci:  "FibonacciTest",
	IDMatrixMult: "MatrixMultTest",
	IDMemory:     "MemoryTest",
	IDFileIO:     "FileIOTest",
	IDHTTPServer: "HttpServerTest",
}

// ResolveBinary returns the file that must exist for a benchmark to be
// runnable: the built binary for the go suite, the script for python
// and node, and the compiled class for java.
func ResolveBinary(benchmarksDir, suite, id string) string {
	switch suite {
	case config.SuiteGo:
		return filepath.Join(benchmarksDir, "harnesses", id, id+"-bench")
	case config.SuitePython:
		return filepath.Join(benchmarksDir, "python", id+"_test.py")
	case config.SuiteNode:
		return filepath.Join(benchmarksDir, "nodejs", id+"_test.js")
	case config.SuiteJava:
		return filepath.Join(
			benchmarksDir, "java", "classes", javaClasses[id]+".class",
		)
	default:
		return filepath.Join(benchmarksDir, suite, id)
	}
}

// NeedsBuild reports whether a suite compiles its benchmarks before a run.
func NeedsBuild(suite string) bool {
	return suite == config.SuiteGo || suite == config.SuiteJava
}

// Build compiles the benchmark executable for id. Suites that run
// scripts directly need no build and return the script path unchanged.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	benchmarksDir string,
	suite string,
	id string,
) (string, error) {
	binPath := ResolveBinary(benchmarksDir, suite, id)

	var cmd *exec.Cmd

	switch suite {
	case config.SuiteGo:
		srcDir := filepath.Join(benchmarksDir, "harnesses", id)
		cmd = exec.CommandContext(
			ctx, "go", "build", "-o", filepath.Base(binPath), ".",
		)
		cmd.Dir = srcDir

	case config.SuiteJava:
		javaDir := filepath.Join(benchmarksDir, "java")
		cmd = exec.CommandContext(
			ctx, "javac", "-d", "classes", javaClasses[id]+".java",
		)
		cmd.Dir = javaDir

	default:
		return binPath, nil
	}

	logger.InfoContext(ctx, "building benchmark",
		slog.String("suite", suite),
		slog.String("benchmark", id),
		slog.String("dir", cmd.Dir),
	)

	// A failed build must not leave an older executable behind for the
	// prerequisite check to accept.
	if err := os.Remove(binPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("remove stale %s: %w", binPath, err)
	}

	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build %s/%s: %w", suite, id, err)
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", fmt.Errorf(
			"build %s/%s: output not found at %s", suite, id, binPath,
		)
	}

	logger.InfoContext(ctx, "benchmark built",
		slog.String("benchmark", id),
		slog.String("binary", binPath),
	)

	return binPath, nil
}

// CommandConfig holds the resolved command, extra arguments, and
// environment variables needed to launch a benchmark. Benchmark
// arguments are appended after ExtraArgs.
type CommandConfig struct {
	Binary    string
	ExtraArgs []string
	Env       []string
}

// WrapCommand returns the exec configuration needed to run a benchmark
// file. Go binaries run directly; scripts and classes run under their
// interpreter.
func WrapCommand(suite, id, binPath string) CommandConfig {
	switch suite {
	case config.SuitePython:
		return CommandConfig{
			Binary:    "python3",
			ExtraArgs: []string{binPath},
			Env:       []string{"PYTHONUNBUFFERED=1"},
		}
	case config.SuiteNode:
		if id == IDMemory {
			return CommandConfig{
				Binary:    "node",
				ExtraArgs: []string{"--expose-gc", binPath},
			}
		}

		return CommandConfig{Binary: "node", ExtraArgs: []string{binPath}}
	case config.SuiteJava:
		return CommandConfig{
			Binary:    "java",
			ExtraArgs: []string{"-cp", filepath.Dir(binPath), javaClasses[id]},
		}
	default:
		return CommandConfig{Binary: binPath}
	}
}
