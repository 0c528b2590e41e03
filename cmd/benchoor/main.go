// Package main provides the CLI entry point for benchoor, a harness that
// runs a fixed set of micro-benchmark programs and collects their console
// output into a single JSON report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/weiihann/benchoor/config"
	"github.com/weiihann/benchoor/harness"
	"github.com/weiihann/benchoor/pipeline"
	"github.com/weiihann/benchoor/prereq"
	"github.com/weiihann/benchoor/report"
)

// Exit codes.
const (
	exitOK           = 0
	exitError        = 1
	exitPrerequisite = 2
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level, os.Stdout)
	os.Exit(exitCode(root.Execute(), logger))
}

func exitCode(err error, logger *slog.Logger) int {
	if err == nil {
		return exitOK
	}

	logger.Error("run failed", slog.String("error", err.Error()))

	if errors.Is(err, prereq.ErrPrerequisiteMissing) {
		return exitPrerequisite
	}

	return exitError
}

type flags struct {
	configPath    string
	suite         string
	benchmarksDir string
	benchmarks    []string
	fibonacciN    int
	matrixSize    int
	memoryArray   int
	fileIOSizeMB  int
	output        string
	timeout       time.Duration
	metricsFile   string
	skipBuild     bool
	outputJSON    bool
	noColor       bool
	verbose       bool
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar, stdout io.Writer) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "benchoor [output-file]",
		Short: "Run micro-benchmark programs and collect their results",
		Long: `Benchoor runs a fixed set of micro-benchmarks (Fibonacci, matrix
multiplication, memory allocation, file I/O) one at a time as child
processes, parses the metrics they print, and writes a timestamped JSON
report. Individual benchmark failures are recorded in the report; only a
missing prerequisite makes the run fail.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.verbose {
				level.Set(slog.LevelDebug)
			}

			if f.noColor {
				color.NoColor = true
			}

			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}

			return runBenchmarks(cmd.Context(), logger, stdout, cfg, f)
		},
	}

	bindFlags(root, &f)

	return root
}

func bindFlags(cmd *cobra.Command, f *flags) {
	defaults := config.Default()

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "",
		"Config file (.json, .jsonc, .yaml, .yml)")
	fl.StringVar(&f.suite, "suite", defaults.Suite,
		"Benchmark suite: go, python, node, java")
	fl.StringVar(&f.benchmarksDir, "benchmarks-dir", defaults.BenchmarksDir,
		"Directory holding the suite's benchmark sources")
	fl.StringSliceVar(&f.benchmarks, "benchmarks", nil,
		"Benchmarks to run (default: fibonacci,matrix_mult,memory,file_io)")
	fl.IntVar(&f.fibonacciN, "fibonacci-n", defaults.FibonacciN,
		"Fibonacci term to compute")
	fl.IntVar(&f.matrixSize, "matrix-size", defaults.MatrixSize,
		"Matrix dimension")
	fl.IntVar(&f.memoryArray, "memory-array-size", defaults.MemoryArraySize,
		"Element count for the memory benchmark")
	fl.IntVar(&f.fileIOSizeMB, "file-io-size-mb", defaults.FileIOSizeMB,
		"File size in MB for the file I/O benchmark")
	fl.StringVarP(&f.output, "output", "o", "",
		"Report path (default: <suite>_perf_results.json)")
	fl.DurationVar(&f.timeout, "timeout", 0,
		"Per-benchmark timeout (0 = wait indefinitely)")
	fl.StringVar(&f.metricsFile, "metrics-file", "",
		"Also write metrics in Prometheus text format to this file")
	fl.BoolVar(&f.skipBuild, "skip-build", false,
		"Skip building benchmark binaries")
	fl.BoolVar(&f.outputJSON, "json", false,
		"Print the report as JSON instead of a table")
	fl.BoolVar(&f.noColor, "no-color", false,
		"Disable coloured output")
	fl.BoolVarP(&f.verbose, "verbose", "v", false,
		"Enable debug logging")
}

// resolveConfig layers defaults, the config file, explicitly set flags
// and the positional output path, in that order.
func resolveConfig(cmd *cobra.Command, f flags, args []string) (config.Config, error) {
	cfg := config.Default()
	cfg.OutputFile = ""

	if f.configPath != "" {
		var err error

		cfg, err = config.Load(f.configPath, cfg)
		if err != nil {
			return config.Config{}, err
		}
	}

	changed := cmd.Flags().Changed

	if changed("suite") {
		cfg.Suite = f.suite
	}
	if changed("benchmarks-dir") {
		cfg.BenchmarksDir = f.benchmarksDir
	}
	if changed("benchmarks") {
		cfg.Benchmarks = f.benchmarks
	}
	if changed("fibonacci-n") {
		cfg.FibonacciN = f.fibonacciN
	}
	if changed("matrix-size") {
		cfg.MatrixSize = f.matrixSize
	}
	if changed("memory-array-size") {
		cfg.MemoryArraySize = f.memoryArray
	}
	if changed("file-io-size-mb") {
		cfg.FileIOSizeMB = f.fileIOSizeMB
	}
	if changed("output") {
		cfg.OutputFile = f.output
	}
	if changed("timeout") {
		cfg.Timeout = config.Duration(f.timeout)
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}

	if len(args) == 1 {
		cfg.OutputFile = args[0]
	}

	if cfg.OutputFile == "" {
		cfg.OutputFile = config.DefaultOutputFile(cfg.Suite)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	stdout io.Writer,
	cfg config.Config,
	f flags,
) error {
	benchmarksDir, err := filepath.Abs(cfg.BenchmarksDir)
	if err != nil {
		return fmt.Errorf("resolve benchmarks dir: %w", err)
	}

	descs, err := harness.Select(
		harness.Descriptors(cfg.Suite, benchmarksDir), cfg.Benchmarks,
	)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting run",
		slog.String("suite", cfg.Suite),
		slog.String("benchmarks_dir", benchmarksDir),
		slog.Int("fibonacci_n", cfg.FibonacciN),
		slog.Int("matrix_size", cfg.MatrixSize),
		slog.Int("memory_array_size", cfg.MemoryArraySize),
		slog.Int("file_io_size_mb", cfg.FileIOSizeMB),
		slog.String("output_file", cfg.OutputFile),
		slog.Int("benchmarks", len(descs)),
	)

	// Step 1: Build benchmark executables (unless --skip-build). A failed
	// build leaves the executable missing, which the prerequisite check
	// then reports.
	if harness.NeedsBuild(cfg.Suite) && !f.skipBuild {
		for _, d := range descs {
			if _, err := harness.Build(ctx, logger, benchmarksDir, cfg.Suite, d.ID); err != nil {
				logger.WarnContext(ctx, "build failed",
					slog.String("benchmark", d.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	// Step 2: Check prerequisites, run, aggregate, write.
	runner := harness.NewRunner(logger)
	runner.Timeout = time.Duration(cfg.Timeout)

	p := &pipeline.Pipeline{
		Logger:       logger,
		Config:       cfg,
		Descriptors:  descs,
		Capabilities: harness.Capabilities(cfg.Suite),
		Executor:     runner,
		Aggregator:   report.NewAggregator(logger),
	}

	rep, err := p.Run(ctx)
	if err != nil {
		var missing *prereq.MissingError
		if errors.As(err, &missing) {
			printMissing(stdout, missing)
		}

		return err
	}

	// Step 3: Print the summary.
	if f.outputJSON {
		if err := report.GenerateJSON(stdout, rep); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(stdout, rep); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}

		fmt.Fprintf(stdout, "\nResults saved to: %s\n", cfg.OutputFile)
	}

	logger.InfoContext(ctx, "run complete")

	return nil
}

func printMissing(w io.Writer, missing *prereq.MissingError) {
	red := color.New(color.FgRed, color.Bold)

	if len(missing.Files) > 0 {
		red.Fprintln(w, "Missing benchmark files:")

		for _, file := range missing.Files {
			fmt.Fprintf(w, "  - %s\n", file)
		}
	}

	if len(missing.Capabilities) > 0 {
		red.Fprintln(w, "Missing capabilities:")

		for _, c := range missing.Capabilities {
			fmt.Fprintf(w, "  - %s: %s\n", c.Name, c.Hint)
		}
	}
}
