// Package config resolves the run parameters of a benchmark run from
// defaults, an optional config file and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a config file cannot be read or the
// resolved configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Known suites.
const (
	SuiteGo     = "go"
	SuitePython = "python"
	SuiteNode   = "node"
	SuiteJava   = "java"
)

// Suites returns the list of supported suite names.
func Suites() []string {
	return []string{SuiteGo, SuitePython, SuiteNode, SuiteJava}
}

// Duration is a time.Duration that reads and writes as a Go duration
// string ("90s", "5m") in JSON and YAML.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler. Bare numbers are seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var secs float64
		if numErr := json.Unmarshal(data, &secs); numErr != nil {
			return fmt.Errorf("duration: %w", err)
		}

		*d = Duration(secs * float64(time.Second))

		return nil
	}

	return d.parse(s)
}

// UnmarshalYAML implements yaml.Unmarshaler. Bare numbers are seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if secs, err := strconv.ParseFloat(node.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))

		return nil
	}

	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0

		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}

	*d = Duration(parsed)

	return nil
}

// Config holds the resolved parameters of one run. It is embedded
// verbatim in the report.
type Config struct {
	FibonacciN      int      `json:"fibonacci_n"       yaml:"fibonacci_n"       validate:"gt=0,lte=92"`
	MatrixSize      int      `json:"matrix_size"       yaml:"matrix_size"       validate:"gt=0"`
	MemoryArraySize int      `json:"memory_array_size" yaml:"memory_array_size" validate:"gt=0"`
	FileIOSizeMB    int      `json:"file_io_size_mb"   yaml:"file_io_size_mb"   validate:"gt=0"`
	OutputFile      string   `json:"output_file"       yaml:"output_file"       validate:"required"`
	Suite           string   `json:"suite"             yaml:"suite"             validate:"oneof=go python node java"`
	BenchmarksDir   string   `json:"benchmarks_dir"    yaml:"benchmarks_dir"    validate:"required"`
	Benchmarks      []string `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
	Timeout         Duration `json:"timeout"           yaml:"timeout"           validate:"gte=0"`
	MetricsFile     string   `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

// Default returns the default configuration for the go suite.
func Default() Config {
	return Config{
		FibonacciN:      40,
		MatrixSize:      1000,
		MemoryArraySize: 10000000,
		FileIOSizeMB:    1000,
		OutputFile:      DefaultOutputFile(SuiteGo),
		Suite:           SuiteGo,
		BenchmarksDir:   ".",
	}
}

// DefaultOutputFile returns the artifact name used when none is given.
func DefaultOutputFile(suite string) string {
	return suite + "_perf_results.json"
}

// Load reads a config file and overlays it on base. JSON and JSONC
// files (.json, .jsonc) are standardized with hujson; .yaml and .yml
// files are read with yaml.v3. Keys absent from the file keep the
// value from base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied path
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", ErrInvalid, path, err)
	}

	cfg := base

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
		}
	case ".json", ".jsonc", "":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return Config{}, fmt.Errorf("%w %s: invalid JSONC: %w", ErrInvalid, path, err)
		}

		if err := json.Unmarshal(standardized, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config extension %q", ErrInvalid, ext)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)",
					fe.Field(), fe.Tag(), fe.Value()))
			}

			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}

		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Param returns the numeric problem-size parameter for a benchmark id,
// formatted as the positional argument the benchmark expects. It
// returns false for benchmarks that take no size parameter.
func (c Config) Param(id string) (string, bool) {
	switch id {
	case "fibonacci":
		return fmt.Sprint(c.FibonacciN), true
	case "matrix_mult":
		return fmt.Sprint(c.MatrixSize), true
	case "memory":
		return fmt.Sprint(c.MemoryArraySize), true
	case "file_io":
		return fmt.Sprint(c.FileIOSizeMB), true
	default:
		return "", false
	}
}
