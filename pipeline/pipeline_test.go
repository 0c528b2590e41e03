package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/benchoor/config"
	"github.com/weiihann/benchoor/harness"
	"github.com/weiihann/benchoor/prereq"
	"github.com/weiihann/benchoor/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func frozenAggregator() *report.Aggregator {
	return &report.Aggregator{
		Logger: discardLogger(),
		Clock:  func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) },
		NewID:  func() string { return "run-1" },
	}
}

// countingExecutor records every launch before delegating.
type countingExecutor struct {
	inner    Executor
	launched []string
}

func (c *countingExecutor) Run(ctx context.Context, d harness.Descriptor, cfg config.Config) harness.Outcome {
	c.launched = append(c.launched, d.ID)

	return c.inner.Run(ctx, d, cfg)
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func scriptDescriptor(t *testing.T, dir, id, body string) harness.Descriptor {
	t.Helper()

	path := writeScript(t, dir, id+".sh", body)

	return harness.NewDescriptor(id, id, path, harness.CommandConfig{}, nil)
}

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
}

func newPipeline(t *testing.T, descs []harness.Descriptor) (*Pipeline, *countingExecutor) {
	t.Helper()

	cfg := config.Default()
	cfg.OutputFile = filepath.Join(t.TempDir(), "out", "results.json")

	exec := &countingExecutor{inner: harness.NewRunner(discardLogger())}

	return &Pipeline{
		Logger:      discardLogger(),
		Config:      cfg,
		Descriptors: descs,
		Executor:    exec,
		Aggregator:  frozenAggregator(),
	}, exec
}

func TestRunEndToEnd(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	descs := []harness.Descriptor{
		scriptDescriptor(t, dir, "fibonacci", `echo "recursive method: time = 0.012 sec"
echo "iterative method: time = 0.000003 sec"`),
		scriptDescriptor(t, dir, "matrix_mult", `echo "reference implementation: time = 0.5 sec"`),
		scriptDescriptor(t, dir, "memory", `echo "allocation failed" >&2; exit 1`),
		scriptDescriptor(t, dir, "file_io", `echo "write finished, time: 1.000 sec"
echo "write throughput: 64.00 MB/sec"
echo "read finished, read 64.00MB, time: 0.500 sec"
echo "read throughput: 128.00 MB/sec"`),
	}

	p, exec := newPipeline(t, descs)

	var states []State
	p.OnState = func(s State) { states = append(states, s) }

	rep, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []State{CheckingPrerequisites, Running, Aggregating, Written}, states)
	assert.Equal(t, Written, p.State())
	assert.Equal(t, []string{"fibonacci", "matrix_mult", "memory", "file_io"}, exec.launched)

	assert.Len(t, rep.RawResults, 4)
	assert.Len(t, rep.ParsedResults, 3)

	_, ok := rep.ParsedResults.Get("memory")
	assert.False(t, ok, "failed benchmark must have no parsed entry")

	mem, _ := rep.RawResults.Get("memory")
	assert.Equal(t, harness.StatusFailure, mem.Status)
	assert.Contains(t, mem.Stderr, "allocation failed")

	fib, _ := rep.ParsedResults.Get("fibonacci")
	v, ok := fib.Get("iterative_time")
	require.True(t, ok)
	assert.Equal(t, 0.000003, v)

	data, err := os.ReadFile(p.Config.OutputFile)
	require.NoError(t, err)

	var doc struct {
		Raw    map[string]json.RawMessage `json:"raw_results"`
		Parsed map[string]json.RawMessage `json:"parsed_results"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Raw, 4)
	assert.Len(t, doc.Parsed, 3)
	assert.NotContains(t, doc.Parsed, "memory")
}

func TestRunMissingFileAborts(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	descs := []harness.Descriptor{
		scriptDescriptor(t, dir, "fibonacci", `echo ok`),
		harness.NewDescriptor("matrix_mult", "Matrix", filepath.Join(dir, "missing.sh"),
			harness.CommandConfig{}, nil),
	}

	p, exec := newPipeline(t, descs)

	rep, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, prereq.ErrPrerequisiteMissing)
	assert.Nil(t, rep)

	assert.Empty(t, exec.launched, "no benchmark may run when a prerequisite is missing")
	assert.Equal(t, Aborted, p.State())

	_, statErr := os.Stat(p.Config.OutputFile)
	assert.True(t, os.IsNotExist(statErr), "aborted run must not write a report")
}

func TestRunMissingCapabilityAborts(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	p, exec := newPipeline(t, []harness.Descriptor{
		scriptDescriptor(t, dir, "fibonacci", `echo ok`),
	})
	p.Capabilities = []prereq.Capability{prereq.Executable("no-such-interpreter-8c1e")}

	_, err := p.Run(context.Background())

	var missing *prereq.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "no-such-interpreter-8c1e", missing.Capabilities[0].Name)
	assert.Empty(t, exec.launched)
}

func TestRunLaunchErrorStillWrites(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()

	// The benchmark file exists, but the program that should launch it
	// does not.
	script := writeScript(t, dir, "bench.py", "")
	broken := harness.NewDescriptor("fibonacci", "Fibonacci", script,
		harness.CommandConfig{
			Binary:    filepath.Join(dir, "no-such-python"),
			ExtraArgs: []string{script},
		}, nil)

	// Not executable: exec fails before the child ever runs.
	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("not a program"), 0o600))
	notExec := harness.NewDescriptor("file_io", "File I/O", plain, harness.CommandConfig{}, nil)

	p, _ := newPipeline(t, []harness.Descriptor{
		broken,
		scriptDescriptor(t, dir, "matrix_mult", `echo "reference implementation: time = 0.5 sec"`),
		notExec,
	})

	rep, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Written, p.State())

	for _, id := range []string{"fibonacci", "file_io"} {
		out, ok := rep.RawResults.Get(id)
		require.True(t, ok)
		assert.Equal(t, harness.StatusError, out.Status, id)
		assert.NotEmpty(t, out.Stderr, id)

		_, parsed := rep.ParsedResults.Get(id)
		assert.False(t, parsed, id)
	}

	_, parsed := rep.ParsedResults.Get("matrix_mult")
	assert.True(t, parsed)

	_, statErr := os.Stat(p.Config.OutputFile)
	assert.NoError(t, statErr)
}

func TestRunWritesMetricsFile(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	p, _ := newPipeline(t, []harness.Descriptor{
		scriptDescriptor(t, dir, "matrix_mult", `echo "reference implementation: time = 0.5 sec"`),
	})
	p.Config.MetricsFile = filepath.Join(dir, "benchoor.prom")

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(p.Config.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `metric="reference_time"`)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "checking_prerequisites", CheckingPrerequisites.String())
	assert.Equal(t, "written", Written.String())
	assert.Equal(t, "state(42)", State(42).String())
}
