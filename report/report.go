// Package report aggregates benchmark outcomes into a run report,
// persists it, and renders it for the console.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/natefinch/atomic"

	"github.com/weiihann/benchoor/extract"
	"github.com/weiihann/benchoor/harness"
)

// Marshal encodes the report as indented JSON.
func Marshal(rep *Report) ([]byte, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	return append(data, '\n'), nil
}

// Write persists the report to path atomically, creating parent
// directories as needed.
func Write(path string, rep *Report) error {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir %s: %w", dir, err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

// GenerateJSON writes the report as JSON to w.
func GenerateJSON(w io.Writer, rep *Report) error {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Generate writes a markdown summary of the run to w.
func Generate(w io.Writer, rep *Report) error {
	if rep == nil || len(rep.RawResults) == 0 {
		return fmt.Errorf("no results to report")
	}

	succeeded := 0

	for _, e := range rep.RawResults {
		if e.Value.Succeeded() {
			succeeded++
		}
	}

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Suite: %s, run %s at %s\n",
		rep.Config.Suite, rep.RunID, rep.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	if succeeded == len(rep.RawResults) {
		fmt.Fprintf(w, "Benchmarks: **all %d succeeded**\n", succeeded)
	} else {
		fmt.Fprintf(w, "Benchmarks: **%d of %d succeeded**\n",
			succeeded, len(rep.RawResults))
	}

	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Benchmark | Status | Duration | Metrics |")
	fmt.Fprintln(w, "|-----------|--------|----------|---------|")

	for _, e := range rep.RawResults {
		metrics := "-"
		if m, ok := rep.ParsedResults.Get(e.ID); ok {
			metrics = formatMetrics(m)
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			e.ID,
			formatStatus(e.Value.Status),
			formatSeconds(e.Value.Duration),
			metrics,
		)
	}

	// Detail rows for benchmarks that did not succeed.
	var failed []Entry[harness.Outcome]

	for _, e := range rep.RawResults {
		if !e.Value.Succeeded() {
			failed = append(failed, e)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Benchmark | Diagnostic |")
		fmt.Fprintln(w, "|-----------|------------|")

		for _, e := range failed {
			fmt.Fprintf(w, "| %s | %s |\n", e.ID,
				strings.ReplaceAll(firstLine(e.Value.Stderr), "|", `\|`))
		}
	}

	if len(rep.ExtractionMisses) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Metrics not found in output:")

		for _, m := range rep.ExtractionMisses {
			fmt.Fprintf(w, "  - %s.%s (%s)\n", m.Benchmark, m.Field, m.Reason)
		}
	}

	return nil
}

func formatStatus(s harness.Status) string {
	switch s {
	case harness.StatusSuccess:
		return color.GreenString(string(s))
	case harness.StatusFailure:
		return color.RedString(string(s))
	default:
		return color.YellowString(string(s))
	}
}

func formatMetrics(m extract.Metrics) string {
	parts := make([]string, 0, len(m.Fields()))

	for _, f := range m.Fields() {
		if f.Value == nil {
			parts = append(parts, f.Name+"=-")

			continue
		}

		parts = append(parts, f.Name+"="+formatMetric(f.Name, *f.Value))
	}

	return strings.Join(parts, ", ")
}

// formatMetric renders a value in the unit implied by its field name.
func formatMetric(name string, v float64) string {
	switch {
	case strings.HasSuffix(name, "_time"):
		return formatSeconds(v)
	case strings.HasSuffix(name, "_speed"):
		return fmt.Sprintf("%.2f MB/s", v)
	case strings.HasSuffix(name, "_memory"), name == "memory_increase":
		return fmt.Sprintf("%.2f MB", v)
	default:
		return fmt.Sprintf("%g", v)
	}
}

func formatSeconds(s float64) string {
	switch {
	case s < 0.001:
		return fmt.Sprintf("%.0fµs", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.0fms", s*1e3)
	default:
		return fmt.Sprintf("%.2fs", s)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if line, _, ok := strings.Cut(s, "\n"); ok {
		return line
	}

	if s == "" {
		return "-"
	}

	return s
}
