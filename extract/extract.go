// Package extract derives numeric metrics from the human-readable console
// output of benchmark programs.
//
// Each benchmark family owns a declarative Table of rules. A rule names a
// marker substring that identifies a line, the field it fills, and the
// delimiters around the number on that line. Adding a benchmark means
// adding a table; the scanning loop never changes.
package extract

import (
	"math"
	"strconv"
	"strings"
)

// Miss reasons.
const (
	// ReasonMissing means no line carried a marker for the field.
	ReasonMissing = "missing"
	// ReasonMalformed means a marker line was seen but no number could
	// be read from it.
	ReasonMalformed = "malformed"
)

// Rule locates one numeric field on a marker line. The number is the text
// after the first occurrence of After (searched from the marker when the
// marker precedes it, else from the start of the line) up to the first
// occurrence of Before. An empty Before reads to the end of the line.
type Rule struct {
	Marker string
	Field  string
	After  string
	Before string
}

// Table is the ordered rule set of one benchmark family. Fields lists the
// family's metric names in report order; every Rule.Field must be one of
// them.
type Table struct {
	Fields []string
	Rules  []Rule
}

// Miss records a field that could not be extracted.
type Miss struct {
	Field  string
	Reason string
}

// Extract scans stdout line by line with the table registered for id.
// Conversion failures are swallowed: the affected field stays absent and
// scanning continues. It returns false when no table exists for id.
func Extract(id, stdout string) (Metrics, []Miss, bool) {
	table, ok := Tables()[id]
	if !ok {
		return Metrics{}, nil, false
	}

	metrics, misses := table.Extract(stdout)

	return metrics, misses, true
}

// Extract applies the table to stdout. Every rule whose marker occurs in
// a line is tried; a later successful rule overwrites an earlier value
// for the same field, a failed one never clears it.
func (t Table) Extract(stdout string) (Metrics, []Miss) {
	values := make(map[string]float64, len(t.Fields))
	seen := make(map[string]bool, len(t.Fields))

	// No line length can end the scan early.
	for line := range strings.Lines(stdout) {
		line = strings.TrimRight(line, "\r\n")

		for _, rule := range t.Rules {
			if !strings.Contains(line, rule.Marker) {
				continue
			}

			seen[rule.Field] = true

			if v, ok := rule.parse(line); ok {
				values[rule.Field] = v
			}
		}
	}

	metrics := Metrics{fields: make([]Field, 0, len(t.Fields))}

	var misses []Miss

	for _, name := range t.Fields {
		v, ok := values[name]
		if !ok {
			reason := ReasonMissing
			if seen[name] {
				reason = ReasonMalformed
			}

			misses = append(misses, Miss{Field: name, Reason: reason})
			metrics.fields = append(metrics.fields, Field{Name: name})

			continue
		}

		metrics.fields = append(metrics.fields, Field{Name: name, Value: &v})
	}

	return metrics, misses
}

func (r Rule) parse(line string) (float64, bool) {
	rest := line
	if idx := strings.Index(rest, r.Marker); idx >= 0 && strings.Contains(rest[idx:], r.After) {
		rest = rest[idx:]
	}

	_, rest, ok := strings.Cut(rest, r.After)
	if !ok {
		return 0, false
	}

	if r.Before != "" {
		rest, _, ok = strings.Cut(rest, r.Before)
		if !ok {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
