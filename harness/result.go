// Package harness describes the benchmark programs of each suite and
// executes them as child processes.
package harness

// Status classifies how a benchmark execution ended.
type Status string

// Outcome statuses.
const (
	// StatusSuccess means the child exited with code 0.
	StatusSuccess Status = "success"
	// StatusFailure means the child exited with a non-zero code.
	StatusFailure Status = "failure"
	// StatusError means the child could not be launched or its output
	// could not be collected.
	StatusError Status = "error"
)

// Outcome is the raw result of one benchmark execution. Stdout is kept
// only for successful runs; Stderr carries the child's diagnostics on
// failure or the harness's own diagnostic on error.
type Outcome struct {
	Status   Status  `json:"status"`
	Duration float64 `json:"duration"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
}

// Succeeded reports whether the outcome carries parseable stdout.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}
