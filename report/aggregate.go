package report

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/benchoor/config"
	"github.com/weiihann/benchoor/extract"
	"github.com/weiihann/benchoor/harness"
)

// ExtractionMiss records a metric that could not be read from a
// successful benchmark's output.
type ExtractionMiss struct {
	Benchmark string `json:"benchmark"`
	Field     string `json:"field"`
	Reason    string `json:"reason"`
}

// Report is the artifact of one run. Every id in ParsedResults is also
// in RawResults; failed and errored benchmarks have no parsed entry.
type Report struct {
	RunID            string                   `json:"run_id"`
	Timestamp        time.Time                `json:"timestamp"`
	Config           config.Config            `json:"config"`
	RawResults       Ordered[harness.Outcome] `json:"raw_results"`
	ParsedResults    Ordered[extract.Metrics] `json:"parsed_results"`
	ExtractionMisses []ExtractionMiss         `json:"extraction_misses,omitempty"`
}

// Aggregator folds raw outcomes into a Report.
type Aggregator struct {
	Logger *slog.Logger
	Clock  func() time.Time
	NewID  func() string
}

// NewAggregator returns an Aggregator stamping wall-clock time and
// random run ids.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{
		Logger: logger,
		Clock:  time.Now,
		NewID:  uuid.NewString,
	}
}

// Aggregate builds the report. Only successful outcomes are parsed, and
// only for benchmarks that have an extraction table. Raw results are
// kept in the given order and never dropped. Extraction misses are
// logged as warnings and recorded in the report; they never fail the run.
func (a *Aggregator) Aggregate(cfg config.Config, raw Ordered[harness.Outcome]) *Report {
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rep := &Report{
		RunID:      a.NewID(),
		Timestamp:  a.Clock(),
		Config:     cfg,
		RawResults: append(Ordered[harness.Outcome](nil), raw...),
	}

	for _, e := range raw {
		if !e.Value.Succeeded() {
			continue
		}

		metrics, misses, ok := extract.Extract(e.ID, e.Value.Stdout)
		if !ok {
			logger.Debug("no extraction table", slog.String("benchmark", e.ID))

			continue
		}

		rep.ParsedResults.Add(e.ID, metrics)

		for _, m := range misses {
			logger.Warn("metric extraction miss",
				slog.String("benchmark", e.ID),
				slog.String("field", m.Field),
				slog.String("reason", m.Reason),
			)

			rep.ExtractionMisses = append(rep.ExtractionMisses, ExtractionMiss{
				Benchmark: e.ID,
				Field:     m.Field,
				Reason:    m.Reason,
			})
		}
	}

	return rep
}
