// Package pipeline drives one benchmark run from the prerequisite check
// to the written report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weiihann/benchoor/config"
	"github.com/weiihann/benchoor/harness"
	"github.com/weiihann/benchoor/prereq"
	"github.com/weiihann/benchoor/report"
)

// State is a stage of a run.
type State int

// Run states. Aborted and Written are terminal.
const (
	NotStarted State = iota
	CheckingPrerequisites
	Aborted
	Running
	Aggregating
	Written
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case CheckingPrerequisites:
		return "checking_prerequisites"
	case Aborted:
		return "aborted"
	case Running:
		return "running"
	case Aggregating:
		return "aggregating"
	case Written:
		return "written"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Executor runs one benchmark to completion. *harness.Runner satisfies it.
type Executor interface {
	Run(ctx context.Context, d harness.Descriptor, cfg config.Config) harness.Outcome
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Logger       *slog.Logger
	Config       config.Config
	Descriptors  []harness.Descriptor
	Capabilities []prereq.Capability
	Executor     Executor
	Aggregator   *report.Aggregator
	// OnState, if set, observes every state transition.
	OnState func(State)

	state State
}

// State returns the current stage of the run.
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) transition(ctx context.Context, s State) {
	p.Logger.DebugContext(ctx, "run state",
		slog.String("from", p.state.String()),
		slog.String("to", s.String()),
	)

	p.state = s

	if p.OnState != nil {
		p.OnState(s)
	}
}

// Run checks prerequisites, executes every descriptor sequentially in
// order, aggregates the outcomes and writes the report to the configured
// output file. A missing prerequisite aborts before any benchmark is
// launched and is returned as a *prereq.MissingError. Individual
// benchmark failures never fail the run.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	p.transition(ctx, CheckingPrerequisites)

	err := prereq.Check(ctx, harness.Files(p.Descriptors), p.Capabilities)
	if err != nil {
		p.transition(ctx, Aborted)
		p.Logger.ErrorContext(ctx, "prerequisite check failed",
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	p.Logger.InfoContext(ctx, "prerequisite check passed",
		slog.Int("benchmarks", len(p.Descriptors)),
	)

	p.transition(ctx, Running)

	raw := make(report.Ordered[harness.Outcome], 0, len(p.Descriptors))

	for _, d := range p.Descriptors {
		raw.Add(d.ID, p.Executor.Run(ctx, d, p.Config))
	}

	p.transition(ctx, Aggregating)

	rep := p.Aggregator.Aggregate(p.Config, raw)

	if err := report.Write(p.Config.OutputFile, rep); err != nil {
		return rep, fmt.Errorf("persist report: %w", err)
	}

	if p.Config.MetricsFile != "" {
		if err := report.WriteMetrics(p.Config.MetricsFile, rep); err != nil {
			// The report is already persisted; a failed export is not fatal.
			p.Logger.WarnContext(ctx, "metrics export failed",
				slog.String("error", err.Error()),
			)
		}
	}

	p.transition(ctx, Written)
	p.Logger.InfoContext(ctx, "report written",
		slog.String("path", p.Config.OutputFile),
		slog.Int("benchmarks", len(rep.RawResults)),
		slog.Int("parsed", len(rep.ParsedResults)),
	)

	return rep, nil
}
