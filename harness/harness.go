package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/weiihann/benchoor/config"
)

// Runner launches benchmark processes one at a time.
type Runner struct {
	Logger *slog.Logger
	// Timeout bounds each child when positive. Zero blocks until the
	// child exits, however long that takes.
	Timeout time.Duration
	// Dir is the working directory of the child. Empty inherits ours.
	Dir string
}

// NewRunner creates a Runner with no timeout.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run executes the benchmark and classifies how it ended. It never
// returns an error: launch and I/O problems are recorded as StatusError.
// Duration spans launch to termination, process startup included.
func (r *Runner) Run(ctx context.Context, d Descriptor, cfg config.Config) Outcome {
	logger := r.Logger.With(slog.String("benchmark", d.ID))

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := d.Argv(cfg)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	if len(d.Command.Env) > 0 {
		cmd.Env = append(os.Environ(), d.Command.Env...)
	}

	if r.Timeout > 0 {
		// Grandchildren holding our pipes must not outlive the kill.
		cmd.WaitDelay = time.Second
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info("starting benchmark",
		slog.String("name", d.DisplayName),
		slog.String("command", strings.Join(argv, " ")),
	)

	wallStart := time.Now()
	err := cmd.Run()
	wallElapsed := time.Since(wallStart)

	outcome := classify(ctx, err, r.Timeout, stdout.String(), stderr.String())
	outcome.Duration = wallElapsed.Seconds()

	logger.Info("benchmark finished",
		slog.String("status", string(outcome.Status)),
		slog.Duration("wall_time", wallElapsed),
	)

	if outcome.Status != StatusSuccess {
		logger.Warn("benchmark did not succeed",
			slog.String("status", string(outcome.Status)),
			slog.String("stderr", lastLine(outcome.Stderr)),
		)
	}

	return outcome
}

func classify(
	ctx context.Context,
	err error,
	timeout time.Duration,
	stdout, stderr string,
) Outcome {
	if err == nil {
		return Outcome{Status: StatusSuccess, Stdout: stdout}
	}

	if timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		diag := fmt.Sprintf("timed out after %s", timeout)
		if stderr != "" {
			diag += "\n" + stderr
		}

		return Outcome{Status: StatusError, Stderr: diag}
	}

	if ctx.Err() != nil {
		return Outcome{
			Status: StatusError,
			Stderr: fmt.Sprintf("interrupted: %v", ctx.Err()),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr == "" {
			stderr = exitErr.Error()
		}

		return Outcome{Status: StatusFailure, Stderr: stderr}
	}

	return Outcome{Status: StatusError, Stderr: err.Error()}
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}

	return s
}
