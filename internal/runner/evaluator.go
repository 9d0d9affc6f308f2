package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rust-ffi-checker/crateval/internal/log"
	"github.com/rust-ffi-checker/crateval/internal/model"
)

// Evaluator runs the analysis command for one job at a time: cleanup, the
// measured analysis, cleanup again. It holds no per job state and is safe for
// concurrent use by many workers.
type Evaluator struct {
	analyzer   model.Command
	preprocess model.Command
	cleanup    model.Command
	wrapper    model.Command
	timeout    time.Duration
	killGrace  time.Duration
}

func NewEvaluator(cfg model.Config, timeout time.Duration) *Evaluator {
	return &Evaluator{
		analyzer:   cfg.Analyzer,
		preprocess: cfg.Preprocess,
		cleanup:    cfg.Cleanup,
		wrapper:    cfg.Wrapper,
		timeout:    timeout,
		killGrace:  cfg.KillGrace.Duration,
	}
}

// Evaluate returns exactly one Outcome for job. All failures, including a
// missing binary or unparseable wrapper output, are reported in the Outcome.
func (e *Evaluator) Evaluate(ctx context.Context, job model.Job) model.Outcome {
	ctx = log.ContextAttrs(ctx, slog.String("job", job.ID))

	e.clean(ctx, job)
	defer e.clean(context.WithoutCancel(ctx), job)

	res := Run(ctx, e.analysisCommand(job))
	slog.DebugContext(ctx, "analysis finished",
		"exit_code", res.ExitCode,
		"duration", res.Duration,
		"timed_out", res.TimedOut,
	)

	out := model.Outcome{JobID: job.ID}
	if res.TimedOut {
		out.TimedOut = true
		return out
	}
	if res.ExitCode < 0 && res.Err != nil {
		// never started or killed by a signal, nothing was measured
		slog.WarnContext(ctx, "analysis did not complete", "error", res.Err)
		out.Err = res.Err
		return out
	}

	usage := UsageOf(res)
	if e.wrapper.Path != "" {
		var err error
		usage, err = ParseUsage(res.Stderr.String())
		if err != nil {
			slog.WarnContext(ctx, "can't parse resource usage", "error", err)
			out.Err = err
			return out
		}
	}
	out.ElapsedSeconds = usage.ElapsedSeconds
	out.PeakMemoryKB = usage.PeakMemoryKB

	if res.Err != nil {
		slog.DebugContext(ctx, "analysis failed", "error", res.Err, "stderr", res.Stderr.String())
		return out
	}
	out.Succeeded = true
	out.Diagnostics = res.Stdout.String()
	return out
}

// Preprocess runs the entry collection pass only and reports whether the
// crate produced both marker files the analysis needs.
func (e *Evaluator) Preprocess(ctx context.Context, job model.Job) (bool, error) {
	ctx = log.ContextAttrs(ctx, slog.String("job", job.ID))
	defer e.clean(context.WithoutCancel(ctx), job)

	res := Run(ctx, e.command(e.preprocess, job))
	if res.Err != nil {
		return false, res.Err
	}
	for _, name := range []string{"entry_points", "bitcode_paths"} {
		if _, err := os.Stat(filepath.Join(job.Dir, "target", name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

func (e *Evaluator) clean(ctx context.Context, job model.Job) {
	res := Run(ctx, Command{
		Path:      e.cleanup.Path,
		Args:      e.cleanup.Args,
		Env:       e.cleanup.Env,
		Dir:       job.Dir,
		KillGrace: e.killGrace,
	})
	if res.Err != nil {
		slog.WarnContext(ctx, "cleanup failed", "error", res.Err, "stderr", res.Stderr.String())
	}
}

func (e *Evaluator) analysisCommand(job model.Job) Command {
	if e.wrapper.Path == "" {
		return e.command(e.analyzer, job)
	}
	args := make([]string, 0, len(e.wrapper.Args)+1+len(e.analyzer.Args))
	args = append(args, e.wrapper.Args...)
	args = append(args, e.analyzer.Path)
	args = append(args, e.analyzer.Args...)
	return Command{
		Path:      e.wrapper.Path,
		Args:      args,
		Env:       append(append([]string(nil), e.wrapper.Env...), e.analyzer.Env...),
		Dir:       job.Dir,
		Timeout:   e.timeout,
		KillGrace: e.killGrace,
	}
}

func (e *Evaluator) command(c model.Command, job model.Job) Command {
	return Command{
		Path:      c.Path,
		Args:      c.Args,
		Env:       c.Env,
		Dir:       job.Dir,
		Timeout:   e.timeout,
		KillGrace: e.killGrace,
	}
}
