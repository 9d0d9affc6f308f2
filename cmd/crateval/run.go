package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"github.com/rust-ffi-checker/crateval/internal/bom"
	"github.com/rust-ffi-checker/crateval/internal/classify"
	"github.com/rust-ffi-checker/crateval/internal/console"
	"github.com/rust-ffi-checker/crateval/internal/harness"
	"github.com/rust-ffi-checker/crateval/internal/log"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/report"
	"github.com/rust-ffi-checker/crateval/internal/runner"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("invalid arguments")

var flagStrict bool

var runCmd = &cobra.Command{
	Use:     "run <crate_list> <crate_dir> <workers> <timeout_sec>",
	Short:   "evaluate every crate of the list and write the reports",
	Example: "  crateval run crate_list.txt ../crates_with_bugs 8 240",
	Args:    runArgs,
	RunE:    doRun,
}

func runArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("%w: need four arguments to specify the crate list, the crate directory, the size of the worker pool and the timeout in seconds\nusage example: %s",
			errUsage, cmd.Example)
	}
	if _, err := positive("workers", args[2]); err != nil {
		return err
	}
	if _, err := positive("timeout_sec", args[3]); err != nil {
		return err
	}
	return nil
}

func positive(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errUsage, name, arg)
	}
	return n, nil
}

func doRun(cmd *cobra.Command, args []string) error {
	listPath, crateDir := args[0], args[1]
	workers, _ := positive("workers", args[2])
	timeoutSec, _ := positive("timeout_sec", args[3])

	runID := uuid.NewString()
	ctx := log.ContextAttrs(cmd.Context(), slog.Group("crateval",
		slog.String("cmd", "run"),
		slog.String("run_id", runID),
		slog.Int("pid", os.Getpid()),
	))

	f, err := os.Open(listPath)
	if err != nil {
		return fmt.Errorf("opening crate list: %w", err)
	}
	jobs, err := model.LoadJobs(f, crateDir)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("reading crate list %s: %w", listPath, err)
	}

	printer := console.New(cmd.OutOrStdout())
	preflight(printer, config.Analyzer, config.Cleanup, config.Wrapper)

	mode := classify.Lenient
	if config.Classify.Strict || flagStrict {
		mode = classify.Strict
	}
	classifier := classify.New(mode)
	evaluator := runner.NewEvaluator(config, time.Duration(timeoutSec)*time.Second)

	h, err := harness.New(workers, evaluator, classifier, printer)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "starting evaluation", "jobs", len(jobs), "workers", workers, "timeout", timeoutSec, "mode", mode.String())
	printer.Plan(len(jobs), workers)
	started := time.Now()
	set, err := h.Run(ctx, jobs)
	if err != nil {
		return err
	}
	results := set.Ordered(jobs)
	slog.InfoContext(ctx, "evaluation done", "elapsed", time.Since(started).String())

	builder := bom.NewBuilder().
		WithSerial(runID).
		AppendResults(results...).
		AppendProperties(
			cdx.Property{Name: bom.PropRunID, Value: runID},
			cdx.Property{Name: bom.PropMode, Value: mode.String()},
		)
	if err := report.Write(config.Output, results, builder); err != nil {
		return err
	}

	printer.Summary(report.Summarize(results))
	return nil
}

// preflight warns about commands missing from PATH. The run goes on, every
// job then reports the failure in its own result.
func preflight(printer *console.Printer, commands ...model.Command) {
	for _, c := range commands {
		if c.Path == "" {
			continue
		}
		if _, ok := runner.Available(c.Path); !ok {
			printer.Warn(fmt.Sprintf("%s not found, crates will fail to evaluate", c.Path))
			slog.Warn("command not found", "path", c.Path)
		}
	}
}
