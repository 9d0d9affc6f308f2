package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rust-ffi-checker/crateval/internal/harness"
	"github.com/rust-ffi-checker/crateval/internal/log"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/runner"
	"github.com/spf13/cobra"
)

var (
	flagKnown             string
	flagPreprocessTimeout int
)

var preprocessCmd = &cobra.Command{
	Use:     "preprocess <crate_dir> <workers>",
	Short:   "list the crates of a directory which are ready for the analysis",
	Example: "  crateval preprocess ../crates 8 --known crates_all.txt > output.txt",
	Args:    preprocessArgs,
	RunE:    doPreprocess,
}

func preprocessArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: need two arguments to specify the crate directory and the size of the worker pool\nusage example: %s",
			errUsage, cmd.Example)
	}
	_, err := positive("workers", args[1])
	return err
}

func doPreprocess(cmd *cobra.Command, args []string) error {
	crateDir := args[0]
	workers, _ := positive("workers", args[1])
	if flagPreprocessTimeout < 0 {
		return fmt.Errorf("%w: --timeout must not be negative", errUsage)
	}

	ctx := log.ContextAttrs(cmd.Context(), slog.Group("crateval",
		slog.String("cmd", "preprocess"),
		slog.Int("pid", os.Getpid()),
	))

	jobs, err := model.ListJobs(crateDir)
	if err != nil {
		return err
	}
	known, err := loadKnown(flagKnown)
	if err != nil {
		return err
	}

	evaluator := runner.NewEvaluator(config, time.Duration(flagPreprocessTimeout)*time.Second)
	ready, err := harness.Preprocess(ctx, workers, evaluator, jobs, known)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "preprocess done", "crates", len(jobs), "known", len(known), "ready", len(ready))

	out := cmd.OutOrStdout()
	for _, id := range ready {
		fmt.Fprintln(out, id)
	}
	return nil
}

// loadKnown reads crate names, one per line. Lines may be paths, only the
// last element counts.
func loadKnown(path string) (map[string]struct{}, error) {
	known := map[string]struct{}{}
	if path == "" {
		return known, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening known crates: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		known[filepath.Base(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading known crates: %w", err)
	}
	return known, nil
}
