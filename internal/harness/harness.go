// Package harness schedules the evaluation of every job on a fixed pool of
// workers and aggregates the results.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rust-ffi-checker/crateval/internal/classify"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/parallel"
)

var (
	ErrNoWorkers = errors.New("worker count must be at least 1")
	ErrNoJobs    = model.ErrNoJobs
)

// Evaluator runs the analysis of one job. It reports every failure inside
// the Outcome.
type Evaluator interface {
	Evaluate(ctx context.Context, job model.Job) model.Outcome
}

// Observer is told about every job as it starts and finishes. Calls come
// from the worker goroutines.
type Observer interface {
	Started(job model.Job)
	Finished(res model.Result, done, total int)
}

type Harness struct {
	workers    int
	evaluator  Evaluator
	classifier classify.Classifier
	observer   Observer
}

// New returns a Harness running workers jobs at a time. A nil observer
// discards the events.
func New(workers int, evaluator Evaluator, classifier classify.Classifier, observer Observer) (*Harness, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%d: %w", workers, ErrNoWorkers)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Harness{
		workers:    workers,
		evaluator:  evaluator,
		classifier: classifier,
		observer:   observer,
	}, nil
}

// Run evaluates every job and blocks until each of them has a Result. A
// failing job never affects the others. The returned error is non nil only
// for an empty job list or a canceled ctx, in which case the ResultSet holds
// the jobs which completed.
func (h *Harness) Run(ctx context.Context, jobs []model.Job) (*ResultSet, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}

	results := NewResultSet(len(jobs))
	progress := NewProgress(len(jobs))

	pmap := parallel.NewMap(ctx, h.workers, func(ctx context.Context, job model.Job) (model.Result, error) {
		return h.evaluate(ctx, job, results, progress)
	})

	for res, err := range pmap.Iter(parallel.All(jobs)) {
		switch {
		case err == nil:
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			slog.DebugContext(ctx, "job not started", "job", res.JobID)
		default:
			slog.ErrorContext(ctx, "storing result", "job", res.JobID, "error", err)
		}
	}

	if err := ctx.Err(); err != nil && results.Len() < len(jobs) {
		return results, fmt.Errorf("run stopped after %d of %d jobs: %w", results.Len(), len(jobs), err)
	}
	return results, nil
}

func (h *Harness) evaluate(ctx context.Context, job model.Job, results *ResultSet, progress *Progress) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{Outcome: model.Outcome{JobID: job.ID}}, err
	}
	h.observer.Started(job)

	res := model.Result{Outcome: h.evaluator.Evaluate(ctx, job)}
	if res.Diagnostics != "" {
		c, err := h.classifier.Classify(res.Diagnostics)
		if err != nil {
			slog.WarnContext(ctx, "classifying diagnostics", "job", job.ID, "mode", h.classifier.Mode().String(), "error", err)
			res.ClassifyErr = err
		} else {
			res.Counts = c.Counts
			for _, w := range c.Warnings {
				slog.WarnContext(ctx, "classifying diagnostics", "job", job.ID, "warning", w)
			}
		}
	}

	err := results.Put(res)
	done, total := progress.Inc()
	h.observer.Finished(res, done, total)
	return res, err
}

type nopObserver struct{}

func (nopObserver) Started(model.Job)               {}
func (nopObserver) Finished(model.Result, int, int) {}
