package harness

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/parallel"
)

// Preprocessor reports whether a job is ready for the analysis.
type Preprocessor interface {
	Preprocess(ctx context.Context, job model.Job) (bool, error)
}

// Preprocess runs pre over every job not in known, workers at a time, and
// returns the sorted ids of the ready ones.
func Preprocess(ctx context.Context, workers int, pre Preprocessor, jobs []model.Job, known map[string]struct{}) ([]string, error) {
	if workers < 1 {
		return nil, ErrNoWorkers
	}

	pending := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if _, ok := known[job.ID]; ok {
			continue
		}
		pending = append(pending, job)
	}

	pmap := parallel.NewMap(ctx, workers, func(ctx context.Context, job model.Job) (string, error) {
		ready, err := pre.Preprocess(ctx, job)
		if err != nil {
			return job.ID, err
		}
		if !ready {
			return "", nil
		}
		return job.ID, nil
	})

	var ready []string
	for id, err := range pmap.Iter(parallel.All(pending)) {
		if err != nil {
			slog.WarnContext(ctx, "preprocessing", "job", id, "error", err)
			continue
		}
		if id != "" {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)
	return ready, ctx.Err()
}
