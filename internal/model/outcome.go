package model

import "errors"

// Status is the terminal state of a job, derived from its Outcome.
type Status string

const (
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
	StatusMalformed Status = "malformed"
	// the tool succeeded but its diagnostics could not be classified
	StatusUnclassified Status = "unclassified"
)

// Outcome is produced exactly once per job by the evaluator and never
// modified afterwards.
//
// TimedOut implies !Succeeded, empty Diagnostics and zero metrics.
// Succeeded == false && TimedOut == false means the tool ran and failed.
// Err is set when the run could not be launched or measured, wrapping
// ErrMalformedUsage for unparseable wrapper output.
type Outcome struct {
	JobID          string
	Diagnostics    string
	ElapsedSeconds float64
	PeakMemoryKB   int64
	Succeeded      bool
	TimedOut       bool
	Err            error
}

func (o Outcome) Status() Status {
	switch {
	case o.TimedOut:
		return StatusTimeout
	case errors.Is(o.Err, ErrMalformedUsage):
		return StatusMalformed
	case o.Succeeded:
		return StatusOK
	default:
		return StatusFailed
	}
}

// PeakMemoryMB converts the peak memory to megabytes using plain float division.
func (o Outcome) PeakMemoryMB() float64 {
	return float64(o.PeakMemoryKB) / 1024
}

// Result is what the aggregator stores for one job.
type Result struct {
	Outcome
	Counts      SeverityCounts
	ClassifyErr error
}

func (r Result) Status() Status {
	if r.ClassifyErr != nil {
		return StatusUnclassified
	}
	return r.Outcome.Status()
}
