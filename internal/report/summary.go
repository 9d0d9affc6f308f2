package report

import (
	"slices"

	"github.com/rust-ffi-checker/crateval/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a whole run. Timing figures cover the measured jobs
// only, those which neither timed out nor lost their usage report.
type Summary struct {
	Jobs     int
	ByStatus map[model.Status]int
	Findings model.SeverityCounts
	Measured int

	ElapsedMean   float64
	ElapsedMedian float64
	ElapsedMax    float64
	PeakMemoryMB  float64
}

func Summarize(results []model.Result) Summary {
	s := Summary{
		Jobs:     len(results),
		ByStatus: make(map[model.Status]int),
	}

	var elapsed, memory []float64
	for _, res := range results {
		s.ByStatus[res.Status()]++
		s.Findings.High += res.Counts.High
		s.Findings.Mid += res.Counts.Mid
		s.Findings.Low += res.Counts.Low

		if res.TimedOut || res.Err != nil {
			continue
		}
		elapsed = append(elapsed, res.ElapsedSeconds)
		memory = append(memory, res.PeakMemoryMB())
	}

	s.Measured = len(elapsed)
	if s.Measured == 0 {
		return s
	}

	slices.Sort(elapsed)
	s.ElapsedMean = stat.Mean(elapsed, nil)
	s.ElapsedMedian = stat.Quantile(0.5, stat.Empirical, elapsed, nil)
	s.ElapsedMax = floats.Max(elapsed)
	s.PeakMemoryMB = floats.Max(memory)
	return s
}
