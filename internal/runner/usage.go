package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rust-ffi-checker/crateval/internal/model"
)

// Usage is the resource footprint printed by the measuring wrapper.
type Usage struct {
	PeakMemoryKB   int64
	ElapsedSeconds float64
}

// ParseUsage reads the two trailing whitespace separated tokens of the
// wrapper output: peak memory in KB (integer) followed by elapsed wall time in
// seconds. Anything printed before them (tool stderr, "Command exited with
// non-zero status") is ignored.
func ParseUsage(stderr string) (Usage, error) {
	fields := strings.Fields(stderr)
	if len(fields) < 2 {
		return Usage{}, fmt.Errorf("%w: expected 2 trailing tokens, got %d", model.ErrMalformedUsage, len(fields))
	}

	memToken, timeToken := fields[len(fields)-2], fields[len(fields)-1]
	peak, err := strconv.ParseInt(memToken, 10, 64)
	if err != nil || peak < 0 {
		return Usage{}, fmt.Errorf("%w: peak memory %q is not a KB count", model.ErrMalformedUsage, memToken)
	}
	elapsed, err := strconv.ParseFloat(timeToken, 64)
	if err != nil || elapsed < 0 {
		return Usage{}, fmt.Errorf("%w: elapsed time %q is not a number of seconds", model.ErrMalformedUsage, timeToken)
	}

	return Usage{
		PeakMemoryKB:   peak,
		ElapsedSeconds: elapsed,
	}, nil
}

// UsageOf builds Usage from a Result directly, used when no wrapper is set.
func UsageOf(res Result) Usage {
	return Usage{
		PeakMemoryKB:   res.MaxRSSKB,
		ElapsedSeconds: res.Duration.Seconds(),
	}
}
