package report

import (
	"bufio"
	"io"
	"strconv"

	"github.com/rust-ffi-checker/crateval/internal/classify"
	"github.com/rust-ffi-checker/crateval/internal/model"
)

// WriteNarrative writes a block for every result with diagnostics:
//
//	<id>:
//	<diagnosis line>...
//	<elapsed seconds>
//	<peak memory KB>
//
// Blocks are separated by an empty line.
func WriteNarrative(w io.Writer, results []model.Result) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		if res.Diagnostics == "" {
			continue
		}
		_, _ = bw.WriteString(res.JobID + ":\n")
		for _, line := range classify.Lines(res.Diagnostics) {
			_, _ = bw.WriteString(line + "\n")
		}
		_, _ = bw.WriteString(formatFloat(res.ElapsedSeconds) + "\n")
		_, _ = bw.WriteString(strconv.FormatInt(res.PeakMemoryKB, 10) + "\n\n")
	}
	return bw.Flush()
}
