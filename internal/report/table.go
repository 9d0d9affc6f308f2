// Package report renders the aggregated results of a run into the artifacts
// written after the run: the CSV table, the narrative text and the BOM.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rust-ffi-checker/crateval/internal/model"
)

var tableHeader = []string{"Package", "high", "mid", "low", "time", "memory"}

// WriteTable writes one row per result in the given order. Time is in
// seconds and memory in MB.
func WriteTable(w io.Writer, results []model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, res := range results {
		row := []string{
			res.JobID,
			strconv.Itoa(res.Counts.High),
			strconv.Itoa(res.Counts.Mid),
			strconv.Itoa(res.Counts.Low),
			formatFloat(res.ElapsedSeconds),
			formatFloat(res.PeakMemoryMB()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", res.JobID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
