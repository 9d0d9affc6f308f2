package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rust-ffi-checker/crateval/internal/bom"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/report"
	"github.com/stretchr/testify/require"
)

const (
	lowLine = "Bug info: LLVM IR of C code is unknown. Possible bugs: Memory Leakage, seriousness: Low, function: leak"
	medLine = "Bug info: LLVM IR of C code is known. Possible bugs: Use After Free, seriousness: Medium, function: uaf"
)

func sample() []model.Result {
	return []model.Result{
		{
			Outcome: model.Outcome{
				JobID:          "libc-0.2.150",
				Succeeded:      true,
				Diagnostics:    lowLine + "\n" + medLine + "\n",
				ElapsedSeconds: 1.5,
				PeakMemoryKB:   1536,
			},
			Counts: model.SeverityCounts{Mid: 1, Low: 1},
		},
		{
			Outcome: model.Outcome{JobID: "clean-1.0.0", Succeeded: true, ElapsedSeconds: 0.25, PeakMemoryKB: 1024},
		},
		{
			Outcome: model.Outcome{JobID: "broken-0.1.0", ElapsedSeconds: 3, PeakMemoryKB: 4096},
		},
		{
			Outcome: model.Outcome{JobID: "slow-0.1.0", TimedOut: true},
		},
		{
			Outcome: model.Outcome{JobID: "odd-0.1.0", Err: fmt.Errorf("%w", model.ErrMalformedUsage)},
		},
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf, sample()))
	require.Equal(t, `Package,high,mid,low,time,memory
libc-0.2.150,0,1,1,1.5,1.5
clean-1.0.0,0,0,0,0.25,1
broken-0.1.0,0,0,0,3,4
slow-0.1.0,0,0,0,0,0
odd-0.1.0,0,0,0,0,0
`, buf.String())
}

func TestWriteNarrative(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteNarrative(&buf, sample()))
	require.Equal(t, "libc-0.2.150:\n"+lowLine+"\n"+medLine+"\n1.5\n1536\n\n", buf.String())

	buf.Reset()
	require.NoError(t, report.WriteNarrative(&buf, nil))
	require.Empty(t, buf.String())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := report.Summarize(sample())
	require.Equal(t, 5, s.Jobs)
	require.Equal(t, map[model.Status]int{
		model.StatusOK:        2,
		model.StatusFailed:    1,
		model.StatusTimeout:   1,
		model.StatusMalformed: 1,
	}, s.ByStatus)
	require.Equal(t, model.SeverityCounts{Mid: 1, Low: 1}, s.Findings)
	require.Equal(t, 3, s.Measured)
	require.InDelta(t, 4.75/3, s.ElapsedMean, 1e-9)
	require.InDelta(t, 1.5, s.ElapsedMedian, 1e-9)
	require.InDelta(t, 3.0, s.ElapsedMax, 1e-9)
	require.InDelta(t, 4.0, s.PeakMemoryMB, 1e-9)

	empty := report.Summarize(nil)
	require.Zero(t, empty.Jobs)
	require.Zero(t, empty.ElapsedMax)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	out := model.Output{
		Dir:       filepath.Join(t.TempDir(), "outputs"),
		Table:     "result.csv",
		Narrative: "result.txt",
		BOM:       "result.cdx.json",
	}
	results := sample()
	builder := bom.NewBuilder().AppendResults(results...)

	require.NoError(t, report.Write(out, results, builder))

	for _, name := range []string{out.Table, out.Narrative, out.BOM} {
		_, err := os.Stat(filepath.Join(out.Dir, name))
		require.NoError(t, err, name)
	}
	b, err := os.ReadFile(filepath.Join(out.Dir, out.BOM))
	require.NoError(t, err)
	var doc struct {
		Components      []json.RawMessage `json:"components"`
		Vulnerabilities []json.RawMessage `json:"vulnerabilities"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Len(t, doc.Components, len(results))
	require.Len(t, doc.Vulnerabilities, 2)
}

func TestWrite_Fail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// a directory in place of the table file
	require.NoError(t, os.Mkdir(filepath.Join(dir, "result.csv"), 0o755))
	out := model.Output{Dir: dir, Table: "result.csv", Narrative: "result.txt"}

	err := report.Write(out, sample(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "result.csv")

	_, err = os.Stat(filepath.Join(dir, "result.txt"))
	require.NoError(t, err)
}
