// Package console prints the human readable progress of a run.
package console

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rust-ffi-checker/crateval/internal/classify"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/rust-ffi-checker/crateval/internal/report"
)

// Printer writes status lines for jobs finishing on concurrent workers. The
// lines of one job are never interleaved with those of another.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

func New(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styles: DefaultStyles(lipgloss.NewRenderer(w)),
	}
}

func (p *Printer) Plan(jobs, workers int) {
	p.println(p.styles.Heading.Render(fmt.Sprintf("%d tasks in total, run in %d threads", jobs, workers)))
}

func (p *Printer) Started(job model.Job) {
	p.println(p.styles.Muted.Render("Evaluating " + job.ID))
}

func (p *Printer) Finished(res model.Result, done, total int) {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	switch res.Status() {
	case model.StatusOK, model.StatusUnclassified:
		if res.Diagnostics != "" {
			line(p.styles.Detected.Render("Bug Detected!"))
			line(p.styles.Detected.Render(res.JobID))
			for _, diagnosis := range classify.Lines(res.Diagnostics) {
				line(p.styles.Detected.Render(diagnosis))
			}
		}
		if res.ClassifyErr != nil {
			line(p.styles.Warning.Render(fmt.Sprintf("Could not classify diagnostics of crate %s: %v", res.JobID, res.ClassifyErr)))
		}
		line(p.styles.Finished.Render("Finish analyzing crate " + res.JobID))
	case model.StatusTimeout:
		line(p.styles.Failed.Render("Timeout while analyzing crate " + res.JobID))
	case model.StatusMalformed:
		line(p.styles.Failed.Render("Error while analyzing crate " + res.JobID + ": unreadable resource usage"))
	default:
		msg := "Error while analyzing crate " + res.JobID
		if res.Err != nil {
			msg += ": " + res.Err.Error()
		}
		line(p.styles.Failed.Render(msg))
	}
	line(fmt.Sprintf("Progress: %d / %d", done, total))

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, b.String())
}

func (p *Printer) Warn(msg string) {
	p.println(p.styles.Warning.Render(msg))
}

// Summary prints the closing block of a run.
func (p *Printer) Summary(s report.Summary) {
	var b strings.Builder
	fmt.Fprintln(&b, p.styles.Heading.Render("Results:"))
	fmt.Fprintf(&b, "crates: %d\n", s.Jobs)

	statuses := make([]model.Status, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, status)
	}
	slices.Sort(statuses)
	for _, status := range statuses {
		fmt.Fprintf(&b, "  %s: %d\n", status, s.ByStatus[status])
	}
	fmt.Fprintf(&b, "findings: high %d, mid %d, low %d\n", s.Findings.High, s.Findings.Mid, s.Findings.Low)
	if s.Measured > 0 {
		fmt.Fprintf(&b, "time: mean %.2fs, median %.2fs, max %.2fs over %d crates\n",
			s.ElapsedMean, s.ElapsedMedian, s.ElapsedMax, s.Measured)
		fmt.Fprintf(&b, "peak memory: %.2f MB\n", s.PeakMemoryMB)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, b.String())
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, s)
}
