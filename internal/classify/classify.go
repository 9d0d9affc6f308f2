// Package classify turns the analyzer diagnostic text into severity counts.
//
// Every non-empty line is one diagnosis carrying a marker such as
// ", seriousness: Medium". Only the first three letters of the marker are
// significant: "Low" and "Med" map to Low and Medium, everything else to High.
package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rust-ffi-checker/crateval/internal/model"
)

var ErrUnparseableDiagnosis = errors.New("unparseable diagnosis")

// Mode selects how lines without a recognised marker are handled.
type Mode int

const (
	// Lenient counts unmarked lines as High and reports them as warnings.
	Lenient Mode = iota
	// Strict fails the classification on the first unmarked line.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

var (
	reMarker = regexp.MustCompile(`, seriousness: (\w*)`)
	// names the analyzer prints, used by strict mode
	known = map[string]model.Severity{
		"Low":    model.SeverityLow,
		"Medium": model.SeverityMedium,
		"High":   model.SeverityHigh,
	}
)

type Classifier struct {
	mode Mode
}

func New(mode Mode) Classifier {
	return Classifier{mode: mode}
}

func (c Classifier) Mode() Mode {
	return c.mode
}

// Result is the classification of one diagnostic text. Warnings lists lines
// that were counted as High only because no marker was found.
type Result struct {
	Counts   model.SeverityCounts
	Warnings []string
}

// Classify counts the diagnoses in text. It is pure: the same text always
// yields the same Result.
func (c Classifier) Classify(text string) (Result, error) {
	var res Result
	for i, line := range Lines(text) {
		if line == "" {
			continue
		}
		sev, ok := c.severity(line)
		if !ok {
			if c.mode == Strict {
				return Result{}, fmt.Errorf("line %d: %q: %w", i+1, line, ErrUnparseableDiagnosis)
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: no severity marker, counted as High", i+1))
		}
		res.Counts.Add(sev)
	}
	return res, nil
}

// Severity rates a single diagnosis line. Lines the mode cannot rate are
// High.
func (c Classifier) Severity(line string) model.Severity {
	sev, ok := c.severity(line)
	if !ok {
		return model.SeverityHigh
	}
	return sev
}

// severity returns the severity of line and whether its marker was
// recognised. Lenient mode only needs the marker to be present.
func (c Classifier) severity(line string) (model.Severity, bool) {
	m := reMarker.FindStringSubmatch(line)
	if m == nil {
		return model.SeverityHigh, false
	}
	marker := m[1]

	if c.mode == Strict {
		sev, ok := known[marker]
		return sev, ok
	}

	switch prefix(marker) {
	case "Low":
		return model.SeverityLow, true
	case "Med":
		return model.SeverityMedium, true
	default:
		return model.SeverityHigh, true
	}
}

func prefix(marker string) string {
	if len(marker) > 3 {
		return marker[:3]
	}
	return marker
}

// Lines splits the diagnostic text into diagnosis lines. The empty string
// after a final newline is dropped.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
