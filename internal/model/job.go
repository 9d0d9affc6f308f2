package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Job is one crate to evaluate: the identifier listed in the input file and
// the directory the analysis runs in.
type Job struct {
	ID  string
	Dir string
}

// LoadJobs reads one job identifier per line from r. Leading and trailing
// whitespace is trimmed and blank lines are skipped. Every job directory is
// baseDir joined with the identifier. Identifiers must be unique.
func LoadJobs(r io.Reader, baseDir string) ([]Job, error) {
	var jobs []Job
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("line %d: %q already listed on line %d: %w", lineNo, id, prev, ErrDuplicateJob)
		}
		seen[id] = lineNo
		jobs = append(jobs, Job{
			ID:  id,
			Dir: filepath.Join(baseDir, id),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading job list: %w", err)
	}
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	return jobs, nil
}

// ListJobs returns a job for every directory directly under baseDir, sorted
// by name.
func ListJobs(baseDir string) ([]Job, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("listing crates: %w", err)
	}
	var jobs []Job
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		jobs = append(jobs, Job{
			ID:  entry.Name(),
			Dir: filepath.Join(baseDir, entry.Name()),
		})
	}
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	return jobs, nil
}
