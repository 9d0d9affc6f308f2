package harness

import (
	"fmt"
	"sync"

	"github.com/rust-ffi-checker/crateval/internal/model"
)

// ResultSet maps job ids to their Result. Workers write to it concurrently,
// readers are expected to wait until Run returned.
type ResultSet struct {
	mu      sync.Mutex
	results map[string]model.Result
}

func NewResultSet(capacity int) *ResultSet {
	return &ResultSet{results: make(map[string]model.Result, capacity)}
}

// Put stores res under its job id. A job is stored at most once.
func (s *ResultSet) Put(res model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[res.JobID]; ok {
		return fmt.Errorf("job %q: %w", res.JobID, model.ErrDuplicateResult)
	}
	s.results[res.JobID] = res
	return nil
}

func (s *ResultSet) Get(id string) (model.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[id]
	return res, ok
}

func (s *ResultSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Ordered returns the results in the order of jobs. Jobs without a Result,
// which only happens on a canceled run, are skipped.
func (s *ResultSet) Ordered(jobs []model.Job) []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	ordered := make([]model.Result, 0, len(jobs))
	for _, job := range jobs {
		if res, ok := s.results[job.ID]; ok {
			ordered = append(ordered, res)
		}
	}
	return ordered
}

// Progress counts completed jobs of one run.
type Progress struct {
	mu    sync.Mutex
	done  int
	total int
}

func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// Inc records one completed job and returns the new count with the total.
func (p *Progress) Inc() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	return p.done, p.total
}

func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
