package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/lexclass/pkg/lexclass/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu          sync.RWMutex
	runs        map[string]store.Run
	order       []string
	iterations  map[string][]store.Iteration
	assignments map[string][]store.Assignment
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:        make(map[string]store.Run),
		iterations:  make(map[string][]store.Iteration),
		assignments: make(map[string][]store.Assignment),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateRun records a new run.
func (s *Store) CreateRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.runs[r.ID] = r
	return nil
}

// FinishRun stamps a run with its final results.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time, logLikelihood float64, iterations int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil
	}
	r.FinishedAt = finishedAt
	r.LogLikelihood = logLikelihood
	r.Iterations = iterations
	s.runs[runID] = r
	return nil
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	return r, ok, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	var out []store.Run
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out, nil
}

// AppendIteration records one sweep of a run.
func (s *Store) AppendIteration(ctx context.Context, runID string, it store.Iteration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iterations[runID] = append(s.iterations[runID], it)
	return nil
}

// GetIterations returns the recorded sweeps of a run in order.
func (s *Store) GetIterations(ctx context.Context, runID string) ([]store.Iteration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Iteration, len(s.iterations[runID]))
	copy(out, s.iterations[runID])
	return out, nil
}

// PutAssignments replaces the word→class mapping of a run.
func (s *Store) PutAssignments(ctx context.Context, runID string, assignments []store.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Assignment, len(assignments))
	copy(out, assignments)
	s.assignments[runID] = out
	return nil
}

// GetAssignments returns the stored mapping, sorted by word.
func (s *Store) GetAssignments(ctx context.Context, runID string) ([]store.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Assignment, len(s.assignments[runID]))
	copy(out, s.assignments[runID])
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

// ClassOfWord looks up one word's class in a run.
func (s *Store) ClassOfWord(ctx context.Context, runID, word string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments[runID] {
		if a.Word == word {
			return a.Class, true, nil
		}
	}
	return 0, false, nil
}

// WordsInClass returns the members of a class in a run, sorted.
func (s *Store) WordsInClass(ctx context.Context, runID string, class int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, a := range s.assignments[runID] {
		if a.Class == class {
			out = append(out, a.Word)
		}
	}
	sort.Strings(out)
	return out, nil
}
