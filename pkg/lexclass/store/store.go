package store

import (
	"context"
	"time"
)

// Store persists clustering runs and their results.
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, r Run) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, logLikelihood float64, iterations int) error
	GetRun(ctx context.Context, runID string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Iteration history
	AppendIteration(ctx context.Context, runID string, it Iteration) error
	GetIterations(ctx context.Context, runID string) ([]Iteration, error)

	// Assignments
	PutAssignments(ctx context.Context, runID string, assignments []Assignment) error
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
	ClassOfWord(ctx context.Context, runID, word string) (int, bool, error)
	WordsInClass(ctx context.Context, runID string, class int) ([]string, error)
}

// Run describes one clustering run.
type Run struct {
	ID            string
	Corpus        string
	Classes       int
	VocabSize     int
	Tokens        int64
	StartedAt     time.Time
	FinishedAt    time.Time
	LogLikelihood float64
	Iterations    int
}

// Iteration is one exchange sweep of a run.
type Iteration struct {
	Iteration     int
	Moves         int
	Delta         float64
	LogLikelihood float64
}

// Assignment maps one word to its final class.
type Assignment struct {
	Word  string
	Class int
}
