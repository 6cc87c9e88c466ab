package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/lexclass/pkg/lexclass/store"
)

func TestRunLifecycle(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	run := store.Run{
		ID:        "01TESTRUN",
		Corpus:    "corpus.txt",
		Classes:   13,
		VocabSize: 42,
		Tokens:    1000,
		StartedAt: time.Now(),
	}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, found, err := s.GetRun(ctx, run.ID)
	if err != nil || !found {
		t.Fatalf("GetRun: found=%v err=%v", found, err)
	}
	if got.Classes != 13 || got.VocabSize != 42 {
		t.Errorf("GetRun = %+v", got)
	}

	if err := s.FinishRun(ctx, run.ID, time.Now(), -123.45, 7); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, _, _ = s.GetRun(ctx, run.ID)
	if got.LogLikelihood != -123.45 || got.Iterations != 7 {
		t.Errorf("finished run = %+v", got)
	}

	_, found, err = s.GetRun(ctx, "missing")
	if err != nil || found {
		t.Errorf("GetRun(missing): found=%v err=%v", found, err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		if err := s.CreateRun(ctx, store.Run{ID: id}); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}
	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "r3" || runs[1].ID != "r2" {
		t.Errorf("ListRuns = %+v", runs)
	}
}

func TestIterations(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := s.AppendIteration(ctx, "r1", store.Iteration{Iteration: i, Moves: i * 2})
		if err != nil {
			t.Fatalf("AppendIteration: %v", err)
		}
	}
	its, err := s.GetIterations(ctx, "r1")
	if err != nil {
		t.Fatalf("GetIterations: %v", err)
	}
	if len(its) != 3 || its[2].Moves != 6 {
		t.Errorf("GetIterations = %+v", its)
	}
}

func TestAssignments(t *testing.T) {
	s := New()
	ctx := context.Background()

	assignments := []store.Assignment{
		{Word: "cat", Class: 3},
		{Word: "dog", Class: 3},
		{Word: "mat", Class: 4},
	}
	if err := s.PutAssignments(ctx, "r1", assignments); err != nil {
		t.Fatalf("PutAssignments: %v", err)
	}

	got, err := s.GetAssignments(ctx, "r1")
	if err != nil {
		t.Fatalf("GetAssignments: %v", err)
	}
	if len(got) != 3 || got[0].Word != "cat" {
		t.Errorf("GetAssignments = %+v", got)
	}

	class, found, err := s.ClassOfWord(ctx, "r1", "dog")
	if err != nil || !found || class != 3 {
		t.Errorf("ClassOfWord(dog) = %d found=%v err=%v", class, found, err)
	}
	_, found, _ = s.ClassOfWord(ctx, "r1", "bird")
	if found {
		t.Error("ClassOfWord(bird) = found")
	}

	words, err := s.WordsInClass(ctx, "r1", 3)
	if err != nil {
		t.Fatalf("WordsInClass: %v", err)
	}
	if len(words) != 2 || words[0] != "cat" || words[1] != "dog" {
		t.Errorf("WordsInClass(3) = %v", words)
	}
}
