package exchange

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/lexclass/pkg/lexclass/internalerr"
)

func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff < 1e-9 {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-6*scale
}

func TestLogLikelihoodTinyCorpus(t *testing.T) {
	m := buildModel(t, []string{"a b a", "b a b"}, 1)

	// Class bigrams: <s>→3 (2), 3→3 (4), 3→</s> (2), wrap (2).
	// Word unigrams: <s> 2, </s> 2, a 3, b 3. Classes: 2, 2, 0, 6.
	xlx := func(x float64) float64 { return x * math.Log(x) }
	want := xlx(2) + xlx(4) + xlx(2) + xlx(2) +
		xlx(2) + xlx(2) + xlx(3) + xlx(3) -
		2*(xlx(2)+xlx(2)+xlx(6))

	if got := m.LogLikelihood(); !closeEnough(got, want) {
		t.Errorf("LogLikelihood() = %v, want %v", got, want)
	}
}

func TestLogLikelihoodZeroCounts(t *testing.T) {
	// <UNK> never occurs, so its unigram term and its class's terms
	// are all zero counts and must contribute exactly nothing.
	m := buildModel(t, []string{"a b a", "b a b"}, 1)
	if ll := m.LogLikelihood(); math.IsNaN(ll) || math.IsInf(ll, 0) {
		t.Fatalf("LogLikelihood() = %v, want finite", ll)
	}
}

// The core round-trip law: the evaluated delta of any move must equal
// the difference in full log likelihood across applying it.
func TestEvaluateMoveMatchesFullLikelihood(t *testing.T) {
	m := buildModel(t, testCorpus(), 3)

	for word := NumReservedClasses; word < m.VocabSize(); word++ {
		current, err := m.ClassOf(word)
		if err != nil {
			t.Fatalf("ClassOf(%d): %v", word, err)
		}
		for class := 0; class < m.NumClasses(); class++ {
			if class == current {
				continue
			}
			before := m.LogLikelihood()
			delta, err := m.EvaluateMove(word, class)
			if err != nil {
				t.Fatalf("EvaluateMove(%d, %d): %v", word, class, err)
			}
			if err := m.Move(word, class); err != nil {
				t.Fatalf("Move(%d, %d): %v", word, class, err)
			}
			after := m.LogLikelihood()
			if !closeEnough(after, before+delta) {
				t.Errorf("move %d→%d: full ll %v, predicted %v (delta %v)",
					word, class, after, before+delta, delta)
			}
			// Put it back so every pair starts from the same state.
			if err := m.Move(word, current); err != nil {
				t.Fatalf("Move back: %v", err)
			}
		}
	}
}

func TestEvaluateMoveAgainstMovingState(t *testing.T) {
	// Same law, but carried through a drifting sequence of applied
	// moves rather than a reset after each one.
	m := buildModel(t, testCorpus(), 3)

	moves := [][2]int{
		{3, 4}, {5, 5}, {7, 3}, {4, 4}, {3, 5}, {6, 3}, {8, 4},
	}
	for _, mv := range moves {
		word, class := mv[0], mv[1]
		if word >= m.VocabSize() || class >= m.NumClasses() {
			continue
		}
		before := m.LogLikelihood()
		delta, err := m.EvaluateMove(word, class)
		if err != nil {
			t.Fatalf("EvaluateMove(%d, %d): %v", word, class, err)
		}
		if err := m.Move(word, class); err != nil {
			t.Fatalf("Move(%d, %d): %v", word, class, err)
		}
		if after := m.LogLikelihood(); !closeEnough(after, before+delta) {
			t.Errorf("move %d→%d: full ll %v, predicted %v", word, class, after, before+delta)
		}
		checkDerived(t, m)
	}
}

func TestEvaluateMoveNoOp(t *testing.T) {
	m := buildModel(t, testCorpus(), 3)
	word := 4
	current, err := m.ClassOf(word)
	if err != nil {
		t.Fatalf("ClassOf: %v", err)
	}
	delta, err := m.EvaluateMove(word, current)
	if err != nil {
		t.Fatalf("EvaluateMove: %v", err)
	}
	if delta != 0 {
		t.Errorf("delta for move to current class = %v, want 0", delta)
	}
}

func TestEvaluateMoveDoesNotMutate(t *testing.T) {
	m := buildModel(t, testCorpus(), 3)
	snap := snapshot(m)

	for class := 0; class < m.NumClasses(); class++ {
		if _, err := m.EvaluateMove(3, class); err != nil {
			t.Fatalf("EvaluateMove: %v", err)
		}
	}
	compareSnapshot(t, m, snap)
}

func TestEvaluateMoveOutOfRange(t *testing.T) {
	m := buildModel(t, testCorpus(), 3)

	cases := [][2]int{
		{-1, 3},
		{m.VocabSize(), 3},
		{3, -1},
		{3, m.NumClasses()},
	}
	for _, c := range cases {
		if _, err := m.EvaluateMove(c[0], c[1]); !errors.Is(err, internalerr.ErrOutOfRange) {
			t.Errorf("EvaluateMove(%d, %d): expected ErrOutOfRange, got %v", c[0], c[1], err)
		}
	}
}

func BenchmarkEvaluateMove(b *testing.B) {
	stats := corpusStatsForBench()
	m, err := New(stats, 10)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		word := NumReservedClasses + i%(m.VocabSize()-NumReservedClasses)
		class := NumReservedClasses + i%(m.NumClasses()-NumReservedClasses)
		if _, err := m.EvaluateMove(word, class); err != nil {
			b.Fatal(err)
		}
	}
}
