package exchange

import (
	"fmt"
	"sort"

	"github.com/cognicore/lexclass/pkg/lexclass/corpus"
	"github.com/cognicore/lexclass/pkg/lexclass/internalerr"
)

// NumReservedClasses is the number of classes pinned to the reserved
// tokens: class 0 holds <s>, class 1 holds </s>, class 2 holds <UNK>.
const NumReservedClasses = corpus.NumReserved

// Model is the count store for class-based bigram clustering. It owns
// the word-level statistics, the word↔class membership, and the four
// class-aggregated tables derived from them:
//
//	classCounts[k]   = Σ wordCounts[w] over w in class k
//	ccCounts[k][l]   = Σ bigrams[i][j] over class(i)=k, class(j)=l
//	cwCounts[k][j]   = Σ bigrams[i][j] over class(i)=k, j fixed
//	wcCounts[i][l]   = Σ bigrams[i][j] over i fixed, class(j)=l
//
// The derived tables stay exactly consistent with the bigram table
// under every Move, without ever being recomputed from scratch.
type Model struct {
	vocab      *corpus.Vocabulary
	numClasses int

	wordCounts []int64
	bigrams    [][]int64
	tokens     int64

	wordToClass []int
	classWords  [][]int
	wordPos     []int

	classCounts []int64
	ccCounts    [][]int64
	cwCounts    [][]int64
	wcCounts    [][]int64
}

// New builds a model from corpus statistics. numClasses is the number
// of free classes; three reserved classes are added on top for the
// boundary and unknown tokens. Non-reserved words are assigned to the
// free classes round-robin in ascending frequency order, so the
// initial partition is balanced by frequency rank.
func New(stats *corpus.Statistics, numClasses int) (*Model, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("%w: classes must be positive, got %d", internalerr.ErrInvalidConfig, numClasses)
	}
	vocabSize := stats.Vocab.Size()
	total := numClasses + NumReservedClasses
	if total > vocabSize {
		return nil, fmt.Errorf("%w: %d classes for %d words", internalerr.ErrInvalidConfig, total, vocabSize)
	}

	m := &Model{
		vocab:       stats.Vocab,
		numClasses:  total,
		wordCounts:  stats.WordCounts,
		bigrams:     stats.Bigrams,
		tokens:      stats.Tokens,
		wordToClass: make([]int, vocabSize),
		classWords:  make([][]int, total),
		wordPos:     make([]int, vocabSize),
		classCounts: make([]int64, total),
		ccCounts:    newTable(total, total),
		cwCounts:    newTable(total, vocabSize),
		wcCounts:    newTable(vocabSize, total),
	}
	m.initClasses()
	m.aggregate()
	return m, nil
}

// initClasses pins the reserved tokens to classes 0..2 and spreads the
// remaining words over the free classes by ascending frequency.
func (m *Model) initClasses() {
	for i := range m.wordToClass {
		m.wordToClass[i] = -1
	}
	m.assign(corpus.SentenceStartID, 0)
	m.assign(corpus.SentenceEndID, 1)
	m.assign(corpus.UnknownID, 2)

	order := make([]int, 0, len(m.wordCounts)-NumReservedClasses)
	for id := NumReservedClasses; id < len(m.wordCounts); id++ {
		order = append(order, id)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return m.wordCounts[order[i]] < m.wordCounts[order[j]]
	})

	class := NumReservedClasses
	for _, id := range order {
		m.assign(id, class)
		class++
		if class == m.numClasses {
			class = NumReservedClasses
		}
	}
}

func (m *Model) assign(word, class int) {
	m.wordToClass[word] = class
	m.wordPos[word] = len(m.classWords[class])
	m.classWords[class] = append(m.classWords[class], word)
}

// aggregate computes the four derived tables with one full pass over
// the bigram table. Runs once at construction; Move keeps the tables
// consistent afterwards.
func (m *Model) aggregate() {
	for word, class := range m.wordToClass {
		m.classCounts[class] += m.wordCounts[word]
	}
	for left, row := range m.bigrams {
		leftClass := m.wordToClass[left]
		for right, count := range row {
			if count == 0 {
				continue
			}
			rightClass := m.wordToClass[right]
			m.ccCounts[leftClass][rightClass] += count
			m.cwCounts[leftClass][right] += count
			m.wcCounts[left][rightClass] += count
		}
	}
}

// VocabSize returns the number of words.
func (m *Model) VocabSize() int { return len(m.wordCounts) }

// NumClasses returns the number of classes, reserved ones included.
func (m *Model) NumClasses() int { return m.numClasses }

// Tokens returns the total token count of the corpus.
func (m *Model) Tokens() int64 { return m.tokens }

// Vocab returns the vocabulary the model was built from.
func (m *Model) Vocab() *corpus.Vocabulary { return m.vocab }

// ClassOf returns the current class of a word.
func (m *Model) ClassOf(word int) (int, error) {
	if word < 0 || word >= len(m.wordToClass) {
		return 0, fmt.Errorf("%w: word %d", internalerr.ErrOutOfRange, word)
	}
	return m.wordToClass[word], nil
}

// WordsIn returns the members of a class in ascending id order.
func (m *Model) WordsIn(class int) ([]int, error) {
	if class < 0 || class >= m.numClasses {
		return nil, fmt.Errorf("%w: class %d", internalerr.ErrOutOfRange, class)
	}
	out := make([]int, len(m.classWords[class]))
	copy(out, m.classWords[class])
	sort.Ints(out)
	return out, nil
}

// Assignments returns a copy of the word→class mapping.
func (m *Model) Assignments() []int {
	out := make([]int, len(m.wordToClass))
	copy(out, m.wordToClass)
	return out
}

// WordCount returns the unigram count of a word.
func (m *Model) WordCount(word int) int64 { return m.wordCounts[word] }

// ClassCount returns the aggregate token count of a class.
func (m *Model) ClassCount(class int) int64 { return m.classCounts[class] }

func (m *Model) checkMove(word, class int) error {
	if word < 0 || word >= len(m.wordToClass) {
		return fmt.Errorf("%w: word %d", internalerr.ErrOutOfRange, word)
	}
	if class < 0 || class >= m.numClasses {
		return fmt.Errorf("%w: class %d", internalerr.ErrOutOfRange, class)
	}
	return nil
}

func newTable(rows, cols int) [][]int64 {
	cells := make([]int64, rows*cols)
	table := make([][]int64, rows)
	for i := range table {
		table[i] = cells[i*cols : (i+1)*cols]
	}
	return table
}
