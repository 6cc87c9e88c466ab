package corpus

import "strings"

// Statistics holds the word-level counts collected from a corpus: the
// unigram count per word, the word-word bigram table, and the total
// token count. The bigram table is dense; ids index rows and columns.
type Statistics struct {
	Vocab      *Vocabulary
	WordCounts []int64
	Bigrams    [][]int64
	Tokens     int64
}

// ScanOptions controls corpus scanning.
type ScanOptions struct {
	// Restrict, when non-nil, limits the vocabulary to tokens present
	// in the set. Other corpus tokens are counted as <UNK>.
	Restrict map[string]struct{}
	// Normalizer preprocesses tokens before counting. Nil is identity.
	Normalizer *Normalizer
}

// Scan builds corpus statistics from tokenized lines. Each line is one
// sentence, bracketed with <s> and </s>; tokens outside the vocabulary
// count as <UNK>. Every adjacent pair increments one bigram cell, and
// each sentence closes with a </s>→<s> wrap bigram so that every token
// has exactly one successor and the bigram table sums to the token
// total.
func Scan(lines []string, opts ScanOptions) *Statistics {
	vocab := BuildVocabulary(lines, opts.Restrict, opts.Normalizer)
	s := &Statistics{
		Vocab:      vocab,
		WordCounts: make([]int64, vocab.Size()),
		Bigrams:    newTable(vocab.Size(), vocab.Size()),
	}

	sentence := make([]int, 0, 64)
	for _, line := range lines {
		sentence = sentence[:0]
		sentence = append(sentence, SentenceStartID)
		for _, tok := range strings.Fields(line) {
			tok = opts.Normalizer.Apply(tok)
			if tok == "" {
				continue
			}
			sentence = append(sentence, vocab.ID(tok))
		}
		sentence = append(sentence, SentenceEndID)

		for _, id := range sentence {
			s.WordCounts[id]++
			s.Tokens++
		}
		for i := 1; i < len(sentence); i++ {
			s.Bigrams[sentence[i-1]][sentence[i]]++
		}
		s.Bigrams[SentenceEndID][SentenceStartID]++
	}
	return s
}

func newTable(rows, cols int) [][]int64 {
	cells := make([]int64, rows*cols)
	table := make([][]int64, rows)
	for i := range table {
		table[i] = cells[i*cols : (i+1)*cols]
	}
	return table
}
