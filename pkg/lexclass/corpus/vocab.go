package corpus

import "strings"

// Reserved tokens bracketing every sentence plus the out-of-vocabulary
// marker. They always occupy the first three word ids.
const (
	SentenceStart = "<s>"
	SentenceEnd   = "</s>"
	Unknown       = "<UNK>"
)

// Reserved word ids, fixed for the process lifetime.
const (
	SentenceStartID = 0
	SentenceEndID   = 1
	UnknownID       = 2
)

// NumReserved is the number of reserved tokens/classes.
const NumReserved = 3

// Vocabulary maps between word strings and dense integer ids. Ids are
// stable for the lifetime of the vocabulary: the reserved tokens come
// first, followed by corpus tokens in order of first occurrence.
type Vocabulary struct {
	id2word []string
	word2id map[string]int
}

// NewVocabulary creates a vocabulary holding only the reserved tokens.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		word2id: make(map[string]int),
	}
	for _, w := range []string{SentenceStart, SentenceEnd, Unknown} {
		v.word2id[w] = len(v.id2word)
		v.id2word = append(v.id2word, w)
	}
	return v
}

// BuildVocabulary scans the corpus lines and returns a vocabulary of
// all distinct tokens. If restrict is non-nil, only corpus tokens also
// present in restrict are admitted; everything else later maps to
// <UNK>. The normalizer may be nil.
func BuildVocabulary(lines []string, restrict map[string]struct{}, n *Normalizer) *Vocabulary {
	v := NewVocabulary()
	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			tok = n.Apply(tok)
			if tok == "" {
				continue
			}
			if restrict != nil {
				if _, ok := restrict[tok]; !ok {
					continue
				}
			}
			v.Add(tok)
		}
	}
	return v
}

// Add inserts a word if absent and returns its id.
func (v *Vocabulary) Add(word string) int {
	if id, ok := v.word2id[word]; ok {
		return id
	}
	id := len(v.id2word)
	v.word2id[word] = id
	v.id2word = append(v.id2word, word)
	return id
}

// ID returns the id of word, or the <UNK> id if word is not present.
func (v *Vocabulary) ID(word string) int {
	if id, ok := v.word2id[word]; ok {
		return id
	}
	return UnknownID
}

// Contains reports whether word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.word2id[word]
	return ok
}

// Word returns the string for a valid id.
func (v *Vocabulary) Word(id int) string {
	return v.id2word[id]
}

// Size returns the number of words, reserved tokens included.
func (v *Vocabulary) Size() int {
	return len(v.id2word)
}

// Words returns a copy of the id-ordered word list.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.id2word))
	copy(out, v.id2word)
	return out
}
