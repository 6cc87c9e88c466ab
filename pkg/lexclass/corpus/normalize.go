package corpus

import (
	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer applies optional preprocessing to corpus tokens before
// they are counted. The zero value (and nil) is the identity, which
// keeps statistics faithful to the raw text.
type Normalizer struct {
	// Lowercase case-folds tokens.
	Lowercase bool
	// NFC applies Unicode NFC normalization.
	NFC bool
	// StemLanguage, when non-empty, stems tokens with the snowball
	// stemmer for that language (e.g. "english"). Tokens the stemmer
	// rejects pass through unchanged.
	StemLanguage string

	folder cases.Caser
	init   bool
}

// Apply normalizes a single token. Reserved tokens pass through
// untouched so boundary and unknown markers survive any setting.
func (n *Normalizer) Apply(token string) string {
	if n == nil {
		return token
	}
	switch token {
	case SentenceStart, SentenceEnd, Unknown:
		return token
	}
	if n.NFC {
		token = norm.NFC.String(token)
	}
	if n.Lowercase {
		if !n.init {
			n.folder = cases.Fold()
			n.init = true
		}
		token = n.folder.String(token)
	}
	if n.StemLanguage != "" {
		if stemmed, err := snowball.Stem(token, n.StemLanguage, false); err == nil && stemmed != "" {
			token = stemmed
		}
	}
	return token
}
