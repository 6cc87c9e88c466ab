package exchange

import "math"

// xlogx returns x·ln(x), with the 0·ln 0 = 0 convention so zero counts
// never contribute to a likelihood term.
func xlogx(x int64) float64 {
	if x == 0 {
		return 0
	}
	f := float64(x)
	return f * math.Log(f)
}

// llChange returns the likelihood contribution of one count cell going
// from old to new.
func llChange(old, new int64) float64 {
	return xlogx(new) - xlogx(old)
}

// LogLikelihood computes the log likelihood a class-based bigram model
// assigns to the corpus under the current assignment:
//
//	Σ cc·ln(cc) + Σ word·ln(word) − 2·Σ class·ln(class)
//
// The class-transition and class-to-word emission probabilities of the
// model collapse into these three count sums. Intended for diagnostics
// and convergence checks; EvaluateMove is the hot path.
func (m *Model) LogLikelihood() float64 {
	var ll float64
	for _, row := range m.ccCounts {
		for _, count := range row {
			ll += xlogx(count)
		}
	}
	for _, count := range m.wordCounts {
		ll += xlogx(count)
	}
	for _, count := range m.classCounts {
		ll -= 2 * xlogx(count)
	}
	return ll
}

// EvaluateMove returns the log-likelihood change of moving word to
// class, without touching any table. The result is exact: applying the
// move and recomputing LogLikelihood from scratch gives the same value
// up to float rounding. Runs in O(number of classes).
//
// Only rows and columns of the class-bigram table touching the old or
// new class change, and each changed cell differs by the word's own
// bigram mass against the other class, available from the wc/cw tables
// in O(1). The four cells where both sides are the old or new class
// need the word's self-bigram folded in exactly once.
func (m *Model) EvaluateMove(word, class int) (float64, error) {
	if err := m.checkMove(word, class); err != nil {
		return 0, err
	}
	oldClass := m.wordToClass[word]
	if class == oldClass {
		return 0, nil
	}

	wordCount := m.wordCounts[word]
	delta := 0.0

	// Class unigram term: −2·Σ class·ln(class) over the two classes
	// whose counts change.
	delta -= 2 * llChange(m.classCounts[oldClass], m.classCounts[oldClass]-wordCount)
	delta -= 2 * llChange(m.classCounts[class], m.classCounts[class]+wordCount)

	// Rows and columns against every other class.
	for x := 0; x < m.numClasses; x++ {
		if x == oldClass || x == class {
			continue
		}
		following := m.wcCounts[word][x]
		delta += llChange(m.ccCounts[oldClass][x], m.ccCounts[oldClass][x]-following)
		delta += llChange(m.ccCounts[class][x], m.ccCounts[class][x]+following)

		preceding := m.cwCounts[x][word]
		delta += llChange(m.ccCounts[x][oldClass], m.ccCounts[x][oldClass]-preceding)
		delta += llChange(m.ccCounts[x][class], m.ccCounts[x][class]+preceding)
	}

	self := m.bigrams[word][word]

	// old→new: loses word→(new members), gains (old members)→word
	// minus the word's own self-bigram, which leaves with it.
	count := m.ccCounts[oldClass][class]
	delta += llChange(count, count-m.wcCounts[word][class]+m.cwCounts[oldClass][word]-self)

	// new→old: gains word→(old members) minus self, loses (new
	// members)→word.
	count = m.ccCounts[class][oldClass]
	delta += llChange(count, count-m.cwCounts[class][word]+m.wcCounts[word][oldClass]-self)

	// old→old: loses both directions, self-bigram subtracted twice so
	// add it back once.
	count = m.ccCounts[oldClass][oldClass]
	delta += llChange(count, count-m.wcCounts[word][oldClass]-m.cwCounts[oldClass][word]+self)

	// new→new: gains both directions plus the self-bigram.
	count = m.ccCounts[class][class]
	delta += llChange(count, count+m.wcCounts[word][class]+m.cwCounts[class][word]+self)

	return delta, nil
}
