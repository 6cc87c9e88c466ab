package exchange

// Move reassigns word to class and updates every derived table in one
// O(vocabulary) pass. Moving a word to its current class is a no-op.
// The update never partially applies: there is no failure mode past
// the range checks.
func (m *Model) Move(word, class int) error {
	if err := m.checkMove(word, class); err != nil {
		return err
	}
	oldClass := m.wordToClass[word]
	if class == oldClass {
		return nil
	}

	m.classCounts[oldClass] -= m.wordCounts[word]
	m.classCounts[class] += m.wordCounts[word]

	// Bigrams with word on the left, re-keyed old→new on the row side.
	for right, count := range m.bigrams[word] {
		if right == word || count == 0 {
			continue
		}
		rightClass := m.wordToClass[right]
		m.ccCounts[oldClass][rightClass] -= count
		m.ccCounts[class][rightClass] += count
		m.cwCounts[oldClass][right] -= count
		m.cwCounts[class][right] += count
	}

	// Bigrams with word on the right, re-keyed on the column side.
	for left := range m.bigrams {
		count := m.bigrams[left][word]
		if left == word || count == 0 {
			continue
		}
		leftClass := m.wordToClass[left]
		m.ccCounts[leftClass][oldClass] -= count
		m.ccCounts[leftClass][class] += count
		m.wcCounts[left][oldClass] -= count
		m.wcCounts[left][class] += count
	}

	// The self-bigram moves between the diagonal cells and touches all
	// three mixed tables exactly once.
	if self := m.bigrams[word][word]; self != 0 {
		m.ccCounts[oldClass][oldClass] -= self
		m.ccCounts[class][class] += self
		m.cwCounts[oldClass][word] -= self
		m.cwCounts[class][word] += self
		m.wcCounts[word][oldClass] -= self
		m.wcCounts[word][class] += self
	}

	m.removeMember(word, oldClass)
	m.wordPos[word] = len(m.classWords[class])
	m.classWords[class] = append(m.classWords[class], word)
	m.wordToClass[word] = class
	return nil
}

// removeMember drops word from a class member list by swapping in the
// last element, O(1) thanks to the per-word position index.
func (m *Model) removeMember(word, class int) {
	members := m.classWords[class]
	pos := m.wordPos[word]
	last := len(members) - 1
	if pos != last {
		moved := members[last]
		members[pos] = moved
		m.wordPos[moved] = pos
	}
	m.classWords[class] = members[:last]
}
