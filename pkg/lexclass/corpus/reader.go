package corpus

import (
	"bufio"
	"io"
	"strings"
)

// ReadLines reads newline-separated sentences from r. Blank lines are
// skipped; they carry no tokens and would only add empty sentences.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ReadRestriction reads a restriction vocabulary, one word per line.
// The normalizer must match the one used for scanning, or restricted
// words will not line up with corpus tokens.
func ReadRestriction(r io.Reader, n *Normalizer) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := n.Apply(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
