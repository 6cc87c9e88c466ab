package corpus

import "testing"

func TestNormalizerIdentity(t *testing.T) {
	var n *Normalizer
	if got := n.Apply("Token"); got != "Token" {
		t.Errorf("nil normalizer changed token: %q", got)
	}
	zero := &Normalizer{}
	if got := zero.Apply("Token"); got != "Token" {
		t.Errorf("zero normalizer changed token: %q", got)
	}
}

func TestNormalizerLowercase(t *testing.T) {
	n := &Normalizer{Lowercase: true}
	if got := n.Apply("HeLLo"); got != "hello" {
		t.Errorf("Apply(HeLLo) = %q, want hello", got)
	}
}

func TestNormalizerStem(t *testing.T) {
	n := &Normalizer{Lowercase: true, StemLanguage: "english"}
	if got := n.Apply("running"); got != "run" {
		t.Errorf("Apply(running) = %q, want run", got)
	}
}

func TestNormalizerPreservesReservedTokens(t *testing.T) {
	n := &Normalizer{Lowercase: true, StemLanguage: "english"}
	for _, tok := range []string{SentenceStart, SentenceEnd, Unknown} {
		if got := n.Apply(tok); got != tok {
			t.Errorf("Apply(%q) = %q, reserved tokens must pass through", tok, got)
		}
	}
}
