package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/lexclass/pkg/lexclass/internalerr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
classes: 50
max_iterations: 5
min_delta: 0.001
corpus: corpus.txt
vocabulary: vocab.txt
store: runs.db
normalize:
  lowercase: true
  nfc: true
  stem: english
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Classes != 50 {
		t.Errorf("Classes = %d, want 50", cfg.Classes)
	}
	if cfg.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", cfg.MaxIterations)
	}
	if cfg.MinDelta != 0.001 {
		t.Errorf("MinDelta = %v, want 0.001", cfg.MinDelta)
	}
	if cfg.Corpus != "corpus.txt" || cfg.Vocabulary != "vocab.txt" || cfg.Store != "runs.db" {
		t.Errorf("paths = %q/%q/%q", cfg.Corpus, cfg.Vocabulary, cfg.Store)
	}
	if !cfg.Normalize.Lowercase || !cfg.Normalize.NFC || cfg.Normalize.Stem != "english" {
		t.Errorf("normalize = %+v", cfg.Normalize)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "corpus: corpus.txt\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Classes != def.Classes || cfg.MaxIterations != def.MaxIterations {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "classes: -1\n")
	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg.MinDelta = -1
	if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative min_delta, got %v", err)
	}
}
