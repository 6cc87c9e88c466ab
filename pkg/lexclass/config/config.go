package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexclass/pkg/lexclass/internalerr"
)

// Config holds the training configuration.
type Config struct {
	// Classes is the number of free word classes to learn. The three
	// reserved classes are added on top.
	Classes int `yaml:"classes"`
	// MaxIterations bounds the number of exchange sweeps.
	MaxIterations int `yaml:"max_iterations"`
	// MinDelta is the smallest log-likelihood improvement worth a move.
	MinDelta float64 `yaml:"min_delta"`
	// Corpus is the path to the training text, one sentence per line.
	Corpus string `yaml:"corpus"`
	// Vocabulary optionally restricts the vocabulary to the words
	// listed in this file, one per line.
	Vocabulary string `yaml:"vocabulary"`
	// Store is the path of the sqlite database for results. Empty
	// disables persistence.
	Store string `yaml:"store"`
	// Normalize configures token preprocessing.
	Normalize Normalize `yaml:"normalize"`
}

// Normalize mirrors corpus.Normalizer in the config file.
type Normalize struct {
	Lowercase bool   `yaml:"lowercase"`
	NFC       bool   `yaml:"nfc"`
	Stem      string `yaml:"stem"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Classes:       100,
		MaxIterations: 20,
		MinDelta:      1e-9,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.Classes <= 0 {
		return fmt.Errorf("%w: classes must be positive, got %d", internalerr.ErrInvalidConfig, c.Classes)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", internalerr.ErrInvalidConfig, c.MaxIterations)
	}
	if c.MinDelta < 0 {
		return fmt.Errorf("%w: min_delta must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}
