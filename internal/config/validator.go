package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
	"github.com/Alishbarana/InnoLearn/internal/semantic"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// The first invalid field is returned as a ConfigError.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateMatchingConfig(&cfg.Matching); err != nil {
		return err
	}

	if err := v.validateClassifierConfig(&cfg.Classifier); err != nil {
		return err
	}

	if cfg.Cache.Size < 0 {
		return ierrors.NewConfigError("cache.size", strconv.Itoa(cfg.Cache.Size),
			errors.New("cache size cannot be negative"))
	}

	if cfg.Batch.Workers < 0 {
		return ierrors.NewConfigError("batch.workers", strconv.Itoa(cfg.Batch.Workers),
			errors.New("worker count cannot be negative"))
	}

	if cfg.Vocabulary.WatchDebounceMs < 0 {
		return ierrors.NewConfigError("vocabulary.watch_debounce_ms", strconv.Itoa(cfg.Vocabulary.WatchDebounceMs),
			errors.New("debounce cannot be negative"))
	}

	if cfg.Vocabulary.Watch && cfg.Vocabulary.Path == "" {
		return ierrors.NewConfigError("vocabulary.watch", "true",
			errors.New("watching requires vocabulary.path"))
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateMatchingConfig validates cascade thresholds
func (v *Validator) validateMatchingConfig(m *Matching) error {
	percents := []struct {
		field string
		value float64
	}{
		{"matching.exact_confidence", m.ExactConfidence},
		{"matching.keyword_weight", m.KeywordWeight},
		{"matching.keyword_min_confidence", m.KeywordMinConfidence},
		{"matching.fuzzy_weight", m.FuzzyWeight},
		{"matching.partial_confidence", m.PartialConfidence},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > semantic.MaxConfidence {
			return ierrors.NewConfigError(p.field, formatFloat(p.value), errors.New("must be within [0,100]"))
		}
	}

	if m.FuzzyThreshold < 0 || m.FuzzyThreshold > 1 {
		return ierrors.NewConfigError("matching.fuzzy_threshold", formatFloat(m.FuzzyThreshold),
			errors.New("must be within [0,1]"))
	}

	if m.KeywordTopN < 1 {
		return ierrors.NewConfigError("matching.keyword_top_n", strconv.Itoa(m.KeywordTopN),
			errors.New("must be at least 1"))
	}

	if m.MaxSuggestions < 0 {
		return ierrors.NewConfigError("matching.max_suggestions", strconv.Itoa(m.MaxSuggestions),
			errors.New("cannot be negative"))
	}

	if m.SuggestionsPerKeyword < 0 {
		return ierrors.NewConfigError("matching.suggestions_per_keyword", strconv.Itoa(m.SuggestionsPerKeyword),
			errors.New("cannot be negative"))
	}

	// An empty algorithm means Levenshtein
	if err := semantic.NewFuzzyMatcher(m.FuzzyThreshold, m.FuzzyAlgorithm).ValidateConfig(); err != nil {
		return ierrors.NewConfigError("matching.fuzzy_algorithm", m.FuzzyAlgorithm, err)
	}

	if m.FoldAccents && !m.Normalize {
		return ierrors.NewConfigError("matching.fold_accents", "true",
			errors.New("accent folding requires matching.normalize"))
	}

	return nil
}

// validateClassifierConfig validates the label list
func (v *Validator) validateClassifierConfig(c *Classifier) error {
	if len(c.Labels) == 0 {
		return ierrors.NewConfigError("classifier.labels", "[]", errors.New("at least one label is required"))
	}
	seen := make(map[string]bool, len(c.Labels))
	for _, label := range c.Labels {
		if label == "" {
			return ierrors.NewConfigError("classifier.labels", fmt.Sprint(c.Labels), errors.New("labels cannot be empty"))
		}
		if seen[label] {
			return ierrors.NewConfigError("classifier.labels", label, errors.New("duplicate label"))
		}
		seen[label] = true
	}
	return nil
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Leave one core for the caller, minimum of 1
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = "innolearn"
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
