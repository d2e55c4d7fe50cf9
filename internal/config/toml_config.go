package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile mirrors Config for .innolearn.toml. Pointer fields distinguish
// "absent" from zero so defaults survive partial files.
type tomlFile struct {
	Version    *int `toml:"version"`
	Vocabulary struct {
		Path            *string `toml:"path"`
		Watch           *bool   `toml:"watch"`
		WatchDebounceMs *int    `toml:"watch_debounce_ms"`
	} `toml:"vocabulary"`
	Matching struct {
		ExactConfidence       *float64 `toml:"exact_confidence"`
		KeywordWeight         *float64 `toml:"keyword_weight"`
		KeywordMinConfidence  *float64 `toml:"keyword_min_confidence"`
		KeywordTopN           *int     `toml:"keyword_top_n"`
		FuzzyThreshold        *float64 `toml:"fuzzy_threshold"`
		FuzzyWeight           *float64 `toml:"fuzzy_weight"`
		FuzzyAlgorithm        *string  `toml:"fuzzy_algorithm"`
		PartialConfidence     *float64 `toml:"partial_confidence"`
		MaxSuggestions        *int     `toml:"max_suggestions"`
		SuggestionsPerKeyword *int     `toml:"suggestions_per_keyword"`
		Stemming              *bool    `toml:"stemming"`
		Normalize             *bool    `toml:"normalize"`
		FoldAccents           *bool    `toml:"fold_accents"`
	} `toml:"matching"`
	Classifier struct {
		StableSoftmax *bool    `toml:"stable_softmax"`
		Labels        []string `toml:"labels"`
	} `toml:"classifier"`
	Cache struct {
		Size *int `toml:"size"`
	} `toml:"cache"`
	Batch struct {
		Workers *int `toml:"workers"`
	} `toml:"batch"`
	Server struct {
		Name *string `toml:"name"`
	} `toml:"server"`
}

func parseTOML(content []byte) (*Config, error) {
	var f tomlFile
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default()
	set(&cfg.Version, f.Version)

	set(&cfg.Vocabulary.Path, f.Vocabulary.Path)
	set(&cfg.Vocabulary.Watch, f.Vocabulary.Watch)
	set(&cfg.Vocabulary.WatchDebounceMs, f.Vocabulary.WatchDebounceMs)

	m, fm := &cfg.Matching, f.Matching
	set(&m.ExactConfidence, fm.ExactConfidence)
	set(&m.KeywordWeight, fm.KeywordWeight)
	set(&m.KeywordMinConfidence, fm.KeywordMinConfidence)
	set(&m.KeywordTopN, fm.KeywordTopN)
	set(&m.FuzzyThreshold, fm.FuzzyThreshold)
	set(&m.FuzzyWeight, fm.FuzzyWeight)
	set(&m.FuzzyAlgorithm, fm.FuzzyAlgorithm)
	set(&m.PartialConfidence, fm.PartialConfidence)
	set(&m.MaxSuggestions, fm.MaxSuggestions)
	set(&m.SuggestionsPerKeyword, fm.SuggestionsPerKeyword)
	set(&m.Stemming, fm.Stemming)
	set(&m.Normalize, fm.Normalize)
	set(&m.FoldAccents, fm.FoldAccents)

	set(&cfg.Classifier.StableSoftmax, f.Classifier.StableSoftmax)
	if f.Classifier.Labels != nil {
		cfg.Classifier.Labels = f.Classifier.Labels
	}

	set(&cfg.Cache.Size, f.Cache.Size)
	set(&cfg.Batch.Workers, f.Batch.Workers)
	set(&cfg.Server.Name, f.Server.Name)

	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
