package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Alishbarana/InnoLearn/internal/classifier"
	"github.com/Alishbarana/InnoLearn/internal/recognition"
	"github.com/Alishbarana/InnoLearn/internal/semantic"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// Config file names searched by LoadFromDir, in order
const (
	KDLFileName  = ".innolearn.kdl"
	TOMLFileName = ".innolearn.toml"
)

type Config struct {
	Version    int
	Vocabulary Vocabulary
	Matching   Matching
	Classifier Classifier
	Cache      Cache
	Batch      Batch
	Server     Server
}

type Vocabulary struct {
	Path            string // KDL vocabulary file; empty uses the built-in table
	Watch           bool   // Reload Path when it changes
	WatchDebounceMs int    // Debounce time for vocabulary file events
}

type Matching struct {
	ExactConfidence       float64
	KeywordWeight         float64
	KeywordMinConfidence  float64
	KeywordTopN           int
	FuzzyThreshold        float64 // Similarity must be strictly above
	FuzzyWeight           float64
	FuzzyAlgorithm        string // "levenshtein" or "jaro-winkler"
	PartialConfidence     float64
	MaxSuggestions        int
	SuggestionsPerKeyword int

	Stemming    bool // Porter2 stems in the keyword stage
	Normalize   bool // NFKC normalization of incoming text
	FoldAccents bool // Strip combining marks after normalization
}

type Classifier struct {
	StableSoftmax bool     // Always subtract the max logit
	Labels        []string // Label order of the score source
}

type Cache struct {
	Size int // Lexical results kept; 0 disables caching
}

type Batch struct {
	Workers int // 0 = auto-detect (NumCPU-1)
}

type Server struct {
	Name string // Implementation name announced over MCP
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	th := semantic.DefaultThresholds
	return &Config{
		Version: 1,
		Vocabulary: Vocabulary{
			WatchDebounceMs: int(vocabulary.DefaultReloadDebounce / time.Millisecond),
		},
		Matching: Matching{
			ExactConfidence:       th.ExactConfidence,
			KeywordWeight:         th.KeywordWeight,
			KeywordMinConfidence:  th.KeywordMinConfidence,
			KeywordTopN:           th.KeywordTopN,
			FuzzyThreshold:        th.FuzzyMinSimilarity,
			FuzzyWeight:           th.FuzzyWeight,
			FuzzyAlgorithm:        semantic.AlgorithmLevenshtein,
			PartialConfidence:     th.PartialConfidence,
			MaxSuggestions:        th.MaxSuggestions,
			SuggestionsPerKeyword: th.SuggestionsPerKeyword,
			Normalize:             true,
		},
		Classifier: Classifier{
			Labels: append([]string(nil), classifier.DefaultLabels...),
		},
		Cache: Cache{Size: 256},
		Batch: Batch{Workers: max(1, runtime.NumCPU()-1)},
		Server: Server{Name: "innolearn"},
	}
}

// Load reads an explicit config file. The format follows the extension:
// .toml is TOML, anything else is KDL. Relative vocabulary paths resolve
// against the config file's directory.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = parseTOML(content)
	} else {
		cfg, err = parseKDL(string(content))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Vocabulary.Path != "" && !filepath.IsAbs(cfg.Vocabulary.Path) {
		cfg.Vocabulary.Path = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Vocabulary.Path))
	}
	return cfg, nil
}

// LoadFromDir looks for a config file in dir, then in the user's home
// directory. Defaults are returned when neither has one.
func LoadFromDir(dir string) (*Config, error) {
	dirs := []string{dir}
	if home, err := os.UserHomeDir(); err == nil && home != dir {
		dirs = append(dirs, home)
	}
	for _, d := range dirs {
		for _, name := range []string{KDLFileName, TOMLFileName} {
			path := filepath.Join(d, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			return Load(path)
		}
	}
	return Default(), nil
}

// Thresholds converts the matching section to cascade thresholds
func (c *Config) Thresholds() semantic.Thresholds {
	m := c.Matching
	return semantic.Thresholds{
		ExactConfidence:       m.ExactConfidence,
		KeywordWeight:         m.KeywordWeight,
		KeywordMinConfidence:  m.KeywordMinConfidence,
		KeywordTopN:           m.KeywordTopN,
		FuzzyMinSimilarity:    m.FuzzyThreshold,
		FuzzyWeight:           m.FuzzyWeight,
		PartialConfidence:     m.PartialConfidence,
		MaxSuggestions:        m.MaxSuggestions,
		SuggestionsPerKeyword: m.SuggestionsPerKeyword,
	}
}

// RecognitionOptions converts the config to recognizer options
func (c *Config) RecognitionOptions() recognition.Options {
	return recognition.Options{
		Matching: semantic.Options{
			Thresholds:     c.Thresholds(),
			FuzzyAlgorithm: c.Matching.FuzzyAlgorithm,
			Stemming:       c.Matching.Stemming,
			Normalize:      c.Matching.Normalize,
			FoldAccents:    c.Matching.FoldAccents,
		},
		Classifier:   classifier.Options{StableSoftmax: c.Classifier.StableSoftmax},
		CacheSize:    c.Cache.Size,
		BatchWorkers: c.Batch.Workers,
	}
}

// LoadVocabulary returns the table named by Vocabulary.Path, or the
// built-in table when no path is set
func (c *Config) LoadVocabulary() (*vocabulary.Table, error) {
	if c.Vocabulary.Path == "" {
		return vocabulary.Default(), nil
	}
	return vocabulary.Load(c.Vocabulary.Path)
}

// WatchDebounce returns the vocabulary reload debounce as a duration
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Vocabulary.WatchDebounceMs) * time.Millisecond
}
