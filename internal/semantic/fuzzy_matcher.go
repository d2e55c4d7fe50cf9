package semantic

import (
	"fmt"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

const (
	AlgorithmLevenshtein = "levenshtein"
	AlgorithmJaroWinkler = "jaro-winkler"
)

// Distance returns the Levenshtein edit distance between a and b, counted in
// runes with unit cost for insertion, deletion and substitution.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// Similarity returns (max(len) - Distance) / max(len) in [0,1]. Two empty
// strings are identical.
func Similarity(a, b string) float64 {
	longer := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-Distance(a, b)) / float64(longer)
}

// FuzzyMatcher scores string similarity for the fuzzy stage
type FuzzyMatcher struct {
	threshold float64
	algorithm string
}

// NewFuzzyMatcher creates a fuzzy matcher. Out-of-range thresholds fall back
// to DefaultThresholds.FuzzyMinSimilarity and an empty algorithm means
// Levenshtein.
func NewFuzzyMatcher(threshold float64, algorithm string) *FuzzyMatcher {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThresholds.FuzzyMinSimilarity
	}
	if algorithm == "" {
		algorithm = AlgorithmLevenshtein
	}
	return &FuzzyMatcher{
		threshold: threshold,
		algorithm: algorithm,
	}
}

// Threshold returns the configured similarity threshold
func (fm *FuzzyMatcher) Threshold() float64 {
	return fm.threshold
}

// Algorithm returns the configured algorithm name
func (fm *FuzzyMatcher) Algorithm() string {
	return fm.algorithm
}

// Qualifies reports whether a score clears the threshold. The comparison is
// strict.
func (fm *FuzzyMatcher) Qualifies(score float64) bool {
	return score > fm.threshold
}

// Similarity returns the similarity score between two strings (0.0-1.0)
func (fm *FuzzyMatcher) Similarity(a, b string) float64 {
	switch fm.algorithm {
	case AlgorithmJaroWinkler:
		return jaroWinkler(a, b)
	default:
		return Similarity(a, b)
	}
}

func jaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// ValidateConfig validates fuzzy matcher configuration
func (fm *FuzzyMatcher) ValidateConfig() error {
	if fm.threshold < 0 || fm.threshold > 1 {
		return fmt.Errorf("invalid threshold: %.2f (must be 0-1)", fm.threshold)
	}
	switch fm.algorithm {
	case AlgorithmLevenshtein, AlgorithmJaroWinkler:
		return nil
	}
	return fmt.Errorf("invalid algorithm: %s (must be levenshtein or jaro-winkler)", fm.algorithm)
}
