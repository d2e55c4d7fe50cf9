package semantic

import "fmt"

// Thresholds configures the confidence each stage reports and the cut-offs
// that decide whether a stage wins
type Thresholds struct {
	ExactConfidence float64 // stage 1

	KeywordWeight        float64 // matching/formKeywords * KeywordWeight
	KeywordMinConfidence float64 // top candidate must be strictly above
	KeywordTopN          int     // candidates attached as allMatches

	FuzzyMinSimilarity float64 // best similarity must be strictly above
	FuzzyWeight        float64 // similarity * FuzzyWeight

	PartialConfidence float64 // stage 4

	MaxSuggestions        int // total suggestions on a miss
	SuggestionsPerKeyword int
}

// DefaultThresholds reproduces the reference cascade
var DefaultThresholds = Thresholds{
	ExactConfidence: 95,

	KeywordWeight:        90,
	KeywordMinConfidence: 60,
	KeywordTopN:          3,

	FuzzyMinSimilarity: 0.6,
	FuzzyWeight:        85,

	PartialConfidence: 70,

	MaxSuggestions:        5,
	SuggestionsPerKeyword: 2,
}

// MaxConfidence caps every reported confidence
const MaxConfidence = 100.0

// Validate checks that thresholds are usable
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"exact_confidence":       t.ExactConfidence,
		"keyword_weight":         t.KeywordWeight,
		"keyword_min_confidence": t.KeywordMinConfidence,
		"fuzzy_weight":           t.FuzzyWeight,
		"partial_confidence":     t.PartialConfidence,
	} {
		if v < 0 || v > MaxConfidence {
			return fmt.Errorf("%s must be within [0,100], got %.2f", name, v)
		}
	}
	if t.FuzzyMinSimilarity < 0 || t.FuzzyMinSimilarity > 1 {
		return fmt.Errorf("fuzzy_min_similarity must be within [0,1], got %.2f", t.FuzzyMinSimilarity)
	}
	if t.KeywordTopN < 1 {
		return fmt.Errorf("keyword_top_n must be at least 1, got %d", t.KeywordTopN)
	}
	if t.MaxSuggestions < 0 || t.SuggestionsPerKeyword < 0 {
		return fmt.Errorf("suggestion limits must not be negative")
	}
	return nil
}

// Options configures a Matcher
type Options struct {
	Thresholds     Thresholds
	FuzzyAlgorithm string // levenshtein (default) or jaro-winkler
	Stemming       bool   // Porter2 stems in the keyword stage
	Normalize      bool   // NFKC + control character cleanup
	FoldAccents    bool   // strip combining marks, requires Normalize
}

// DefaultOptions returns options that reproduce the reference cascade
func DefaultOptions() Options {
	return Options{
		Thresholds:     DefaultThresholds,
		FuzzyAlgorithm: AlgorithmLevenshtein,
		Normalize:      true,
	}
}
