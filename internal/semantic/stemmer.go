package semantic

import (
	"strings"

	"github.com/surgebase/porter2"
)

// Stemmer reduces keywords to their Porter2 stems so that "sorting" and
// "sorted" overlap in the keyword stage
type Stemmer struct {
	enabled    bool
	minLength  int
	exclusions map[string]bool
}

// NewStemmer creates a stemmer. Words shorter than minLength and exclusions
// pass through unchanged.
func NewStemmer(enabled bool, minLength int, exclusions []string) *Stemmer {
	if minLength < 0 {
		minLength = MinKeywordLength
	}
	ex := make(map[string]bool, len(exclusions))
	for _, w := range exclusions {
		ex[strings.ToLower(w)] = true
	}
	return &Stemmer{
		enabled:    enabled,
		minLength:  minLength,
		exclusions: ex,
	}
}

// IsEnabled checks if stemming is enabled
func (s *Stemmer) IsEnabled() bool {
	return s != nil && s.enabled
}

// Stem returns the stem of a word, or the word itself when stemming is
// disabled or the word is excluded
func (s *Stemmer) Stem(word string) string {
	if !s.IsEnabled() {
		return word
	}
	if s.exclusions[word] || len(word) < s.minLength {
		return word
	}
	return porter2.Stem(word)
}

// StemAll applies Stem to every word. When disabled the input slice is
// returned as is.
func (s *Stemmer) StemAll(words []string) []string {
	if !s.IsEnabled() {
		return words
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = s.Stem(w)
	}
	return out
}
