package semantic

import "strings"

// MinKeywordLength is the shortest token kept by ExtractKeywords
const MinKeywordLength = 3

// StopWords reports whether a lower-cased token should be dropped
type StopWords interface {
	IsStopWord(word string) bool
}

// ExtractKeywords lower-cases text, treats every character outside
// [A-Za-z0-9_] as a separator, and drops tokens shorter than
// MinKeywordLength and stop words. Order and duplicates are preserved.
func ExtractKeywords(text string, stop StopWords) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < MinKeywordLength {
			continue
		}
		if stop != nil && stop.IsStopWord(f) {
			continue
		}
		keywords = append(keywords, f)
	}
	return keywords
}

func isSeparator(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return false
	}
	return true
}
