// Package semantic implements the lexical side of term recognition: turning
// free-form OCR text into a match against the vocabulary.
//
// # Matching Cascade
//
// Stages run in strict priority order and the first one that yields a
// qualifying candidate wins:
//
//  1. Exact - a surface form occurs inside the text (confidence 95)
//  2. Keyword - keyword overlap with a surface form, kept only above 60
//  3. Fuzzy - Levenshtein similarity with a surface form above 0.6
//  4. Partial - a keyword and a surface form contain one another (70)
//  5. None - no match; up to five suggestions derived from the keywords
//
// Thresholds and weights live in Thresholds; DefaultThresholds reproduces the
// behaviour above.
//
// # Core Components
//
// Matcher: the entry point. It owns a precomputed Index of the vocabulary and
// rebuilds it when the vocabulary table it reads from is swapped.
//
// FuzzyMatcher: similarity scoring on top of go-edlib. Levenshtein is the
// default; Jaro-Winkler is available for experimentation.
//
// Stemmer: optional Porter2 stemming of keywords in the keyword stage. Off by
// default.
//
// Normalizer: NFKC normalization and optional accent folding applied to OCR
// text before matching.
//
// # Usage Example
//
//	m := semantic.NewMatcher(vocabulary.NewHolder(nil), semantic.DefaultOptions())
//	result := m.Match("the stack overflow occurred during push operation")
//	// result.RecognizedTerm == "stack", result.MatchType == types.MatchExact
package semantic
