package semantic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer cleans OCR text before matching: NFKC folds ligatures and
// full-width forms, control characters other than line breaks and tabs are
// dropped, and accents are optionally stripped.
type Normalizer struct {
	foldAccents bool
}

// NewNormalizer creates a normalizer
func NewNormalizer(foldAccents bool) *Normalizer {
	return &Normalizer{foldAccents: foldAccents}
}

// Normalize returns the normalized form of s. Whitespace is not trimmed so
// similarity scores see the same length the caller sent.
func (n *Normalizer) Normalize(s string) string {
	out := norm.NFKC.String(s)
	out = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, out)

	if n != nil && n.foldAccents {
		// Chains carry state, so build one per call.
		strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(strip, out); err == nil {
			out = folded
		}
	}
	return out
}
