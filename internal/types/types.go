package types

import (
	"encoding/json"
	"fmt"
)

// ImageHandle is an opaque reference (URI or path) to a captured image. The
// core never opens it; collaborators do.
type ImageHandle string

// MatchType tags how a RecognitionResult was produced
type MatchType string

const (
	MatchExact      MatchType = "exact"      // surface form found inside the text
	MatchKeyword    MatchType = "keyword"    // keyword overlap above threshold
	MatchFuzzy      MatchType = "fuzzy"      // edit-distance similarity above threshold
	MatchPartial    MatchType = "partial"    // keyword and surface form share a substring
	MatchSuggestion MatchType = "suggestion" // reserved; the cascade never produces it
	MatchNone       MatchType = "none"       // nothing matched, suggestions may be present
	MatchNoText     MatchType = "no_text"    // empty or whitespace-only input
	MatchError      MatchType = "error"      // collaborator failure
	MatchClassified MatchType = "classified" // classifier path succeeded
)

// AllMatchTypes lists every match type in a stable order
var AllMatchTypes = []MatchType{
	MatchExact, MatchKeyword, MatchFuzzy, MatchPartial, MatchSuggestion,
	MatchNone, MatchNoText, MatchError, MatchClassified,
}

// String implements fmt.Stringer
func (m MatchType) String() string {
	return string(m)
}

// Valid reports whether m is one of the known match types
func (m MatchType) Valid() bool {
	for _, known := range AllMatchTypes {
		if m == known {
			return true
		}
	}
	return false
}

// Candidate is one ranked alternative from the keyword stage
type Candidate struct {
	Category   string  `json:"category"`
	Term       string  `json:"term"`
	Confidence float64 `json:"confidence"`
}

// Probability is one row of the classifier's ranked table, in percent
type Probability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// RecognitionResult is the single outcome type shared by the lexical and
// classifier paths. RecognizedTerm is empty when nothing was recognized and
// serializes as null in that case.
type RecognitionResult struct {
	RecognizedTerm   string        `json:"recognizedTerm"`
	SpecificTerm     string        `json:"specificTerm,omitempty"`
	Confidence       float64       `json:"confidence"`
	MatchType        MatchType     `json:"matchType"`
	ExtractedText    string        `json:"extractedText,omitempty"`
	Keywords         []string      `json:"keywords,omitempty"`
	AllMatches       []Candidate   `json:"allMatches,omitempty"`
	AllProbabilities []Probability `json:"allProbabilities,omitempty"`
	Suggestions      []string      `json:"suggestions,omitempty"`
	RawScores        []float64     `json:"rawScores,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// resultAlias drops the methods so the custom codec does not recurse
type resultAlias RecognitionResult

type resultWire struct {
	RecognizedTerm *string `json:"recognizedTerm"`
	*resultAlias
}

// MarshalJSON writes recognizedTerm as null when it is empty
func (r RecognitionResult) MarshalJSON() ([]byte, error) {
	alias := resultAlias(r)
	wire := resultWire{resultAlias: &alias}
	if r.RecognizedTerm != "" {
		term := r.RecognizedTerm
		wire.RecognizedTerm = &term
	}
	return json.Marshal(wire)
}

// UnmarshalJSON accepts recognizedTerm as a string or null
func (r *RecognitionResult) UnmarshalJSON(data []byte) error {
	var alias resultAlias
	wire := resultWire{resultAlias: &alias}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = RecognitionResult(alias)
	r.RecognizedTerm = ""
	if wire.RecognizedTerm != nil {
		r.RecognizedTerm = *wire.RecognizedTerm
	}
	return nil
}

// IsMatch reports whether a term was recognized
func (r *RecognitionResult) IsMatch() bool {
	switch r.MatchType {
	case MatchExact, MatchKeyword, MatchFuzzy, MatchPartial, MatchClassified:
		return r.RecognizedTerm != ""
	}
	return false
}

// IsFailure reports whether the result carries a failure rather than a match
// outcome.
func (r *RecognitionResult) IsFailure() bool {
	return r.MatchType == MatchNoText || r.MatchType == MatchError
}

// Clone returns a deep copy so cached results can be handed out safely
func (r *RecognitionResult) Clone() *RecognitionResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Keywords = cloneSlice(r.Keywords)
	c.AllMatches = cloneSlice(r.AllMatches)
	c.AllProbabilities = cloneSlice(r.AllProbabilities)
	c.Suggestions = cloneSlice(r.Suggestions)
	c.RawScores = cloneSlice(r.RawScores)
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// ToMap converts the result into plain key-value form using the JSON field names
func (r *RecognitionResult) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode result map: %w", err)
	}
	return m, nil
}

// FromMap rebuilds a result from plain key-value form
func FromMap(m map[string]interface{}) (*RecognitionResult, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result map: %w", err)
	}
	var r RecognitionResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if !r.MatchType.Valid() {
		return nil, fmt.Errorf("unknown match type %q", r.MatchType)
	}
	return &r, nil
}

// NoTextResult is the outcome for empty or whitespace-only text
func NoTextResult() *RecognitionResult {
	return &RecognitionResult{
		MatchType: MatchNoText,
		Error:     "No text found in image",
	}
}

// ErrorResult is the outcome for a collaborator failure
func ErrorResult(err error) *RecognitionResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &RecognitionResult{
		MatchType: MatchError,
		Error:     msg,
	}
}
