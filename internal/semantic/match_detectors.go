package semantic

import (
	"slices"
	"strings"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	"github.com/Alishbarana/InnoLearn/internal/types"
)

// Input is the text under recognition, prepared once for every stage
type Input struct {
	Text     string   // as received, echoed in the result
	Lower    string   // normalized and lower-cased
	Keywords []string // ExtractKeywords of the normalized text
	Stems    []string // equal to Keywords when stemming is off
}

// Stage is one step of the matching cascade. Detect returns a result and
// true when the stage wins; later stages are not consulted then.
type Stage interface {
	Name() string
	Detect(in *Input, idx *Index, th Thresholds) (*types.RecognitionResult, bool)
}

// ExactStage wins when a surface form occurs inside the text. The first
// form in declaration order wins.
type ExactStage struct{}

func (ExactStage) Name() string { return "exact" }

func (ExactStage) Detect(in *Input, idx *Index, th Thresholds) (*types.RecognitionResult, bool) {
	for _, e := range idx.entries {
		if strings.Contains(in.Lower, e.Lower) {
			debug.LogMatch("exact: %q contains %q (%s)\n", in.Lower, e.Lower, e.Category)
			return &types.RecognitionResult{
				RecognizedTerm: e.Category,
				SpecificTerm:   e.Form,
				Confidence:     th.ExactConfidence,
				MatchType:      types.MatchExact,
			}, true
		}
	}
	return nil, false
}

// KeywordStage scores every surface form by how many input keywords overlap
// its own keywords, substring in either direction. The best candidate wins
// only when strictly above KeywordMinConfidence.
type KeywordStage struct{}

func (KeywordStage) Name() string { return "keyword" }

func (KeywordStage) Detect(in *Input, idx *Index, th Thresholds) (*types.RecognitionResult, bool) {
	if len(in.Stems) == 0 {
		return nil, false
	}

	var candidates []types.Candidate
	for _, e := range idx.entries {
		if len(e.Stems) == 0 {
			continue
		}
		matching := 0
		for _, kw := range in.Stems {
			if overlapsAny(kw, e.Stems) {
				matching++
			}
		}
		if matching == 0 {
			continue
		}
		confidence := float64(matching) / float64(len(e.Stems)) * th.KeywordWeight
		candidates = append(candidates, types.Candidate{
			Category:   e.Category,
			Term:       e.Form,
			Confidence: min(confidence, MaxConfidence),
		})
	}
	if len(candidates) == 0 {
		return nil, false
	}

	slices.SortStableFunc(candidates, func(a, b types.Candidate) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})

	top := candidates[0]
	if top.Confidence <= th.KeywordMinConfidence {
		debug.LogMatch("keyword: best %q at %.2f below threshold\n", top.Term, top.Confidence)
		return nil, false
	}

	n := min(th.KeywordTopN, len(candidates))
	return &types.RecognitionResult{
		RecognizedTerm: top.Category,
		SpecificTerm:   top.Term,
		Confidence:     top.Confidence,
		MatchType:      types.MatchKeyword,
		AllMatches:     slices.Clone(candidates[:n]),
	}, true
}

func overlapsAny(kw string, formKeywords []string) bool {
	for _, fk := range formKeywords {
		if strings.Contains(kw, fk) || strings.Contains(fk, kw) {
			return true
		}
	}
	return false
}

// FuzzyStage compares the whole text with every surface form and keeps the
// single best score. Ties keep the earlier form.
type FuzzyStage struct {
	Matcher *FuzzyMatcher
}

func (FuzzyStage) Name() string { return "fuzzy" }

func (s FuzzyStage) Detect(in *Input, idx *Index, th Thresholds) (*types.RecognitionResult, bool) {
	fm := s.Matcher
	if fm == nil {
		fm = NewFuzzyMatcher(th.FuzzyMinSimilarity, AlgorithmLevenshtein)
	}

	best, bestScore := -1, 0.0
	for i, e := range idx.entries {
		score := fm.Similarity(in.Lower, e.Lower)
		if fm.Qualifies(score) && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, false
	}

	e := idx.entries[best]
	debug.LogMatch("fuzzy: %q ~ %q score %.3f\n", in.Lower, e.Lower, bestScore)
	return &types.RecognitionResult{
		RecognizedTerm: e.Category,
		SpecificTerm:   e.Form,
		Confidence:     min(bestScore*th.FuzzyWeight, MaxConfidence),
		MatchType:      types.MatchFuzzy,
	}, true
}

// PartialStage wins on the first keyword that is contained in, or contains, a
// surface form. Keywords are the outer loop.
type PartialStage struct{}

func (PartialStage) Name() string { return "partial" }

func (PartialStage) Detect(in *Input, idx *Index, th Thresholds) (*types.RecognitionResult, bool) {
	for _, kw := range in.Keywords {
		for _, e := range idx.entries {
			if strings.Contains(e.Lower, kw) || strings.Contains(kw, e.Lower) {
				debug.LogMatch("partial: keyword %q ~ %q\n", kw, e.Lower)
				return &types.RecognitionResult{
					RecognizedTerm: e.Category,
					SpecificTerm:   e.Form,
					Confidence:     th.PartialConfidence,
					MatchType:      types.MatchPartial,
				}, true
			}
		}
	}
	return nil, false
}

// Suggest collects, for each keyword, up to SuggestionsPerKeyword surface
// forms containing it, and truncates the combined list to MaxSuggestions
func Suggest(keywords []string, idx *Index, th Thresholds) []string {
	suggestions := make([]string, 0, th.MaxSuggestions)
	for _, kw := range keywords {
		taken := 0
		for _, e := range idx.entries {
			if taken >= th.SuggestionsPerKeyword {
				break
			}
			if strings.Contains(e.Lower, kw) {
				suggestions = append(suggestions, e.Form)
				taken++
			}
		}
	}
	if len(suggestions) > th.MaxSuggestions {
		suggestions = suggestions[:th.MaxSuggestions]
	}
	return suggestions
}

// DefaultStages returns the cascade in priority order
func DefaultStages(fm *FuzzyMatcher) []Stage {
	return []Stage{
		ExactStage{},
		KeywordStage{},
		FuzzyStage{Matcher: fm},
		PartialStage{},
	}
}
