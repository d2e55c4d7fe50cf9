package semantic

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	"github.com/Alishbarana/InnoLearn/internal/types"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// TableSource supplies the vocabulary in effect. vocabulary.Holder
// implements it.
type TableSource interface {
	Current() *vocabulary.Table
}

// Matcher runs the lexical cascade. It holds no per-call state and is safe
// for concurrent use.
type Matcher struct {
	source     TableSource
	thresholds Thresholds
	stemmer    *Stemmer
	fuzzy      *FuzzyMatcher
	normalizer *Normalizer
	stages     []Stage

	index   atomic.Pointer[Index]
	buildMu sync.Mutex
}

// NewMatcher creates a matcher reading its vocabulary from source. Zero
// thresholds are replaced by DefaultThresholds.
func NewMatcher(source TableSource, opts Options) *Matcher {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds
	}
	fuzzy := NewFuzzyMatcher(opts.Thresholds.FuzzyMinSimilarity, opts.FuzzyAlgorithm)
	m := &Matcher{
		source:     source,
		thresholds: opts.Thresholds,
		stemmer:    NewStemmer(opts.Stemming, MinKeywordLength, nil),
		fuzzy:      fuzzy,
		stages:     DefaultStages(fuzzy),
	}
	if opts.Normalize {
		m.normalizer = NewNormalizer(opts.FoldAccents)
	}
	return m
}

// Index returns the index for the current vocabulary, rebuilding it when the
// table has been swapped since the last call
func (m *Matcher) Index() *Index {
	table := m.source.Current()
	if idx := m.index.Load(); idx != nil && idx.table == table {
		return idx
	}

	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	if idx := m.index.Load(); idx != nil && idx.table == table {
		return idx
	}
	idx := NewIndex(table, m.stemmer)
	m.index.Store(idx)
	debug.LogMatch("index built: %d surface forms\n", idx.Len())
	return idx
}

// Prepare normalizes text and extracts its keywords
func (m *Matcher) Prepare(text string, stop StopWords) *Input {
	normalized := text
	if m.normalizer != nil {
		normalized = m.normalizer.Normalize(text)
	}
	keywords := ExtractKeywords(normalized, stop)
	return &Input{
		Text:     text,
		Lower:    strings.ToLower(normalized),
		Keywords: keywords,
		Stems:    m.stemmer.StemAll(keywords),
	}
}

// Match recognizes text. Empty or whitespace-only text yields a no_text
// result; otherwise the first winning stage decides, and a miss carries
// suggestions. The result always echoes the input text and its keywords.
func (m *Matcher) Match(text string) *types.RecognitionResult {
	if strings.TrimSpace(text) == "" {
		return types.NoTextResult()
	}

	idx := m.Index()
	in := m.Prepare(text, idx.Table())

	for _, stage := range m.stages {
		if result, ok := stage.Detect(in, idx, m.thresholds); ok {
			return m.finish(result, in)
		}
	}

	debug.LogMatch("no match for %q\n", in.Lower)
	return m.finish(&types.RecognitionResult{
		MatchType:   types.MatchNone,
		Suggestions: Suggest(in.Keywords, idx, m.thresholds),
	}, in)
}

func (m *Matcher) finish(r *types.RecognitionResult, in *Input) *types.RecognitionResult {
	r.ExtractedText = in.Text
	r.Keywords = append([]string{}, in.Keywords...)
	return r
}
