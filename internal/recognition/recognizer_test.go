package recognition

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Alishbarana/InnoLearn/internal/classifier"
	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
	"github.com/Alishbarana/InnoLearn/internal/types"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubOCR maps image handles to text
type stubOCR map[types.ImageHandle]string

func (s stubOCR) ExtractText(_ context.Context, image types.ImageHandle) (string, error) {
	text, ok := s[image]
	if !ok {
		return "", fmt.Errorf("cannot read %s", image)
	}
	return text, nil
}

func newRecognizer(t *testing.T, opts Options) *Recognizer {
	t.Helper()
	ocr := stubOCR{
		"board.jpg": "The Stack Overflow occurred during push operation",
		"blank.jpg": "   ",
		"typo.jpg":  "fierwal",
	}
	scores := classifier.ScoreSourceFunc(func(context.Context, types.ImageHandle) (classifier.Output, error) {
		raw := make([]float64, len(classifier.DefaultLabels))
		raw[0] = 1
		return classifier.Output{Labels: classifier.DefaultLabels, RawScores: raw}, nil
	})
	return New(vocabulary.NewHolder(nil), ocr, scores, opts)
}

func TestRecognizeFromText(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())
	ctx := context.Background()

	result := r.RecognizeFromText(ctx, "the stack overflow occurred during push operation")
	assert.Equal(t, types.MatchExact, result.MatchType)
	assert.Equal(t, "stack", result.RecognizedTerm)
	assert.Equal(t, 95.0, result.Confidence)

	for _, blank := range []string{"", "   "} {
		assert.Equal(t, types.MatchNoText, r.RecognizeFromText(ctx, blank).MatchType)
	}
}

func TestRecognizeFromText_CancelledContext(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.RecognizeFromText(ctx, "stack")
	assert.Equal(t, types.MatchError, result.MatchType)
	assert.Equal(t, context.Canceled.Error(), result.Error)
}

func TestRecognizeFromCapture(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())
	ctx := context.Background()

	tests := []struct {
		image     types.ImageHandle
		matchType types.MatchType
		term      string
	}{
		{"board.jpg", types.MatchExact, "stack"},
		{"blank.jpg", types.MatchNoText, ""},
		{"typo.jpg", types.MatchFuzzy, "firewall"},
		{"missing.jpg", types.MatchError, ""},
	}
	for _, tc := range tests {
		t.Run(string(tc.image), func(t *testing.T) {
			result := r.RecognizeFromCapture(ctx, tc.image)
			assert.Equal(t, tc.matchType, result.MatchType)
			assert.Equal(t, tc.term, result.RecognizedTerm)
		})
	}

	failed := r.RecognizeFromCapture(ctx, "missing.jpg")
	assert.Contains(t, failed.Error, "cannot read missing.jpg")

	noOCR := New(vocabulary.NewHolder(nil), nil, nil, DefaultOptions())
	result := noOCR.RecognizeFromCapture(ctx, "board.jpg")
	assert.Equal(t, types.MatchError, result.MatchType)
	assert.Contains(t, result.Error, "no text extractor configured")
}

func TestRecognizeFromImage(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())

	result, err := r.RecognizeFromImage(context.Background(), "board.jpg")
	require.NoError(t, err)
	assert.Equal(t, types.MatchClassified, result.MatchType)
	assert.Equal(t, "array", result.RecognizedTerm)
	assert.Len(t, result.AllProbabilities, 10)

	unready := New(vocabulary.NewHolder(nil), nil, nil, DefaultOptions())
	_, err = unready.RecognizeFromImage(context.Background(), "board.jpg")
	assert.ErrorIs(t, err, ierrors.ErrNotInitialized)
	assert.Equal(t, int64(1), unready.Stats().Rejected)
}

func TestRecognizeFromImage_Busy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	scores := classifier.ScoreSourceFunc(func(context.Context, types.ImageHandle) (classifier.Output, error) {
		close(started)
		<-release
		return classifier.Output{Labels: []string{"queue", "stack"}, RawScores: []float64{0, 2}}, nil
	})
	r := New(vocabulary.NewHolder(nil), nil, scores, DefaultOptions())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, err := r.RecognizeFromImage(context.Background(), "first.jpg")
		assert.NoError(t, err)
		assert.Equal(t, "stack", result.RecognizedTerm)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("classification never started")
	}

	_, err := r.RecognizeFromImage(context.Background(), "second.jpg")
	assert.ErrorIs(t, err, ierrors.ErrBusy)

	// The lexical path is unaffected by a busy classifier
	assert.Equal(t, "queue", r.RecognizeFromText(context.Background(), "priority queue").RecognizedTerm)

	close(release)
	wg.Wait()
}

func TestRecognizeBatch_PreservesOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.BatchWorkers = 3
	r := newRecognizer(t, opts)

	texts := []string{
		"linked list",
		"",
		"fierwal",
		"photosynthesis in plants",
		"inspections packets",
		"osi model",
	}
	results, err := r.RecognizeBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	expected := []types.MatchType{
		types.MatchExact, types.MatchNoText, types.MatchFuzzy,
		types.MatchNone, types.MatchKeyword, types.MatchExact,
	}
	for i, result := range results {
		assert.Equal(t, expected[i], result.MatchType, "text %q", texts[i])
		if result.MatchType != types.MatchNoText {
			assert.Equal(t, texts[i], result.ExtractedText)
		}
	}
}

func TestRecognizeBatch_Cancelled(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RecognizeBatch(ctx, []string{"stack", "queue"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRecognizeBatch_Empty(t *testing.T) {
	results, err := newRecognizer(t, DefaultOptions()).RecognizeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCache_HitsReturnCopies(t *testing.T) {
	r := newRecognizer(t, DefaultOptions())
	ctx := context.Background()

	first := r.RecognizeFromText(ctx, "inspections packets")
	first.AllMatches[0].Term = "mutated"
	first.Keywords[0] = "mutated"

	second := r.RecognizeFromText(ctx, "inspections packets")
	assert.Equal(t, "packet inspection", second.AllMatches[0].Term)
	assert.Equal(t, "inspections", second.Keywords[0])

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, 1, stats.CacheSize)

	r.ResetCache()
	assert.Equal(t, 0, r.Stats().CacheSize)
}

func TestCache_InvalidatedBySwap(t *testing.T) {
	holder := vocabulary.NewHolder(nil)
	r := New(holder, nil, nil, DefaultOptions())
	ctx := context.Background()

	assert.Equal(t, "stack", r.RecognizeFromText(ctx, "heap and stack").RecognizedTerm)

	heap, err := vocabulary.New([]vocabulary.Category{{ID: "heap", SurfaceForms: []string{"heap"}}}, nil, nil)
	require.NoError(t, err)
	holder.Swap(heap)

	assert.Equal(t, "heap", r.RecognizeFromText(ctx, "heap and stack").RecognizedTerm)
}

func TestCache_Eviction(t *testing.T) {
	c := newResultCache(2)
	table := vocabulary.Default()
	for _, text := range []string{"a", "b", "c"} {
		c.set(text, table, &types.RecognitionResult{MatchType: types.MatchNone, ExtractedText: text})
	}
	assert.Equal(t, 2, c.size())
	_, ok := c.get("a", table)
	assert.False(t, ok, "oldest entry is evicted")
	got, ok := c.get("c", table)
	require.True(t, ok)
	assert.Equal(t, "c", got.ExtractedText)

	assert.Nil(t, newResultCache(0), "zero size disables caching")
}

func TestStats(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheSize = 0
	r := newRecognizer(t, opts)
	ctx := context.Background()

	r.RecognizeFromText(ctx, "stack")
	r.RecognizeFromText(ctx, "queue")
	r.RecognizeFromText(ctx, "")
	r.RecognizeFromCapture(ctx, "missing.jpg")
	_, err := r.RecognizeFromImage(ctx, "board.jpg")
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(2), stats.ByMatchType[types.MatchExact])
	assert.Equal(t, int64(1), stats.ByMatchType[types.MatchNoText])
	assert.Equal(t, int64(1), stats.ByMatchType[types.MatchError])
	assert.Equal(t, int64(1), stats.ByMatchType[types.MatchClassified])
	assert.Equal(t, 0, stats.CacheSize)
	assert.Contains(t, stats.String(), "exact=2")
}
