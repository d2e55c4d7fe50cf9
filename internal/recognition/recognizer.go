// Package recognition is the entry point used by callers: it routes text to
// the lexical matcher and images to the text extractor or the classifier,
// and always answers with a RecognitionResult.
package recognition

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Alishbarana/InnoLearn/internal/classifier"
	"github.com/Alishbarana/InnoLearn/internal/debug"
	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
	"github.com/Alishbarana/InnoLearn/internal/semantic"
	"github.com/Alishbarana/InnoLearn/internal/types"
)

// TextExtractor reads the text in an image (OCR)
type TextExtractor interface {
	ExtractText(ctx context.Context, image types.ImageHandle) (string, error)
}

// TextExtractorFunc adapts a function to TextExtractor
type TextExtractorFunc func(ctx context.Context, image types.ImageHandle) (string, error)

// ExtractText implements TextExtractor
func (f TextExtractorFunc) ExtractText(ctx context.Context, image types.ImageHandle) (string, error) {
	return f(ctx, image)
}

var errNoExtractor = errors.New("no text extractor configured")

// Options configures a Recognizer
type Options struct {
	Matching     semantic.Options
	Classifier   classifier.Options
	CacheSize    int // lexical results kept; 0 disables the cache
	BatchWorkers int // concurrent RecognizeBatch workers; 0 means GOMAXPROCS
}

// DefaultOptions returns the default recognizer configuration
func DefaultOptions() Options {
	return Options{
		Matching:  semantic.DefaultOptions(),
		CacheSize: 256,
	}
}

// Recognizer coordinates both recognition paths. The lexical path is safe
// for concurrent use; the image path admits one classification at a time.
type Recognizer struct {
	matcher    *semantic.Matcher
	extractor  TextExtractor
	classifier *classifier.Adapter
	cache      *resultCache
	stats      *counters
	workers    int
}

// New creates a recognizer. extractor and scores may be nil; the
// corresponding entry points then report an error result or
// ErrNotInitialized. A score source can be attached later via Classifier().
func New(vocab semantic.TableSource, extractor TextExtractor, scores classifier.ScoreSource, opts Options) *Recognizer {
	workers := opts.BatchWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Recognizer{
		matcher:    semantic.NewMatcher(vocab, opts.Matching),
		extractor:  extractor,
		classifier: classifier.NewAdapter(scores, opts.Classifier),
		cache:      newResultCache(opts.CacheSize),
		stats:      newCounters(),
		workers:    workers,
	}
}

// Matcher exposes the lexical matcher
func (r *Recognizer) Matcher() *semantic.Matcher {
	return r.matcher
}

// Classifier exposes the classifier adapter, e.g. to attach a score source
// once the model has loaded
func (r *Recognizer) Classifier() *classifier.Adapter {
	return r.classifier
}

// RecognizeFromText runs the lexical cascade on text the caller already
// has. It never fails; failures are encoded in the result.
func (r *Recognizer) RecognizeFromText(ctx context.Context, text string) *types.RecognitionResult {
	if err := ctx.Err(); err != nil {
		return r.record(types.ErrorResult(err))
	}

	if r.cache == nil {
		return r.record(r.matcher.Match(text))
	}

	table := r.matcher.Index().Table()
	if cached, ok := r.cache.get(text, table); ok {
		return r.record(cached)
	}
	result := r.matcher.Match(text)
	if !result.IsFailure() {
		r.cache.set(text, table, result)
	}
	return r.record(result)
}

// RecognizeFromCapture extracts text from image and recognizes it. An
// extraction failure becomes an error result.
func (r *Recognizer) RecognizeFromCapture(ctx context.Context, image types.ImageHandle) *types.RecognitionResult {
	if r.extractor == nil {
		return r.record(types.ErrorResult(ierrors.NewExtractionError(string(image), errNoExtractor)))
	}
	text, err := r.extractor.ExtractText(ctx, image)
	if err != nil {
		debug.LogMatch("extraction failed for %s: %v\n", image, err)
		return r.record(types.ErrorResult(ierrors.NewExtractionError(string(image), err)))
	}
	return r.RecognizeFromText(ctx, text)
}

// RecognizeFromImage classifies image. ErrBusy and ErrNotInitialized are
// returned as errors since they signal caller misuse; every other failure is
// an error result.
func (r *Recognizer) RecognizeFromImage(ctx context.Context, image types.ImageHandle) (*types.RecognitionResult, error) {
	result, err := r.classifier.Classify(ctx, image)
	if err != nil {
		r.stats.reject()
		return nil, err
	}
	return r.record(result), nil
}

// RecognizeBatch runs the lexical path over texts concurrently and returns
// results in input order. Only cancellation of ctx produces an error.
func (r *Recognizer) RecognizeBatch(ctx context.Context, texts []string) ([]*types.RecognitionResult, error) {
	results := make([]*types.RecognitionResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.RecognizeFromText(gctx, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats returns a snapshot of the counters
func (r *Recognizer) Stats() Stats {
	s := r.stats.snapshot()
	if r.cache != nil {
		s.CacheHits, s.CacheMisses = r.cache.counters()
		s.CacheSize = r.cache.size()
	}
	return s
}

// ResetCache drops every cached result
func (r *Recognizer) ResetCache() {
	if r.cache != nil {
		r.cache.clear()
	}
}

func (r *Recognizer) record(result *types.RecognitionResult) *types.RecognitionResult {
	r.stats.record(result)
	return result
}
