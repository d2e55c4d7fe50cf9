// Package classifier adapts the output of an image classification model into
// a RecognitionResult. Model loading and execution belong to the ScoreSource;
// this package only consumes its label order and raw scores.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
	"github.com/Alishbarana/InnoLearn/internal/types"
)

// DefaultLabels is the label order of the bundled image model
var DefaultLabels = []string{
	"array",
	"binary_tree",
	"client_server",
	"firewall",
	"linked_list",
	"merge_sort",
	"osi_model",
	"queue",
	"router",
	"stack",
}

// Output is what a classifier produces for one image
type Output struct {
	Labels    []string
	RawScores []float64
}

// ScoreSource runs the model on an image
type ScoreSource interface {
	Scores(ctx context.Context, image types.ImageHandle) (Output, error)
}

// ScoreSourceFunc adapts a function to ScoreSource
type ScoreSourceFunc func(ctx context.Context, image types.ImageHandle) (Output, error)

// Scores implements ScoreSource
func (f ScoreSourceFunc) Scores(ctx context.Context, image types.ImageHandle) (Output, error) {
	return f(ctx, image)
}

// Options configures adaptation
type Options struct {
	// StableSoftmax always subtracts the max logit instead of only on overflow
	StableSoftmax bool
}

// Adapt turns one Output into a classified result. Labels and scores must be
// non-empty, of equal length and finite.
func Adapt(out Output, opts Options) (*types.RecognitionResult, error) {
	if len(out.RawScores) == 0 {
		return nil, ierrors.NewClassificationError("adapt", errors.New("empty score vector"))
	}
	if len(out.Labels) != len(out.RawScores) {
		return nil, ierrors.NewClassificationError("adapt",
			fmt.Errorf("%d labels for %d scores", len(out.Labels), len(out.RawScores)))
	}
	for i, s := range out.RawScores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, ierrors.NewClassificationError("adapt", fmt.Errorf("score %d is not finite", i))
		}
	}

	var probs []float64
	if opts.StableSoftmax {
		probs = StableSoftmax(out.RawScores)
	} else {
		probs = Softmax(out.RawScores)
	}
	best := Argmax(probs)

	table := make([]types.Probability, len(probs))
	for i, p := range probs {
		table[i] = types.Probability{Label: out.Labels[i], Probability: p * 100}
	}
	slices.SortStableFunc(table, func(a, b types.Probability) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return 0
	})

	debug.LogClassifier("argmax %d (%s) p=%.4f\n", best, out.Labels[best], probs[best])
	return &types.RecognitionResult{
		RecognizedTerm:   out.Labels[best],
		Confidence:       probs[best] * 100,
		MatchType:        types.MatchClassified,
		AllProbabilities: table,
		RawScores:        slices.Clone(out.RawScores),
	}, nil
}

// State is the adapter's processing state
type State int32

const (
	StateIdle State = iota
	StateBusy
)

// String implements fmt.Stringer
func (s State) String() string {
	if s == StateBusy {
		return "busy"
	}
	return "idle"
}

type sourceHolder struct {
	source ScoreSource
}

// Adapter allows at most one classification in flight. A call made while
// busy fails immediately with ErrBusy instead of queueing.
type Adapter struct {
	opts   Options
	source atomic.Pointer[sourceHolder]
	state  atomic.Int32
}

// NewAdapter creates an adapter. source may be nil and attached later once
// the model has loaded.
func NewAdapter(source ScoreSource, opts Options) *Adapter {
	a := &Adapter{opts: opts}
	if source != nil {
		a.Attach(source)
	}
	return a
}

// Attach installs or replaces the score source
func (a *Adapter) Attach(source ScoreSource) {
	if source == nil {
		a.source.Store(nil)
		return
	}
	a.source.Store(&sourceHolder{source: source})
}

// Ready reports whether a score source is attached
func (a *Adapter) Ready() bool {
	return a.source.Load() != nil
}

// Busy reports whether a classification is in flight
func (a *Adapter) Busy() bool {
	return State(a.state.Load()) == StateBusy
}

// State returns the current processing state
func (a *Adapter) State() State {
	return State(a.state.Load())
}

// Classify runs the score source on image and adapts its output. It returns
// ErrNotInitialized without a source and ErrBusy while another call is in
// flight. Failures of the source or of adaptation are reported as an error
// result, not as a returned error.
func (a *Adapter) Classify(ctx context.Context, image types.ImageHandle) (*types.RecognitionResult, error) {
	holder := a.source.Load()
	if holder == nil {
		return nil, ierrors.ErrNotInitialized
	}
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateBusy)) {
		debug.LogClassifier("rejected %s: busy\n", image)
		return nil, ierrors.ErrBusy
	}
	defer a.state.Store(int32(StateIdle))

	out, err := holder.source.Scores(ctx, image)
	if err != nil {
		return types.ErrorResult(ierrors.NewClassificationError("scores", err)), nil
	}
	result, err := Adapt(out, a.opts)
	if err != nil {
		return types.ErrorResult(err), nil
	}
	return result, nil
}
