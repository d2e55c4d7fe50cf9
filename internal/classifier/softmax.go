package classifier

import "math"

// Softmax converts raw logits into probabilities with exp(x_i) / Σ exp(x_j)
// computed directly on the logits. When the direct sum overflows or
// underflows it switches to the max-subtracted form, which has the same
// mathematical value.
func Softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return []float64{}
	}
	exps := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		exps[i] = math.Exp(s)
		sum += exps[i]
	}
	if math.IsInf(sum, 0) || math.IsNaN(sum) || sum == 0 {
		return StableSoftmax(scores)
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}

// StableSoftmax computes softmax after subtracting the maximum logit
func StableSoftmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return []float64{}
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	exps := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		exps[i] = math.Exp(s - maxScore)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}

// Argmax returns the index of the largest value; the first one wins on ties.
// Returns -1 for an empty slice.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
