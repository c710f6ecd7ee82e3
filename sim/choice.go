package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// fallbackPositionWeight pads the position weights when the configured list is
// empty. Config validation rejects an empty list, so this only applies to
// callers that bypass it.
// TODO: revisit whether padding should repeat the last weight or decay further;
// the 0.1 value has no modelling rationale behind it.
const fallbackPositionWeight = 0.1

// probabilitySumTolerance bounds how far a probability vector may drift from 1
// before SampleChoice treats it as invalid.
const probabilitySumTolerance = 1e-9

// SelectConsiderationSet returns at most cfg.K shifts from available, ordered by
// descending effective utility. Equal effective utilities put treated shifts
// first, then lower shift IDs, so the order is total and reproducible.
// The input slice is not modified.
func SelectConsiderationSet(available []*Shift, cfg Config) []*Shift {
	if len(available) == 0 {
		return []*Shift{}
	}
	ranked := make([]*Shift, len(available))
	copy(ranked, available)
	boost := cfg.TreatmentBoost
	sort.SliceStable(ranked, func(i, j int) bool {
		ui, uj := ranked[i].EffectiveUtility(boost), ranked[j].EffectiveUtility(boost)
		if ui != uj {
			return ui > uj
		}
		if ranked[i].Treated != ranked[j].Treated {
			return ranked[i].Treated
		}
		return ranked[i].ID < ranked[j].ID
	})
	k := min(cfg.K, len(ranked))
	return ranked[:k]
}

// PositionWeights returns the first n weights, padding a short list by
// repeating its last element (fallbackPositionWeight if the list is empty).
func PositionWeights(n int, weights []float64) []float64 {
	out := make([]float64, n)
	copied := copy(out, weights)
	if copied == n {
		return out
	}
	pad := fallbackPositionWeight
	if len(weights) > 0 {
		pad = weights[len(weights)-1]
	}
	for i := copied; i < n; i++ {
		out[i] = pad
	}
	return out
}

// ChoiceProbabilities computes the position-weighted multinomial logit over a
// ranked consideration set:
//
//	p_i = w_i * exp(u_i) / sum_j w_j * exp(u_j)
//
// where u_i is the effective utility of the shift at rank i. If every score is
// zero the distribution is uniform. An empty set yields an empty vector.
func ChoiceProbabilities(set []*Shift, cfg Config) []float64 {
	n := len(set)
	if n == 0 {
		return []float64{}
	}
	scores := PositionWeights(n, cfg.PositionWeights)
	for i, s := range set {
		scores[i] *= math.Exp(s.EffectiveUtility(cfg.TreatmentBoost))
	}
	total := floats.Sum(scores)
	if total == 0 {
		for i := range scores {
			scores[i] = 1 / float64(n)
		}
		return scores
	}
	floats.Scale(1/total, scores)
	return scores
}

// SampleChoice draws one index from the categorical distribution probs.
// ok is false only for an empty vector. A vector that is not a valid
// distribution (negative, non-finite, or not summing to 1) degrades to a
// uniform draw over the same support instead of failing.
func SampleChoice(probs []float64, stream *Stream) (idx int, ok bool) {
	idx, ok, _ = sampleChoice(probs, stream)
	return idx, ok
}

// sampleChoice is SampleChoice that also reports whether the uniform fallback
// was taken. Fallbacks are logged at debug level; the Simulator counts them and
// warns once per run.
func sampleChoice(probs []float64, stream *Stream) (idx int, ok, uniform bool) {
	n := len(probs)
	if n == 0 {
		return 0, false, false
	}
	if !isDistribution(probs) {
		logrus.Debugf("choice probabilities %v are not a valid distribution; falling back to uniform choice", probs)
		return stream.IntN(n), true, true
	}
	if idx, ok := sampleCategorical(probs, stream); ok {
		return idx, true, false
	}
	logrus.Debugf("categorical sampling over %v failed; falling back to uniform choice", probs)
	return stream.IntN(n), true, true
}

// sampleCategorical draws from distuv.Categorical, which panics on a vector it
// cannot walk. The panic is reported as ok=false.
func sampleCategorical(probs []float64, stream *Stream) (idx int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			idx, ok = 0, false
		}
	}()
	c := distuv.NewCategorical(probs, stream.Source())
	return int(c.Rand()), true
}

func isDistribution(probs []float64) bool {
	for _, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return false
		}
	}
	return math.Abs(floats.Sum(probs)-1) <= probabilitySumTolerance
}
