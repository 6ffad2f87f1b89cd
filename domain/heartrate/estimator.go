package heartrate

import (
	"fmt"
	"math"
	"sort"
)

// DefaultMinSeconds is the amount of nominal signal time required before a
// numeric estimate is produced.
const DefaultMinSeconds = 5.0

// Placeholder is shown instead of a number whenever no estimate is available.
const Placeholder = "-- BPM"

// Reading is the outcome of one estimation pass. When Valid is false BPM is
// meaningless and the reading stands for "no estimate".
type Reading struct {
	BPM      int
	Valid    bool
	Peaks    []int   // sample indices of detected peaks
	Samples  int     // number of samples considered
	Duration float64 // nominal seconds covered by Samples
}

// Label renders the reading for display, e.g. "72 BPM" or Placeholder.
func (r Reading) Label() string {
	if !r.Valid {
		return Placeholder
	}
	return fmt.Sprintf("%d BPM", r.BPM)
}

// MinPeakDistance converts a nominal frame rate into the minimum spacing, in
// samples, between two accepted peaks (at most two beats per nominal second).
func MinPeakDistance(rate float64) int {
	d := int(math.Ceil(rate / 2))
	if d < 1 {
		d = 1
	}
	return d
}

// FindPeaks returns the indices of local maxima in values, in ascending order.
//
// A candidate is strictly greater than its left neighbour and than the first
// differing value to its right, so a flat top counts once, at its earliest index.
// The first and last samples are never peaks. Candidates closer than minDistance
// samples are thinned: taller peaks win and equal heights keep the earliest index.
func FindPeaks(values []float64, minDistance int) []int {
	n := len(values)
	if n < 3 {
		return nil
	}
	var cand []int
	for i := 1; i < n-1; i++ {
		if !(values[i-1] < values[i]) {
			continue
		}
		j := i
		for j+1 < n && values[j+1] == values[i] {
			j++
		}
		if j+1 < n && values[j+1] < values[i] {
			cand = append(cand, i)
		}
		i = j
	}
	if minDistance <= 1 || len(cand) < 2 {
		return cand
	}

	// priority order: height descending, index ascending (stable on sorted cand)
	order := make([]int, len(cand))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[cand[order[a]]] > values[cand[order[b]]]
	})

	keep := make([]bool, len(cand))
	removed := make([]bool, len(cand))
	for _, ci := range order {
		if removed[ci] {
			continue
		}
		keep[ci] = true
		for k := ci - 1; k >= 0 && cand[ci]-cand[k] < minDistance; k-- {
			removed[k] = true
		}
		for k := ci + 1; k < len(cand) && cand[k]-cand[ci] < minDistance; k++ {
			removed[k] = true
		}
	}
	out := make([]int, 0, len(cand))
	for i, idx := range cand {
		if keep[i] {
			out = append(out, idx)
		}
	}
	return out
}

// Estimate computes the heart rate of values sampled at the nominal rate using
// the default minimum signal length.
func Estimate(values []float64, rate float64) Reading {
	return estimate(values, rate, DefaultMinSeconds)
}

func estimate(values []float64, rate, minSeconds float64) Reading {
	r := Reading{Samples: len(values)}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return r
	}
	if float64(len(values)) <= rate*minSeconds {
		return r
	}
	r.Peaks = FindPeaks(values, MinPeakDistance(rate))
	r.Duration = float64(len(values)) / rate
	r.BPM = int(math.Floor(float64(len(r.Peaks)) / r.Duration * 60))
	r.Valid = true
	return r
}

// Estimator bundles the nominal rate with optional pre-filtering. It holds no
// state between calls; identical input yields identical readings.
type Estimator struct {
	Rate       float64
	MinSeconds float64
	Filter     *BandPass // nil disables filtering
}

// NewEstimator returns an Estimator for the given nominal rate.
func NewEstimator(rate float64) *Estimator {
	return &Estimator{Rate: rate, MinSeconds: DefaultMinSeconds}
}

// Estimate runs the estimator over values. Filter failures fall back to the raw signal.
func (e *Estimator) Estimate(values []float64) Reading {
	if e == nil {
		return Reading{Samples: len(values)}
	}
	minSeconds := e.MinSeconds
	if minSeconds <= 0 {
		minSeconds = DefaultMinSeconds
	}
	if e.Filter != nil && float64(len(values)) > e.Rate*minSeconds {
		if filtered, err := e.Filter.Apply(values, e.Rate); err == nil {
			values = filtered
		}
	}
	return estimate(values, e.Rate, minSeconds)
}
