package signal

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MeasuredRate estimates the actual sampling rate from sample timestamps using the
// median inter-sample interval. It is diagnostic only; rate arithmetic in the
// estimator uses the nominal frame rate. Returns 0 when fewer than two distinct
// timestamps are available.
func MeasuredRate(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	intervals := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		intervals = append(intervals, samples[i].Elapsed-samples[i-1].Elapsed)
	}
	sort.Float64s(intervals)
	mid := stat.Quantile(0.5, stat.Empirical, intervals, nil)
	if mid <= 0 {
		return 0
	}
	return 1 / mid
}
