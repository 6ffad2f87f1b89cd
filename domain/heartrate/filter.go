package heartrate

import (
	"fmt"
	"math"

	"github.com/jfcg/butter"
	"gonum.org/v1/gonum/stat"
)

// BandPass is a first-order Butterworth band-pass applied before peak detection.
// It is an opt-in extension; the default pipeline works on the raw signal.
type BandPass struct {
	LowHz  float64
	HighHz float64
}

// Apply removes the signal mean and runs values through a high-pass at LowHz
// followed by a low-pass at HighHz. The input slice is not modified.
func (f *BandPass) Apply(values []float64, rate float64) ([]float64, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("band-pass: invalid rate %v", rate)
	}
	wcBase := 2.0 * math.Pi / rate
	hp := butter.NewHighPass1(f.LowHz * wcBase)
	if hp == nil {
		return nil, fmt.Errorf("band-pass: invalid high-pass (wc=%f, expect .0001 < wc < 3.1415)", f.LowHz*wcBase)
	}
	lp := butter.NewLowPass1(f.HighHz * wcBase)
	if lp == nil {
		return nil, fmt.Errorf("band-pass: invalid low-pass (wc=%f, expect .0001 < wc < 3.1415)", f.HighHz*wcBase)
	}
	if len(values) == 0 {
		return nil, nil
	}
	mean := stat.Mean(values, nil)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = hp.Next(lp.Next(v - mean))
	}
	return out, nil
}
