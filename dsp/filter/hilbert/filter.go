package hilbert

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

const (
	// Taps is the filter length.
	Taps = 31
	// Center is the index of the center tap and the group delay in samples.
	Center = Taps / 2
	// Pairs is the number of non-zero symmetric tap pairs.
	Pairs = 8
)

// Coefficients holds the Q15 tap-pair weights, largest lag first.
type Coefficients [Pairs]int32

// Filter is a stateful fixed-point Hilbert transformer over two rails.
//
// The shift rail is filtered to a 90 degree phase shifted copy; the delay
// rail is only delayed by [Center] samples. Delay lines are ordered oldest
// first and shifted one slot per sample.
type Filter struct {
	coeffs Coefficients
	preset Preset

	shift [Taps]int32
	delay [Taps]int32
}

// NewFromCoefficients creates a filter from an explicit Q15 coefficient set.
func NewFromCoefficients(c Coefficients) (*Filter, error) {
	f := &Filter{preset: -1}

	err := f.SetCoefficients(c)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// SetCoefficients replaces the coefficient set and clears the delay lines.
func (f *Filter) SetCoefficients(c Coefficients) error {
	for i, k := range c {
		if k < 0 || k >= core.Q15One {
			return fmt.Errorf("hilbert: coefficient[%d] outside Q15 range [0, %d): %d", i, core.Q15One, k)
		}
	}

	f.coeffs = c
	f.preset = -1
	f.Reset()

	return nil
}

// Process pushes one sample into each delay line and returns the delay rail
// sample from [Center] samples ago together with the 90 degree shifted
// shift rail sample aligned to it.
func (f *Filter) Process(shiftIn, delayIn int32) (delayed, shifted int32) {
	copy(f.shift[:Taps-1], f.shift[1:])
	f.shift[Taps-1] = shiftIn

	copy(f.delay[:Taps-1], f.delay[1:])
	f.delay[Taps-1] = delayIn

	// 64-bit accumulation: a full-scale alternating input would overflow
	// int32 with the Kaiser set.
	var acc int64
	for m, k := range f.coeffs {
		acc += int64(k) * int64(f.shift[2*m]-f.shift[Taps-1-2*m])
	}

	return f.delay[Center], int32(acc >> core.Q15Shift)
}

// ProcessReal feeds the same sample to both rails, producing the analytic
// pair of a single real input.
func (f *Filter) ProcessReal(x int32) (delayed, shifted int32) {
	return f.Process(x, x)
}

// ProcessBlock runs [Filter.Process] over equal-length slices.
func (f *Filter) ProcessBlock(shiftIn, delayIn, delayed, shifted []int32) error {
	n := len(shiftIn)
	if len(delayIn) != n || len(delayed) != n || len(shifted) != n {
		return fmt.Errorf("hilbert: ProcessBlock slice length mismatch: shift=%d delay=%d outDelayed=%d outShifted=%d",
			n, len(delayIn), len(delayed), len(shifted))
	}

	for i := range shiftIn {
		delayed[i], shifted[i] = f.Process(shiftIn[i], delayIn[i])
	}

	return nil
}

// Reset clears both delay lines.
func (f *Filter) Reset() {
	f.shift = [Taps]int32{}
	f.delay = [Taps]int32{}
}

// Coefficients returns the configured coefficient set.
func (f *Filter) Coefficients() Coefficients {
	return f.coeffs
}

// Preset returns the preset the filter was built from, or -1 when it was
// configured from explicit coefficients.
func (f *Filter) Preset() Preset {
	return f.preset
}

// Gain returns the magnitude response of the shift rail at a normalized
// frequency (cycles per sample, 0..0.5).
func (f *Filter) Gain(freq float64) float64 {
	return f.coeffs.Gain(freq)
}

// Gain returns the magnitude response of the coefficient set at a
// normalized frequency (cycles per sample, 0..0.5).
func (c Coefficients) Gain(freq float64) float64 {
	w := 2 * math.Pi * freq
	sum := 0.0

	for m, k := range c {
		lag := float64(Center - 2*m)
		sum += float64(k) / core.Q15One * math.Sin(w*lag)
	}

	return math.Abs(2 * sum)
}
