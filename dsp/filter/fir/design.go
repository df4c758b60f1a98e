package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iqdemod/dsp/window"
)

// ErrDesign is returned for low-pass parameters that cannot be realized.
var ErrDesign = errors.New("fir: invalid low-pass design")

// LowPass designs a linear-phase windowed-sinc low-pass with the given
// cutoff in cycles per sample (0 < cutoff < 0.5), odd tap count and
// passband gain. The taps are normalized so that their sum equals gain and
// quantized to Q15. The center tap must stay below 1.0.
func LowPass(cutoff float64, taps int, gain float64, wt window.Type, opts ...window.Option) ([]int16, error) {
	if !(cutoff > 0 && cutoff < 0.5) {
		return nil, fmt.Errorf("%w: cutoff %v outside (0, 0.5)", ErrDesign, cutoff)
	}
	if taps < 1 || taps%2 == 0 {
		return nil, fmt.Errorf("%w: tap count must be odd: %d", ErrDesign, taps)
	}
	if !(gain > 0) {
		return nil, fmt.Errorf("%w: gain must be > 0: %v", ErrDesign, gain)
	}

	w := window.Generate(wt, taps, opts...)
	h := make([]float64, taps)
	mid := (taps - 1) / 2

	var sum float64
	for k := range h {
		x := float64(k - mid)
		v := 2 * cutoff
		if x != 0 {
			v = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}

		h[k] = v * w[k]
		sum += h[k]
	}

	out := make([]int16, taps)
	for k, v := range h {
		q := math.Round(32768 * v * gain / sum)
		if q > math.MaxInt16 || q < -math.MaxInt16 {
			return nil, fmt.Errorf("%w: tap %d = %.4f does not fit Q15", ErrDesign, k, v*gain/sum)
		}

		out[k] = int16(q)
	}

	return out, nil
}

// Smoother returns the low-pass that restores a zero-stuffed envelope
// decimated by ratio: cutoff at 0.4/ratio, passband gain ratio. With hold
// fill the gain is 1.
func Smoother(ratio, taps int, zeroFill bool) (*Filter, error) {
	if ratio < 2 {
		return nil, fmt.Errorf("%w: smoothing needs an output decimation of at least 2: %d", ErrDesign, ratio)
	}

	gain := 1.0
	if zeroFill {
		gain = float64(ratio)
	}

	coeffs, err := LowPass(0.4/float64(ratio), taps, gain, window.TypeBlackman)
	if err != nil {
		return nil, err
	}

	return New(coeffs)
}
