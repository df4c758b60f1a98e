package hilbert

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-iqdemod/dsp/window"
)

// Design windows the ideal Hilbert taps 2/(pi*n) with a Taps-point window
// and quantizes them to Q15 like the presets.
func Design(w []float64) (Coefficients, error) {
	if len(w) != Taps {
		return Coefficients{}, fmt.Errorf("hilbert: design window must have %d points, got %d", Taps, len(w))
	}

	var taps [Pairs]float64
	for m := range taps {
		lag := Center - 2*m
		taps[m] = 2 / (math.Pi * float64(lag)) * w[Center-lag]
	}

	c := quantize(taps)
	for m, k := range c {
		if k < 0 || k >= 1<<15 {
			return Coefficients{}, fmt.Errorf("hilbert: designed tap %d out of range: %d", m, k)
		}
	}

	return c, nil
}

// DesignKaiser designs a coefficient set with a Kaiser window of the given
// beta. Larger beta trades transition width for stop-band ripple.
func DesignKaiser(beta float64) (Coefficients, error) {
	w, err := window.Kaiser(Taps, beta)
	if err != nil {
		return Coefficients{}, fmt.Errorf("hilbert: %w", err)
	}

	return Design(w)
}
