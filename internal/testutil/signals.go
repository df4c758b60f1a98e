package testutil

import (
	"math"
	"math/rand"
)

// Tone generates a deterministic int16 cosine at freq cycles per sample with
// the given phase offset in radians.
func Tone(freq, phase float64, amplitude int, length int) []int16 {
	out := make([]int16, length)
	step := 2 * math.Pi * freq
	for i := range out {
		out[i] = int16(math.Round(float64(amplitude) * math.Cos(step*float64(i)+phase)))
	}
	return out
}

// Quadrature generates an I/Q pair for a complex tone at freq cycles per
// sample. A positive freq gives I = cos, Q = sin (upper sideband); a
// negative freq gives Q = -sin (lower sideband).
func Quadrature(freq float64, amplitude int, length int) (i, q []int16) {
	return Tone(freq, 0, amplitude, length), Tone(freq, -math.Pi/2, amplitude, length)
}

// Alternating returns a block alternating +amplitude, -amplitude.
func Alternating(amplitude int16, length int) []int16 {
	out := make([]int16, length)
	for i := range out {
		if i%2 == 0 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}
	return out
}

// DC generates a constant-valued block.
func DC(value int16, length int) []int16 {
	out := make([]int16, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// DeterministicNoise generates full-scale-bounded white noise with a fixed
// seed for reproducibility.
func DeterministicNoise(seed int64, amplitude int, length int) []int16 {
	out := make([]int16, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = int16(rng.Intn(2*amplitude+1) - amplitude)
	}
	return out
}

// Widen converts samples to int32 accumulators.
func Widen(in []int16) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

// Float converts samples to float64 for spectral analysis.
func Float(in []int16) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
