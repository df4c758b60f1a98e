package fir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

// ErrTaps is returned when a filter has no coefficients.
var ErrTaps = errors.New("fir: at least one tap is required")

// Filter implements a Q15 direct-form FIR filter using a circular-buffer
// delay line.
type Filter struct {
	coeffs []int16
	delay  []int32
	pos    int
}

// New creates a FIR filter from Q15 coefficients. The coefficients are
// copied.
func New(coeffs []int16) (*Filter, error) {
	if len(coeffs) == 0 {
		return nil, ErrTaps
	}

	return &Filter{
		coeffs: append([]int16(nil), coeffs...),
		delay:  make([]int32, len(coeffs)),
	}, nil
}

// ProcessSample filters one input sample.
//
//	y[n] = sat16((sum_{k=0}^{N-1} h[k] * x[n-k] + 2^14) >> 15)
func (f *Filter) ProcessSample(x int16) int16 {
	f.delay[f.pos] = int32(x)

	var acc int64
	n := len(f.coeffs)
	p := f.pos
	for k := range n {
		acc += int64(f.coeffs[k]) * int64(f.delay[p])
		p--
		if p < 0 {
			p = n - 1
		}
	}

	f.pos++
	if f.pos >= n {
		f.pos = 0
	}

	acc = (acc + 1<<14) >> 15
	switch {
	case acc > math.MaxInt16:
		return math.MaxInt16
	case acc < -math.MaxInt16:
		return -math.MaxInt16
	}

	return int16(acc)
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter) ProcessBlock(buf []int16) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (f *Filter) ProcessBlockTo(dst, src []int16) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line.
func (f *Filter) Reset() {
	core.Zero(f.delay)
	f.pos = 0
}

// Taps returns the number of coefficients.
func (f *Filter) Taps() int {
	return len(f.coeffs)
}

// Delay returns the group delay in samples of a linear-phase filter.
func (f *Filter) Delay() int {
	return (len(f.coeffs) - 1) / 2
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []int16 {
	return append([]int16(nil), f.coeffs...)
}

// Response computes the complex frequency response at freq cycles per
// sample, with the coefficients taken as Q15 fractions.
func (f *Filter) Response(freq float64) complex128 {
	w := 2 * math.Pi * freq

	var h complex128
	for k, c := range f.coeffs {
		h += complex(float64(c)/32768, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}

	return h
}

// MagnitudeDB returns the magnitude response in dB at freq cycles per sample.
func (f *Filter) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freq)))
}

func (f *Filter) String() string {
	return fmt.Sprintf("fir.Filter{taps: %d}", len(f.coeffs))
}
