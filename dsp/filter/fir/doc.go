// Package fir provides a fixed-point direct-form FIR filter and a
// windowed-sinc low-pass designer.
//
// A [Filter] applies Q15 coefficients to an int16 stream using a
// circular-buffer delay line and a 64-bit accumulator, rounding and
// saturating the result back to int16. It is meant for short smoothing
// filters such as the low-pass that follows a zero-stuffed envelope.
package fir
