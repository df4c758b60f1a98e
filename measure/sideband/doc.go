// Package sideband measures how well the quadrature demodulator separates
// the two sidebands.
//
// Tone levels are read from a windowed FFT of the int16 output. [Measure]
// drives a Hilbert coefficient set with a quadrature tone and reports the
// level of the wanted and the suppressed sideband, the way a bench test of
// an SSB receiver does with a signal generator.
package sideband
