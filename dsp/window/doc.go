// Package window provides the analysis windows used to measure demodulator
// output with an FFT, and the Kaiser window used to design Hilbert
// coefficient sets.
package window
