// Package hilbert provides a fixed-point 31-tap FIR Hilbert transformer for
// quadrature (I/Q) rails.
//
// The filter is linear phase and odd symmetric: every other tap is zero, so
// the 90 degree rail is computed from eight tap-pair differences with Q15
// integer coefficients. The second rail is passed through the same delay
// (center tap) so both outputs stay time aligned.
//
// Two coefficient sets are provided. [PresetKaiser] (the default) applies a
// Kaiser window to the ideal response and trades a slightly wider transition
// band for much better stop-band rejection. [PresetRectangular] is the
// unwindowed design.
//
// A freshly constructed or reset filter starts from zeroed delay lines, so
// the first [Taps] outputs ramp up. That transient is expected.
package hilbert
