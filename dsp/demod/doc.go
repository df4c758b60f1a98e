// Package demod implements the per-block quadrature demodulation pipeline.
//
// A [Pipeline] is driven once per transport block by [Pipeline.Update] from
// a single goroutine (typically an audio callback). Depending on the current
// [Mode] it produces an AM envelope, upper or lower single-sideband audio in
// place on the I rail, or a decimated magnitude/phase report that other
// goroutines poll through [Pipeline.ReportAvailable],
// [Pipeline.MagnitudeAt], [Pipeline.PhaseAt] and [Pipeline.ReportPosition].
//
// Update never blocks, never allocates and has no error path: missing input
// blocks skip the period, overflow saturates to +/-32767 and the phase of a
// zero vector is 0. Every acquired block is released exactly once.
//
// [Pipeline.SetMode] may be called from any goroutine. It takes effect at
// the next block boundary, while the report surface reflects the reset
// immediately.
package demod
