// Package decimate implements the fixed-ratio decimator that feeds
// magnitude/phase pairs into a ring buffer shared with a lower-priority
// reader.
//
// One goroutine (the block callback) writes through [Decimator]; any number
// of goroutines may read through [ReportBuffer]. Elements, the published
// position and the availability latch are atomics, so a reader never sees a
// torn value. There is no backpressure: a slow reader misses entries as the
// ring wraps.
//
// Availability and position are tagged with an epoch. Starting a new epoch
// ([ReportBuffer.SetEpoch]) makes both read as reset immediately, even while
// the writer is still finishing a block from the previous epoch.
package decimate
