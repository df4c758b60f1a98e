// Package stream provides an in-memory block transport for
// [demod.Pipeline].
//
// A [Loop] moves pooled [buffer.Block] values between a producer (a file
// reader, a PortAudio callback, a test), the pipeline and an output
// consumer. All hand-offs are non-blocking channel operations: a full input
// queue rejects the block, a full output queue drops it and counts the drop.
package stream
