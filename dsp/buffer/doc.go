// Package buffer provides the fixed-length int16 sample block exchanged with
// the block transport, and a fixed-capacity pool that hands blocks out
// without allocating once it has been filled.
package buffer
