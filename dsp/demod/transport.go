package demod

import "github.com/cwbudde/algo-iqdemod/dsp/buffer"

// Rail identifies one of the two quadrature sample streams.
type Rail int

const (
	// RailI is the in-phase rail. Audio output is written in place here.
	RailI Rail = iota
	// RailQ is the quadrature rail.
	RailQ
)

func (r Rail) String() string {
	switch r {
	case RailI:
		return "I"
	case RailQ:
		return "Q"
	default:
		return "unknown"
	}
}

// Transport is the block source and sink driving a [Pipeline].
//
// Acquire calls are non-blocking and return nil when no block arrived this
// period. Every acquired block is handed back through Release exactly once.
// Publish hands a block downstream; the transport takes its own reference,
// so the publisher still releases it.
type Transport interface {
	AcquireInput(rail Rail) *buffer.Block
	AcquireMutableInput(rail Rail) *buffer.Block
	Publish(b *buffer.Block)
	Release(b *buffer.Block)
}
