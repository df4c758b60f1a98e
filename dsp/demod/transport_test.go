package demod

import (
	"fmt"

	"github.com/cwbudde/algo-iqdemod/dsp/buffer"
)

// fakeTransport serves one fixed block per rail and counts every hand-off.
// It does not allocate so it can be used in allocation tests.
type fakeTransport struct {
	blocks  [2]*buffer.Block
	missing [2]bool

	acquired  [2]int
	mutable   [2]int
	released  [2]int
	published int
	last      *buffer.Block
}

func newFakeTransport(i, q []int16) *fakeTransport {
	return &fakeTransport{blocks: [2]*buffer.Block{buffer.FromSlice(i), buffer.FromSlice(q)}}
}

func (f *fakeTransport) AcquireInput(rail Rail) *buffer.Block {
	if f.missing[rail] {
		return nil
	}
	f.acquired[rail]++
	return f.blocks[rail]
}

func (f *fakeTransport) AcquireMutableInput(rail Rail) *buffer.Block {
	if f.missing[rail] {
		return nil
	}
	f.acquired[rail]++
	f.mutable[rail]++
	return f.blocks[rail]
}

func (f *fakeTransport) Publish(b *buffer.Block) {
	f.published++
	f.last = b
}

func (f *fakeTransport) Release(b *buffer.Block) {
	switch b {
	case f.blocks[RailI]:
		f.released[RailI]++
	case f.blocks[RailQ]:
		f.released[RailQ]++
	default:
		panic(fmt.Sprintf("release of foreign block %p", b))
	}
}

func (f *fakeTransport) balanced() bool {
	return f.acquired == f.released
}
