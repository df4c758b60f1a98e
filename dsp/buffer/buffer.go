package buffer

import "sync/atomic"

// Block is one transport block of 16-bit samples for a single rail.
// DSP kernels accept raw []int16; use Samples() to bridge.
//
// Pooled blocks are reference counted: a block handed downstream is retained
// by the receiver and returns to its pool when the last holder releases it.
type Block struct {
	samples []int16
	pool    *Pool
	refs    atomic.Int32
}

// New returns a zero-filled Block of the given length.
func New(length int) *Block {
	if length < 0 {
		length = 0
	}
	return &Block{samples: make([]int16, length)}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Block and vice versa.
func FromSlice(s []int16) *Block {
	return &Block{samples: s}
}

// Samples returns the underlying slice.
func (b *Block) Samples() []int16 {
	return b.samples
}

// Len returns the number of samples.
func (b *Block) Len() int {
	return len(b.samples)
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// ZeroRange sets samples in [start, end) to 0.
// Indices are clamped to valid bounds.
func (b *Block) ZeroRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.samples) {
		end = len(b.samples)
	}
	for i := start; i < end; i++ {
		b.samples[i] = 0
	}
}

// CopyFrom copies src into the block and returns the number of copied
// samples.
func (b *Block) CopyFrom(src []int16) int {
	return copy(b.samples, src)
}

// Retain adds a reference to the block.
func (b *Block) Retain() {
	b.refs.Add(1)
}

// Refs returns the current reference count.
func (b *Block) Refs() int {
	return int(b.refs.Load())
}

// Copy returns a deep copy of the block. The copy does not belong to a pool.
func (b *Block) Copy() *Block {
	s := make([]int16, len(b.samples))
	copy(s, b.samples)
	return &Block{samples: s}
}
