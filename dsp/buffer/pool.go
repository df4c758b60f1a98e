package buffer

import (
	"errors"
	"sync/atomic"
)

// ErrPoolMismatch is returned when a block is returned to a pool it was not
// taken from.
var ErrPoolMismatch = errors.New("buffer: block does not belong to this pool")

// Pool is a fixed-capacity free list of equal-length blocks. Get and Put
// never allocate, so they are safe to call from a real-time audio callback.
// It is safe for concurrent use.
type Pool struct {
	free        chan *Block
	blockSize   int
	outstanding atomic.Int64
}

// NewPool allocates capacity blocks of blockSize samples up front.
func NewPool(capacity, blockSize int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	if blockSize < 0 {
		blockSize = 0
	}

	p := &Pool{
		free:      make(chan *Block, capacity),
		blockSize: blockSize,
	}
	for range capacity {
		p.free <- &Block{samples: make([]int16, blockSize), pool: p}
	}

	return p
}

// Get returns a zeroed block, or nil when the pool is exhausted.
// Callers must return it via Put when done.
func (p *Pool) Get() *Block {
	select {
	case b := <-p.free:
		b.Zero()
		b.refs.Store(1)
		p.outstanding.Add(1)
		return b
	default:
		return nil
	}
}

// Put returns a block to the pool for reuse.
// The caller must not use the block after calling Put.
func (p *Pool) Put(b *Block) error {
	if b == nil {
		return nil
	}
	if b.pool != p {
		return ErrPoolMismatch
	}

	select {
	case p.free <- b:
		p.outstanding.Add(-1)
		return nil
	default:
		return errors.New("buffer: pool overflow, block returned twice")
	}
}

// Release drops one reference and returns the block to the pool when no
// references remain.
func (p *Pool) Release(b *Block) error {
	if b == nil {
		return nil
	}
	if b.pool != p {
		return ErrPoolMismatch
	}

	switch refs := b.refs.Add(-1); {
	case refs > 0:
		return nil
	case refs < 0:
		b.refs.Store(0)
		return errors.New("buffer: block released more often than retained")
	}

	return p.Put(b)
}

// BlockSize returns the sample count of every block in the pool.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// Available returns the number of blocks ready to be handed out.
func (p *Pool) Available() int {
	return len(p.free)
}

// Outstanding returns the number of blocks handed out and not yet returned.
func (p *Pool) Outstanding() int {
	return int(p.outstanding.Load())
}
