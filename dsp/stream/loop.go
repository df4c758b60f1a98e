package stream

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-iqdemod/dsp/buffer"
	"github.com/cwbudde/algo-iqdemod/dsp/demod"
)

var (
	// ErrFull is returned by Submit when an input queue has no room.
	ErrFull = errors.New("stream: input queue full")
	// ErrExhausted is returned by Submit when the block pool is empty.
	ErrExhausted = errors.New("stream: block pool exhausted")
)

// Loop is a channel-backed [demod.Transport].
type Loop struct {
	pool *buffer.Pool
	in   [2]chan *buffer.Block
	out  chan *buffer.Block

	dropped    atomic.Uint64
	releaseErr atomic.Uint64
}

var _ demod.Transport = (*Loop)(nil)

// New creates a loop whose input and output queues each hold depth blocks
// of blockSize samples. The pool is sized so that full queues plus the
// blocks held by the pipeline and one consumer never exhaust it.
func New(blockSize, depth int) (*Loop, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("stream: invalid block size: %d", blockSize)
	}
	if depth < 1 {
		return nil, fmt.Errorf("stream: invalid queue depth: %d", depth)
	}

	return &Loop{
		pool: buffer.NewPool(3*depth+4, blockSize),
		in:   [2]chan *buffer.Block{make(chan *buffer.Block, depth), make(chan *buffer.Block, depth)},
		out:  make(chan *buffer.Block, depth),
	}, nil
}

// Submit copies one quadrature frame into pooled blocks and queues it.
// Either both rails are queued or neither is. Submit and SubmitRail expect
// a single producer goroutine.
func (l *Loop) Submit(i, q []int16) error {
	if len(l.in[demod.RailI]) == cap(l.in[demod.RailI]) || len(l.in[demod.RailQ]) == cap(l.in[demod.RailQ]) {
		return ErrFull
	}

	bi := l.pool.Get()
	if bi == nil {
		return ErrExhausted
	}
	bq := l.pool.Get()
	if bq == nil {
		l.Release(bi)
		return ErrExhausted
	}

	bi.CopyFrom(i)
	bq.CopyFrom(q)
	l.in[demod.RailI] <- bi
	l.in[demod.RailQ] <- bq

	return nil
}

// SubmitRail copies samples into a pooled block and queues it on one rail.
func (l *Loop) SubmitRail(rail demod.Rail, samples []int16) error {
	b := l.pool.Get()
	if b == nil {
		return ErrExhausted
	}

	b.CopyFrom(samples)

	select {
	case l.in[rail] <- b:
		return nil
	default:
		l.Release(b)
		return ErrFull
	}
}

// AcquireInput returns the next queued block of rail, or nil.
func (l *Loop) AcquireInput(rail demod.Rail) *buffer.Block {
	select {
	case b := <-l.in[rail]:
		return b
	default:
		return nil
	}
}

// AcquireMutableInput returns the next queued block of rail, or nil. Queued
// blocks are never shared, so the caller may write to it.
func (l *Loop) AcquireMutableInput(rail demod.Rail) *buffer.Block {
	return l.AcquireInput(rail)
}

// Publish queues b on the output. The loop takes its own reference; when
// the output is full the block is dropped and counted.
func (l *Loop) Publish(b *buffer.Block) {
	b.Retain()

	select {
	case l.out <- b:
	default:
		l.dropped.Add(1)
		l.Release(b)
	}
}

// Release drops one reference to b.
func (l *Loop) Release(b *buffer.Block) {
	if err := l.pool.Release(b); err != nil {
		l.releaseErr.Add(1)
	}
}

// Output returns the queue of published blocks. Consumers hand every
// received block back through Release.
func (l *Loop) Output() <-chan *buffer.Block {
	return l.out
}

// Outstanding returns the number of pooled blocks not yet released.
func (l *Loop) Outstanding() int {
	return l.pool.Outstanding()
}

// Dropped returns the number of published blocks lost to a full output.
func (l *Loop) Dropped() uint64 {
	return l.dropped.Load()
}

// ReleaseErrors returns the number of rejected Release calls: foreign
// blocks and over-released blocks.
func (l *Loop) ReleaseErrors() uint64 {
	return l.releaseErr.Load()
}

// BlockSize returns the length of every block the loop hands out.
func (l *Loop) BlockSize() int {
	return l.pool.BlockSize()
}
