package decimate

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

var (
	// ErrLength indicates a report buffer length that is not a power of two.
	ErrLength = errors.New("decimate: report buffer length must be a power of two")
	// ErrRatio indicates an unsupported decimation ratio.
	ErrRatio = errors.New("decimate: invalid ratio")
)

// ReportBuffer is a ring of magnitude/phase pairs with a block-granular
// position snapshot and an availability latch.
type ReportBuffer struct {
	mag   []atomic.Int32
	phase []atomic.Int32
	mask  int

	epoch    atomic.Uint64
	position atomic.Uint64 // epoch<<32 | index
	latch    atomic.Uint64 // epoch<<1 | 1 once latched
}

// NewReportBuffer allocates a ring of length entries.
func NewReportBuffer(length int) (*ReportBuffer, error) {
	if !core.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("%w: %d", ErrLength, length)
	}

	return &ReportBuffer{
		mag:   make([]atomic.Int32, length),
		phase: make([]atomic.Int32, length),
		mask:  length - 1,
	}, nil
}

// Len returns the ring length.
func (r *ReportBuffer) Len() int {
	return len(r.mag)
}

// SetEpoch starts a new epoch for readers: Available reads false and
// Position reads 0 until the writer publishes under the same epoch.
// Epochs only move forward; an older epoch is ignored.
func (r *ReportBuffer) SetEpoch(epoch uint64) {
	for {
		cur := r.epoch.Load()
		if epoch <= cur || r.epoch.CompareAndSwap(cur, epoch) {
			return
		}
	}
}

// Epoch returns the reader-visible epoch.
func (r *ReportBuffer) Epoch() uint64 {
	return r.epoch.Load()
}

// Available reports whether the latch has been set in the current epoch.
// Once true it stays true until the next epoch.
func (r *ReportBuffer) Available() bool {
	return r.latch.Load() == r.epoch.Load()<<1|1
}

// Position returns the write index published at the end of the most recent
// block of the current epoch, or 0 if none has been published yet.
func (r *ReportBuffer) Position() int {
	v := r.position.Load()
	if v>>32 != r.epoch.Load()&0xffffffff {
		return 0
	}

	return int(uint32(v))
}

// Magnitude returns the magnitude at index. index must be in [0, Len()).
func (r *ReportBuffer) Magnitude(index int) int16 {
	return int16(r.mag[index].Load())
}

// Phase returns the phase at index. index must be in [0, Len()).
func (r *ReportBuffer) Phase(index int) int32 {
	return r.phase[index].Load()
}

// Recent copies the newest entries that end at the published position into
// mag and phase, oldest first, and returns how many were copied. At most
// Len() entries are copied; either slice may be nil.
func (r *ReportBuffer) Recent(mag []int16, phase []int32) int {
	n := max(len(mag), len(phase))
	n = min(n, len(r.mag))
	if mag != nil {
		n = min(n, len(mag))
	}
	if phase != nil {
		n = min(n, len(phase))
	}

	end := r.Position()
	for k := range n {
		idx := (end - n + k) & r.mask
		if mag != nil {
			mag[k] = r.Magnitude(idx)
		}
		if phase != nil {
			phase[k] = r.Phase(idx)
		}
	}

	return n
}

func (r *ReportBuffer) store(index int, mag int16, phase int32) {
	r.mag[index].Store(int32(mag))
	r.phase[index].Store(phase)
}

func (r *ReportBuffer) publish(epoch uint64, index int) {
	r.position.Store(epoch<<32 | uint64(uint32(index)))
}

func (r *ReportBuffer) setLatch(epoch uint64) {
	r.latch.Store(epoch<<1 | 1)
}
