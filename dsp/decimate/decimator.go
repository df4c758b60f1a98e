package decimate

import (
	"errors"

	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

// Decimator keeps one I/Q pair out of every ratio, estimates its magnitude
// and phase and writes them into a [ReportBuffer]. It must be driven by a
// single goroutine.
type Decimator struct {
	counter Counter
	mag     iq.Func
	phase   iq.PhaseEstimator
	buf     *ReportBuffer

	writeIndex int
	writes     uint64
	epoch      uint64
	latched    bool
}

// NewDecimator binds a decimation ratio, magnitude strategy and phase unit
// to a report buffer.
func NewDecimator(ratio int, buf *ReportBuffer, mag iq.Estimator, phase iq.PhaseEstimator) (*Decimator, error) {
	if buf == nil {
		return nil, errors.New("decimate: nil report buffer")
	}

	if err := mag.Validate(); err != nil {
		return nil, err
	}

	counter, err := NewCounter(ratio)
	if err != nil {
		return nil, err
	}

	return &Decimator{
		counter: counter,
		mag:     mag.Func(),
		phase:   phase,
		buf:     buf,
		epoch:   buf.Epoch(),
	}, nil
}

// Push consumes one sample pair and reports whether an entry was written.
func (d *Decimator) Push(i, q int16) bool {
	if !d.counter.Tick() {
		return false
	}

	vi, vq := int32(i), int32(q)
	d.buf.store(d.writeIndex, d.mag(vi, vq), d.phase.Phase(vq, vi))
	d.writeIndex = (d.writeIndex + 1) & d.buf.mask
	d.writes++

	if !d.latched && d.writes >= uint64(d.buf.Len()/2) {
		d.latched = true
		d.buf.setLatch(d.epoch)
	}

	return true
}

// PushBlock consumes equal-length rails. Extra samples on the longer rail
// are ignored.
func (d *Decimator) PushBlock(i, q []int16) {
	n := min(len(i), len(q))
	for k := range n {
		d.Push(i[k], q[k])
	}
}

// EndBlock publishes the write index as the report position. Readers only
// observe positions at block granularity.
func (d *Decimator) EndBlock() {
	d.buf.publish(d.epoch, d.writeIndex)
}

// Reset restarts counting under a new epoch.
func (d *Decimator) Reset(epoch uint64) {
	d.counter.Reset()
	d.writeIndex = 0
	d.writes = 0
	d.latched = false
	d.epoch = epoch
}

// Ratio returns the decimation ratio.
func (d *Decimator) Ratio() int {
	return d.counter.Ratio()
}

// Remainder returns the samples consumed since the last written entry.
func (d *Decimator) Remainder() int {
	return d.counter.Remainder()
}

// WriteIndex returns the next ring slot to be written.
func (d *Decimator) WriteIndex() int {
	return d.writeIndex
}

// Writes returns the number of entries written in the current epoch.
func (d *Decimator) Writes() uint64 {
	return d.writes
}

// Buffer returns the report buffer the decimator writes to.
func (d *Decimator) Buffer() *ReportBuffer {
	return d.buf
}
