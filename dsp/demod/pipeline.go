package demod

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
	"github.com/cwbudde/algo-iqdemod/dsp/decimate"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

var (
	// ErrBlockSize indicates a block size that is not a power of two.
	ErrBlockSize = errors.New("demod: block size must be a power of two")
	// ErrMode indicates an undefined mode.
	ErrMode = errors.New("demod: invalid mode")
)

type control struct {
	mode  Mode
	epoch uint64
}

// Pipeline owns the filter, decimator and report state of one quadrature
// channel. Run one pipeline per channel; instances share nothing.
type Pipeline struct {
	cfg config

	ctl atomic.Pointer[control]

	// Block-goroutine state.
	epoch     uint64
	mode      Mode
	filter    *hilbert.Filter
	magnitude iq.Func
	decim     *decimate.Decimator
	envelope  decimate.Counter
	hold      int16

	report *decimate.ReportBuffer
}

// New creates an idle pipeline.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !core.IsPowerOfTwo(cfg.proc.BlockSize) {
		return nil, fmt.Errorf("%w: %d", ErrBlockSize, cfg.proc.BlockSize)
	}

	if err := cfg.estimator.Validate(); err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}

	if cfg.quarterTurn == 0 {
		cfg.quarterTurn = iq.QuarterTurnFor(cfg.proc.SampleRate, cfg.proc.Decimation)
	}

	filter, err := hilbert.New(cfg.preset)
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}

	report, err := decimate.NewReportBuffer(cfg.proc.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}

	decim, err := decimate.NewDecimator(cfg.proc.Decimation, report, cfg.estimator, iq.NewPhaseEstimator(cfg.quarterTurn))
	if err != nil {
		return nil, fmt.Errorf("demod: report: %w", err)
	}

	envelope, err := decimate.NewCounter(cfg.outputDecimation)
	if err != nil {
		return nil, fmt.Errorf("demod: output: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		filter:    filter,
		magnitude: cfg.estimator.Func(),
		decim:     decim,
		envelope:  envelope,
		report:    report,
	}
	p.ctl.Store(&control{mode: ModeIdle})

	return p, nil
}

// SetMode switches the mode and starts a new epoch: filter history,
// decimation counters, report position and availability are reset. Safe to
// call from any goroutine.
func (p *Pipeline) SetMode(m Mode) error {
	if err := m.Validate(); err != nil {
		return err
	}

	for {
		old := p.ctl.Load()
		next := &control{mode: m, epoch: old.epoch + 1}
		if !p.ctl.CompareAndSwap(old, next) {
			continue
		}

		p.report.SetEpoch(next.epoch)

		if p.cfg.logger != nil {
			p.cfg.logger.Debug("mode change", "from", old.mode, "to", m, "epoch", next.epoch)
		}

		return nil
	}
}

// Mode returns the most recently set mode.
func (p *Pipeline) Mode() Mode {
	return p.ctl.Load().mode
}

// Update processes one block period against the transport.
func (p *Pipeline) Update(t Transport) {
	p.sync()

	switch p.mode {
	case ModeEnvelope, ModeUpperSideband, ModeLowerSideband:
		p.updateAudio(t)
	case ModeReport:
		p.updateReport(t)
	default:
		p.drain(t)
	}
}

// Process runs the current mode over one block without a transport. Audio
// modes overwrite i in place and return true. q may be nil for a single-rail
// pipeline outside the sideband modes. When the mode needs q and it is
// shorter than i, nothing is processed and Process returns false. Process
// and Update must not be called concurrently.
func (p *Pipeline) Process(i, q []int16) bool {
	p.sync()

	if p.needsQ() && len(q) < len(i) {
		return false
	}

	switch p.mode {
	case ModeEnvelope:
		if p.cfg.singleRail {
			p.envelopeReal(i)
		} else {
			p.envelopeIQ(i, q)
		}

		return true
	case ModeUpperSideband, ModeLowerSideband:
		p.sideband(i, q)
		return true
	case ModeReport:
		if p.cfg.singleRail {
			p.reportReal(i)
		} else {
			p.decim.PushBlock(i, q)
		}
		p.decim.EndBlock()
	}

	return false
}

// sync adopts a mode change at the block boundary.
func (p *Pipeline) sync() {
	c := p.ctl.Load()
	if c.epoch == p.epoch {
		return
	}

	p.epoch = c.epoch
	p.mode = c.mode
	p.filter.Reset()
	p.decim.Reset(c.epoch)
	p.envelope.Reset()
	p.hold = 0
}

func (p *Pipeline) needsQ() bool {
	return !p.cfg.singleRail || p.mode.IsSideband()
}

func (p *Pipeline) drain(t Transport) {
	if b := t.AcquireInput(RailI); b != nil {
		t.Release(b)
	}
	if b := t.AcquireInput(RailQ); b != nil {
		t.Release(b)
	}
}

func (p *Pipeline) updateAudio(t Transport) {
	out := t.AcquireMutableInput(RailI)

	var qs []int16
	if p.needsQ() {
		q := t.AcquireInput(RailQ)
		if q == nil {
			if out != nil {
				t.Release(out)
			}
			return
		}
		defer t.Release(q)
		qs = q.Samples()
	}

	if out == nil {
		return
	}

	if p.Process(out.Samples(), qs) {
		t.Publish(out)
	}
	t.Release(out)
}

func (p *Pipeline) updateReport(t Transport) {
	i := t.AcquireInput(RailI)

	var qs []int16
	if p.needsQ() {
		q := t.AcquireInput(RailQ)
		if q == nil {
			if i != nil {
				t.Release(i)
			}
			return
		}
		defer t.Release(q)
		qs = q.Samples()
	}

	if i == nil {
		return
	}

	p.Process(i.Samples(), qs)
	t.Release(i)
}

func (p *Pipeline) envelopeIQ(out, q []int16) {
	n := min(len(out), len(q))
	for k := range n {
		if !p.envelope.Tick() {
			out[k] = p.fill()
			continue
		}

		p.hold = p.magnitude(int32(out[k]), int32(q[k]))
		out[k] = p.hold
	}
}

func (p *Pipeline) envelopeReal(out []int16) {
	for k, x := range out {
		delayed, shifted := p.filter.ProcessReal(int32(x))
		if !p.envelope.Tick() {
			out[k] = p.fill()
			continue
		}

		p.hold = p.magnitude(int32(core.Sat16(delayed)), int32(core.Sat16(shifted)))
		out[k] = p.hold
	}
}

func (p *Pipeline) fill() int16 {
	if p.cfg.fill == FillHold {
		return p.hold
	}

	return 0
}

func (p *Pipeline) sideband(out, q []int16) {
	upper := p.mode == ModeUpperSideband

	n := min(len(out), len(q))
	for k := range n {
		delayed, shifted := p.filter.Process(int32(out[k]), int32(q[k]))
		out[k] = Combine(delayed, shifted, upper)
	}
}

func (p *Pipeline) reportReal(i []int16) {
	for _, x := range i {
		delayed, shifted := p.filter.ProcessReal(int32(x))
		p.decim.Push(core.Sat16(delayed), core.Sat16(shifted))
	}
}

// Combine forms one sideband from the delayed and the 90 degree shifted
// rail, saturated to 16 bits: delayed+shifted for the upper sideband,
// delayed-shifted for the lower.
func Combine(delayed, shifted int32, upper bool) int16 {
	if upper {
		return core.Sat16(delayed + shifted)
	}

	return core.Sat16(delayed - shifted)
}

// Report returns the report buffer for direct polling.
func (p *Pipeline) Report() *decimate.ReportBuffer {
	return p.report
}

// ReportAvailable reports whether at least half the report ring has been
// written since the last mode change.
func (p *Pipeline) ReportAvailable() bool {
	return p.report.Available()
}

// MagnitudeAt returns the report magnitude at index in [0, BlockSize()).
func (p *Pipeline) MagnitudeAt(index int) int16 {
	return p.report.Magnitude(index)
}

// PhaseAt returns the report phase at index in [0, BlockSize()).
func (p *Pipeline) PhaseAt(index int) int32 {
	return p.report.Phase(index)
}

// ReportPosition returns the write index published at the end of the last
// report block.
func (p *Pipeline) ReportPosition() int {
	return p.report.Position()
}

// BlockSize returns the configured block size.
func (p *Pipeline) BlockSize() int {
	return p.cfg.proc.BlockSize
}

// SampleRate returns the configured input sample rate.
func (p *Pipeline) SampleRate() int {
	return p.cfg.proc.SampleRate
}

// Decimation returns the report decimation ratio.
func (p *Pipeline) Decimation() int {
	return p.cfg.proc.Decimation
}

// QuarterTurn returns the phase unit of the report.
func (p *Pipeline) QuarterTurn() int32 {
	return p.cfg.quarterTurn
}

// Estimator returns the magnitude strategy.
func (p *Pipeline) Estimator() iq.Estimator {
	return p.cfg.estimator
}
