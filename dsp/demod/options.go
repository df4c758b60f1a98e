package demod

import (
	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

// Fill selects what an envelope output holds between decimated samples.
type Fill int

const (
	// FillZero inserts silence. A following low-pass filter restores the
	// original rate.
	FillZero Fill = iota
	// FillHold repeats the last decimated value.
	FillHold
)

func (f Fill) String() string {
	switch f {
	case FillZero:
		return "zero"
	case FillHold:
		return "hold"
	default:
		return "unknown"
	}
}

type config struct {
	proc             core.ProcessorConfig
	outputDecimation int
	estimator        iq.Estimator
	preset           hilbert.Preset
	quarterTurn      int32
	fill             Fill
	singleRail       bool
	logger           *log.Logger
}

// Option configures a [Pipeline].
type Option func(*config)

func defaultConfig() config {
	return config{
		proc:             core.DefaultProcessorConfig(),
		outputDecimation: 1,
		estimator:        iq.EstimatorRefined,
		preset:           hilbert.PresetKaiser,
	}
}

// WithBlockSize sets the transport block size and report ring length.
// It must be a power of two.
func WithBlockSize(n int) Option {
	return func(cfg *config) {
		core.WithBlockSize(n)(&cfg.proc)
	}
}

// WithSampleRate sets the input sample rate used to derive the phase unit.
func WithSampleRate(rate int) Option {
	return func(cfg *config) {
		core.WithSampleRate(rate)(&cfg.proc)
	}
}

// WithDecimation sets the report decimation ratio.
func WithDecimation(ratio int) Option {
	return func(cfg *config) {
		core.WithDecimation(ratio)(&cfg.proc)
	}
}

// WithOutputDecimation sets the envelope decimation ratio. 1 (the default)
// computes every sample.
func WithOutputDecimation(ratio int) Option {
	return func(cfg *config) {
		if ratio > 0 {
			cfg.outputDecimation = ratio
		}
	}
}

// WithEstimator selects the magnitude strategy.
func WithEstimator(e iq.Estimator) Option {
	return func(cfg *config) {
		cfg.estimator = e
	}
}

// WithHilbertPreset selects the Hilbert coefficient set.
func WithHilbertPreset(p hilbert.Preset) Option {
	return func(cfg *config) {
		cfg.preset = p
	}
}

// WithQuarterTurn overrides the phase unit. By default it is derived from
// the sample rate and report decimation with [iq.QuarterTurnFor].
func WithQuarterTurn(units int32) Option {
	return func(cfg *config) {
		if units > 0 {
			cfg.quarterTurn = units
		}
	}
}

// WithEnvelopeFill selects what fills non-decimated envelope positions.
func WithEnvelopeFill(f Fill) Option {
	return func(cfg *config) {
		cfg.fill = f
	}
}

// WithSingleRail makes envelope and report modes consume only the I rail and
// synthesize Q with the Hilbert filter. Sideband modes still need both rails.
func WithSingleRail() Option {
	return func(cfg *config) {
		cfg.singleRail = true
	}
}

// WithLogger sets a logger for mode transitions. The block path never logs.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
