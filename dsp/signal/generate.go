package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

// Oscillator produces a quadrature tone one frame at a time. The phase is
// derived from the sample index, so long runs do not accumulate drift.
// A positive frequency gives I = cos, Q = sin (upper sideband).
type Oscillator struct {
	step float64
	amp  float64
	n    int64
}

// NewOscillator returns an oscillator at freq cycles per sample.
func NewOscillator(freq float64, amplitude int) (*Oscillator, error) {
	if math.IsNaN(freq) || freq < -0.5 || freq > 0.5 {
		return nil, fmt.Errorf("signal: frequency must be in [-0.5, 0.5] cycles per sample: %v", freq)
	}
	if amplitude < 0 || amplitude > math.MaxInt16 {
		return nil, fmt.Errorf("signal: amplitude must be in [0, %d]: %d", math.MaxInt16, amplitude)
	}

	return &Oscillator{step: 2 * math.Pi * freq, amp: float64(amplitude)}, nil
}

// Seek moves the oscillator to sample index n. Negative indices are valid
// and continue the tone backwards in time.
func (o *Oscillator) Seek(n int64) {
	o.n = n
}

// Next returns the frame at the current index and advances.
func (o *Oscillator) Next() (i, q int16) {
	phi := o.step * float64(o.n)
	o.n++

	return int16(math.Round(o.amp * math.Cos(phi))), int16(math.Round(o.amp * math.Sin(phi)))
}

// Fill writes len(i) frames. i and q must have the same length.
func (o *Oscillator) Fill(i, q []int16) {
	if len(i) == 0 {
		return
	}

	_ = q[len(i)-1]
	for k := range i {
		i[k], q[k] = o.Next()
	}
}

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator running at the configured sample rate.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Quadrature generates a complex tone at freqHz. Negative frequencies
// place the tone in the lower sideband.
func (g *Generator) Quadrature(freqHz float64, amplitude, samples int) (i, q []int16, err error) {
	if samples <= 0 {
		return nil, nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}

	o, err := NewOscillator(freqHz/float64(g.cfg.SampleRate), amplitude)
	if err != nil {
		return nil, nil, err
	}

	i = make([]int16, samples)
	q = make([]int16, samples)
	o.Fill(i, q)

	return i, q, nil
}

// AM generates a complex carrier at carrierHz whose envelope is modulated
// by a cosine at modHz with the given depth in [0, 1]. The envelope peaks
// at amplitude.
func (g *Generator) AM(carrierHz, modHz, depth float64, amplitude, samples int) (i, q []int16, err error) {
	if depth < 0 || depth > 1 {
		return nil, nil, fmt.Errorf("signal: modulation depth must be in [0, 1]: %v", depth)
	}

	i, q, err = g.Quadrature(carrierHz, amplitude, samples)
	if err != nil {
		return nil, nil, err
	}

	step := 2 * math.Pi * modHz / float64(g.cfg.SampleRate)
	for k := range i {
		env := (1 + depth*math.Cos(step*float64(k))) / (1 + depth)
		i[k] = int16(math.Round(float64(i[k]) * env))
		q[k] = int16(math.Round(float64(q[k]) * env))
	}

	return i, q, nil
}

// WhiteNoise generates deterministic uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude, samples int) ([]int16, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if amplitude < 0 || amplitude > math.MaxInt16 {
		return nil, fmt.Errorf("signal: amplitude must be in [0, %d]: %d", math.MaxInt16, amplitude)
	}

	rng := rand.New(rand.NewPCG(g.seed, 0))
	out := make([]int16, samples)
	for k := range out {
		out[k] = int16(rng.IntN(2*amplitude+1) - amplitude)
	}

	return out, nil
}
