package sideband

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/dsp/signal"
	"github.com/cwbudde/algo-iqdemod/dsp/window"
)

const defaultFFTSize = 4096

// ErrNoSignal is returned when there are no samples to analyze.
var ErrNoSignal = errors.New("sideband: empty signal")

// Config holds analysis parameters. Frequencies are in cycles per sample
// when SampleRate is zero, in Hz otherwise.
type Config struct {
	SampleRate  float64
	FFTSize     int
	Window      window.Type
	CaptureBins int
}

// Result is one sideband measurement.
type Result struct {
	Freq        float64
	Upper       float64
	Lower       float64
	RejectionDB float64
}

// Analyzer computes tone levels. It reuses its FFT plan and buffers and is
// not safe for concurrent use.
type Analyzer struct {
	cfg    Config
	plan   *algofft.Plan[complex128]
	coeffs []float64
	in     []complex128
	out    []complex128
	power  []float64
}

// NewAnalyzer prepares an analyzer for signals of up to FFTSize samples.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	cfg = normalizeConfig(cfg)
	if !core.IsPowerOfTwo(cfg.FFTSize) {
		return nil, fmt.Errorf("sideband: FFT size must be a power of two: %d", cfg.FFTSize)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("sideband: %w", err)
	}

	return &Analyzer{
		cfg:   cfg,
		plan:  plan,
		in:    make([]complex128, cfg.FFTSize),
		out:   make([]complex128, cfg.FFTSize),
		power: make([]float64, cfg.FFTSize/2+1),
	}, nil
}

// Config returns the normalized configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// ToneLevel returns the peak amplitude, in sample units, of the tone
// nearest freq. Up to FFTSize samples are used.
func (a *Analyzer) ToneLevel(samples []int16, freq float64) (float64, error) {
	n, err := a.spectrum(samples)
	if err != nil {
		return 0, err
	}

	return a.level(n, freq), nil
}

// Rejection returns the level ratio in dB between the tone at freq in
// wanted and in unwanted. It is +Inf when unwanted has no energy there.
func (a *Analyzer) Rejection(wanted, unwanted []int16, freq float64) (float64, error) {
	w, err := a.ToneLevel(wanted, freq)
	if err != nil {
		return 0, err
	}

	u, err := a.ToneLevel(unwanted, freq)
	if err != nil {
		return 0, err
	}

	return ratioToDB(w, u), nil
}

// Measure feeds a quadrature tone of the given amplitude at freq through a
// filter using c, forms both sidebands and returns their levels. A positive
// freq belongs in the upper sideband.
func (a *Analyzer) Measure(c hilbert.Coefficients, freq float64, amplitude int) (Result, error) {
	f, err := hilbert.NewFromCoefficients(c)
	if err != nil {
		return Result{}, fmt.Errorf("sideband: %w", err)
	}

	osc, err := signal.NewOscillator(a.normalized(freq), amplitude)
	if err != nil {
		return Result{}, fmt.Errorf("sideband: %w", err)
	}
	osc.Seek(-hilbert.Taps)

	n := a.cfg.FFTSize
	upper := make([]int16, n)
	lower := make([]int16, n)

	for k := -hilbert.Taps; k < n; k++ {
		i, q := osc.Next()

		delayed, shifted := f.Process(int32(i), int32(q))
		if k < 0 {
			continue
		}

		upper[k] = demod.Combine(delayed, shifted, true)
		lower[k] = demod.Combine(delayed, shifted, false)
	}

	res := Result{Freq: freq}
	if res.Upper, err = a.ToneLevel(upper, math.Abs(freq)); err != nil {
		return Result{}, err
	}
	if res.Lower, err = a.ToneLevel(lower, math.Abs(freq)); err != nil {
		return Result{}, err
	}

	if freq >= 0 {
		res.RejectionDB = ratioToDB(res.Upper, res.Lower)
	} else {
		res.RejectionDB = ratioToDB(res.Lower, res.Upper)
	}

	return res, nil
}

// Sweep measures c at every frequency in freqs.
func (a *Analyzer) Sweep(c hilbert.Coefficients, freqs []float64, amplitude int) ([]Result, error) {
	out := make([]Result, 0, len(freqs))
	for _, f := range freqs {
		r, err := a.Measure(c, f, amplitude)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, nil
}

// spectrum windows samples into the FFT input and fills the one-sided
// power spectrum. It returns the number of samples used.
func (a *Analyzer) spectrum(samples []int16) (int, error) {
	n := min(len(samples), a.cfg.FFTSize)
	if n == 0 {
		return 0, ErrNoSignal
	}

	if len(a.coeffs) != n {
		a.coeffs = window.Generate(a.cfg.Window, n, window.WithPeriodic())
	}

	buf := make([]float64, n)
	for k := range buf {
		buf[k] = float64(samples[k])
	}
	if err := window.ApplyCoefficientsInPlace(buf, a.coeffs); err != nil {
		return 0, fmt.Errorf("sideband: %w", err)
	}

	for k := range a.in {
		a.in[k] = 0
	}
	for k, v := range buf {
		a.in[k] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, fmt.Errorf("sideband: %w", err)
	}

	for k := range a.power {
		x := a.out[k]
		a.power[k] = real(x)*real(x) + imag(x)*imag(x)
	}

	return n, nil
}

// level integrates the power around the peak nearest freq and scales it to
// a sine amplitude using Parseval over the window energy.
func (a *Analyzer) level(n int, freq float64) float64 {
	maxBin := len(a.power) - 1
	bin := clampInt(int(math.Round(a.normalized(freq)*float64(a.cfg.FFTSize))), 0, maxBin)
	// Zero padding narrows the bins; widen the capture to keep the whole lobe.
	capture := a.cfg.CaptureBins * a.cfg.FFTSize / n

	peak := bin
	for k := max(bin-capture, 0); k <= min(bin+capture, maxBin); k++ {
		if a.power[k] > a.power[peak] {
			peak = k
		}
	}

	sum := 0.0
	for k := max(peak-capture, 0); k <= min(peak+capture, maxBin); k++ {
		sum += a.power[k]
	}

	energy := 0.0
	for _, w := range a.coeffs[:n] {
		energy += w * w
	}
	if energy == 0 {
		return 0
	}

	return 2 * math.Sqrt(sum/(float64(a.cfg.FFTSize)*energy))
}

func (a *Analyzer) normalized(freq float64) float64 {
	if a.cfg.SampleRate > 0 {
		return freq / a.cfg.SampleRate
	}

	return freq
}

func normalizeConfig(cfg Config) Config {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}

	if cfg.Window == window.TypeRectangular {
		cfg.Window = window.TypeBlackmanHarris
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = captureBinsByType(cfg.Window)
	}

	return cfg
}

// captureBinsByType returns the half-width of the main lobe in bins.
func captureBinsByType(t window.Type) int {
	switch t {
	case window.TypeHann, window.TypeHamming:
		return 2
	case window.TypeBlackman, window.TypeKaiser:
		return 3
	case window.TypeBlackmanHarris:
		return 4
	case window.TypeFlatTop:
		return 5
	default:
		return 1
	}
}

func ratioToDB(num, den float64) float64 {
	if den <= 0 {
		return math.Inf(1)
	}
	if num <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(num/den)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
