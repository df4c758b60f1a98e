package hilbert

import (
	"fmt"
	"strings"
)

// Preset selects one of the built-in coefficient sets.
type Preset int

const (
	// PresetKaiser is the Kaiser-windowed design and the default.
	PresetKaiser Preset = iota
	// PresetRectangular is the unwindowed ideal-Hilbert design. It has a
	// narrower transition band but poor stop-band rejection.
	PresetRectangular
)

// Real-valued coefficients, largest lag first. Tap pair m multiplies the
// samples 15-2m positions either side of the center.
var (
	kaiserTaps = [Pairs]float64{
		0.002972769320862211,
		0.008171666650726522,
		0.017465643081957562,
		0.032878923709314147,
		0.058021930268698417,
		0.101629404192315698,
		0.195583262432201366,
		0.629544595185021816,
	}
	rectangularTaps = [Pairs]float64{
		0.039466626150415629,
		0.045538422602429005,
		0.053818143717831897,
		0.065777739272219193,
		0.084571387356147970,
		0.118399951005067283,
		0.197333261348968420,
		0.591999798557916845,
	}
)

func (p Preset) String() string {
	switch p {
	case PresetKaiser:
		return "kaiser"
	case PresetRectangular:
		return "rectangular"
	default:
		return "unknown"
	}
}

// ParsePreset maps a preset name as printed by [Preset.String] back to the
// preset. Matching is case-insensitive.
func ParsePreset(name string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kaiser", "":
		return PresetKaiser, nil
	case "rectangular", "none":
		return PresetRectangular, nil
	default:
		return 0, fmt.Errorf("hilbert: unknown preset: %q", name)
	}
}

// PresetCoefficients returns the Q15 coefficient set of a preset.
func PresetCoefficients(preset Preset) (Coefficients, error) {
	switch preset {
	case PresetKaiser:
		return quantize(kaiserTaps), nil
	case PresetRectangular:
		return quantize(rectangularTaps), nil
	default:
		return Coefficients{}, fmt.Errorf("hilbert: invalid preset: %d", preset)
	}
}

// New creates a filter using a preset coefficient set.
func New(preset Preset) (*Filter, error) {
	c, err := PresetCoefficients(preset)
	if err != nil {
		return nil, err
	}

	f, err := NewFromCoefficients(c)
	if err != nil {
		return nil, err
	}

	f.preset = preset

	return f, nil
}

// NewDefault creates a filter with the Kaiser-windowed coefficients.
func NewDefault() (*Filter, error) {
	return New(PresetKaiser)
}

// quantize converts real coefficients to Q15 the way the reference tables
// were generated: truncation of c * 32767.5.
func quantize(taps [Pairs]float64) Coefficients {
	var c Coefficients
	for i, v := range taps {
		c[i] = int32(32767.5 * v)
	}

	return c
}
