package hilbert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-iqdemod/internal/testutil"
)

func TestPresetCoefficientsQuantization(t *testing.T) {
	kaiser, err := PresetCoefficients(PresetKaiser)
	require.NoError(t, err)
	assert.Equal(t, Coefficients{97, 267, 572, 1077, 1901, 3330, 6408, 20628}, kaiser)

	rect, err := PresetCoefficients(PresetRectangular)
	require.NoError(t, err)
	assert.Equal(t, Coefficients{1293, 1492, 1763, 2155, 2771, 3879, 6466, 19398}, rect)

	_, err = PresetCoefficients(Preset(42))
	require.Error(t, err)
}

func TestSetCoefficientsValidation(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)
	assert.Equal(t, PresetKaiser, f.Preset())

	require.Error(t, f.SetCoefficients(Coefficients{-1}))
	require.Error(t, f.SetCoefficients(Coefficients{0, 0, 0, 0, 0, 0, 0, 1 << 15}))

	require.NoError(t, f.SetCoefficients(Coefficients{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, Preset(-1), f.Preset())
}

func TestImpulseResponseKaiser(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)

	want := []int32{
		-97, 0, -267, 0, -572, 0, -1077, 0, -1901, 0, -3330, 0, -6408, 0, -20628, 0,
		20627, 0, 6407, 0, 3329, 0, 1900, 0, 1076, 0, 571, 0, 266, 0, 96,
	}

	for n, w := range want {
		in := int32(0)
		if n == 0 {
			in = 32767
		}

		delayed, shifted := f.Process(in, 0)
		if delayed != 0 {
			t.Fatalf("delayed[%d] = %d, want 0", n, delayed)
		}
		if shifted != w {
			t.Fatalf("shifted[%d] = %d, want %d", n, shifted, w)
		}
	}

	// The impulse has left the delay line.
	_, shifted := f.Process(0, 0)
	assert.Equal(t, int32(0), shifted)
}

func TestDelayRailIsCenterTap(t *testing.T) {
	f, err := New(PresetRectangular)
	require.NoError(t, err)

	for n := range Taps {
		delayed, _ := f.Process(0, int32(n+1))
		if n < Center {
			assert.Equal(t, int32(0), delayed, "sample %d still inside the startup transient", n)
			continue
		}
		assert.Equal(t, int32(n+1-Center), delayed, "sample %d", n)
	}
}

func TestEnvelopeIsConstantAfterStartup(t *testing.T) {
	for _, freq := range []float64{0.1, 0.125, 0.2, 0.25} {
		f, err := NewDefault()
		require.NoError(t, err)

		x := testutil.Widen(testutil.Tone(freq, 0, 8000, 400))
		delayed := make([]int32, len(x))
		shifted := make([]int32, len(x))
		require.NoError(t, f.ProcessBlock(x, x, delayed, shifted))

		lo, hi := testutil.EnvelopeRange(delayed[Taps:], shifted[Taps:])
		assert.Greater(t, lo, 7950.0, "freq %v", freq)
		assert.Less(t, hi, 8010.0, "freq %v", freq)
	}
}

func TestQuadratureToneCancelsOneSideband(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)

	i, q := testutil.Quadrature(0.2, 8000, 400)

	var upperPeak, lowerPeak int32
	for n := range i {
		delayed, shifted := f.Process(int32(i[n]), int32(q[n]))
		if n < Taps {
			continue
		}

		upperPeak = max(upperPeak, abs(delayed+shifted))
		lowerPeak = max(lowerPeak, abs(delayed-shifted))
	}

	assert.Greater(t, upperPeak, int32(15000))
	assert.LessOrEqual(t, lowerPeak, int32(40))
}

func TestFullScaleDoesNotWrap(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)

	// Pattern maximizing every tap-pair difference at the output instant.
	for n := range Taps {
		v := int32(32767)
		if n > Center {
			v = -32768
		}
		if n%2 == 1 {
			v = 0
		}
		_, shifted := f.Process(v, 0)
		if n == Taps-1 {
			assert.Greater(t, shifted, int32(60000))
		}
	}
}

func TestProcessBlockLengthMismatch(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)

	err = f.ProcessBlock(make([]int32, 4), make([]int32, 3), make([]int32, 4), make([]int32, 4))
	require.Error(t, err)
}

func TestResetClearsState(t *testing.T) {
	f, err := NewDefault()
	require.NoError(t, err)

	for range 10 {
		f.Process(1000, 1000)
	}
	f.Reset()

	delayed, shifted := f.Process(0, 0)
	assert.Zero(t, delayed)
	assert.Zero(t, shifted)
}

func TestGain(t *testing.T) {
	kaiser, err := NewDefault()
	require.NoError(t, err)
	rect, err := New(PresetRectangular)
	require.NoError(t, err)

	testutil.RequireWithin(t, "kaiser@0.25", kaiser.Gain(0.25), 0.9963, 1e-3)
	testutil.RequireWithin(t, "kaiser@0.1", kaiser.Gain(0.1), 0.999, 1e-3)
	testutil.RequireWithin(t, "rect@0.25", rect.Gain(0.25), 0.893, 1e-3)
	testutil.RequireWithin(t, "dc", kaiser.Gain(0), 0, 1e-12)
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
