package iq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMagnitudeKnownValues(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		i, q int32
		want int16
	}{
		{"fast equal", Fast, 1000, 1000, 1343},
		{"fast negative", Fast, -1000, -1000, 1343},
		{"fast 3-4", Fast, 3, 4, 4},
		{"fast 300-400", Fast, 300, 400, 499},
		{"fast axis", Fast, -32768, 0, 31744},
		{"fast saturates", Fast, 32767, 32767, 32767},
		{"refined equal", Refined, 1000, 1000, 1375},
		{"refined near axis", Refined, 1000, 250, 1000},
		{"refined 300-400", Refined, 300, 400, 500},
		{"exact 3-4", Exact, 3, 4, 5},
		{"exact equal", Exact, 1000, 1000, 1414},
		{"exact saturates", Exact, -32768, -32768, 32767},
		{"origin", Exact, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.i, tt.q))
		})
	}
}

func TestEstimatorDispatch(t *testing.T) {
	assert.Equal(t, int16(1343), EstimatorFast.Magnitude(1000, 1000))
	assert.Equal(t, int16(1375), EstimatorRefined.Magnitude(1000, 1000))
	assert.Equal(t, int16(1414), EstimatorExact.Magnitude(1000, 1000))
	assert.Equal(t, int16(1343), Estimator(99).Magnitude(1000, 1000), "unknown falls back to fast")

	require.NoError(t, EstimatorExact.Validate())
	require.Error(t, Estimator(99).Validate())
}

func TestParseEstimator(t *testing.T) {
	for _, e := range []Estimator{EstimatorFast, EstimatorRefined, EstimatorExact} {
		got, err := ParseEstimator(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := ParseEstimator("fast2")
	require.NoError(t, err)
	assert.Equal(t, EstimatorRefined, got)

	_, err = ParseEstimator("cordic")
	require.Error(t, err)
	assert.Equal(t, "unknown", Estimator(-1).String())
}

func drawSample(t *rapid.T, label string) int32 {
	return int32(rapid.Int16().Draw(t, label))
}

func TestFastBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i, q := drawSample(t, "i"), drawSample(t, "q")
		hi := max(abs(i), abs(q))
		lo := min(abs(i), abs(q))
		got := int32(Fast(i, q))

		if got < 0 {
			t.Fatalf("Fast(%d,%d) = %d is negative", i, q, got)
		}
		if want := min((31*hi)>>5+(3*lo)>>3, 32767); got != want {
			t.Fatalf("Fast(%d,%d) = %d, want %d", i, q, got, want)
		}
		if got < min((31*hi)>>5, 32767) {
			t.Fatalf("Fast(%d,%d) = %d below max*31/32", i, q, got)
		}
		if float64(got) > math.Sqrt2*float64(hi) {
			t.Fatalf("Fast(%d,%d) = %d above sqrt2*max", i, q, got)
		}
	})
}

func TestEstimatorAccuracy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i, q := drawSample(t, "i"), drawSample(t, "q")
		norm := math.Hypot(float64(i), float64(q))
		if norm > 32767 {
			t.Skip("saturated")
		}

		if d := math.Abs(float64(Exact(i, q)) - norm); d > 1 {
			t.Fatalf("Exact(%d,%d) off by %v", i, q, d)
		}
		if d := math.Abs(float64(Refined(i, q)) - norm); d > 0.035*norm+3 {
			t.Fatalf("Refined(%d,%d) off by %v", i, q, d)
		}
		if d := math.Abs(float64(Fast(i, q)) - norm); d > 0.051*norm+3 {
			t.Fatalf("Fast(%d,%d) off by %v", i, q, d)
		}
	})
}

func TestMagnitudeSaturatesNeverNegative(t *testing.T) {
	for _, fn := range []Func{Fast, Refined, Exact} {
		for _, v := range [][2]int32{{-32768, -32768}, {32767, -32768}, {-32768, 0}} {
			got := fn(v[0], v[1])
			assert.GreaterOrEqual(t, got, int16(0))
			assert.LessOrEqual(t, got, int16(32767))
		}
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
