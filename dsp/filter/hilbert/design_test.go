package hilbert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-iqdemod/dsp/window"
)

func TestDesignRectangularIsTruncatedIdeal(t *testing.T) {
	c, err := Design(window.Generate(window.TypeRectangular, Taps))
	require.NoError(t, err)
	assert.Equal(t, Coefficients{1390, 1604, 1896, 2317, 2980, 4172, 6953, 20860}, c)

	k, err := DesignKaiser(0)
	require.NoError(t, err)
	assert.Equal(t, c, k)
}

func TestDesignKaiserFlattensPassband(t *testing.T) {
	c, err := DesignKaiser(6)
	require.NoError(t, err)

	assert.InDelta(t, 1, c.Gain(0.25), 0.002)
	assert.InDelta(t, 1, c.Gain(0.1), 0.005)

	for m := 1; m < Pairs; m++ {
		assert.Less(t, c[m-1], c[m], "taps grow toward the center")
	}

	f, err := NewFromCoefficients(c)
	require.NoError(t, err)
	assert.Equal(t, c, f.Coefficients())
}

func TestDesignValidation(t *testing.T) {
	_, err := Design(make([]float64, Taps-1))
	require.Error(t, err)

	_, err = DesignKaiser(-1)
	require.Error(t, err)

	big := window.Generate(window.TypeRectangular, Taps)
	big[Center-1] = 2
	_, err = Design(big)
	require.Error(t, err)
}
