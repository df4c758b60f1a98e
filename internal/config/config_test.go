package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	mode, opts, err := cfg.Pipeline(nil)
	require.NoError(t, err)
	assert.Equal(t, demod.ModeEnvelope, mode)

	p, err := demod.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, iq.EstimatorRefined, p.Estimator())
	assert.Equal(t, int32(33087), p.QuarterTurn())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
mode: usb
estimator: exact
sample_rate: 48000
decimation: 4
single_rail: true
log_level: debug
report:
  interval: 250ms
live:
  queue: 16
`))
	require.NoError(t, err)

	assert.Equal(t, "usb", cfg.Mode)
	assert.Equal(t, "exact", cfg.Estimator)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, 4, cfg.Decimation)
	assert.True(t, cfg.SingleRail)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 250*time.Millisecond, cfg.Report.Interval)
	assert.Equal(t, 16, cfg.Live.Queue)

	// Untouched keys keep their defaults.
	assert.Equal(t, "kaiser", cfg.Preset)
	assert.Equal(t, 128, cfg.BlockSize)
	assert.Equal(t, Default().Report.Pattern, cfg.Report.Pattern)
	assert.Equal(t, 128, cfg.Live.FramesPerBuffer)

	mode, opts, err := cfg.Pipeline(nil)
	require.NoError(t, err)
	assert.Equal(t, demod.ModeUpperSideband, mode)

	p, err := demod.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, iq.QuarterTurnFor(48000, 4), p.QuarterTurn())
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"mode":        "mode: fm",
		"estimator":   "estimator: cordic",
		"preset":      "preset: remez",
		"fill":        "fill: ramp",
		"log level":   "log_level: loud",
		"block size":  "block_size: 100",
		"decimation":  "decimation: 0",
		"output":      "output_decimation: 65",
		"sample rate": "sample_rate: -1",
		"quarter":     "quarter_turn: -5",
		"even taps":   "output_decimation: 4\nsmooth_taps: 30",
		"no decim":    "smooth_taps: 31",
		"yaml":        "mode: [",
	}

	for name, doc := range tests {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Mode = "fm"
	cfg.BlockSize = 3

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, demod.ErrMode)
	assert.Contains(t, err.Error(), "block size")

	_, _, err = cfg.Pipeline(nil)
	require.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Mode = "report"
	cfg.Fill = "hold"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "iqdemod.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseFill(t *testing.T) {
	f, err := ParseFill("hold")
	require.NoError(t, err)
	assert.Equal(t, demod.FillHold, f)

	f, err = ParseFill("")
	require.NoError(t, err)
	assert.Equal(t, demod.FillZero, f)
}

func TestSmoother(t *testing.T) {
	cfg := Default()
	f, err := cfg.Smoother()
	require.NoError(t, err)
	assert.Nil(t, f)

	cfg.OutputDecimation = 4
	cfg.SmoothTaps = 31
	f, err = cfg.Smoother()
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 31, f.Taps())
	assert.InDelta(t, 4, real(f.Response(0)), 0.01)

	cfg.Fill = "hold"
	f, err = cfg.Smoother()
	require.NoError(t, err)
	assert.InDelta(t, 1, real(f.Response(0)), 0.01)
}
