// Package config loads the YAML configuration of the command-line tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
	"github.com/cwbudde/algo-iqdemod/dsp/demod"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/fir"
	"github.com/cwbudde/algo-iqdemod/dsp/filter/hilbert"
	"github.com/cwbudde/algo-iqdemod/dsp/iq"
)

const maxSmoothTaps = 255

// Config is the demodulator configuration file.
type Config struct {
	Mode             string `yaml:"mode"`
	Estimator        string `yaml:"estimator"`
	Preset           string `yaml:"preset"`
	SampleRate       int    `yaml:"sample_rate"`
	BlockSize        int    `yaml:"block_size"`
	Decimation       int    `yaml:"decimation"`
	OutputDecimation int    `yaml:"output_decimation"`
	Fill             string `yaml:"fill"`
	SmoothTaps       int    `yaml:"smooth_taps"`
	SingleRail       bool   `yaml:"single_rail"`
	QuarterTurn      int32  `yaml:"quarter_turn"`
	LogLevel         string `yaml:"log_level"`

	Report Report `yaml:"report"`
	Live   Live   `yaml:"live"`
}

// Report configures the magnitude/phase log written in report mode.
type Report struct {
	// Pattern is a strftime pattern for the CSV file name. Empty disables
	// the log.
	Pattern  string        `yaml:"pattern"`
	Interval time.Duration `yaml:"interval"`
}

// Live configures PortAudio capture and playback.
type Live struct {
	FramesPerBuffer int  `yaml:"frames_per_buffer"`
	Queue           int  `yaml:"queue"`
	Mlock           bool `yaml:"mlock"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:             demod.ModeEnvelope.String(),
		Estimator:        iq.EstimatorRefined.String(),
		Preset:           hilbert.PresetKaiser.String(),
		SampleRate:       core.DefaultSampleRate,
		BlockSize:        core.DefaultBlockSize,
		Decimation:       core.DefaultDecimation,
		OutputDecimation: 1,
		Fill:             demod.FillZero.String(),
		LogLevel:         log.InfoLevel.String(),
		Report: Report{
			Pattern:  "iqreport-%Y%m%d-%H%M%S.csv",
			Interval: 50 * time.Millisecond,
		},
		Live: Live{
			FramesPerBuffer: core.DefaultBlockSize,
			Queue:           8,
			Mlock:           true,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every named value and numeric range.
func (c Config) Validate() error {
	var errs []error

	if _, err := demod.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := iq.ParseEstimator(c.Estimator); err != nil {
		errs = append(errs, err)
	}
	if _, err := hilbert.ParsePreset(c.Preset); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseFill(c.Fill); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}

	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("config: sample rate must be > 0: %d", c.SampleRate))
	}
	if !core.IsPowerOfTwo(c.BlockSize) {
		errs = append(errs, fmt.Errorf("config: block size must be a power of two: %d", c.BlockSize))
	}
	if c.Decimation < 1 || c.Decimation > core.MaxDecimation {
		errs = append(errs, fmt.Errorf("config: decimation must be in [1, %d]: %d", core.MaxDecimation, c.Decimation))
	}
	if c.OutputDecimation < 1 || c.OutputDecimation > core.MaxDecimation {
		errs = append(errs, fmt.Errorf("config: output decimation must be in [1, %d]: %d", core.MaxDecimation, c.OutputDecimation))
	}
	if c.SmoothTaps != 0 {
		if c.SmoothTaps < 3 || c.SmoothTaps > maxSmoothTaps || c.SmoothTaps%2 == 0 {
			errs = append(errs, fmt.Errorf("config: smoothing taps must be 0 or odd in [3, %d]: %d", maxSmoothTaps, c.SmoothTaps))
		}
		if c.OutputDecimation < 2 {
			errs = append(errs, errors.New("config: smoothing needs an output decimation of at least 2"))
		}
	}
	if c.QuarterTurn < 0 {
		errs = append(errs, fmt.Errorf("config: quarter turn must be >= 0: %d", c.QuarterTurn))
	}
	if c.Report.Interval < 0 {
		errs = append(errs, fmt.Errorf("config: report interval must be >= 0: %s", c.Report.Interval))
	}
	if c.Live.FramesPerBuffer < 0 || c.Live.Queue < 0 {
		errs = append(errs, errors.New("config: live buffer sizes must be >= 0"))
	}

	return errors.Join(errs...)
}

// ParseFill maps "zero" or "hold" to the envelope fill.
func ParseFill(name string) (demod.Fill, error) {
	switch name {
	case demod.FillZero.String(), "":
		return demod.FillZero, nil
	case demod.FillHold.String():
		return demod.FillHold, nil
	default:
		return demod.FillZero, fmt.Errorf("config: unknown fill: %q", name)
	}
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}

	return l
}

// Pipeline resolves the configuration into the initial mode and pipeline
// options.
func (c Config) Pipeline(logger *log.Logger) (demod.Mode, []demod.Option, error) {
	if err := c.Validate(); err != nil {
		return demod.ModeIdle, nil, err
	}

	mode, _ := demod.ParseMode(c.Mode)
	est, _ := iq.ParseEstimator(c.Estimator)
	preset, _ := hilbert.ParsePreset(c.Preset)
	fill, _ := ParseFill(c.Fill)

	opts := []demod.Option{
		demod.WithSampleRate(c.SampleRate),
		demod.WithBlockSize(c.BlockSize),
		demod.WithDecimation(c.Decimation),
		demod.WithOutputDecimation(c.OutputDecimation),
		demod.WithEstimator(est),
		demod.WithHilbertPreset(preset),
		demod.WithEnvelopeFill(fill),
		demod.WithQuarterTurn(c.QuarterTurn),
		demod.WithLogger(logger),
	}
	if c.SingleRail {
		opts = append(opts, demod.WithSingleRail())
	}

	return mode, opts, nil
}

// Smoother returns the low-pass applied to the decimated envelope, or nil
// when smoothing is disabled.
func (c Config) Smoother() (*fir.Filter, error) {
	if c.SmoothTaps == 0 {
		return nil, nil
	}

	fill, err := ParseFill(c.Fill)
	if err != nil {
		return nil, err
	}

	f, err := fir.Smoother(c.OutputDecimation, c.SmoothTaps, fill == demod.FillZero)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return f, nil
}
