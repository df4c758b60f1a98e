package core

// ProcessorConfig defines common fixed-point block processing settings.
type ProcessorConfig struct {
	// SampleRate of the incoming rails in Hz.
	SampleRate int
	// BlockSize is the number of samples per transport block. Must be a
	// power of two.
	BlockSize int
	// Decimation is the integer rate reduction used by the decimating modes.
	Decimation int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

const (
	// DefaultSampleRate is the audio-adaptor rate the quadrature front end runs at.
	DefaultSampleRate = 44117
	// DefaultBlockSize is the transport block length.
	DefaultBlockSize = 128
	// DefaultDecimation gives a report rate of roughly 7.35 kHz.
	DefaultDecimation = 6
	// MaxDecimation bounds the supported decimation ratios.
	MaxDecimation = 64
)

// DefaultProcessorConfig returns the settings of a 44.1 kHz, 128 sample
// block front end decimating by 6.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
		Decimation: DefaultDecimation,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size. Non-positive values are
// ignored; non-power-of-two values are rejected later by the consumer.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithDecimation sets the decimation ratio.
func WithDecimation(ratio int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if ratio > 0 {
			cfg.Decimation = ratio
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
