package decimate

import (
	"fmt"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

// Counter keeps one sample out of every ratio.
type Counter struct {
	ratio     int
	remainder int
}

// NewCounter returns a counter for ratio in [1, core.MaxDecimation].
func NewCounter(ratio int) (Counter, error) {
	if ratio < 1 || ratio > core.MaxDecimation {
		return Counter{}, fmt.Errorf("%w: %d not in [1, %d]", ErrRatio, ratio, core.MaxDecimation)
	}

	return Counter{ratio: ratio}, nil
}

// Tick advances by one sample and reports whether this sample is kept.
// The remainder cycles 1..ratio-1 and resets to 0 on the kept sample.
func (c *Counter) Tick() bool {
	c.remainder++
	if c.remainder < c.ratio {
		return false
	}

	c.remainder = 0

	return true
}

// Reset clears the remainder.
func (c *Counter) Reset() {
	c.remainder = 0
}

// Ratio returns the decimation ratio.
func (c *Counter) Ratio() int {
	return c.ratio
}

// Remainder returns the samples seen since the last kept sample.
func (c *Counter) Remainder() int {
	return c.remainder
}
