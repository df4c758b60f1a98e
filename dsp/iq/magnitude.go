package iq

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-iqdemod/dsp/core"
)

// Estimator selects a magnitude approximation strategy.
type Estimator int

const (
	// EstimatorFast is alpha-max-beta-min with alpha=31/32, beta=3/8.
	EstimatorFast Estimator = iota
	// EstimatorRefined returns max for near-axis vectors and uses
	// alpha=7/8, beta=1/2 elsewhere.
	EstimatorRefined
	// EstimatorExact is the integer square root of i*i + q*q.
	EstimatorExact
)

// Func computes a magnitude from widened 16-bit I/Q values.
type Func func(i, q int32) int16

func (e Estimator) String() string {
	switch e {
	case EstimatorFast:
		return "fast"
	case EstimatorRefined:
		return "refined"
	case EstimatorExact:
		return "exact"
	default:
		return "unknown"
	}
}

// ParseEstimator maps a strategy name back to the [Estimator].
func ParseEstimator(name string) (Estimator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fast":
		return EstimatorFast, nil
	case "refined", "fast2":
		return EstimatorRefined, nil
	case "exact", "isqrt":
		return EstimatorExact, nil
	default:
		return 0, fmt.Errorf("iq: unknown magnitude estimator: %q", name)
	}
}

// Validate reports whether e is one of the defined strategies.
func (e Estimator) Validate() error {
	if e < EstimatorFast || e > EstimatorExact {
		return fmt.Errorf("iq: invalid magnitude estimator: %d", e)
	}

	return nil
}

// Func returns the strategy as a function value so block loops bind it once
// instead of branching per sample. Unknown values fall back to [Fast].
func (e Estimator) Func() Func {
	switch e {
	case EstimatorRefined:
		return Refined
	case EstimatorExact:
		return Exact
	default:
		return Fast
	}
}

// Magnitude estimates sqrt(i*i + q*q) with the selected strategy.
func (e Estimator) Magnitude(i, q int32) int16 {
	return e.Func()(i, q)
}

// Fast is the alpha-max-beta-min estimate max*31/32 + min*3/8.
func Fast(i, q int32) int16 {
	hi, lo := core.MaxMin(i, q)
	return core.Sat16((31*hi)>>5 + (3*lo)>>3)
}

// Refined returns max unchanged when min <= max/4 and max*7/8 + min/2
// otherwise.
func Refined(i, q int32) int16 {
	hi, lo := core.MaxMin(i, q)
	if lo <= hi>>2 {
		return core.Sat16(hi)
	}

	return core.Sat16((7*hi)>>3 + lo>>1)
}

// Exact returns floor(sqrt(i*i + q*q)). The sum of two squared 16-bit values
// fits an unsigned 32-bit accumulator.
func Exact(i, q int32) int16 {
	sum := uint32(i*i) + uint32(q*q)
	return core.Sat16(int32(core.ISqrt32(sum)))
}
