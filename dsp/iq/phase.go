package iq

import "github.com/cwbudde/algo-iqdemod/dsp/core"

// DefaultQuarterTurn is the phase unit for a 44117 Hz front end decimating
// by 6.
const DefaultQuarterTurn = 33087

// QuarterTurnFor returns the quarter-turn unit for a sample rate and
// decimation ratio: a full circle equals half the sample rate times the
// ratio. Larger units keep the per-sample phase step resolvable at low
// report rates.
func QuarterTurnFor(sampleRate, ratio int) int32 {
	if sampleRate <= 0 || ratio <= 0 {
		return DefaultQuarterTurn
	}

	return int32(sampleRate / 2 * ratio / 4)
}

// Phase approximates atan2(q, i) in units where quarterTurn is 90 degrees.
// The result lies in (-2*quarterTurn, 2*quarterTurn]. The origin maps to 0.
func Phase(q, i, quarterTurn int32) int32 {
	ai, aq := core.Abs32(i), core.Abs32(q)

	var r int32

	switch {
	case aq > ai:
		r = quarterTurn - arctan(ai, aq, quarterTurn) // atan(z) = 90 - atan(1/z)
	case i != 0:
		r = arctan(aq, ai, quarterTurn)
	}

	if i < 0 {
		r = 2*quarterTurn - r
	}

	if q < 0 {
		r = -r
	}

	return r
}

// arctan approximates atan(num/den) for 0 <= num <= den, den > 0, using
// atan(z) ~ (U/8 + U/22*(1-z))*z with U a full turn. z is Q15.
func arctan(num, den, quarterTurn int32) int32 {
	z := (int64(num) << core.Q15Shift) / int64(den)
	u := int64(quarterTurn)

	linear := (u * z) >> (core.Q15Shift + 1)
	bend := (2 * u * (core.Q15One - z) * z) / (11 << (2 * core.Q15Shift))

	return int32(linear + bend)
}

// PhaseEstimator binds a quarter-turn unit.
type PhaseEstimator struct {
	quarterTurn int32
}

// NewPhaseEstimator returns an estimator for the given unit. Non-positive
// units select [DefaultQuarterTurn].
func NewPhaseEstimator(quarterTurn int32) PhaseEstimator {
	if quarterTurn <= 0 {
		quarterTurn = DefaultQuarterTurn
	}

	return PhaseEstimator{quarterTurn: quarterTurn}
}

// QuarterTurn returns the configured unit.
func (p PhaseEstimator) QuarterTurn() int32 {
	return p.quarterTurn
}

// Phase approximates atan2(q, i).
func (p PhaseEstimator) Phase(q, i int32) int32 {
	return Phase(q, i, p.quarterTurn)
}
