package level

import "math"

// FullScale is the reference for the dBFS figures. Saturating pipeline
// arithmetic never exceeds it in magnitude.
const FullScale = math.MaxInt16

// Stats holds the level statistics of a sample stream.
type Stats struct {
	Samples       int
	DC            float64 // mean
	RMS           float64
	RMSdBFS       float64
	Max           int16
	MaxPos        int
	Min           int16
	MinPos        int
	Peak          int // max(|max|, |min|)
	PeakdBFS      float64
	CrestFactorDB float64 // peak / RMS
	Clipped       int     // samples at or beyond +-FullScale
	ZeroCrossings int
}

func dBFS(v float64) float64 {
	if v == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v/FullScale)
}

func emptyStats() Stats {
	return Stats{
		RMSdBFS:  math.Inf(-1),
		PeakdBFS: math.Inf(-1),
	}
}

// Calculate computes the statistics of one block.
func Calculate(samples []int16) Stats {
	var m Meter
	m.Update(samples)

	return m.Result()
}

// Meter accumulates level statistics across blocks. Update does not
// allocate. A Meter is not safe for concurrent use.
type Meter struct {
	n             int
	sum           int64
	sumSq         uint64
	maxVal        int16
	maxPos        int
	minVal        int16
	minPos        int
	clipped       int
	zeroCrossings int
	last          int16
}

// Update adds a block of samples to the running statistics.
func (m *Meter) Update(samples []int16) {
	for _, x := range samples {
		v := int64(x)
		m.sum += v
		m.sumSq += uint64(v * v)

		if m.n == 0 || x > m.maxVal {
			m.maxVal = x
			m.maxPos = m.n
		}
		if m.n == 0 || x < m.minVal {
			m.minVal = x
			m.minPos = m.n
		}

		if x >= FullScale || x <= -FullScale {
			m.clipped++
		}

		// A crossing is a strict sign change; zero samples do not count.
		if m.n > 0 && int32(m.last)*int32(x) < 0 {
			m.zeroCrossings++
		}
		if x != 0 {
			m.last = x
		}

		m.n++
	}
}

// Result computes the statistics accumulated so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return emptyStats()
	}

	nf := float64(m.n)
	rms := math.Sqrt(float64(m.sumSq) / nf)
	peak := max(abs(int(m.maxVal)), abs(int(m.minVal)))

	var crest float64
	if rms > 0 {
		crest = 20 * math.Log10(float64(peak)/rms)
	}

	return Stats{
		Samples:       m.n,
		DC:            float64(m.sum) / nf,
		RMS:           rms,
		RMSdBFS:       dBFS(rms),
		Max:           m.maxVal,
		MaxPos:        m.maxPos,
		Min:           m.minVal,
		MinPos:        m.minPos,
		Peak:          peak,
		PeakdBFS:      dBFS(float64(peak)),
		CrestFactorDB: crest,
		Clipped:       m.clipped,
		ZeroCrossings: m.zeroCrossings,
	}
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
