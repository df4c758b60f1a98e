package core

import "math/bits"

const (
	// MaxSample is the largest value a saturated 16-bit sample may hold.
	MaxSample = 32767
	// MinSample is the smallest value a saturated 16-bit sample may hold.
	// The range is symmetric, so -32768 is never produced.
	MinSample = -MaxSample

	// Q15Shift undoes the scale of Q15 fixed-point products.
	Q15Shift = 15
	// Q15One is 1.0 in Q15.
	Q15One = 1 << Q15Shift
)

// Clamp32 limits value to the inclusive range [lo, hi].
func Clamp32(value, lo, hi int32) int32 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// Sat16 saturates an accumulator value to the symmetric 16-bit sample range.
// Values outside the range are clipped to the boundary, never wrapped.
func Sat16(value int32) int16 {
	return int16(Clamp32(value, MinSample, MaxSample))
}

// Abs32 returns |value|. Inputs originate from 16-bit samples, so the
// result never overflows.
func Abs32(value int32) int32 {
	if value < 0 {
		return -value
	}

	return value
}

// MaxMin returns the larger and the smaller of |a| and |b|.
func MaxMin(a, b int32) (hi, lo int32) {
	a, b = Abs32(a), Abs32(b)
	if a < b {
		return b, a
	}

	return a, b
}

// ISqrt32 returns floor(sqrt(a)) using the digit-by-digit method.
// It runs exactly 16 iterations over a 32-bit remainder, two input bits
// per iteration, and needs neither division nor multiplication.
func ISqrt32(a uint32) uint16 {
	var rem, root uint32

	for range 16 {
		root <<= 1
		rem = rem<<2 | a>>30
		a <<= 2

		if root < rem {
			root++
			rem -= root
			root++
		}
	}

	return uint16(root >> 1)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}
