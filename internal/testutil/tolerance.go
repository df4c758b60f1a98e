package testutil

import (
	"math"
	"testing"
)

// RequireWithin fails t if |got-want| exceeds tol.
func RequireWithin(t testing.TB, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v (diff %v > tol %v)", name, got, want, math.Abs(got-want), tol)
	}
}

// RequireInt16Equal fails t if got and want differ in length or content.
func RequireInt16Equal(t testing.TB, got, want []int16) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// PeakAbs returns the largest absolute sample value.
func PeakAbs(data []int16) int {
	peak := 0
	for _, v := range data {
		a := int(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

// EnvelopeRange returns the min and max of sqrt(a^2+b^2) over paired samples.
func EnvelopeRange(a, b []int32) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for i := range a {
		e := math.Hypot(float64(a[i]), float64(b[i]))
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	return lo, hi
}
