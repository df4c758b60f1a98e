package testutil

import "testing"

func TestPeakAbs(t *testing.T) {
	if got := PeakAbs([]int16{3, -32767, 10}); got != 32767 {
		t.Fatalf("PeakAbs() = %d, want 32767", got)
	}
}

func TestEnvelopeRange(t *testing.T) {
	lo, hi := EnvelopeRange([]int32{3, 0, 6}, []int32{4, 2, 8})
	RequireWithin(t, "lo", lo, 2, 0)
	RequireWithin(t, "hi", hi, 10, 0)
}

func TestWidenFloat(t *testing.T) {
	w := Widen([]int16{-1, 2})
	if w[0] != -1 || w[1] != 2 {
		t.Fatalf("Widen() = %v", w)
	}
	f := Float([]int16{-1, 2})
	if f[0] != -1 || f[1] != 2 {
		t.Fatalf("Float() = %v", f)
	}
}
