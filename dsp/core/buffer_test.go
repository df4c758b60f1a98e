package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]int16, 2, 8)
	got := EnsureLen(buf, 6)
	if len(got) != 6 || cap(got) != 8 {
		t.Fatalf("len=%d cap=%d, want 6/8", len(got), cap(got))
	}
	if &got[0] != &buf[0] {
		t.Fatal("expected backing array reuse")
	}

	grown := EnsureLen(buf, 16)
	if len(grown) != 16 {
		t.Fatalf("len=%d, want 16", len(grown))
	}

	if n := len(EnsureLen(buf, 0)); n != 0 {
		t.Fatalf("len=%d, want 0", n)
	}
}

func TestZeroFillCopy(t *testing.T) {
	buf := []int32{1, 2, 3, 4}
	Zero(buf[:2])
	if buf[0] != 0 || buf[1] != 0 || buf[2] != 3 {
		t.Fatalf("Zero() = %v", buf)
	}

	Fill(buf, 9)
	for i, v := range buf {
		if v != 9 {
			t.Fatalf("buf[%d] = %d, want 9", i, v)
		}
	}

	dst := make([]int32, 3)
	if n := CopyInto(dst, []int32{5, 6}); n != 2 {
		t.Fatalf("CopyInto() = %d, want 2", n)
	}
	if dst[0] != 5 || dst[1] != 6 || dst[2] != 0 {
		t.Fatalf("dst = %v", dst)
	}
}
