package hilbert

import "testing"

func TestPresetString(t *testing.T) {
	tests := []struct {
		preset Preset
		want   string
	}{
		{PresetKaiser, "kaiser"},
		{PresetRectangular, "rectangular"},
		{Preset(9), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.preset.String(); got != tc.want {
			t.Fatalf("String(%d) = %q, want %q", tc.preset, got, tc.want)
		}
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range []Preset{PresetKaiser, PresetRectangular} {
		got, err := ParsePreset(p.String())
		if err != nil {
			t.Fatalf("ParsePreset(%q) error = %v", p, err)
		}
		if got != p {
			t.Fatalf("ParsePreset(%q) = %v", p, got)
		}
	}

	if got, err := ParsePreset(" KAISER "); err != nil || got != PresetKaiser {
		t.Fatalf("ParsePreset(KAISER) = %v, %v", got, err)
	}

	if _, err := ParsePreset("hamming"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestNewInvalidPreset(t *testing.T) {
	if _, err := New(Preset(-3)); err == nil {
		t.Fatal("expected error for invalid preset")
	}
}
