package demod

import (
	"fmt"
	"strings"
)

// Mode selects what the pipeline produces.
type Mode int

const (
	// ModeIdle consumes and discards input.
	ModeIdle Mode = iota
	// ModeEnvelope writes the AM envelope in place on the I rail.
	ModeEnvelope
	// ModeUpperSideband writes the upper sideband in place on the I rail.
	ModeUpperSideband
	// ModeLowerSideband writes the lower sideband in place on the I rail.
	ModeLowerSideband
	// ModeReport feeds the decimated magnitude/phase report only.
	ModeReport
)

var modeNames = [...]string{
	ModeIdle:          "idle",
	ModeEnvelope:      "am",
	ModeUpperSideband: "usb",
	ModeLowerSideband: "lsb",
	ModeReport:        "report",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}

	return modeNames[m]
}

// Validate reports whether m is a defined mode.
func (m Mode) Validate() error {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Errorf("%w: %d", ErrMode, m)
	}

	return nil
}

// IsSideband reports whether m is one of the single-sideband modes.
func (m Mode) IsSideband() bool {
	return m == ModeUpperSideband || m == ModeLowerSideband
}

// ParseMode maps a mode name back to the [Mode]. "envelope", "upper" and
// "lower" are accepted as aliases.
func ParseMode(name string) (Mode, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "envelope":
		return ModeEnvelope, nil
	case "upper":
		return ModeUpperSideband, nil
	case "lower":
		return ModeLowerSideband, nil
	default:
		for m, s := range modeNames {
			if s == n {
				return Mode(m), nil
			}
		}
	}

	return ModeIdle, fmt.Errorf("%w: %q", ErrMode, name)
}
