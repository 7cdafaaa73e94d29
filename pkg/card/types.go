package card

import (
	"fmt"
	"strings"
)

// PinType is the electrical role of a pin.
type PinType int

const (
	PinUnknown PinType = iota
	PinPassive
	PinInput
	PinOutput
	PinNotConnected
	PinGround
	PinPosRail
	PinNegRail
	PinSysClock
)

// DriveType governs how an OUTPUT pin shares a bus. Only meaningful for
// OUTPUT pins.
type DriveType int

const (
	DriveNone DriveType = iota
	// Active high, no pull-down (open collector)
	DriveActiveHigh
	// Active high with pull-down
	DriveActiveHighPullDown
	// Active low, no pull-up (emitter follower)
	DriveActiveLow
	// Active low with pull-up
	DriveActiveLowPullUp
)

// TieType describes the static pull a PASSIVE pin applies to its net.
type TieType int

const (
	TieNone TieType = iota
	TieGround
	TiePosRail
	TieNegRail
)

// Metadata files use the short codes; the long names are accepted too.
var pinTypeCodes = []struct {
	code, long string
	typ        PinType
}{
	{"UNKNOWN", "UNKNOWN", PinUnknown},
	{"PASSIVE", "PASSIVE", PinPassive},
	{"INPUT", "INPUT", PinInput},
	{"OUTPUT", "OUTPUT", PinOutput},
	{"NC", "NOT-CONNECTED", PinNotConnected},
	{"GND", "GROUND", PinGround},
	{"VP12", "POS-RAIL", PinPosRail},
	{"VN12", "NEG-RAIL", PinNegRail},
	{"SYSCLOCK", "SYSTEM-CLOCK", PinSysClock},
}

var driveTypeCodes = []struct {
	code, long string
	typ        DriveType
}{
	{"NONE", "NO-DRIVE", DriveNone},
	{"AH", "ACTIVE-HIGH", DriveActiveHigh},
	{"AH_PD", "ACTIVE-HIGH-WITH-PULLDOWN", DriveActiveHighPullDown},
	{"AL", "ACTIVE-LOW", DriveActiveLow},
	{"AL_PU", "ACTIVE-LOW-WITH-PULLUP", DriveActiveLowPullUp},
}

var tieTypeCodes = []struct {
	code, long string
	typ        TieType
}{
	{"NONE", "NONE", TieNone},
	{"GND", "TIE-GROUND", TieGround},
	{"VP12", "TIE-POS-RAIL", TiePosRail},
	{"VN12", "TIE-NEG-RAIL", TieNegRail},
}

// ParsePinType converts a metadata code such as "OUTPUT" or "VP12".
func ParsePinType(s string) (PinType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range pinTypeCodes {
		if s == c.code || s == c.long {
			return c.typ, nil
		}
	}
	return PinUnknown, fmt.Errorf("unrecognized pin type: %s", s)
}

// ParseDriveType converts a metadata code such as "AH_PD".
func ParseDriveType(s string) (DriveType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range driveTypeCodes {
		if s == c.code || s == c.long {
			return c.typ, nil
		}
	}
	return DriveNone, fmt.Errorf("unrecognized drive type: %s", s)
}

// ParseTieType converts a metadata code such as "GND".
func ParseTieType(s string) (TieType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range tieTypeCodes {
		if s == c.code || s == c.long {
			return c.typ, nil
		}
	}
	return TieNone, fmt.Errorf("unrecognized tie type: %s", s)
}

func (t PinType) String() string {
	for _, c := range pinTypeCodes {
		if c.typ == t {
			return c.code
		}
	}
	return fmt.Sprintf("PinType(%d)", int(t))
}

func (t DriveType) String() string {
	for _, c := range driveTypeCodes {
		if c.typ == t {
			return c.code
		}
	}
	return fmt.Sprintf("DriveType(%d)", int(t))
}

func (t TieType) String() string {
	for _, c := range tieTypeCodes {
		if c.typ == t {
			return c.code
		}
	}
	return fmt.Sprintf("TieType(%d)", int(t))
}

// ActiveHigh reports whether the drive type belongs to the active-high class.
func (t DriveType) ActiveHigh() bool {
	return t == DriveActiveHigh || t == DriveActiveHighPullDown
}

// ActiveLow reports whether the drive type belongs to the active-low class.
func (t DriveType) ActiveLow() bool {
	return t == DriveActiveLow || t == DriveActiveLowPullUp
}
