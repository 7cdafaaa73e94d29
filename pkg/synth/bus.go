// Package synth turns extracted wires into netlist text: Verilog with
// synthesized DOT-OR logic for shared buses, or SPICE subcircuit calls.
package synth

import (
	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
)

// Polarity is the asserted level of the drivers on a bus.
type Polarity int

const (
	PolarityNone Polarity = iota
	PolarityActiveHigh
	PolarityActiveLow
)

func (p Polarity) String() string {
	switch p {
	case PolarityActiveHigh:
		return "active-high"
	case PolarityActiveLow:
		return "active-low"
	}
	return "none"
}

// Bus is a classified wire.
type Bus struct {
	Wire     *netlist.Wire
	Polarity Polarity
	PullUp   bool
	PullDown bool
}

// Default returns the Verilog value the DOT-OR net takes when no driver is
// asserting.
func (b *Bus) Default() string {
	if b.Polarity == PolarityActiveLow {
		return "1'b1"
	}
	return "1'b0"
}

// Asserted returns the Verilog value of an asserting driver.
func (b *Bus) Asserted() string {
	if b.Polarity == PolarityActiveLow {
		return "0"
	}
	return "1"
}

func classError(kind diag.Kind, w *netlist.Wire, format string, args ...any) error {
	return diag.Newf(kind, w.NetName(), format, args...).WithPins(w.PinNames()...)
}

// Classify checks that a wire can be synthesized and works out its pull
// behavior. A wire must have a driver. A DOT-OR wire must not mix
// active-high and active-low drivers, and needs a pull-down when active-high
// or a pull-up when active-low.
func Classify(w *netlist.Wire) (*Bus, error) {
	if len(w.Driving) == 0 {
		return nil, classError(diag.KindNoDriver, w, "wire %d has no driving pin", w.ID)
	}
	bus := &Bus{Wire: w}
	if !w.IsMultiDriver() {
		switch d := w.Driving[0].Meta().Drive; {
		case d.ActiveHigh():
			bus.Polarity = PolarityActiveHigh
		case d.ActiveLow():
			bus.Polarity = PolarityActiveLow
		}
		return bus, nil
	}

	var high, low bool
	for _, p := range w.Driving {
		switch d := p.Meta().Drive; {
		case d.ActiveHigh():
			high = true
			if d == card.DriveActiveHighPullDown {
				bus.PullDown = true
			}
		case d.ActiveLow():
			low = true
			if d == card.DriveActiveLowPullUp {
				bus.PullUp = true
			}
		default:
			return nil, classError(diag.KindIncompatibleDrive, w,
				"%s has drive type %s on a shared net", p.Location(), d)
		}
	}
	for _, p := range w.Passive {
		switch p.Meta().Tie {
		case card.TieNegRail:
			bus.PullDown = true
		case card.TieGround, card.TiePosRail:
			bus.PullUp = true
		}
	}

	switch {
	case high && low:
		return nil, classError(diag.KindIncompatibleDrive, w, "active-high and active-low drivers share wire %d", w.ID)
	case high:
		bus.Polarity = PolarityActiveHigh
		if !bus.PullDown {
			return nil, classError(diag.KindMissingPull, w, "active-high wire %d has no pull-down", w.ID)
		}
	case low:
		bus.Polarity = PolarityActiveLow
		if !bus.PullUp {
			return nil, classError(diag.KindMissingPull, w, "active-low wire %d has no pull-up", w.ID)
		}
	}
	return bus, nil
}

// ClassifyAll classifies every wire of nl that carries a logic signal,
// failing on the first bad one. Wires joining only rails, ground, clock or
// untied passive pins have no logic value and are skipped. A wire of tied
// passive pins alone still needs a driver.
func ClassifyAll(nl *netlist.Netlist) ([]*Bus, error) {
	buses := make([]*Bus, 0, len(nl.Wires))
	for _, w := range nl.Wires {
		if !w.IsLogic() {
			continue
		}
		b, err := Classify(w)
		if err != nil {
			return nil, err
		}
		buses = append(buses, b)
	}
	return buses, nil
}
