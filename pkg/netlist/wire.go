package netlist

import (
	"sort"
	"strconv"

	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
)

// DefaultPrefix is prepended to every generated net name.
const DefaultPrefix = "W_"

// Wire is one electrically distinct net: a maximal set of mutually connected
// pins, split by the role each pin plays on the net.
type Wire struct {
	ID      int
	Driving []*machine.Pin // OUTPUT pins
	Driven  []*machine.Pin // INPUT pins
	Passive []*machine.Pin // PASSIVE pins with a tie
	Aux     []*machine.Pin // everything else: rails, ground, clock, untied passives

	prefix string
}

func (w *Wire) add(p *machine.Pin) {
	meta := p.Meta()
	switch {
	case meta.Type == card.PinOutput:
		w.Driving = append(w.Driving, p)
	case meta.Type == card.PinInput:
		w.Driven = append(w.Driven, p)
	case meta.Type == card.PinPassive && meta.Tie != card.TieNone:
		w.Passive = append(w.Passive, p)
	default:
		w.Aux = append(w.Aux, p)
	}
}

func (w *Wire) sortPins() {
	for _, bucket := range [][]*machine.Pin{w.Driving, w.Driven, w.Passive, w.Aux} {
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].Location().String() < bucket[j].Location().String()
		})
	}
}

// IsLogic reports whether the wire has a driving, driven or tied passive pin.
// Other wires only join rails, ground, clock or untied passive pins.
func (w *Wire) IsLogic() bool {
	return len(w.Driving)+len(w.Driven)+len(w.Passive) > 0
}

// IsMultiDriver reports whether the net needs DOT-OR logic: more than one
// driver, or a passive pull on the net.
func (w *Wire) IsMultiDriver() bool {
	return len(w.Driving) > 1 || len(w.Passive) > 0
}

// ConnectedPins returns the driving, driven and passive pins, in that order.
func (w *Wire) ConnectedPins() []machine.PinLocation {
	out := make([]machine.PinLocation, 0, len(w.Driving)+len(w.Driven)+len(w.Passive))
	for _, bucket := range [][]*machine.Pin{w.Driving, w.Driven, w.Passive} {
		for _, p := range bucket {
			out = append(out, p.Location())
		}
	}
	return out
}

// AllPins returns every pin on the wire, auxiliary ones included.
func (w *Wire) AllPins() []machine.PinLocation {
	out := w.ConnectedPins()
	for _, p := range w.Aux {
		out = append(out, p.Location())
	}
	return out
}

// PinNames renders AllPins as strings, for diagnostics.
func (w *Wire) PinNames() []string {
	locs := w.AllPins()
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.String()
	}
	return out
}

// IsDriver reports whether loc is one of the wire's driving pins.
func (w *Wire) IsDriver(loc machine.PinLocation) bool {
	for _, p := range w.Driving {
		if p.Location() == loc {
			return true
		}
	}
	return false
}

// DriverName is the private net name of a driving pin.
func (w *Wire) DriverName(loc machine.PinLocation) string {
	return w.prefix + loc.String()
}

// DotName is the name of the synthesized DOT-OR net.
func (w *Wire) DotName() string {
	return w.prefix + "DOT_" + strconv.Itoa(w.ID)
}

// NetName is the name every non-driving pin on the wire binds to: the single
// driver's name, or the DOT-OR net when the wire has several drivers. A wire
// without drivers is named after its id.
func (w *Wire) NetName() string {
	switch {
	case w.IsMultiDriver():
		return w.DotName()
	case len(w.Driving) == 1:
		return w.DriverName(w.Driving[0].Location())
	default:
		return w.prefix + "NET_" + strconv.Itoa(w.ID)
	}
}

// PortBinding returns the net a pin on this wire is bound to in an instance
// port list. On a DOT-OR wire each driver keeps its private net.
func (w *Wire) PortBinding(loc machine.PinLocation) string {
	if w.IsMultiDriver() && w.IsDriver(loc) {
		return w.DriverName(loc)
	}
	return w.NetName()
}
