package machine

// PlugLocation identifies a physical card slot: gate code plus position code.
type PlugLocation struct {
	Gate string
	Loc  string
}

func (p PlugLocation) String() string { return p.Gate + "_" + p.Loc }

// PinLocation identifies one pin of the card plugged at a slot.
type PinLocation struct {
	Plug  PlugLocation
	PinID string
}

// NewPinLocation is shorthand for PinLocation{PlugLocation{gate, loc}, pin}.
func NewPinLocation(gate, loc, pin string) PinLocation {
	return PinLocation{Plug: PlugLocation{Gate: gate, Loc: loc}, PinID: pin}
}

// String renders "<gate>_<loc>_<pin>", the form used in generated identifiers.
func (p PinLocation) String() string { return p.Plug.String() + "_" + p.PinID }
