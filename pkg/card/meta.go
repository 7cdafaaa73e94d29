package card

// PinMeta is the immutable description of one pin of a card type.
type PinMeta struct {
	ID    string
	Type  PinType
	Drive DriveType // OUTPUT pins only
	Tie   TieType   // PASSIVE pins only
}

// IsLogicSignal reports whether the pin carries a logic signal, as opposed to
// power, ground, clock or a passive tie point.
func (p *PinMeta) IsLogicSignal() bool {
	return p.Type == PinInput || p.Type == PinOutput
}

// CardMeta is the immutable description of a card type. It is owned by the
// Catalog and shared read-only by every Card of that type.
type CardMeta struct {
	typ   string
	desc  string
	pins  []*PinMeta
	index map[string]*PinMeta
}

// NewCardMeta builds a CardMeta. Pin order is preserved: it is the order used
// for port lists and SPICE node fields. NOT-CONNECTED pins are dropped and a
// repeated pin id keeps the last definition in the first position.
func NewCardMeta(typ, desc string, pins []PinMeta) *CardMeta {
	m := &CardMeta{
		typ:   typ,
		desc:  desc,
		index: make(map[string]*PinMeta, len(pins)),
	}
	for i := range pins {
		if pins[i].Type == PinNotConnected {
			continue
		}
		pm := pins[i]
		if existing, ok := m.index[pm.ID]; ok {
			*existing = pm
			continue
		}
		m.pins = append(m.pins, &pm)
		m.index[pm.ID] = &pm
	}
	return m
}

// Type returns the card type code, e.g. "CAB".
func (m *CardMeta) Type() string { return m.typ }

// Description returns the human description of the card type.
func (m *CardMeta) Description() string { return m.desc }

// Pins returns the pin metadata in declaration order.
func (m *CardMeta) Pins() []*PinMeta {
	out := make([]*PinMeta, len(m.pins))
	copy(out, m.pins)
	return out
}

// PinIDs returns the pin ids in declaration order.
func (m *CardMeta) PinIDs() []string {
	ids := make([]string, len(m.pins))
	for i, p := range m.pins {
		ids[i] = p.ID
	}
	return ids
}

// SignalPinIDs returns the ids of the INPUT/OUTPUT pins in declaration order.
func (m *CardMeta) SignalPinIDs() []string {
	var ids []string
	for _, p := range m.pins {
		if p.IsLogicSignal() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Pin looks up a pin's metadata.
func (m *CardMeta) Pin(id string) (*PinMeta, bool) {
	p, ok := m.index[id]
	return p, ok
}

// Backplane pins J, N and M are ground, +12V and -12V on every card.
var defaultNodesByID = map[string]string{
	"J": "gnd",
	"N": "vp12",
	"M": "vn12",
}

// defaultNodes covers special pins declared under other ids.
var defaultNodes = map[PinType]string{
	PinGround:  "gnd",
	PinPosRail: "vp12",
	PinNegRail: "vn12",
}

// DefaultNode returns the node an unconnected pin should be tied to, or ""
// when the pin has no default (it then floats on an "unused" net). The pin id
// decides first, then the declared type.
func (m *CardMeta) DefaultNode(pinID string) string {
	p, ok := m.index[pinID]
	if !ok {
		return ""
	}
	if node, ok := defaultNodesByID[pinID]; ok {
		return node
	}
	return defaultNodes[p.Type]
}
