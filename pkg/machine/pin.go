package machine

import (
	"strings"

	"github.com/OpenTraceLab/aldnet/pkg/card"
)

// Pin is one electrical contact of a Card. Connections are stored as the
// other end's location, not a pointer; traversal resolves them through the
// Machine.
type Pin struct {
	meta  *card.PinMeta
	loc   PinLocation
	conns []PinLocation
	seen  map[PinLocation]struct{}
}

func newPin(meta *card.PinMeta, plug PlugLocation) *Pin {
	return &Pin{
		meta: meta,
		loc:  PinLocation{Plug: plug, PinID: meta.ID},
		seen: make(map[PinLocation]struct{}),
	}
}

// Meta returns the pin's shared, read-only metadata.
func (p *Pin) Meta() *card.PinMeta { return p.meta }

// Location returns the pin's location (card slot + pin id).
func (p *Pin) Location() PinLocation { return p.loc }

// Connect records a connection from p to other. It is one direction only;
// callers link a pair by calling it from both sides. Connecting the same pair
// twice is a no-op.
func (p *Pin) Connect(other *Pin) {
	if _, ok := p.seen[other.loc]; ok {
		return
	}
	p.seen[other.loc] = struct{}{}
	p.conns = append(p.conns, other.loc)
}

// IsConnected reports whether the pin has at least one connection.
func (p *Pin) IsConnected() bool { return len(p.conns) > 0 }

// Connections returns the immediate connections in the order they were made.
func (p *Pin) Connections() []PinLocation {
	out := make([]PinLocation, len(p.conns))
	copy(out, p.conns)
	return out
}

// ConnectedTo reports whether other is an immediate connection of p.
func (p *Pin) ConnectedTo(other PinLocation) bool {
	_, ok := p.seen[other]
	return ok
}

// ConnectionsDesc is a human-friendly list of the immediate connections.
func (p *Pin) ConnectionsDesc() string {
	parts := make([]string, len(p.conns))
	for i, c := range p.conns {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
