package machine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// Machine owns every Card, keyed by slot. Cards live in an append-only arena;
// the index maps a slot to its arena position.
type Machine struct {
	cards []*Card
	index map[PlugLocation]int
}

// New creates an empty machine.
func New() *Machine {
	return &Machine{index: make(map[PlugLocation]int)}
}

// CreateCard plugs a new card of type meta at loc. It fails if the slot is
// already occupied.
func (m *Machine) CreateCard(meta *card.CardMeta, loc PlugLocation) (*Card, error) {
	if existing, ok := m.lookup(loc); ok {
		return nil, diag.Newf(diag.KindLocationConflict, loc.String(),
			"slot already holds a %s card", existing.meta.Type())
	}
	c := newCard(meta, loc)
	m.index[loc] = len(m.cards)
	m.cards = append(m.cards, c)
	return c, nil
}

// GetOrCreateCard returns the card at loc, creating it if the slot is empty.
// An occupied slot must hold a card of the same type.
func (m *Machine) GetOrCreateCard(meta *card.CardMeta, loc PlugLocation) (*Card, error) {
	existing, ok := m.lookup(loc)
	if !ok {
		return m.CreateCard(meta, loc)
	}
	if existing.meta.Type() != meta.Type() {
		return nil, diag.Newf(diag.KindLocationConflict, loc.String(),
			"slot holds a %s card, page places a %s card", existing.meta.Type(), meta.Type())
	}
	return existing, nil
}

// Card returns the card plugged at loc.
func (m *Machine) Card(loc PlugLocation) (*Card, error) {
	c, ok := m.lookup(loc)
	if !ok {
		return nil, diag.Newf(diag.KindEmptySlot, loc.String(), "no card at location")
	}
	return c, nil
}

// Pin resolves a pin location through the card at its slot.
func (m *Machine) Pin(loc PinLocation) (*Pin, error) {
	c, err := m.Card(loc.Plug)
	if err != nil {
		return nil, err
	}
	return c.Pin(loc.PinID)
}

func (m *Machine) lookup(loc PlugLocation) (*Card, bool) {
	i, ok := m.index[loc]
	if !ok {
		return nil, false
	}
	return m.cards[i], true
}

// Len returns the number of cards.
func (m *Machine) Len() int { return len(m.cards) }

// Cards returns every card sorted by slot, so that anything derived from a
// walk over the machine is independent of the order pages were processed.
func (m *Machine) Cards() []*Card {
	out := make([]*Card, len(m.cards))
	copy(out, m.cards)
	sort.Slice(out, func(i, j int) bool {
		return out[i].loc.String() < out[j].loc.String()
	})
	return out
}

// Link connects two pins in both directions.
func (m *Machine) Link(a, b *Pin) {
	a.Connect(b)
	b.Connect(a)
}

// VisitAllConnections walks the transitive closure of start's connections
// breadth first, calling visit exactly once per reachable pin (start
// included). Revisits are detected by pin location. A pin with no
// connections is not visited at all.
func (m *Machine) VisitAllConnections(start *Pin, visit func(*Pin) error) error {
	if !start.IsConnected() {
		return nil
	}
	visited := map[PinLocation]struct{}{start.loc: {}}
	queue := []*Pin{start}
	for len(queue) > 0 {
		work := queue[0]
		queue = queue[1:]
		if err := visit(work); err != nil {
			return err
		}
		for _, next := range work.conns {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			p, err := m.Pin(next)
			if err != nil {
				return fmt.Errorf("machine: dangling connection from %s: %w", work.loc, err)
			}
			queue = append(queue, p)
		}
	}
	return nil
}

// Dump writes a human readable listing of every card, its pins with their
// immediate connections, and the pages that reference it.
func (m *Machine) Dump(w io.Writer) error {
	var sb strings.Builder
	for _, c := range m.Cards() {
		fmt.Fprintf(&sb, "Card: %s (%s)\n", c.loc, c.meta.Type())
		sb.WriteString("Pins:\n")
		for _, p := range c.order {
			fmt.Fprintf(&sb, "  %s %s -> %s\n", p.meta.ID, p.meta.Type, p.ConnectionsDesc())
		}
		sb.WriteString("Page References:")
		for _, ref := range c.pageRefs {
			sb.WriteString(" ")
			sb.WriteString(ref)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
