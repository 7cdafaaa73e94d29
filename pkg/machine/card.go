package machine

import (
	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// Card is a component instance plugged at a slot. Its pins are created once,
// from the metadata, and never change afterwards.
type Card struct {
	meta     *card.CardMeta
	loc      PlugLocation
	pins     map[string]*Pin
	order    []*Pin
	pageRefs []string
}

func newCard(meta *card.CardMeta, loc PlugLocation) *Card {
	c := &Card{
		meta: meta,
		loc:  loc,
		pins: make(map[string]*Pin),
	}
	for _, pm := range meta.Pins() {
		p := newPin(pm, loc)
		c.pins[pm.ID] = p
		c.order = append(c.order, p)
	}
	return c
}

// Meta returns the card type's metadata.
func (c *Card) Meta() *card.CardMeta { return c.meta }

// Location returns the slot the card is plugged into.
func (c *Card) Location() PlugLocation { return c.loc }

// Pin returns the pin with the given id.
func (c *Card) Pin(id string) (*Pin, error) {
	p, ok := c.pins[id]
	if !ok {
		return nil, diag.Newf(diag.KindUnknownPin, id, "no such pin on card %s (%s)", c.loc, c.meta.Type())
	}
	return p, nil
}

// Pins returns every pin in catalog order.
func (c *Card) Pins() []*Pin {
	out := make([]*Pin, len(c.order))
	copy(out, c.order)
	return out
}

// AddPageReference records a page the card appears on. References are kept in
// the order they were added.
func (c *Card) AddPageReference(page string) { c.pageRefs = append(c.pageRefs, page) }

// PageReferences returns the recorded page references.
func (c *Card) PageReferences() []string {
	out := make([]string, len(c.pageRefs))
	copy(out, c.pageRefs)
	return out
}
