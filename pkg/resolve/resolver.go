// Package resolve turns the symbolic references on logic-diagram pages into
// pin-to-pin connections in a machine.Machine.
//
// Resolution runs in two passes over the whole page set. Pass 1 creates a
// card for every block and records which pins each signal name stands for.
// Pass 2 links every block input to the pins that drive it, following signal
// names through any chain of aliases.
package resolve

import (
	"io"
	"log"

	"github.com/OpenTraceLab/aldnet/pkg/ald"
	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
)

// Resolver populates a Machine from pages.
type Resolver struct {
	catalog card.Catalog
	machine *machine.Machine
	signals *SignalTable
	log     *log.Logger
}

// New creates a resolver that places cards from catalog into m. A nil logger
// discards progress messages.
func New(catalog card.Catalog, m *machine.Machine, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{
		catalog: catalog,
		machine: m,
		signals: NewSignalTable(),
		log:     logger,
	}
}

// Signals returns the named-signal table built by Pass 1.
func (r *Resolver) Signals() *SignalTable { return r.signals }

// Machine returns the machine being populated.
func (r *Resolver) Machine() *machine.Machine { return r.machine }

// Resolve runs both passes over pages, in the order given. Every error
// carries the page number and block coordinate it came from.
func (r *Resolver) Resolve(pages []*ald.Page) error {
	r.log.Printf("resolve: registering %d pages", len(pages))
	for _, page := range pages {
		if err := r.register(page); err != nil {
			return err
		}
	}
	if err := r.signals.CheckCycles(); err != nil {
		return err
	}
	r.log.Printf("resolve: %d cards, %d named signals", r.machine.Len(), r.signals.Len())

	r.log.Printf("resolve: cross-linking")
	for _, page := range pages {
		if err := r.crossLink(page); err != nil {
			return err
		}
	}
	return nil
}

func plugOf(b *ald.Block) machine.PlugLocation {
	return machine.PlugLocation{Gate: b.Gate, Loc: b.Location}
}

// register is Pass 1 for one page.
func (r *Resolver) register(page *ald.Page) error {
	for _, b := range page.Blocks {
		if err := r.registerBlock(page, b); err != nil {
			return diag.WithLocation(err, page.Number, b.Coordinate)
		}
	}

	declared := make(map[string]struct{}, len(page.Aliases))
	for _, a := range page.Aliases {
		if _, dup := declared[a.Name]; dup {
			return diag.WithLocation(
				diag.Newf(diag.KindSignalConflict, a.Name, "alias declared twice"),
				page.Number, a.Name)
		}
		declared[a.Name] = struct{}{}
		if err := r.registerAlias(page, a); err != nil {
			return diag.WithLocation(err, page.Number, a.Name)
		}
	}
	return nil
}

func (r *Resolver) registerBlock(page *ald.Page, b *ald.Block) error {
	meta, err := r.catalog.Lookup(b.Type)
	if err != nil {
		return err
	}
	c, err := r.machine.GetOrCreateCard(meta, plugOf(b))
	if err != nil {
		return err
	}
	c.AddPageReference(page.Number)

	for _, id := range b.OutputPins() {
		pin, err := c.Pin(id)
		if err != nil {
			return err
		}
		for _, ref := range b.Outputs[id] {
			if !ald.IsPinRef(ref) {
				r.signals.AddPin(ref, pin.Location())
			}
		}
	}
	return nil
}

func (r *Resolver) registerAlias(page *ald.Page, a *ald.Alias) error {
	for _, ref := range a.Inputs {
		if !ald.IsPinRef(ref) {
			r.signals.AddReference(a.Name, ref)
			continue
		}
		pins, err := r.pinsOnPage(page, ref)
		if err != nil {
			return err
		}
		for _, p := range pins {
			r.signals.AddPin(a.Name, p.Location())
		}
	}
	return nil
}

// pinsOnPage resolves a "<coo>.<pins>" reference against page's blocks.
func (r *Resolver) pinsOnPage(page *ald.Page, ref string) ([]*machine.Pin, error) {
	refs, err := ald.ParsePinRefs(ref)
	if err != nil {
		return nil, err
	}
	pins := make([]*machine.Pin, 0, len(refs))
	for _, bp := range refs {
		b, err := page.BlockByCoordinate(bp.Coordinate)
		if err != nil {
			return nil, err
		}
		c, err := r.machine.Card(plugOf(b))
		if err != nil {
			return nil, err
		}
		p, err := c.Pin(bp.Pin)
		if err != nil {
			return nil, err
		}
		pins = append(pins, p)
	}
	return pins, nil
}

// crossLink is Pass 2 for one page.
func (r *Resolver) crossLink(page *ald.Page) error {
	for _, b := range page.Blocks {
		if err := r.linkBlock(page, b); err != nil {
			return diag.WithLocation(err, page.Number, b.Coordinate)
		}
	}
	return nil
}

func (r *Resolver) linkBlock(page *ald.Page, b *ald.Block) error {
	c, err := r.machine.Card(plugOf(b))
	if err != nil {
		return err
	}
	for _, id := range b.InputPins() {
		input, err := c.Pin(id)
		if err != nil {
			return err
		}
		for _, ref := range b.Inputs[id] {
			if err := r.linkRef(page, input, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) linkRef(page *ald.Page, input *machine.Pin, ref string) error {
	if ald.IsPinRef(ref) {
		drivers, err := r.pinsOnPage(page, ref)
		if err != nil {
			return err
		}
		for _, d := range drivers {
			r.machine.Link(input, d)
		}
		return nil
	}
	locs, err := r.signals.Resolve(ref)
	if err != nil {
		return err
	}
	for _, loc := range locs {
		d, err := r.machine.Pin(loc)
		if err != nil {
			return err
		}
		r.machine.Link(input, d)
	}
	return nil
}
