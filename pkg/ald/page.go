// Package ald reads ALD logic-diagram pages and the pin references on them.
package ald

import (
	"sort"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// Page is one logic-diagram page.
type Page struct {
	Part    string   `yaml:"part"`
	Title   string   `yaml:"title"`
	Number  string   `yaml:"num"`
	PDF     string   `yaml:"pdf,omitempty"`
	Blocks  []*Block `yaml:"blocks"`
	Aliases []*Alias `yaml:"aliases"`

	// Source is the file the page was loaded from, if any.
	Source string `yaml:"-"`
}

// Block is one placed card on a page. Inputs and Outputs map a pin id to the
// reference strings attached to it on the drawing.
type Block struct {
	Type       string              `yaml:"typ"`
	Gate       string              `yaml:"gate"`
	Location   string              `yaml:"loc"`
	Coordinate string              `yaml:"coo"`
	Circuit    int                 `yaml:"cir"`
	Inputs     map[string][]string `yaml:"inp"`
	Outputs    map[string][]string `yaml:"out"`
}

// Alias names a cross-page signal in terms of pin references and other names.
type Alias struct {
	Name   string   `yaml:"name"`
	Inputs []string `yaml:"inp"`
}

// BlockByCoordinate returns the block drawn at coo.
func (p *Page) BlockByCoordinate(coo string) (*Block, error) {
	for _, b := range p.Blocks {
		if b.Coordinate == coo {
			return b, nil
		}
	}
	return nil, diag.Newf(diag.KindUnknownBlock, coo, "no block at coordinate on page %s", p.Number)
}

// InputPins returns the ids of the block's input pins in sorted order.
func (b *Block) InputPins() []string { return sortedKeys(b.Inputs) }

// OutputPins returns the ids of the block's output pins in sorted order.
func (b *Block) OutputPins() []string { return sortedKeys(b.Outputs) }

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
