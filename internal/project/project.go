// Package project runs the load, resolve and extract steps shared by the
// ald commands.
package project

import (
	"errors"
	"io"
	"log"

	"github.com/OpenTraceLab/aldnet/internal/config"
	"github.com/OpenTraceLab/aldnet/pkg/ald"
	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
	"github.com/OpenTraceLab/aldnet/pkg/resolve"
)

// Project is a fully resolved machine and its wires.
type Project struct {
	Catalog *card.MemoryCatalog
	Pages   []*ald.Page
	Machine *machine.Machine
	Signals *resolve.SignalTable
	Netlist *netlist.Netlist
}

// Load reads the card catalog and pages named by cfg, then builds the
// project. A nil logger is silent.
func Load(cfg *config.Config, logger *log.Logger) (*Project, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	cat := card.NewCatalog()
	if err := cat.LoadIndex(cfg.CardDir); err != nil {
		return nil, err
	}
	logger.Printf("project: %d card types from %s", cat.Len(), cfg.CardDir)

	pages, err := loadPages(cfg)
	if err != nil {
		return nil, err
	}
	logger.Printf("project: %d pages", len(pages))

	return Build(cat, pages, cfg.NetPrefix, logger)
}

func loadPages(cfg *config.Config) ([]*ald.Page, error) {
	if cfg.PagesFile != "" {
		return ald.LoadPageList(cfg.PagesFile, cfg.Workers)
	}
	paths, err := ald.DiscoverPages(cfg.PageGlobs...)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("project: no page files match the given patterns")
	}
	return ald.LoadPages(paths, cfg.Workers)
}

// Build resolves pages against cat into a fresh machine and extracts its
// wires.
func Build(cat *card.MemoryCatalog, pages []*ald.Page, prefix string, logger *log.Logger) (*Project, error) {
	m := machine.New()
	r := resolve.New(cat, m, logger)
	if err := r.Resolve(pages); err != nil {
		return nil, err
	}
	nl, err := netlist.Extract(m, prefix)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Printf("project: %d wires (%d DOT-OR) over %d pins", nl.WireCount(), nl.MultiDriverCount(), nl.PinCount())
	}
	return &Project{
		Catalog: cat,
		Pages:   pages,
		Machine: m,
		Signals: r.Signals(),
		Netlist: nl,
	}, nil
}
