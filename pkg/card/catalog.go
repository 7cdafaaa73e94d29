package card

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// Catalog knows how to look up the metadata for a card type.
type Catalog interface {
	Lookup(typ string) (*CardMeta, error)
}

// MemoryCatalog is the in-memory Catalog. Loaders fill it once; afterwards it
// is only read.
type MemoryCatalog struct {
	mu    sync.RWMutex
	cards map[string]*CardMeta
}

// NewMemoryCatalog creates an empty catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		cards: make(map[string]*CardMeta),
	}
}

// NewCatalog creates a catalog preloaded with the built-in constant cards.
func NewCatalog() *MemoryCatalog {
	c := NewMemoryCatalog()
	for _, m := range Builtins() {
		c.Add(m)
	}
	return c
}

// Add registers meta under its type code, replacing any previous entry.
func (c *MemoryCatalog) Add(meta *CardMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards[meta.Type()] = meta
}

// Lookup implements the Catalog interface.
func (c *MemoryCatalog) Lookup(typ string) (*CardMeta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if meta, ok := c.cards[typ]; ok {
		return meta, nil
	}
	return nil, diag.New(diag.KindUnknownCardType, typ)
}

// Types returns the registered type codes, sorted.
func (c *MemoryCatalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.cards))
	for typ := range c.cards {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered card types.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}

// LoadIndex reads <root>/cards.yaml and loads <root>/<code>/<code>.yaml for
// every card code listed in it.
func (c *MemoryCatalog) LoadIndex(root string) error {
	codes, err := ReadIndex(filepath.Join(root, "cards.yaml"))
	if err != nil {
		return err
	}
	for _, code := range codes {
		meta, err := LoadFile(filepath.Join(root, code, code+".yaml"), code)
		if err != nil {
			return err
		}
		c.Add(meta)
	}
	return nil
}

// LoadFiles loads each metadata file, taking the card code from the file
// name.
func (c *MemoryCatalog) LoadFiles(paths ...string) error {
	for _, path := range paths {
		meta, err := LoadFile(path, codeFromPath(path))
		if err != nil {
			return err
		}
		c.Add(meta)
	}
	return nil
}

// LoadDir recursively loads every <code>/<code>.yaml file below root. Other
// YAML files (such as the cards.yaml index) are ignored.
func (c *MemoryCatalog) LoadDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isCardFile(path) {
			return nil
		}
		meta, err := LoadFile(path, codeFromPath(path))
		if err != nil {
			return err
		}
		c.Add(meta)
		return nil
	})
}

func isCardFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return codeFromPath(path) == filepath.Base(filepath.Dir(path))
}

func codeFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
