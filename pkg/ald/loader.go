package ald

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// DefaultWorkers is the number of pages decoded at once by LoadPages.
const DefaultWorkers = 4

// DecodePage parses one page document. Trailing '-' characters are stripped
// from block types and every input/output pin id must be a valid pin name.
func DecodePage(data []byte, source string) (*Page, error) {
	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, &diag.Error{Kind: diag.KindFormat, Subject: source, Err: err}
	}
	page.Source = source
	for i, b := range page.Blocks {
		if b == nil {
			return nil, diag.Newf(diag.KindFormat, source, "block %d is empty", i)
		}
		b.Type = strings.TrimRight(b.Type, "-")
		for _, pins := range []map[string][]string{b.Inputs, b.Outputs} {
			for id := range pins {
				if !ValidPinName(id) {
					return nil, diag.WithLocation(
						diag.Newf(diag.KindInvalidPinName, id, "on block %s_%s", b.Gate, b.Location),
						page.Number, b.Coordinate)
				}
			}
		}
	}
	for i, a := range page.Aliases {
		if a == nil || a.Name == "" {
			return nil, diag.Newf(diag.KindFormat, source, "alias %d has no name", i)
		}
	}
	return &page, nil
}

// LoadPage reads and decodes one page file.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ald: read page %s: %w", path, err)
	}
	return DecodePage(data, path)
}

// LoadPages decodes the given files using up to workers goroutines and
// returns the pages in the order of paths.
func LoadPages(paths []string, workers int) ([]*Page, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pages := make([]*Page, len(paths))
	p := pool.New().WithMaxGoroutines(workers).WithErrors().WithFirstError()
	for i, path := range paths {
		i, path := i, path
		p.Go(func() error {
			page, err := LoadPage(path)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

type pageList struct {
	Pages []string `yaml:"pages"`
}

// ReadPageList reads a page list file ({pages: [id, ...]}) and returns the
// page file paths, resolved as <dir of list>/<id>.yaml.
func ReadPageList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ald: read page list %s: %w", path, err)
	}
	var list pageList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, &diag.Error{Kind: diag.KindFormat, Subject: path, Err: err}
	}
	dir := filepath.Dir(path)
	paths := make([]string, len(list.Pages))
	for i, id := range list.Pages {
		paths[i] = filepath.Join(dir, id+".yaml")
	}
	return paths, nil
}

// LoadPageList loads every page named by a page list file.
func LoadPageList(path string, workers int) ([]*Page, error) {
	paths, err := ReadPageList(path)
	if err != nil {
		return nil, err
	}
	return LoadPages(paths, workers)
}

// DiscoverPages expands doublestar patterns (e.g. "ald/**/*.yaml") into a
// sorted, de-duplicated list of page files.
func DiscoverPages(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("ald: bad page pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}
