package project

import (
	"bytes"
	"errors"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/aldnet/internal/config"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
)

const testdata = "../../testdata"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.CardDir = filepath.Join(testdata, "cards")
	cfg.PagesFile = filepath.Join(testdata, "pages", "pages.yaml")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestLoadPageList(t *testing.T) {
	var logs bytes.Buffer
	p, err := Load(testConfig(t), log.New(&logs, "", 0))
	require.NoError(t, err)

	assert.Len(t, p.Pages, 2)
	assert.Equal(t, 8, p.Catalog.Len())
	assert.Equal(t, 5, p.Machine.Len())
	assert.Equal(t, 4, p.Netlist.WireCount())
	assert.Equal(t, 1, p.Netlist.MultiDriverCount())
	assert.Contains(t, logs.String(), "project: 2 pages")
	assert.Contains(t, logs.String(), "resolve: cross-linking")

	w, ok := p.Netlist.WireFor(machine.NewPinLocation("01B", "A02", "A"))
	require.True(t, ok)
	assert.Equal(t, "W_DOT_3", w.NetName())
	assert.Len(t, w.Driving, 2)

	pins, err := p.Signals.Resolve("+S ADD")
	require.NoError(t, err)
	assert.Equal(t, []machine.PinLocation{
		machine.NewPinLocation("01A", "A01", "G"),
		machine.NewPinLocation("01B", "A01", "G"),
	}, pins)
}

func TestLoadGlobMatchesPageList(t *testing.T) {
	byList, err := Load(testConfig(t), nil)
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.PagesFile = ""
	cfg.PageGlobs = []string{filepath.Join(testdata, "pages", "01.*.yaml")}
	byGlob, err := Load(cfg, nil)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, byList.Machine.Dump(&a))
	require.NoError(t, byGlob.Machine.Dump(&b))
	assert.Equal(t, a.String(), b.String())
}

func TestLoadReportsLocation(t *testing.T) {
	cfg := testConfig(t)
	cfg.PagesFile = ""
	cfg.PageGlobs = []string{filepath.Join(testdata, "broken", "*.yaml")}

	_, err := Load(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.KindUnknownSignal))
	assert.Contains(t, err.Error(), "page/block 01.20.01.1/4C")
}

func TestLoadNoPages(t *testing.T) {
	cfg := testConfig(t)
	cfg.PagesFile = ""
	cfg.PageGlobs = []string{filepath.Join(testdata, "nothing", "*.yaml")}
	_, err := Load(cfg, nil)
	assert.Error(t, err)
}
