package ald

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

const samplePage = `
part: "1"
title: Add Latch
num: 01.10.05.1
pdf: p12.pdf
blocks:
  - typ: CAB--
    gate: 01B
    loc: A06
    coo: 3A
    cir: 1
    inp:
      A: [ "-S ADD" ]
      B: [ 4A.G ]
    out:
      G: [ "+S ADD LATCH" ]
  - typ: INV
    gate: 01B
    loc: A07
    coo: 4A
    cir: 2
    out:
      G: []
aliases:
  - name: "-S ADD"
    inp: [ 4A.G, "-S ADD ALT" ]
`

func TestParsePinRefsMultiLetter(t *testing.T) {
	refs, err := ParsePinRefs("0000.CL")
	require.NoError(t, err)
	assert.Equal(t, []BlockPin{{Coordinate: "0000", Pin: "C"}, {Coordinate: "0000", Pin: "L"}}, refs)
}

func TestParsePinRefsErrors(t *testing.T) {
	for _, ref := range []string{"0000.", ".CL", "0000", "1A.B.C", "1 A.B"} {
		_, err := ParsePinRefs(ref)
		require.Error(t, err, ref)
		assert.True(t, errors.Is(err, diag.KindInvalidReference), "%s: %v", ref, err)
	}

	_, err := ParsePinRefs("1A.CI")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.KindInvalidPinName))
	assert.Contains(t, err.Error(), "1A.CI")
}

func TestValidPinName(t *testing.T) {
	for _, ok := range []string{"A", "R", "AB", "QQ"} {
		assert.True(t, ValidPinName(ok), ok)
	}
	for _, bad := range []string{"", "I", "O", "ABC", "a", "AO"} {
		assert.False(t, ValidPinName(bad), bad)
	}
	assert.True(t, IsPinRef("3A.G"))
	assert.False(t, IsPinRef("-S ADD"))
}

func TestDecodePage(t *testing.T) {
	page, err := DecodePage([]byte(samplePage), "p.yaml")
	require.NoError(t, err)

	assert.Equal(t, "01.10.05.1", page.Number)
	assert.Equal(t, "p12.pdf", page.PDF)
	require.Len(t, page.Blocks, 2)
	require.Len(t, page.Aliases, 1)

	b := page.Blocks[0]
	assert.Equal(t, "CAB", b.Type)
	assert.Equal(t, 1, b.Circuit)
	assert.Equal(t, []string{"A", "B"}, b.InputPins())
	assert.Equal(t, []string{"4A.G"}, b.Inputs["B"])

	got, err := page.BlockByCoordinate("4A")
	require.NoError(t, err)
	assert.Equal(t, "A07", got.Location)

	_, err = page.BlockByCoordinate("9Z")
	assert.True(t, errors.Is(err, diag.KindUnknownBlock))
}

func TestDecodePageRejectsBadPin(t *testing.T) {
	text := "num: \"7\"\nblocks:\n  - { typ: INV, gate: 01A, loc: A01, coo: 1A, cir: 1, inp: { I: [X] } }\n"
	_, err := DecodePage([]byte(text), "bad.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.KindInvalidPinName))
	assert.Contains(t, err.Error(), "page/block 7/1A")
}

func TestDecodePageMalformed(t *testing.T) {
	_, err := DecodePage([]byte("blocks: {"), "broken.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.KindFormat))
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoadPageListAndDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	write("a.yaml", "num: A\n")
	write("b.yaml", "num: B\n")
	write("c.yaml", "num: C\n")
	write("sub/d.yaml", "num: D\n")
	write("pages.yaml", "pages:\n  - c\n  - a\n  - b\n")

	pages, err := LoadPageList(filepath.Join(dir, "pages.yaml"), 2)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "C", pages[0].Number)
	assert.Equal(t, "A", pages[1].Number)
	assert.Equal(t, "B", pages[2].Number)
	assert.Equal(t, filepath.Join(dir, "c.yaml"), pages[0].Source)

	found, err := DiscoverPages(filepath.Join(dir, "**", "?.yaml"), filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yaml"),
		filepath.Join(dir, "sub", "d.yaml"),
	}, found)
}

func TestLoadPagesMissingFile(t *testing.T) {
	_, err := LoadPages([]string{filepath.Join(t.TempDir(), "gone.yaml")}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.yaml")
}
