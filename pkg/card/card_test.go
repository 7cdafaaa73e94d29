package card

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

const andCard = `
description: Two input AND
pins:
  D: { type: OUTPUT, drivetype: AL_PU }
  A: { type: INPUT }
  B: { type: INPUT, tie: GND }
  C: { type: NC }
  J: { type: GND }
  N: { type: VP12 }
  K: { type: PASSIVE, tie: VN12 }
  Q: { type: OUTPUT }
`

func TestDecodeKeepsPinOrder(t *testing.T) {
	meta, err := Decode([]byte(andCard), "AND")
	require.NoError(t, err)

	assert.Equal(t, "AND", meta.Type())
	assert.Equal(t, "Two input AND", meta.Description())
	assert.Equal(t, []string{"D", "A", "B", "J", "N", "K", "Q"}, meta.PinIDs())
	assert.Equal(t, []string{"D", "A", "B", "Q"}, meta.SignalPinIDs())
}

func TestDecodeDefaults(t *testing.T) {
	meta, err := Decode([]byte(andCard), "AND")
	require.NoError(t, err)

	_, ok := meta.Pin("C")
	assert.False(t, ok, "NC pins are not materialized")

	q, ok := meta.Pin("Q")
	require.True(t, ok)
	assert.Equal(t, DriveActiveHighPullDown, q.Drive)

	d, _ := meta.Pin("D")
	assert.Equal(t, DriveActiveLowPullUp, d.Drive)

	// tie is ignored on non-passive pins
	b, _ := meta.Pin("B")
	assert.Equal(t, TieNone, b.Tie)

	k, _ := meta.Pin("K")
	assert.Equal(t, PinPassive, k.Type)
	assert.Equal(t, TieNegRail, k.Tie)
}

func TestDefaultNode(t *testing.T) {
	meta, err := Decode([]byte(andCard), "AND")
	require.NoError(t, err)

	assert.Equal(t, "gnd", meta.DefaultNode("J"))
	assert.Equal(t, "vp12", meta.DefaultNode("N"))
	assert.Equal(t, "", meta.DefaultNode("A"))
	assert.Equal(t, "", meta.DefaultNode("ZZ"))
}

func TestDefaultNodeByPinID(t *testing.T) {
	meta := NewCardMeta("MIX", "Mixed", []PinMeta{
		{ID: "M", Type: PinPassive},
		{ID: "J", Type: PinUnknown},
		{ID: "Q", Type: PinNegRail},
		{ID: "R", Type: PinPassive, Tie: TieGround},
	})

	assert.Equal(t, "vn12", meta.DefaultNode("M"))
	assert.Equal(t, "gnd", meta.DefaultNode("J"))
	assert.Equal(t, "vn12", meta.DefaultNode("Q"))
	assert.Equal(t, "", meta.DefaultNode("R"))
	assert.Equal(t, "", meta.DefaultNode("N"), "pin not on the card")
}

func TestDecodeFormatErrors(t *testing.T) {
	cases := map[string]string{
		"pins not a map": "description: x\npins: [A, B]\n",
		"pin not a map":  "description: x\npins:\n  A: INPUT\n",
		"bad pin type":   "description: x\npins:\n  A: { type: BOGUS }\n",
		"bad drive type": "description: x\npins:\n  A: { type: OUTPUT, drivetype: XX }\n",
		"bad tie type":   "description: x\npins:\n  A: { type: PASSIVE, tie: XX }\n",
		"malformed yaml": "description: [\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(text), "BAD")
			require.Error(t, err)
			assert.True(t, errors.Is(err, diag.KindFormat))
			assert.Contains(t, err.Error(), `"BAD"`)
		})
	}
}

func TestParseCodes(t *testing.T) {
	pt, err := ParsePinType("VN12")
	require.NoError(t, err)
	assert.Equal(t, PinNegRail, pt)

	pt, err = ParsePinType("system-clock")
	require.NoError(t, err)
	assert.Equal(t, PinSysClock, pt)

	dt, err := ParseDriveType("ACTIVE-LOW")
	require.NoError(t, err)
	assert.Equal(t, DriveActiveLow, dt)
	assert.True(t, dt.ActiveLow())
	assert.False(t, dt.ActiveHigh())

	tt, err := ParseTieType("VP12")
	require.NoError(t, err)
	assert.Equal(t, TiePosRail, tt)

	assert.Equal(t, "AH_PD", DriveActiveHighPullDown.String())
	assert.Equal(t, "OUTPUT", PinOutput.String())
}

func TestBuiltins(t *testing.T) {
	cat := NewCatalog()
	for _, typ := range []string{"ONE", "ZERO", "HIZ", "IND", "RST"} {
		meta, err := cat.Lookup(typ)
		require.NoError(t, err, typ)
		assert.Equal(t, []string{"A"}, meta.PinIDs())
		a, _ := meta.Pin("A")
		assert.Equal(t, PinOutput, a.Type)
	}
	rst, _ := cat.Lookup("RST")
	assert.Equal(t, "Power On Reset", rst.Description())
}

func TestLookupUnknown(t *testing.T) {
	_, err := NewMemoryCatalog().Lookup("XYZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.KindUnknownCardType))
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestLoadIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cards.yaml"), "cards:\n  - AND\n  - INV\n")
	writeFile(t, filepath.Join(root, "AND", "AND.yaml"), andCard)
	writeFile(t, filepath.Join(root, "INV", "INV.yaml"),
		"description: Inverter\npins:\n  A: { type: INPUT }\n  B: { type: OUTPUT }\n")

	cat := NewCatalog()
	require.NoError(t, cat.LoadIndex(root))

	inv, err := cat.Lookup("INV")
	require.NoError(t, err)
	assert.Equal(t, "Inverter", inv.Description())
	assert.Contains(t, cat.Types(), "AND")
	assert.Equal(t, 7, cat.Len())
}

func TestLoadIndexMissingCard(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cards.yaml"), "cards:\n  - GONE\n")

	err := NewMemoryCatalog().LoadIndex(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GONE")
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cards.yaml"), "cards:\n  - AND\n")
	writeFile(t, filepath.Join(root, "AND", "AND.yaml"), andCard)
	writeFile(t, filepath.Join(root, "AND", "notes.yaml"), "not: a card\n")

	cat := NewMemoryCatalog()
	require.NoError(t, cat.LoadDir(root))
	assert.Equal(t, []string{"AND"}, cat.Types())
}
