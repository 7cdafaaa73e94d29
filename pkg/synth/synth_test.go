package synth

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
)

func driverMeta(typ string, drive card.DriveType) *card.CardMeta {
	return card.NewCardMeta(typ, "Driver", []card.PinMeta{
		{ID: "O2", Type: card.PinOutput, Drive: drive},
		{ID: "J", Type: card.PinGround},
	})
}

var loadMeta = card.NewCardMeta("LD", "Load", []card.PinMeta{
	{ID: "I", Type: card.PinInput},
	{ID: "K", Type: card.PinPassive, Tie: card.TieNegRail},
})

type rig struct {
	t *testing.T
	m *machine.Machine
}

func newRig(t *testing.T) *rig { return &rig{t: t, m: machine.New()} }

func (r *rig) place(meta *card.CardMeta, loc string) {
	_, err := r.m.CreateCard(meta, machine.PlugLocation{Gate: "01A", Loc: loc})
	require.NoError(r.t, err)
}

func (r *rig) pin(loc, id string) *machine.Pin {
	p, err := r.m.Pin(machine.NewPinLocation("01A", loc, id))
	require.NoError(r.t, err)
	return p
}

func (r *rig) link(a, b *machine.Pin) { r.m.Link(a, b) }

func (r *rig) extract() *netlist.Netlist {
	nl, err := netlist.Extract(r.m, "")
	require.NoError(r.t, err)
	return nl
}

// bus places one driver per drive type at A01, A02, ... and one load at B01,
// all on one net.
func busRig(t *testing.T, drives ...card.DriveType) *rig {
	r := newRig(t)
	r.place(loadMeta, "B01")
	for i, d := range drives {
		loc := string(rune('1'+i))
		r.place(driverMeta("DRV", d), "A0"+loc)
		r.link(r.pin("B01", "I"), r.pin("A0"+loc, "O2"))
	}
	return r
}

func TestClassifySingleDriver(t *testing.T) {
	r := busRig(t, card.DriveActiveLow)
	nl := r.extract()
	require.Len(t, nl.Wires, 1)

	bus, err := Classify(nl.Wires[0])
	require.NoError(t, err)
	assert.Equal(t, PolarityActiveLow, bus.Polarity)
	assert.False(t, bus.Wire.IsMultiDriver())
}

func TestClassifyDotOr(t *testing.T) {
	r := busRig(t, card.DriveActiveHigh, card.DriveActiveHighPullDown)
	bus, err := Classify(r.extract().Wires[0])
	require.NoError(t, err)
	assert.Equal(t, PolarityActiveHigh, bus.Polarity)
	assert.True(t, bus.PullDown)
	assert.Equal(t, "1'b0", bus.Default())

	r = busRig(t, card.DriveActiveLow, card.DriveActiveLowPullUp)
	bus, err = Classify(r.extract().Wires[0])
	require.NoError(t, err)
	assert.Equal(t, PolarityActiveLow, bus.Polarity)
	assert.True(t, bus.PullUp)
	assert.Equal(t, "1'b1", bus.Default())
}

func TestClassifyPassivePull(t *testing.T) {
	r := busRig(t, card.DriveActiveHigh)
	r.link(r.pin("B01", "K"), r.pin("A01", "O2"))
	w := r.extract().Wires[0]
	require.True(t, w.IsMultiDriver())

	bus, err := Classify(w)
	require.NoError(t, err)
	assert.True(t, bus.PullDown)
}

func TestClassifyErrors(t *testing.T) {
	cases := map[string]struct {
		drives []card.DriveType
		links  [][2]string // extra links between load slots as {slot.pin, slot.pin}
		kind   diag.Kind
		pin    string
	}{
		"mixed polarity":   {drives: []card.DriveType{card.DriveActiveHighPullDown, card.DriveActiveLowPullUp}, kind: diag.KindIncompatibleDrive, pin: "01A_B01_I"},
		"no pull-down":     {drives: []card.DriveType{card.DriveActiveHigh, card.DriveActiveHigh}, kind: diag.KindMissingPull, pin: "01A_B01_I"},
		"no pull-up":       {drives: []card.DriveType{card.DriveActiveLow, card.DriveActiveLow}, kind: diag.KindMissingPull, pin: "01A_B01_I"},
		"undriven output":  {drives: []card.DriveType{card.DriveActiveHighPullDown, card.DriveNone}, kind: diag.KindIncompatibleDrive, pin: "01A_B01_I"},
		"no driver at all": {links: [][2]string{{"B01.I", "B02.I"}}, kind: diag.KindNoDriver, pin: "01A_B01_I"},
		"passive only":     {links: [][2]string{{"B01.K", "B02.K"}}, kind: diag.KindNoDriver, pin: "01A_B01_K"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := busRig(t, tc.drives...)
			if len(tc.links) > 0 {
				r.place(loadMeta, "B02")
			}
			for _, l := range tc.links {
				r.link(r.pin(l[0][:3], l[0][4:]), r.pin(l[1][:3], l[1][4:]))
			}
			nl := r.extract()
			_, err := ClassifyAll(nl)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "%v", err)
			assert.Contains(t, err.Error(), tc.pin)

			var buf bytes.Buffer
			err = GenerateVerilog(&buf, nl, Options{})
			assert.True(t, errors.Is(err, tc.kind), "%v", err)
			assert.Empty(t, buf.String())
		})
	}
}

func TestVerilogSingleDriver(t *testing.T) {
	r := busRig(t, card.DriveActiveHighPullDown)
	var buf bytes.Buffer
	require.NoError(t, GenerateVerilog(&buf, r.extract(), Options{}))

	want := `// Generated by aldnet. Do not edit.
// 2 cards, 1 wires, 0 DOT-OR wires
module core();

    wire W_01A_A01_O2;

    SMS_CARD_DRV X_01A_A01 (.O2(W_01A_A01_O2));
    SMS_CARD_LD X_01A_B01 (.I(W_01A_A01_O2));

    initial begin
        $dumpfile("core.vcd");
        $dumpvars(0, core);
    end
endmodule
`
	assert.Equal(t, want, buf.String())
}

func TestVerilogDotOr(t *testing.T) {
	r := busRig(t, card.DriveActiveHigh, card.DriveActiveHighPullDown)
	var buf bytes.Buffer
	require.NoError(t, GenerateVerilog(&buf, r.extract(), Options{ModuleName: "cpu", Header: []string{"pages: test"}}))
	out := buf.String()

	assert.Contains(t, out, "// pages: test\n")
	assert.Contains(t, out, "module cpu();\n")
	assert.Contains(t, out, "    wire W_01A_A01_O2;\n    wire W_01A_A02_O2;\n")
	assert.Contains(t, out,
		"    wire W_DOT_1 = (W_01A_A01_O2 === 1 || W_01A_A02_O2 === 1) ? 1'b1 : 1'b0;\n")
	assert.Contains(t, out, "SMS_CARD_DRV X_01A_A01 (.O2(W_01A_A01_O2));")
	assert.Contains(t, out, "SMS_CARD_DRV X_01A_A02 (.O2(W_01A_A02_O2));")
	assert.Contains(t, out, "SMS_CARD_LD X_01A_B01 (.I(W_DOT_1));")
	assert.Contains(t, out, `$dumpfile("cpu.vcd");`)
}

func TestVerilogActiveLowDotOr(t *testing.T) {
	r := busRig(t, card.DriveActiveLowPullUp, card.DriveActiveLow)
	var buf bytes.Buffer
	require.NoError(t, GenerateVerilog(&buf, r.extract(), Options{}))
	assert.Contains(t, buf.String(),
		"    wire W_DOT_1 = (W_01A_A01_O2 === 0 || W_01A_A02_O2 === 0) ? 1'b0 : 1'b1;\n")
}

func TestVerilogWritesNothingOnError(t *testing.T) {
	r := busRig(t, card.DriveActiveHigh, card.DriveActiveLow)
	var buf bytes.Buffer
	err := GenerateVerilog(&buf, r.extract(), Options{})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestVerilogSkipsUnconnectedCards(t *testing.T) {
	r := busRig(t, card.DriveActiveHighPullDown)
	r.place(loadMeta, "C01")
	var buf bytes.Buffer
	require.NoError(t, GenerateVerilog(&buf, r.extract(), Options{}))
	assert.NotContains(t, buf.String(), "X_01A_C01")
}

func TestVerilogClockNet(t *testing.T) {
	clocked := card.NewCardMeta("CLK", "Clocked latch", []card.PinMeta{
		{ID: "I", Type: card.PinInput},
		{ID: "S", Type: card.PinSysClock},
	})
	r := busRig(t, card.DriveActiveHighPullDown)
	r.place(clocked, "C01")
	r.place(clocked, "C02")
	r.link(r.pin("C01", "S"), r.pin("C02", "S"))

	var buf bytes.Buffer
	require.NoError(t, GenerateVerilog(&buf, r.extract(), Options{}))
	out := buf.String()
	assert.Contains(t, out, "    // system clock\n    wire W_NET_2;\n")
	assert.Contains(t, out, "    SMS_CARD_CLK X_01A_C01 (.S(W_NET_2));\n")
	assert.Contains(t, out, "    SMS_CARD_CLK X_01A_C02 (.S(W_NET_2));\n")
}

func TestSpice(t *testing.T) {
	r := busRig(t, card.DriveActiveHighPullDown)
	var buf bytes.Buffer
	require.NoError(t, GenerateSpice(&buf, r.extract(), Options{}))

	want := `* Generated by aldnet. Do not edit.
* 2 cards, 1 wires, 0 DOT-OR wires
* Card DRV at location 01A_A01 - Driver
X_01A_A01 W_01A_A01_O2 gnd SMS_CARD_DRV
* Card LD at location 01A_B01 - Load
X_01A_B01 W_01A_A01_O2 W_01A_B01_K SMS_CARD_LD
.end
`
	assert.Equal(t, want, buf.String())
}
