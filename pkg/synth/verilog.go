package synth

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/aldnet/pkg/card"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
)

// Options controls the generated text.
type Options struct {
	ModuleName string   // Verilog module and VCD file name
	CardPrefix string   // prepended to the card type to name its model
	Header     []string // extra comment lines for the file header
}

const (
	DefaultModuleName = "core"
	DefaultCardPrefix = "SMS_CARD_"
)

func (o Options) withDefaults() Options {
	if o.ModuleName == "" {
		o.ModuleName = DefaultModuleName
	}
	if o.CardPrefix == "" {
		o.CardPrefix = DefaultCardPrefix
	}
	return o
}

func instanceName(c *machine.Card) string { return "X_" + c.Location().String() }

func writeHeader(buf *bytes.Buffer, marker string, nl *netlist.Netlist, opts Options) {
	fmt.Fprintf(buf, "%s Generated by aldnet. Do not edit.\n", marker)
	fmt.Fprintf(buf, "%s %d cards, %d wires, %d DOT-OR wires\n",
		marker, nl.Machine().Len(), nl.WireCount(), nl.MultiDriverCount())
	for _, line := range opts.Header {
		fmt.Fprintf(buf, "%s %s\n", marker, line)
	}
}

// GenerateVerilog writes a Verilog module for nl to w. Every wire is
// classified first; nothing is written unless the whole module succeeds.
func GenerateVerilog(w io.Writer, nl *netlist.Netlist, opts Options) error {
	opts = opts.withDefaults()
	buses, err := ClassifyAll(nl)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeHeader(&buf, "//", nl, opts)
	fmt.Fprintf(&buf, "module %s();\n", opts.ModuleName)

	buf.WriteString("\n")
	for _, b := range buses {
		writeNet(&buf, b)
	}
	for _, w := range nl.Wires {
		if !w.IsLogic() && hasClock(w) {
			fmt.Fprintf(&buf, "    // system clock\n    wire %s;\n", w.NetName())
		}
	}

	buf.WriteString("\n")
	for _, c := range nl.Machine().Cards() {
		if err := writeInstance(&buf, nl, c, opts); err != nil {
			return err
		}
	}

	buf.WriteString("\n")
	buf.WriteString("    initial begin\n")
	fmt.Fprintf(&buf, "        $dumpfile(\"%s.vcd\");\n", opts.ModuleName)
	fmt.Fprintf(&buf, "        $dumpvars(0, %s);\n", opts.ModuleName)
	buf.WriteString("    end\n")
	buf.WriteString("endmodule\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("synth: write verilog: %w", err)
	}
	return nil
}

func writeNet(buf *bytes.Buffer, b *Bus) {
	w := b.Wire
	if !w.IsMultiDriver() {
		fmt.Fprintf(buf, "    wire %s;\n", w.NetName())
		return
	}
	terms := make([]string, len(w.Driving))
	for i, p := range w.Driving {
		name := w.DriverName(p.Location())
		fmt.Fprintf(buf, "    wire %s;\n", name)
		terms[i] = name + " === " + b.Asserted()
	}
	fmt.Fprintf(buf, "    // DOT-OR, %s\n", b.Polarity)
	asserted := "1'b" + b.Asserted()
	fmt.Fprintf(buf, "    wire %s = (%s) ? %s : %s;\n",
		w.DotName(), strings.Join(terms, " || "), asserted, b.Default())
}

func isClock(p *machine.Pin) bool { return p.Meta().Type == card.PinSysClock }

func hasClock(w *netlist.Wire) bool {
	for _, p := range w.Aux {
		if isClock(p) {
			return true
		}
	}
	return false
}

func writeInstance(buf *bytes.Buffer, nl *netlist.Netlist, c *machine.Card, opts Options) error {
	var ports []string
	for _, p := range c.Pins() {
		if !(p.Meta().IsLogicSignal() || isClock(p)) || !p.IsConnected() {
			continue
		}
		net, err := nl.Binding(p.Location())
		if err != nil {
			return err
		}
		ports = append(ports, fmt.Sprintf(".%s(%s)", p.Meta().ID, net))
	}
	if len(ports) == 0 {
		return nil
	}
	fmt.Fprintf(buf, "    %s%s %s (%s);\n",
		opts.CardPrefix, c.Meta().Type(), instanceName(c), strings.Join(ports, ", "))
	return nil
}
