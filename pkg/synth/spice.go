package synth

import (
	"bytes"
	"fmt"
	"io"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
)

// GenerateSpice writes one subcircuit call per card. Each node is the net of
// a connected pin, the card's default node for an unconnected rail or ground
// pin, or a private unused net.
func GenerateSpice(w io.Writer, nl *netlist.Netlist, opts Options) error {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	writeHeader(&buf, "*", nl, opts)
	for _, c := range nl.Machine().Cards() {
		meta := c.Meta()
		fmt.Fprintf(&buf, "* Card %s at location %s - %s\n", meta.Type(), c.Location(), meta.Description())
		buf.WriteString(instanceName(c))
		for _, p := range c.Pins() {
			buf.WriteString(" ")
			if p.IsConnected() {
				wire, ok := nl.WireFor(p.Location())
				if !ok {
					return diag.New(diag.KindUnboundPin, p.Location().String())
				}
				buf.WriteString(wire.NetName())
				continue
			}
			if node := meta.DefaultNode(p.Meta().ID); node != "" {
				buf.WriteString(node)
				continue
			}
			buf.WriteString(nl.Prefix() + p.Location().String())
		}
		fmt.Fprintf(&buf, " %s%s\n", opts.CardPrefix, meta.Type())
	}
	buf.WriteString(".end\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("synth: write spice: %w", err)
	}
	return nil
}
