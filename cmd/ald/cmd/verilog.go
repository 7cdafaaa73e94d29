package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/aldnet/pkg/synth"
)

var verilogCmd = &cobra.Command{
	Use:   "verilog",
	Short: "Generate a Verilog module",
	Long: `Resolve the pages and emit one Verilog module containing a wire per net,
synthesized DOT-OR logic for every shared bus, and one instance per card.

Cards are instantiated as <card-prefix><type> models, so a library of card
models (SMS_CARD_AND, SMS_CARD_INV, ...) is needed to simulate the result.`,
	RunE: runVerilog,
}

var spiceCmd = &cobra.Command{
	Use:   "spice",
	Short: "Generate a SPICE deck",
	Long: `Resolve the pages and emit one SPICE subcircuit call per card, with a node
for every pin in catalog order. Unconnected ground and rail pins are tied to
gnd, vp12 or vn12.`,
	RunE: runSpice,
}

func init() {
	rootCmd.AddCommand(verilogCmd)
	rootCmd.AddCommand(spiceCmd)
}

func runVerilog(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	opts := cfg.SynthOptions()
	opts.Header = []string{fmt.Sprintf("%d pages", len(p.Pages))}
	return writeOutput(cmd, cfg, func(w io.Writer) error {
		return synth.GenerateVerilog(w, p.Netlist, opts)
	})
}

func runSpice(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	opts := cfg.SynthOptions()
	opts.Header = []string{fmt.Sprintf("%d pages", len(p.Pages))}
	return writeOutput(cmd, cfg, func(w io.Writer) error {
		return synth.GenerateSpice(w, p.Netlist, opts)
	})
}
