package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	netlistFormat string
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List every named signal and what it refers to",
	RunE:  runSignals,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List every card with its pins, connections and pages",
	RunE:  runDump,
}

var netlistCmd = &cobra.Command{
	Use:   "netlist",
	Short: "Export the extracted wires as JSON or a KiCad netlist",
	Long: `Export the wires without any logic synthesis.

Formats:
  json    one object per wire with its driving, driven and passive pins
  kicad   KiCad netlist, one component per card slot`,
	RunE: runNetlist,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(netlistCmd)

	netlistCmd.Flags().StringVarP(&netlistFormat, "format", "f", "json", "output format (json, kicad)")
}

func runSignals(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	return writeOutput(cmd, cfg, p.Signals.Report)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	return writeOutput(cmd, cfg, p.Machine.Dump)
}

func runNetlist(cmd *cobra.Command, args []string) error {
	if netlistFormat != "json" && netlistFormat != "kicad" {
		return fmt.Errorf("unknown netlist format %q (want json or kicad)", netlistFormat)
	}
	cfg, p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	return writeOutput(cmd, cfg, func(w io.Writer) error {
		if netlistFormat == "kicad" {
			_, err := io.WriteString(w, p.Netlist.ExportKiCad())
			return err
		}
		data, err := p.Netlist.ExportJSON()
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	})
}
