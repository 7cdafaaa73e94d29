package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/aldnet/internal/config"
	"github.com/OpenTraceLab/aldnet/internal/project"
	"github.com/OpenTraceLab/aldnet/pkg/ald"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
	"github.com/OpenTraceLab/aldnet/pkg/synth"
)

var (
	// Global flags
	cfgFile string

	settings = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "ald",
	Short: "ALD logic diagram netlist reconstruction",
	Long: `Rebuild the wiring of a card-based machine from its ALD logic pages
and emit it as a Verilog module, a SPICE deck, or a plain netlist.

Pages reference driving pins either directly (<coordinate>.<pins>) or through
named cross-page signals. Every reference is resolved to the card pins that
drive it, pins are grouped into wires, and wires with several drivers get
synthesized DOT-OR logic.

Examples:
  ald check   --cards cards --pages ald/pages.yaml        # Resolve and validate only
  ald verilog --cards cards --pages ald/pages.yaml -o core.v
  ald spice   --cards cards --glob "ald/**/*.yaml"        # Pages found by pattern
  ald signals --cards cards --pages ald/pages.yaml        # Named signal table

Settings can also come from ALD_* environment variables (ALD_CARDS,
ALD_PAGES, ...) or a .ald.yaml file in the working directory.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ %v", err))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP(config.KeyVerbose, "v", false, "verbose output")
	pf.StringVar(&cfgFile, "config", "", "config file (default .ald.yaml in the working directory)")
	pf.StringP(config.KeyCards, "c", "", "card metadata directory containing cards.yaml")
	pf.StringP(config.KeyPages, "p", "", "page list file ({pages: [...]})")
	pf.StringSlice(config.KeyGlob, nil, "page file patterns, ** allowed (used when --pages is not set)")
	pf.Int(config.KeyWorkers, ald.DefaultWorkers, "pages decoded in parallel")
	pf.String(config.KeyPrefix, netlist.DefaultPrefix, "net name prefix")
	pf.String(config.KeyModule, synth.DefaultModuleName, "Verilog module name")
	pf.String(config.KeyCardPrefix, synth.DefaultCardPrefix, "card model name prefix")
	pf.StringP(config.KeyOutput, "o", "", "output file (default stdout)")

	if err := config.BindFlags(settings, pf); err != nil {
		panic(err)
	}
}

// loadConfig resolves the settings for one command run.
func loadConfig() (*config.Config, error) {
	if err := config.ReadFile(settings, cfgFile); err != nil {
		return nil, err
	}
	return config.FromViper(settings)
}

// loadProject loads the configured pages and resolves them.
func loadProject(cmd *cobra.Command) (*config.Config, *project.Project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "", 0)
	}
	p, err := project.Load(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// writeOutput renders the whole result before touching the destination so a
// failed run never leaves a partial file behind.
func writeOutput(cmd *cobra.Command, cfg *config.Config, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if cfg.ToStdout() {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %s\n", color.GreenString("✓"), cfg.Output)
	return nil
}
