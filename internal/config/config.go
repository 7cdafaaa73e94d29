// Package config holds the settings shared by the ald commands. Values come
// from command-line flags, ALD_* environment variables and an optional
// .ald.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/aldnet/pkg/ald"
	"github.com/OpenTraceLab/aldnet/pkg/netlist"
	"github.com/OpenTraceLab/aldnet/pkg/synth"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyCards      = "cards"
	KeyPages      = "pages"
	KeyGlob       = "glob"
	KeyModule     = "module"
	KeyPrefix     = "prefix"
	KeyCardPrefix = "card-prefix"
	KeyOutput     = "output"
	KeyWorkers    = "workers"
	KeyVerbose    = "verbose"
)

// EnvPrefix is prepended to every environment variable, e.g. ALD_CARDS.
const EnvPrefix = "ALD"

// Config controls loading and generation.
type Config struct {
	// Inputs
	CardDir   string   // directory holding cards.yaml
	PagesFile string   // page list file ({pages: [...]})
	PageGlobs []string // page file patterns, used when PagesFile is empty
	Workers   int      // pages decoded in parallel

	// Generation
	ModuleName      string
	NetPrefix       string
	SpiceCardPrefix string
	Output          string // output file, "" or "-" for stdout

	Verbose bool
}

// Default returns a Config with the standard names filled in.
func Default() *Config {
	return &Config{
		Workers:         ald.DefaultWorkers,
		ModuleName:      synth.DefaultModuleName,
		NetPrefix:       netlist.DefaultPrefix,
		SpiceCardPrefix: synth.DefaultCardPrefix,
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration and fills in defaults for zero values.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		c.Workers = ald.DefaultWorkers
	}
	if c.ModuleName == "" {
		c.ModuleName = synth.DefaultModuleName
	}
	if c.NetPrefix == "" {
		c.NetPrefix = netlist.DefaultPrefix
	}
	if c.SpiceCardPrefix == "" {
		c.SpiceCardPrefix = synth.DefaultCardPrefix
	}

	if c.CardDir == "" {
		return errors.New("config: card directory is required")
	}
	if c.PagesFile == "" && len(c.PageGlobs) == 0 {
		return errors.New("config: a page list or page pattern is required")
	}
	for _, name := range []string{c.ModuleName, c.NetPrefix, c.SpiceCardPrefix} {
		if !identifier.MatchString(name) {
			return fmt.Errorf("config: %q is not a valid identifier", name)
		}
	}
	return nil
}

// ToStdout reports whether output goes to standard output.
func (c *Config) ToStdout() bool { return c.Output == "" || c.Output == "-" }

// SynthOptions returns the emitter options for this configuration.
func (c *Config) SynthOptions() synth.Options {
	return synth.Options{ModuleName: c.ModuleName, CardPrefix: c.SpiceCardPrefix}
}

// NewViper returns a viper instance that reads ALD_* environment variables,
// seeded with the defaults from Default.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyModule, d.ModuleName)
	v.SetDefault(KeyPrefix, d.NetPrefix)
	v.SetDefault(KeyCardPrefix, d.SpiceCardPrefix)
	v.SetDefault(KeyWorkers, d.Workers)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known key that has a flag in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{
		KeyCards, KeyPages, KeyGlob, KeyModule, KeyPrefix,
		KeyCardPrefix, KeyOutput, KeyWorkers, KeyVerbose,
	} {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", key, err)
		}
	}
	return nil
}

// ReadFile loads path, or .ald.yaml from the working directory when path is
// empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".ald")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		CardDir:         v.GetString(KeyCards),
		PagesFile:       v.GetString(KeyPages),
		PageGlobs:       v.GetStringSlice(KeyGlob),
		Workers:         v.GetInt(KeyWorkers),
		ModuleName:      v.GetString(KeyModule),
		NetPrefix:       v.GetString(KeyPrefix),
		SpiceCardPrefix: v.GetString(KeyCardPrefix),
		Output:          v.GetString(KeyOutput),
		Verbose:         v.GetBool(KeyVerbose),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
