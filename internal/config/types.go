// Package config loads pjnz settings from defaults, an optional pjnz.yaml,
// PJNZ_ environment variables and command-line flags.
package config

import (
	"time"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/output"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/specio"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/spectrum"
)

// Default configuration values.
const (
	DefaultSchemasDir   = "schemas"
	DefaultOutputDir    = "out"
	DefaultOutputFormat = string(output.FormatCSV)
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultWorkers      = 4
)

// SpecioConfig configures the specio model-data service.
type SpecioConfig struct {
	Rscript     string        `koanf:"rscript"`
	Timeout     time.Duration `koanf:"timeout"`
	AutoInstall bool          `koanf:"auto_install"`
}

// Config holds all pjnz settings.
type Config struct {
	SchemasDir   string       `koanf:"schemas_dir"`
	OutputDir    string       `koanf:"output_dir"`
	OutputFormat string       `koanf:"output_format"`
	LogLevel     string       `koanf:"log_level"`
	LogFormat    string       `koanf:"log_format"`
	Workers      int          `koanf:"workers"`
	Country      string       `koanf:"country"`
	FirstYear    int          `koanf:"first_year"`
	LastYear     int          `koanf:"last_year"`
	Specio       SpecioConfig `koanf:"specio"`
	// Indicators are registered on top of the built-in ones; an entry
	// with a built-in name replaces it.
	Indicators []spectrum.Indicator `koanf:"indicators"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `koanf:"-"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"schemas_dir":         DefaultSchemasDir,
		"output_dir":          DefaultOutputDir,
		"output_format":       DefaultOutputFormat,
		"log_level":           DefaultLogLevel,
		"log_format":          DefaultLogFormat,
		"workers":             DefaultWorkers,
		"first_year":          pjnz.DefaultFirstYear,
		"last_year":           pjnz.DefaultLastYear,
		"specio.rscript":      specio.DefaultRscript,
		"specio.timeout":      specio.DefaultTimeout.String(),
		"specio.auto_install": false,
	}
}

// Format returns the parsed output format.
func (c *Config) Format() (output.Format, error) {
	return output.ParseFormat(c.OutputFormat)
}

// Registry returns the built-in indicators plus the configured ones.
func (c *Config) Registry() (*spectrum.Registry, error) {
	r := spectrum.DefaultRegistry()
	for _, ind := range c.Indicators {
		if err := r.Register(ind); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// FileOptions returns the archive options for these settings.
func (c *Config) FileOptions() pjnz.Options {
	opts := pjnz.DefaultOptions()
	opts.Country = c.Country
	opts.FirstYear = c.FirstYear
	opts.LastYear = c.LastYear
	return opts
}

// SpecioService returns a specio service for these settings.
func (c *Config) SpecioService() *specio.Service {
	return specio.New(specio.Config{
		Rscript:     c.Specio.Rscript,
		Timeout:     c.Specio.Timeout,
		AutoInstall: c.Specio.AutoInstall,
	})
}
