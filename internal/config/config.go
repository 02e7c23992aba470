// Package config holds the application settings read from the config file,
// BESTIARY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/suderio/bestiary/internal/log"
	"github.com/suderio/bestiary/internal/open5e"
)

var ErrInvalidFormat = errors.New("invalid output format")

// Output formats understood by the render command.
var Formats = []string{"text", "json", "terminal"}

type Config struct {
	// DataDirs are searched in order for creatures/<slug>.yaml.
	DataDirs     []string    `mapstructure:"data_dirs" yaml:"data_dirs"`
	OutputFormat string      `mapstructure:"output_format" yaml:"output_format"`
	ShowText     bool        `mapstructure:"show_text" yaml:"show_text"`
	Open5eURL    string      `mapstructure:"open5e_url" yaml:"open5e_url"`
	Log          log.Options `mapstructure:"log" yaml:"log"`
}

func Defaults() Config {
	return Config{
		DataDirs:     []string{"."},
		OutputFormat: "text",
		Open5eURL:    open5e.BaseURL,
		Log:          log.FromEnv(),
	}
}

// SetDefaults registers the defaults on v so that every key is known to
// AutomaticEnv and Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("data_dirs", d.DataDirs)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("show_text", d.ShowText)
	v.SetDefault("open5e_url", d.Open5eURL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.source", d.Log.AddSource)
	v.SetDefault("log.file", d.Log.File)
}

// Load decodes v into a Config and checks it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	if !slices.Contains(Formats, cfg.OutputFormat) {
		return Config{}, fmt.Errorf("%w %q, expected one of %s", ErrInvalidFormat, cfg.OutputFormat, strings.Join(Formats, ", "))
	}
	if len(cfg.DataDirs) == 0 {
		cfg.DataDirs = Defaults().DataDirs
	}
	return cfg, nil
}
