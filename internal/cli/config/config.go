// Package config loads tool configuration from hedl.yml.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the HEDL tool configuration
type Config struct {
	Strict  bool          `mapstructure:"strict"`
	Lint    LintConfig    `mapstructure:"lint"`
	Convert ConvertConfig `mapstructure:"convert"`
}

// LintConfig controls lint behavior
type LintConfig struct {
	// FailOn is the severity that makes `hedl lint` exit nonzero:
	// "error", "warning", or "hint".
	FailOn string `mapstructure:"fail_on"`
}

// ConvertConfig holds `hedl convert` defaults
type ConvertConfig struct {
	Format   string `mapstructure:"format"`
	Metadata bool   `mapstructure:"metadata"`
	Merge    bool   `mapstructure:"merge"`
}

// Load loads the configuration from hedl.yml or hedl.yaml in the working
// directory, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("strict", true)
	v.SetDefault("lint.fail_on", "error")
	v.SetDefault("convert.format", "json")
	v.SetDefault("convert.metadata", false)
	v.SetDefault("convert.merge", true)

	v.SetConfigName("hedl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HEDL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(c *Config) error {
	switch c.Lint.FailOn {
	case "error", "warning", "hint":
	default:
		return fmt.Errorf("lint.fail_on must be error, warning, or hint (got %q)", c.Lint.FailOn)
	}
	switch c.Convert.Format {
	case "json", "yaml", "xml", "csv", "cypher":
	default:
		return fmt.Errorf("convert.format must be json, yaml, xml, csv, or cypher (got %q)", c.Convert.Format)
	}
	return nil
}
