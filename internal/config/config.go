// Package config loads sysintel settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hiveden/sysintel/internal/logger"
	"github.com/hiveden/sysintel/internal/platform"
)

const (
	EnvPrefix = "SYSINTEL"

	FormatTable = "table"
	FormatYAML  = "yaml"
)

// Config holds the settings of a single run.
type Config struct {
	Format     string
	Color      bool
	HumanClock bool
	// OSClass overrides the detected OS classification when set.
	OSClass  string
	LogLevel string
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", FormatTable)
	v.SetDefault("no_color", false)
	v.SetDefault("human_clock", false)
	v.SetDefault("os_class", "")
	v.SetDefault("log_level", "warn")
}

// BindFlags binds command line flags to their settings. Flag names use dashes,
// settings use underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		if bindErr := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); bindErr != nil {
			err = errors.Join(err, bindErr)
		}
	})
	return err
}

// Load reads the config file, if any, and returns the resulting settings.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Format:     strings.ToLower(v.GetString("format")),
		Color:      !v.GetBool("no_color"),
		HumanClock: v.GetBool("human_clock"),
		OSClass:    v.GetString("os_class"),
		LogLevel:   v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatTable, FormatYAML:
	default:
		return fmt.Errorf("unsupported format %q, expected %q or %q", c.Format, FormatTable, FormatYAML)
	}
	if c.OSClass != "" && platform.ParseClass(c.OSClass) == platform.Unknown && !strings.EqualFold(c.OSClass, string(platform.Unknown)) {
		return fmt.Errorf("unknown OS class %q", c.OSClass)
	}
	if _, err := logger.LookupLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Classify returns the OS class to use: the override when set, otherwise detected.
func (c *Config) Classify(detected platform.Class) platform.Class {
	if c.OSClass == "" {
		return detected
	}
	return platform.ParseClass(c.OSClass)
}
