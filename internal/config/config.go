// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/repair-reserve/internal/cache"
	"github.com/iwvelando/repair-reserve/internal/chat"
	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for repair-reserve.
type Configuration struct {
	Logging LoggingConfig  `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig   `yaml:"output,omitempty" mapstructure:"output"`
	Inputs  reserve.Inputs `yaml:"inputs" mapstructure:"inputs"`
	Advisor chat.Config    `yaml:"advisor,omitempty" mapstructure:"advisor"`
	Lookup  LookupConfig   `yaml:"lookup,omitempty" mapstructure:"lookup"`
	Cache   cache.Config   `yaml:"cache,omitempty" mapstructure:"cache"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, xlsx
	File   string `yaml:"file,omitempty" mapstructure:"file"`     // xlsx destination
}

// LookupConfig configures the complex area lookup.
type LookupConfig struct {
	chat.Config `yaml:",inline" mapstructure:",squash"`
	CacheTTL    string `yaml:"cacheTTL,omitempty" mapstructure:"cacheTTL"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// InitialInputs turns the configured inputs into a consistent starting point.
// Missing modes and period fall back to the session defaults with the range
// starting in the current year; a configured range wins over a configured
// duration when range entry is selected.
func (c *Configuration) InitialInputs(now time.Time) reserve.Inputs {
	in := c.Inputs.Normalize()
	in.PeriodAmount = validation.NonNegative(in.PeriodAmount)
	in.TotalRepairCost = validation.NonNegative(in.TotalRepairCost)
	in.AccumulationRate = validation.NonNegative(in.AccumulationRate)
	in.TotalComplexArea = validation.NonNegative(in.TotalComplexArea)
	in.HouseholdArea = validation.NonNegative(in.HouseholdArea)

	if in.StartYear <= 0 {
		in.StartYear = now.Year()
	}
	if in.EndYear < 0 {
		in.EndYear = 0
	}

	if in.PeriodInputMode == reserve.PeriodRange && in.EndYear > 0 {
		return reserve.ApplyRangeEdit(in, reserve.RangeEnd, in.EndYear)
	}

	months := in.DurationMonths
	if months <= 0 {
		months = constants.DefaultDurationMonths
	}
	return reserve.ApplyDurationEdit(in, months)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors are reserved for settings that cannot be used.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return nil, err
		}
	}

	mode := strings.TrimSpace(string(c.Inputs.Mode))
	if mode != "" && !reserve.Mode(mode).Valid() {
		warnings = append(warnings, fmt.Sprintf("Unknown inputs.mode %q, using %q", mode, reserve.ModeRate))
	}
	periodMode := strings.TrimSpace(string(c.Inputs.PeriodInputMode))
	if periodMode != "" && !reserve.PeriodInputMode(periodMode).Valid() {
		warnings = append(warnings, fmt.Sprintf("Unknown inputs.periodInputMode %q, using %q", periodMode, reserve.PeriodDuration))
	}
	if c.Inputs.StartYear > 0 && c.Inputs.EndYear > 0 && c.Inputs.EndYear < c.Inputs.StartYear {
		warnings = append(warnings, fmt.Sprintf("inputs.endYear %d is before inputs.startYear %d", c.Inputs.EndYear, c.Inputs.StartYear))
	}

	for name, ts := range map[string]string{
		"advisor.timeout": c.Advisor.Timeout,
		"lookup.timeout":  c.Lookup.Timeout,
		"lookup.cacheTTL": c.Lookup.CacheTTL,
	} {
		if ts == "" {
			continue
		}
		if _, err := time.ParseDuration(ts); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, ts, err)
		}
	}

	switch c.Cache.Backend {
	case "", constants.CacheBackendMemory:
	case constants.CacheBackendRedis:
		if c.Cache.Address == "" {
			return nil, fmt.Errorf("cache.address is required for the redis backend")
		}
	default:
		return nil, fmt.Errorf("unsupported cache.backend %q", c.Cache.Backend)
	}

	return warnings, nil
}

// LookupCacheTTL returns the configured lookup cache lifetime or the default.
func (c *Configuration) LookupCacheTTL() time.Duration {
	ttl := c.Lookup.CacheTTL
	if ttl == "" {
		ttl = constants.DefaultLookupCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d < 0 {
		d, _ = time.ParseDuration(constants.DefaultLookupCacheTTL)
	}
	return d
}
