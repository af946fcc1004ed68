// Package config loads otb settings from otb.yaml (or .toml/.json) and
// OTB_* environment variables.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// FileName is the config file base name looked up next to the netlist
const FileName = "otb"

// EnvPrefix prefixes environment overrides, e.g. OTB_BOM_SORT_REFS=true
const EnvPrefix = "OTB"

// Config is the complete otb configuration
type Config struct {
	BOM    BOMConfig      `mapstructure:"bom" yaml:"bom"`
	Filter FilterConfig   `mapstructure:"filter" yaml:"filter"`
	Log    logging.Config `mapstructure:"log" yaml:"log"`

	// File is the config file that was read, empty when defaults were used
	File string `mapstructure:"-" yaml:"-"`
}

// BOMConfig controls grouping and the DNF rule
type BOMConfig struct {
	EquivalenceFields []string `mapstructure:"equivalence_fields" yaml:"equivalence_fields"`
	ReportFields      []string `mapstructure:"report_fields" yaml:"report_fields"`
	DNFField          string   `mapstructure:"dnf_field" yaml:"dnf_field"`
	DNFValue          string   `mapstructure:"dnf_value" yaml:"dnf_value"`
	HonorDNP          bool     `mapstructure:"honor_dnp" yaml:"honor_dnp"`
	SortRefs          bool     `mapstructure:"sort_refs" yaml:"sort_refs"`
}

// FilterConfig selects the components that reach the BOM
type FilterConfig struct {
	ExcludeRefs         []string `mapstructure:"exclude_refs" yaml:"exclude_refs"`
	ExcludeValues       []string `mapstructure:"exclude_values" yaml:"exclude_values"`
	ExcludeFootprints   []string `mapstructure:"exclude_footprints" yaml:"exclude_footprints"`
	SkipPower           bool     `mapstructure:"skip_power" yaml:"skip_power"`
	HonorExcludeFromBOM bool     `mapstructure:"honor_exclude_from_bom" yaml:"honor_exclude_from_bom"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	opts := bom.DefaultOptions()
	filter := netlist.DefaultFilter()

	return &Config{
		BOM: BOMConfig{
			EquivalenceFields: slices.Clone(opts.Equivalence.Fields),
			ReportFields:      slices.Clone(opts.ReportFields),
			DNFField:          opts.DNF.Field,
			DNFValue:          opts.DNF.Value,
			HonorDNP:          opts.DNF.HonorDNP,
			SortRefs:          opts.SortRefs,
		},
		Filter: FilterConfig{
			ExcludeRefs:         slices.Clone(filter.ExcludeRefs),
			ExcludeValues:       slices.Clone(filter.ExcludeValues),
			ExcludeFootprints:   []string{},
			SkipPower:           filter.SkipPower,
			HonorExcludeFromBOM: filter.HonorExcludeFromBOM,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads otb.{yaml,toml,json} from the given directories in order,
// the first match wins. A missing file is not an error: defaults and
// environment overrides apply.
func Load(dirs ...string) (*Config, error) {
	v := newViper()
	v.SetConfigName(FileName)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	return read(v, true)
}

// LoadFile reads an explicit config file, which must exist
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return read(v, false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("bom.equivalence_fields", c.BOM.EquivalenceFields)
	v.SetDefault("bom.report_fields", c.BOM.ReportFields)
	v.SetDefault("bom.dnf_field", c.BOM.DNFField)
	v.SetDefault("bom.dnf_value", c.BOM.DNFValue)
	v.SetDefault("bom.honor_dnp", c.BOM.HonorDNP)
	v.SetDefault("bom.sort_refs", c.BOM.SortRefs)

	v.SetDefault("filter.exclude_refs", c.Filter.ExcludeRefs)
	v.SetDefault("filter.exclude_values", c.Filter.ExcludeValues)
	v.SetDefault("filter.exclude_footprints", c.Filter.ExcludeFootprints)
	v.SetDefault("filter.skip_power", c.Filter.SkipPower)
	v.SetDefault("filter.honor_exclude_from_bom", c.Filter.HonorExcludeFromBOM)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
}

func read(v *viper.Viper, optional bool) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || !optional {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	for _, name := range c.BOM.EquivalenceFields {
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Field: "bom.equivalence_fields", Message: "empty field name"}
		}
	}
	for _, name := range c.BOM.ReportFields {
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Field: "bom.report_fields", Message: "empty field name"}
		}
	}
	if c.BOM.DNFValue != "" && c.BOM.DNFField == "" {
		return &ConfigError{Field: "bom.dnf_field", Message: "required when bom.dnf_value is set"}
	}
	if _, err := c.NetlistFilter(); err != nil {
		return &ConfigError{Field: "filter", Message: err.Error()}
	}
	if err := c.Log.Validate(); err != nil {
		return &ConfigError{Field: "log", Message: err.Error()}
	}
	return nil
}

// BOMOptions converts the bom section into grouping options
func (c *Config) BOMOptions() bom.Options {
	return bom.Options{
		Equivalence: bom.Equivalence{Fields: slices.Clone(c.BOM.EquivalenceFields)},
		DNF: bom.DNFRule{
			Field:    c.BOM.DNFField,
			Value:    c.BOM.DNFValue,
			HonorDNP: c.BOM.HonorDNP,
		},
		ReportFields: slices.Clone(c.BOM.ReportFields),
		SortRefs:     c.BOM.SortRefs,
	}
}

// NetlistFilter converts the filter section into a validated netlist.Filter
func (c *Config) NetlistFilter() (*netlist.Filter, error) {
	f := &netlist.Filter{
		SkipPower:           c.Filter.SkipPower,
		HonorExcludeFromBOM: c.Filter.HonorExcludeFromBOM,
		ExcludeRefs:         c.Filter.ExcludeRefs,
		ExcludeValues:       c.Filter.ExcludeValues,
		ExcludeFootprints:   c.Filter.ExcludeFootprints,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// YAML renders the effective configuration in config file form
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
