package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}

	opts := cfg.BOMOptions()
	if opts.DNF.Field != "Config" || opts.DNF.Value != "dnf" || !opts.DNF.HonorDNP {
		t.Errorf("Unexpected DNF rule: %+v", opts.DNF)
	}
	if len(opts.Equivalence.Fields) != 6 {
		t.Errorf("Expected 6 equivalence fields, got %d", len(opts.Equivalence.Fields))
	}
	if opts.SortRefs {
		t.Error("Expected first-seen order by default")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.File != "" {
		t.Errorf("Expected no config file, got %q", cfg.File)
	}
	if cfg.BOM.DNFValue != "dnf" {
		t.Errorf("Expected default dnf value, got %q", cfg.BOM.DNFValue)
	}
	if len(cfg.Filter.ExcludeValues) != 4 {
		t.Errorf("Expected 4 default value exclusions, got %v", cfg.Filter.ExcludeValues)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `bom:
  equivalence_fields: [Manufacturer, MPN]
  report_fields: [MPN]
  sort_refs: true
filter:
  exclude_footprints: ["TestPoint:*"]
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "otb.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.File != filepath.Join(dir, "otb.yaml") {
		t.Errorf("Expected config file to be recorded, got %q", cfg.File)
	}
	if strings.Join(cfg.BOM.EquivalenceFields, ",") != "Manufacturer,MPN" {
		t.Errorf("Unexpected equivalence fields: %v", cfg.BOM.EquivalenceFields)
	}
	if !cfg.BOM.SortRefs {
		t.Error("Expected sort_refs from file")
	}
	if cfg.BOM.DNFField != "Config" {
		t.Errorf("Expected unset keys to keep defaults, got dnf_field %q", cfg.BOM.DNFField)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}

	f, err := cfg.NetlistFilter()
	if err != nil {
		t.Fatalf("NetlistFilter() failed: %v", err)
	}
	tp := &netlist.Component{Ref: "J1", Footprint: "TestPoint:TestPoint_Pad_D1.0mm"}
	if f.Interesting(tp) {
		t.Error("Expected footprint glob from config to exclude the test point")
	}
}

func TestLoadFirstDirectoryWins(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	os.WriteFile(filepath.Join(first, "otb.yaml"), []byte("bom:\n  dnf_value: nofit\n"), 0644)
	os.WriteFile(filepath.Join(second, "otb.yaml"), []byte("bom:\n  dnf_value: other\n"), 0644)

	cfg, err := Load(first, second)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.BOM.DNFValue != "nofit" {
		t.Errorf("Expected first directory to win, got %q", cfg.BOM.DNFValue)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OTB_BOM_SORT_REFS", "true")
	t.Setenv("OTB_LOG_FORMAT", "json")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.BOM.SortRefs {
		t.Error("Expected OTB_BOM_SORT_REFS to enable sorting")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json log format, got %q", cfg.Log.Format)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad regex", func(c *Config) { c.Filter.ExcludeRefs = []string{"TP[0-9"} }, "filter"},
		{"bad glob", func(c *Config) { c.Filter.ExcludeFootprints = []string{"Test[Point"} }, "filter"},
		{"empty field", func(c *Config) { c.BOM.EquivalenceFields = []string{"Vendor", " "} }, "bom.equivalence_fields"},
		{"dnf value without field", func(c *Config) { c.BOM.DNFField = "" }, "bom.dnf_field"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BOM.SortRefs = true

	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() failed: %v", err)
	}
	if !strings.Contains(string(data), "dnf_value: dnf") {
		t.Errorf("Expected dnf_value key in dump:\n%s", data)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "otb.yaml"), data, 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() of dumped config failed: %v", err)
	}
	if !loaded.BOM.SortRefs {
		t.Error("Expected dumped sort_refs to survive reload")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Dump is not valid YAML: %v", err)
	}
	if _, ok := raw["filter"]; !ok {
		t.Error("Expected filter section in dump")
	}
}
