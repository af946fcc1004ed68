package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/config"
	"github.com/OpenTraceLab/OpenTraceBOM/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configFile string

	// Set up by the persistent pre-run for every command
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "otb",
	Short: "OpenTraceBOM - bills of materials from KiCad netlists",
	Long: `OpenTraceBOM (otb) reads KiCad netlists (s-expression .net, intermediate
XML, legacy OrcadPCB2) or schematics (.kicad_sch) and writes bills of materials.

Components are grouped when value, part, footprint and the configured fields
(Tolerance, Manufacturer, Part, Vendor, SKU, Voltage) all match. Components
whose Config field is "dnf" are left off.

Settings are read from otb.yaml next to the netlist or in the working
directory, and from OTB_* environment variables.

Examples:
  otb md amp.net bom.md                     # Grouped Markdown BOM
  otb md amp.net bom.md --todocs            # Write into the nearest Docs directory
  otb resistors amp.net                     # Resistor list sorted by value
  otb resistors amp.net --xxy --watch       # Sort by 3-digit code, rebuild on change
  otb info 'boards/**/*.net'                # Summarise several netlists
  otb config > otb.yaml                     # Dump the effective configuration`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file (default: otb.yaml beside the netlist or in the working directory)")
}

// setup loads the configuration and builds the logger. The first
// positional argument, when present, is the netlist whose directory is
// searched for a config file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		dirs := []string{"."}
		if len(args) > 0 {
			dirs = append([]string{filepath.Dir(args[0])}, dirs...)
		}
		cfg, err = config.Load(dirs...)
	}
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err = logging.New(logCfg)
	if err != nil {
		return err
	}

	if cfg.File != "" {
		logger.Debug("loaded config", zap.String("file", cfg.File))
	}
	return nil
}
