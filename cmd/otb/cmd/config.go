package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [netlist]",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration otb would use, after reading otb.yaml and OTB_*
environment variables. With a netlist argument the config file is looked up
beside it first. The output is a valid otb.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}

	if cfg.File != "" {
		fmt.Fprintf(os.Stdout, "# loaded from %s\n", cfg.File)
	} else {
		fmt.Fprintln(os.Stdout, "# defaults (no config file found)")
	}
	_, err = os.Stdout.Write(data)
	return err
}
