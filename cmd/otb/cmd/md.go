package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom/render"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

var (
	mdToDocs bool
	mdWatch  bool
	mdFormat string
)

var mdCmd = &cobra.Command{
	Use:   "md <netlist> [output]",
	Short: "Write a grouped Markdown BOM",
	Long: `Group the components of a netlist and write a Markdown table with
Ref, Qty, Value and Description columns, plus a column for each configured
report field that carries data.

Without an output file the table goes to stdout. If the file cannot be
opened the table goes to stdout as well.

Examples:
  otb md amp.net bom.md
  otb md amp.kicad_sch hw/bom.md --todocs
  otb md amp.xml --format text`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMD,
}

func init() {
	rootCmd.AddCommand(mdCmd)

	mdCmd.Flags().BoolVar(&mdToDocs, "todocs", false,
		"write into the nearest Docs directory at or above the output path")
	mdCmd.Flags().BoolVarP(&mdWatch, "watch", "w", false,
		"regenerate whenever the netlist changes")
	mdCmd.Flags().StringVarP(&mdFormat, "format", "f", "markdown",
		"output format: markdown or text")
}

func runMD(cmd *cobra.Command, args []string) error {
	renderer, err := render.ByName(mdFormat)
	if err != nil {
		return err
	}

	opts := cfg.BOMOptions()
	job := &reportJob{
		input:       args[0],
		defaultName: "bom.md",
		toDocs:      mdToDocs,
		renderer:    renderer,
		build: func(net *netlist.Netlist, comps []*netlist.Component) *bom.Report {
			return bom.Build(net, comps, opts)
		},
	}
	if len(args) > 1 {
		job.output = args[1]
	}

	return job.run(cmd.Context(), mdWatch)
}
