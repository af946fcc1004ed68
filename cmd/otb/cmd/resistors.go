package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom/render"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

var (
	resXXY    bool
	resToDocs bool
	resWatch  bool
)

var resistorsCmd = &cobra.Command{
	Use:   "resistors <netlist> [output]",
	Short: "Write a resistor-only BOM sorted by value",
	Long: `List the resistors of a netlist (references R followed by a digit), one
line per group: value, quantity and references separated by tabs.

Lines are sorted by resistance, 100R < 220 < 1k < 4k7 < 10k < 4.7M.
Values that cannot be read as a resistance sort last. With --xxy the sort
key is the 3-digit code instead (two significant digits and the number of
zeros, 124 = 120k).

Examples:
  otb resistors amp.net
  otb resistors amp.net resistors.txt --todocs
  otb resistors amp.net --xxy`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResistors,
}

func init() {
	rootCmd.AddCommand(resistorsCmd)

	resistorsCmd.Flags().BoolVar(&resXXY, "xxy", false,
		"sort by 3-digit value code (2 significant figures + number of zeros)")
	resistorsCmd.Flags().BoolVar(&resToDocs, "todocs", false,
		"write into the nearest Docs directory at or above the output path")
	resistorsCmd.Flags().BoolVarP(&resWatch, "watch", "w", false,
		"regenerate whenever the netlist changes")
}

func runResistors(cmd *cobra.Command, args []string) error {
	mode := bom.NumericKey
	if resXXY {
		mode = bom.CodeKey
	}

	opts := cfg.BOMOptions()
	job := &reportJob{
		input:       args[0],
		defaultName: "resistors.txt",
		toDocs:      resToDocs,
		renderer:    render.Text{},
		build: func(net *netlist.Netlist, comps []*netlist.Component) *bom.Report {
			return bom.BuildResistors(net, comps, opts, mode)
		},
	}
	if len(args) > 1 {
		job.output = args[1]
	}

	return job.run(cmd.Context(), resWatch)
}
