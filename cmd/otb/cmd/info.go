package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

var (
	outputJSON bool
)

// NetlistInfo is the summary printed for one netlist
type NetlistInfo struct {
	Path        string              `json:"path"`
	Format      string              `json:"format"`
	Source      string              `json:"source"`
	Tool        string              `json:"tool,omitempty"`
	Date        string              `json:"date,omitempty"`
	Components  int                 `json:"components"`
	Interesting int                 `json:"interesting"`
	Groups      int                 `json:"groups"`
	DNF         int                 `json:"dnf"`
	ByPrefix    map[string][]string `json:"by_prefix"`
}

var infoCmd = &cobra.Command{
	Use:   "info <netlist|glob>...",
	Short: "Summarise netlists",
	Long: `Show format, tool, date and component counts for each netlist, with the
references grouped by prefix. Arguments may be doublestar globs.

Examples:
  otb info amp.net
  otb info 'boards/**/*.{net,xml}'
  otb info --json amp.kicad_sch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	paths, err := expandInputs(args)
	if err != nil {
		return err
	}

	filter, err := cfg.NetlistFilter()
	if err != nil {
		return err
	}
	opts := cfg.BOMOptions()

	var infos []NetlistInfo
	for _, path := range paths {
		net, err := netlist.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load netlist: %w", err)
		}
		infos = append(infos, summarize(path, net, filter, opts))
		logger.Debug("summarized", zap.String("path", path))
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Println()
		}
		printInfo(os.Stdout, info)
	}
	return nil
}

// expandInputs resolves glob arguments. An argument matching nothing is
// kept as is so loading reports the missing file.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func summarize(path string, net *netlist.Netlist, filter *netlist.Filter, opts bom.Options) NetlistInfo {
	comps := net.InterestingComponents(filter)

	info := NetlistInfo{
		Path:        path,
		Format:      string(net.Format),
		Source:      net.Source,
		Tool:        net.Tool,
		Date:        net.Date,
		Components:  len(net.Components),
		Interesting: len(comps),
		Groups:      len(bom.GroupBy(comps, opts.Equivalence.Equal)),
		ByPrefix:    make(map[string][]string),
	}

	for _, c := range comps {
		if opts.DNF.Excluded(c) {
			info.DNF++
		}
	}
	for _, c := range net.Components {
		prefix := getRefPrefix(c.Ref)
		info.ByPrefix[prefix] = append(info.ByPrefix[prefix], c.Ref)
	}
	for _, refs := range info.ByPrefix {
		slices.SortFunc(refs, bom.CompareRefs)
	}
	return info
}

func printInfo(w io.Writer, info NetlistInfo) {
	fmt.Fprintf(w, "Netlist: %s\n", info.Path)
	fmt.Fprintf(w, "Format: %s\n", info.Format)
	if info.Source != info.Path {
		fmt.Fprintf(w, "Source: %s\n", info.Source)
	}
	if info.Tool != "" {
		fmt.Fprintf(w, "Tool: %s\n", info.Tool)
	}
	if info.Date != "" {
		fmt.Fprintf(w, "Date: %s\n", info.Date)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Components: %d\n", info.Components)
	fmt.Fprintf(w, "  In BOM: %d\n", info.Interesting)
	fmt.Fprintf(w, "  Groups: %d\n", info.Groups)
	fmt.Fprintf(w, "  DNF: %d\n", info.DNF)

	if len(info.ByPrefix) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Components:")

	var prefixes []string
	for p := range info.ByPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		fmt.Fprintf(w, "  %s: %s\n", prefix, strings.Join(info.ByPrefix[prefix], ", "))
	}
}

func getRefPrefix(ref string) string {
	// Extract prefix (letters before numbers)
	for i, c := range ref {
		if c >= '0' && c <= '9' {
			return ref[:i]
		}
	}
	return ref
}
