package bom

import (
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// Options controls how components become rows
type Options struct {
	Equivalence Equivalence
	DNF         DNFRule
	// ReportFields are optional columns; each is emitted only when some row
	// has a non-empty value for it.
	ReportFields []string
	// SortRefs orders references naturally inside a row and rows by their
	// first reference. Off, rows follow first-seen netlist order.
	SortRefs bool
}

// DefaultOptions returns the grouping used by the Markdown BOM
func DefaultOptions() Options {
	return Options{
		Equivalence:  DefaultEquivalence(),
		DNF:          DefaultDNFRule(),
		ReportFields: slices.Clone(DefaultEquivalenceFields),
	}
}

// Row is one BOM line
type Row struct {
	Refs        []string
	Qty         int
	Value       string
	Description string
	Fields      map[string]string
}

// RefList joins the references the way the report prints them
func (r Row) RefList() string {
	return strings.Join(r.Refs, ", ")
}

// Report is the presentation-independent content of a BOM
type Report struct {
	Source         string
	Date           string
	Tool           string
	ComponentCount int      // every component in the netlist, before any filtering
	Columns        []string // optional field columns that carry data
	Rows           []Row
}

// Build groups comps and turns every group with at least one fitted member
// into a row. net supplies the header; comps is usually
// net.InterestingComponents(filter).
func Build(net *netlist.Netlist, comps []*netlist.Component, opts Options) *Report {
	report := newReport(net)

	for _, group := range GroupBy(comps, opts.Equivalence.Equal) {
		fitted := opts.DNF.Fitted(group)
		if len(fitted) == 0 {
			continue
		}
		report.Rows = append(report.Rows, makeRow(fitted, opts.ReportFields))
	}

	if opts.SortRefs {
		SortRows(report.Rows)
	}
	report.Columns = usedColumns(report.Rows, opts.ReportFields)
	return report
}

func newReport(net *netlist.Netlist) *Report {
	if net == nil {
		return &Report{}
	}
	return &Report{
		Source:         net.Source,
		Date:           net.Date,
		Tool:           net.Tool,
		ComponentCount: len(net.Components),
	}
}

// makeRow builds a row from fitted members; the last member supplies the
// shared attributes.
func makeRow(members []*netlist.Component, fields []string) Row {
	rep := members[len(members)-1]
	row := Row{
		Refs:        make([]string, 0, len(members)),
		Qty:         len(members),
		Value:       rep.Value,
		Description: rep.BOMDescription(),
		Fields:      make(map[string]string, len(fields)),
	}
	for _, c := range members {
		row.Refs = append(row.Refs, c.Ref)
	}
	for _, name := range fields {
		row.Fields[name] = rep.Field(name)
	}
	return row
}

// usedColumns keeps the fields that are non-empty in at least one row
func usedColumns(rows []Row, fields []string) []string {
	var cols []string
	for _, name := range fields {
		for _, row := range rows {
			if row.Fields[name] != "" {
				cols = append(cols, name)
				break
			}
		}
	}
	return cols
}
