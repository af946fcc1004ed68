package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func TestBuild(t *testing.T) {
	lib := &netlist.LibPart{Lib: "Device", Part: "C", Description: "Unpolarized capacitor"}
	c1 := &netlist.Component{Ref: "C1", Value: "100n", Part: "C", LibPart: lib, Fields: netlist.Fields{}}
	c2 := &netlist.Component{Ref: "C2", Value: "100n", Part: "C", LibPart: lib, Fields: netlist.Fields{}}

	net := &netlist.Netlist{
		Source: "/tmp/amp.kicad_sch",
		Date:   "2024-05-01",
		Tool:   "Eeschema 8.0.2",
		Components: []*netlist.Component{
			comp("R1", "1k", netlist.Fields{"Vendor": "Mouser", "Description": "Thick film"}),
			c1,
			comp("R2", "1k", netlist.Fields{"Vendor": "Mouser", "Description": "Thick film", "Config": "dnf"}),
			comp("R3", "220", netlist.Fields{"Config": "DNF"}),
			c2,
			comp("R4", "1k", netlist.Fields{"Vendor": "Mouser", "Description": "Thick film"}),
			{Ref: "#PWR01", Value: "GND", Fields: netlist.Fields{}},
		},
	}
	comps := net.Components[:6]

	report := Build(net, comps, DefaultOptions())

	assert.Equal(t, "/tmp/amp.kicad_sch", report.Source)
	assert.Equal(t, 7, report.ComponentCount)
	require.Len(t, report.Rows, 2, "the all-dnf 220 group is omitted")

	r := report.Rows[0]
	assert.Equal(t, []string{"R1", "R4"}, r.Refs)
	assert.Equal(t, "R1, R4", r.RefList())
	assert.Equal(t, 2, r.Qty)
	assert.Equal(t, "1k", r.Value)
	assert.Equal(t, "Thick film", r.Description)
	assert.Equal(t, "Mouser", r.Fields["Vendor"])

	c := report.Rows[1]
	assert.Equal(t, []string{"C1", "C2"}, c.Refs)
	assert.Equal(t, "Unpolarized capacitor", c.Description, "library description fallback")

	assert.Equal(t, []string{"Vendor"}, report.Columns, "only fields with data become columns")
}

func TestBuildSortRefs(t *testing.T) {
	comps := []*netlist.Component{
		comp("R10", "1k", nil),
		comp("R2", "220", nil),
		comp("R9", "1k", nil),
		comp("R1", "220", nil),
	}

	opts := DefaultOptions()
	opts.SortRefs = true
	report := Build(nil, comps, opts)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"R1", "R2"}, report.Rows[0].Refs)
	assert.Equal(t, []string{"R9", "R10"}, report.Rows[1].Refs)
	assert.Empty(t, report.Columns)
}

func TestBuildRepresentativeIsLastFitted(t *testing.T) {
	eq := Equivalence{} // value, part and footprint only
	comps := []*netlist.Component{
		comp("R1", "1k", netlist.Fields{"Vendor": "Mouser"}),
		comp("R2", "1k", netlist.Fields{"Vendor": "Digikey"}),
		comp("R3", "1k", netlist.Fields{"Vendor": "LCSC", "Config": "dnf"}),
	}

	opts := DefaultOptions()
	opts.Equivalence = eq
	opts.ReportFields = []string{"Vendor"}
	report := Build(nil, comps, opts)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Rows[0].Qty)
	assert.Equal(t, "Digikey", report.Rows[0].Fields["Vendor"])
}
