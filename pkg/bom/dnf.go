package bom

import (
	"golang.org/x/text/cases"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// DNFRule identifies "do not fit" components, which stay in the design but
// are left off the BOM.
type DNFRule struct {
	Field string // user field holding the assembly variant, "Config"
	Value string // marker value, compared case-insensitively
	// HonorDNP also drops components carrying KiCad's own dnp attribute
	HonorDNP bool
}

// DefaultDNFRule matches Config == "dnf" in any letter case plus the dnp attribute
func DefaultDNFRule() DNFRule {
	return DNFRule{Field: "Config", Value: "dnf", HonorDNP: true}
}

// Excluded reports whether c must be left out of reference lists and counts
func (r DNFRule) Excluded(c *netlist.Component) bool {
	if r.HonorDNP && c.DNP {
		return true
	}
	if r.Field == "" || r.Value == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(c.Field(r.Field)) == fold.String(r.Value)
}

// Fitted returns the members of group that are not excluded, in order
func (r DNFRule) Fitted(group []*netlist.Component) []*netlist.Component {
	out := make([]*netlist.Component, 0, len(group))
	for _, c := range group {
		if !r.Excluded(c) {
			out = append(out, c)
		}
	}
	return out
}
