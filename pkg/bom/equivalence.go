package bom

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// DefaultEquivalenceFields are the user fields that must also match for two
// components to share a BOM line.
var DefaultEquivalenceFields = []string{"Tolerance", "Manufacturer", "Part", "Vendor", "SKU", "Voltage"}

// Equivalence decides whether two components are reported as one BOM line.
// Value, part name and footprint always take part; Fields lists the extra
// user fields compared. Comparison is exact: no case or whitespace folding.
type Equivalence struct {
	Fields []string
}

// DefaultEquivalence compares the DefaultEquivalenceFields
func DefaultEquivalence() Equivalence {
	return Equivalence{Fields: slices.Clone(DefaultEquivalenceFields)}
}

// Key returns the tuple the relation is defined on. Two components are
// equivalent exactly when their keys are equal.
func (e Equivalence) Key(c *netlist.Component) []string {
	key := make([]string, 0, 3+len(e.Fields))
	key = append(key, c.Value, c.PartName(), c.Footprint)
	for _, name := range e.Fields {
		key = append(key, c.Field(name))
	}
	return key
}

// Equal reports whether a and b belong on the same BOM line
func (e Equivalence) Equal(a, b *netlist.Component) bool {
	if a.Value != b.Value || a.PartName() != b.PartName() || a.Footprint != b.Footprint {
		return false
	}
	for _, name := range e.Fields {
		if a.Field(name) != b.Field(name) {
			return false
		}
	}
	return true
}
