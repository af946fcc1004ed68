// Package bom turns a component list into Bill of Materials rows.
//
// Components are partitioned into equivalence classes (one BOM line each)
// with an explicit comparator, do-not-fit parts are dropped from each line,
// and resistor lines can be ordered by resistance magnitude.
//
//	groups := bom.GroupBy(comps, bom.DefaultEquivalence().Equal)
//	report := bom.Build(net, comps, bom.DefaultOptions())
//
// Nothing in this package performs I/O; see package render for output.
package bom
