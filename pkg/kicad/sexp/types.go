// Package sexp provides shared S-expression helpers for KiCad files.
// Netlist and schematic readers both navigate the tree through these functions.
package sexp

// UUID represents a unique identifier (used in KiCad v6+ files)
type UUID string

// Property represents a key-value property attached to a symbol, sheet or field list
type Property struct {
	Key   string
	Value string
}

// Properties is an ordered property list with by-name lookup
type Properties []Property

// Get returns the value of the first property named key, or "" when absent
func (ps Properties) Get(key string) string {
	v, _ := ps.Lookup(key)
	return v
}

// Lookup reports the value of the first property named key and whether it exists
func (ps Properties) Lookup(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
