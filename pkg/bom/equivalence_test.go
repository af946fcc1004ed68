package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func comp(ref, value string, fields netlist.Fields) *netlist.Component {
	if fields == nil {
		fields = netlist.Fields{}
	}
	return &netlist.Component{
		Ref:       ref,
		Value:     value,
		Part:      "R",
		Footprint: "Resistor_SMD:R_0603_1608Metric",
		Fields:    fields,
	}
}

func TestEquivalenceEqual(t *testing.T) {
	eq := DefaultEquivalence()

	base := comp("R1", "10k", netlist.Fields{"Tolerance": "1%"})

	tests := []struct {
		name  string
		other *netlist.Component
		want  bool
	}{
		{"identical", comp("R2", "10k", netlist.Fields{"Tolerance": "1%"}), true},
		{"value differs", comp("R2", "10K", netlist.Fields{"Tolerance": "1%"}), false},
		{"aux field differs", comp("R2", "10k", netlist.Fields{"Tolerance": "5%"}), false},
		{"aux field absent", comp("R2", "10k", nil), false},
		{"trailing space is significant", comp("R2", "10k ", netlist.Fields{"Tolerance": "1%"}), false},
		{"unrelated field ignored", comp("R2", "10k", netlist.Fields{"Tolerance": "1%", "Notes": "x"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eq.Equal(base, tt.other))
		})
	}

	t.Run("footprint differs", func(t *testing.T) {
		other := comp("R2", "10k", netlist.Fields{"Tolerance": "1%"})
		other.Footprint = "Resistor_SMD:R_0805_2012Metric"
		assert.False(t, eq.Equal(base, other))
	})

	t.Run("part name differs", func(t *testing.T) {
		other := comp("R2", "10k", netlist.Fields{"Tolerance": "1%"})
		other.Part = "R_Small"
		assert.False(t, eq.Equal(base, other))
	})

	t.Run("absent and empty fields match", func(t *testing.T) {
		a := comp("R1", "1k", nil)
		b := comp("R2", "1k", netlist.Fields{"Vendor": ""})
		assert.True(t, eq.Equal(a, b))
	})
}

func TestEquivalenceIsEquivalenceRelation(t *testing.T) {
	eq := DefaultEquivalence()

	var comps []*netlist.Component
	for i, value := range []string{"1k", "1k", "2k2", "1k"} {
		for j, tol := range []string{"", "1%", "1%"} {
			for k, vendor := range []string{"", "Mouser"} {
				ref := "R" + string(rune('0'+i)) + string(rune('0'+j)) + string(rune('0'+k))
				comps = append(comps, comp(ref, value, netlist.Fields{"Tolerance": tol, "Vendor": vendor}))
			}
		}
	}

	for _, a := range comps {
		assert.True(t, eq.Equal(a, a), "reflexive for %s", a.Ref)
		for _, b := range comps {
			require.Equal(t, eq.Equal(a, b), eq.Equal(b, a), "symmetric for %s/%s", a.Ref, b.Ref)
			assert.Equal(t, eq.Equal(a, b), slicesEqual(eq.Key(a), eq.Key(b)), "key agrees for %s/%s", a.Ref, b.Ref)
			for _, c := range comps {
				if eq.Equal(a, b) && eq.Equal(b, c) {
					require.True(t, eq.Equal(a, c), "transitive for %s/%s/%s", a.Ref, b.Ref, c.Ref)
				}
			}
		}
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEquivalenceLibraryFieldFallback(t *testing.T) {
	lib := &netlist.LibPart{Lib: "Device", Part: "R", Fields: netlist.Fields{"Manufacturer": "Yageo"}}

	a := comp("R1", "1k", nil)
	a.LibPart = lib
	b := comp("R2", "1k", netlist.Fields{"Manufacturer": "Yageo"})

	assert.True(t, DefaultEquivalence().Equal(a, b))
}
