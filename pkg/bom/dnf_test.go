package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func TestDNFRuleExcluded(t *testing.T) {
	rule := DefaultDNFRule()

	tests := []struct {
		config string
		want   bool
	}{
		{"dnf", true},
		{"DNF", true},
		{"Dnf", true},
		{"dNf", true},
		{"", false},
		{"fit", false},
		{"dnf ", false},
		{"dnfx", false},
	}

	for _, tt := range tests {
		t.Run("config="+tt.config, func(t *testing.T) {
			c := comp("R1", "1k", netlist.Fields{"Config": tt.config})
			assert.Equal(t, tt.want, rule.Excluded(c))
		})
	}
}

func TestDNFRuleAttribute(t *testing.T) {
	c := comp("R1", "1k", nil)
	c.DNP = true

	assert.True(t, DefaultDNFRule().Excluded(c))

	rule := DefaultDNFRule()
	rule.HonorDNP = false
	assert.False(t, rule.Excluded(c))
}

func TestDNFRuleEmptyMarker(t *testing.T) {
	rule := DNFRule{Field: "Config"}
	assert.False(t, rule.Excluded(comp("R1", "1k", nil)), "an empty marker never matches")
}

func TestDNFRuleFitted(t *testing.T) {
	group := []*netlist.Component{
		comp("R1", "1k", nil),
		comp("R2", "1k", netlist.Fields{"Config": "DNF"}),
		comp("R3", "1k", nil),
	}

	fitted := DefaultDNFRule().Fitted(group)
	if assert.Len(t, fitted, 2) {
		assert.Equal(t, "R1", fitted[0].Ref)
		assert.Equal(t, "R3", fitted[1].Ref)
	}
}
