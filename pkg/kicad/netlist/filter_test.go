package netlist

import "testing"

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	f.ExcludeFootprints = []string{"MountingHole:*"}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	tests := []struct {
		name string
		comp Component
		want bool
	}{
		{"plain resistor", Component{Ref: "R1", Value: "10k"}, true},
		{"power symbol", Component{Ref: "#PWR01", Value: "GND"}, false},
		{"test point", Component{Ref: "TP3", Value: "TestPoint"}, false},
		{"test point prefix only", Component{Ref: "TPX1", Value: "TestPoint"}, true},
		{"mount hole value", Component{Ref: "H1", Value: "MOUNTHOLE"}, false},
		{"solder bridge", Component{Ref: "JP1", Value: "SOLDER_BRIDGE_2"}, false},
		{"mounting hole footprint", Component{Ref: "H2", Value: "Hole", Footprint: "MountingHole:MountingHole_3.2mm_M3"}, false},
		{"excluded from bom", Component{Ref: "R5", Value: "0R", ExcludeFromBOM: true}, false},
		{"dnp stays in", Component{Ref: "R6", Value: "0R", DNP: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.comp
			if got := f.Interesting(&c); got != tt.want {
				t.Errorf("Interesting(%s) = %v, want %v", c.Ref, got, tt.want)
			}
		})
	}
}

func TestFilterValidate(t *testing.T) {
	f := DefaultFilter()
	f.ExcludeRefs = []string{"TP[0-9"}
	if err := f.Validate(); err == nil {
		t.Error("Expected error for invalid regex")
	}

	f = DefaultFilter()
	f.ExcludeFootprints = []string{"Mounting[Hole"}
	if err := f.Validate(); err == nil {
		t.Error("Expected error for invalid glob")
	}
}

func TestInterestingComponents(t *testing.T) {
	net := &Netlist{Components: []*Component{
		{Ref: "#PWR01"},
		{Ref: "R1"},
		{Ref: "TP1"},
		{Ref: "C1"},
	}}

	f := DefaultFilter()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	got := net.InterestingComponents(f)
	if len(got) != 2 || got[0].Ref != "R1" || got[1].Ref != "C1" {
		t.Errorf("Unexpected interesting components: %v", got)
	}

	if all := net.InterestingComponents(nil); len(all) != 4 {
		t.Errorf("Expected nil filter to keep all 4 components, got %d", len(all))
	}
}
