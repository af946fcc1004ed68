// Package netlist loads KiCad netlists into a flat component list.
//
// Four sources are understood: the s-expression netlist written by
// "Export Netlist" (.net), the intermediate XML netlist handed to BOM
// plugins, the legacy OrcadPCB2 netlist and the schematic itself
// (.kicad_sch, including hierarchical sheets).
package netlist

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned when the input is not a recognised netlist
	ErrUnknownFormat = errors.New("unknown netlist format")
	// ErrEmptyInput is returned for files without any content
	ErrEmptyInput = errors.New("empty netlist")
)

// Format identifies the netlist flavour a file was read from
type Format string

const (
	FormatSexp      Format = "sexp"
	FormatXML       Format = "xml"
	FormatOrcad     Format = "orcadpcb2"
	FormatSchematic Format = "kicad_sch"
)

// ParseError wraps a decoding failure with the format and input line
type ParseError struct {
	Format Format
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s netlist: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s netlist: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Fields maps a user field name to its text.
// Absent names read as the empty string.
type Fields map[string]string

// Get returns the field text, or "" when the field is not present
func (f Fields) Get(name string) string {
	return f[name]
}

// LibPart is a library part definition shared by its instances
type LibPart struct {
	Lib         string
	Part        string
	Description string
	Datasheet   string
	Fields      Fields
}

// Component is one placed symbol as reported by the netlist
type Component struct {
	Ref         string
	Value       string
	Footprint   string
	Datasheet   string
	Description string // the component's own description (KiCad 7+)
	Lib         string
	Part        string
	Fields      Fields

	DNP            bool // KiCad "Do not populate" attribute
	ExcludeFromBOM bool

	LibPart *LibPart
}

// PartName returns the library part name the component instantiates
func (c *Component) PartName() string {
	if c.Part == "" && c.LibPart != nil {
		return c.LibPart.Part
	}
	return c.Part
}

// Field looks a user field up on the component and then on its library part.
// Missing everywhere yields "".
func (c *Component) Field(name string) string {
	if v, ok := c.Fields[name]; ok {
		return v
	}
	if c.LibPart != nil {
		return c.LibPart.Fields.Get(name)
	}
	return ""
}

// BOMDescription is the description printed in a BOM row: a non-empty
// "Description" field, then the component's description, then the library's.
func (c *Component) BOMDescription() string {
	if d := c.Fields.Get("Description"); d != "" {
		return d
	}
	if c.Description != "" {
		return c.Description
	}
	if c.LibPart != nil {
		return c.LibPart.Description
	}
	return ""
}

// Netlist is a parsed design
type Netlist struct {
	Format     Format
	Source     string
	Date       string
	Tool       string
	Components []*Component
	LibParts   []*LibPart
}

// FindLibPart returns the library part for lib:part, or nil
func (n *Netlist) FindLibPart(lib, part string) *LibPart {
	for _, lp := range n.LibParts {
		if lp.Lib == lib && lp.Part == part {
			return lp
		}
	}
	return nil
}

// Component returns the component with the given reference, or nil
func (n *Netlist) Component(ref string) *Component {
	for _, c := range n.Components {
		if c.Ref == ref {
			return c
		}
	}
	return nil
}

// linkLibParts points every component at its library part definition
func (n *Netlist) linkLibParts() {
	for _, c := range n.Components {
		if c.LibPart == nil {
			c.LibPart = n.FindLibPart(c.Lib, c.Part)
		}
	}
}
