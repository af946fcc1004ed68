package netlist

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// ParseSexp reads a KiCad s-expression netlist ("(export (version ...) ...)")
func ParseSexp(r io.Reader) (*Netlist, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		var syn *kicadsexp.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Format: FormatSexp, Line: syn.Line, Err: errors.New(syn.Msg)}
		}
		return nil, &ParseError{Format: FormatSexp, Err: err}
	}

	if len(sexps) == 0 {
		return nil, ErrEmptyInput
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, &ParseError{Format: FormatSexp, Err: fmt.Errorf("failed to get root node name: %w", err)}
	}
	if rootName != "export" {
		return nil, &ParseError{Format: FormatSexp, Err: fmt.Errorf("expected 'export', got '%s'", rootName)}
	}

	net := &Netlist{Format: FormatSexp}

	if design, found := sexp.FindNode(root, "design"); found {
		net.Source = sexp.ChildString(design, "source")
		net.Date = sexp.ChildString(design, "date")
		net.Tool = sexp.ChildString(design, "tool")
	}

	if libparts, found := sexp.FindNode(root, "libparts"); found {
		for _, node := range sexp.FindAllNodes(libparts, "libpart") {
			net.LibParts = append(net.LibParts, parseLibPart(node))
		}
	}

	if components, found := sexp.FindNode(root, "components"); found {
		for _, node := range sexp.FindAllNodes(components, "comp") {
			net.Components = append(net.Components, parseComp(node))
		}
	}

	net.linkLibParts()
	return net, nil
}

// parseComp parses a single (comp ...) entry
func parseComp(node kicadsexp.Sexp) *Component {
	c := &Component{
		Ref:         sexp.ChildString(node, "ref"),
		Value:       sexp.ChildString(node, "value"),
		Footprint:   sexp.ChildString(node, "footprint"),
		Datasheet:   sexp.ChildString(node, "datasheet"),
		Description: sexp.ChildString(node, "description"),
		Fields:      parseFields(node),
	}

	if libsource, found := sexp.FindNode(node, "libsource"); found {
		c.Lib = sexp.ChildString(libsource, "lib")
		c.Part = sexp.ChildString(libsource, "part")
		if c.Description == "" {
			c.Description = sexp.ChildString(libsource, "description")
		}
	}

	// Attribute flags are properties without a value: (property (name "dnp"))
	for _, pn := range sexp.FindAllNodes(node, "property") {
		switch sexp.ChildString(pn, "name") {
		case "dnp":
			c.DNP = true
		case "exclude_from_bom":
			c.ExcludeFromBOM = true
		}
	}

	return c
}

// parseLibPart parses a (libpart ...) definition
func parseLibPart(node kicadsexp.Sexp) *LibPart {
	return &LibPart{
		Lib:         sexp.ChildString(node, "lib"),
		Part:        sexp.ChildString(node, "part"),
		Description: sexp.ChildString(node, "description"),
		Datasheet:   sexp.ChildString(node, "docs"),
		Fields:      parseFields(node),
	}
}

// parseFields reads (fields (field (name "X") "text") ...)
func parseFields(node kicadsexp.Sexp) Fields {
	fields := Fields{}
	fieldsNode, found := sexp.FindNode(node, "fields")
	if !found {
		return fields
	}
	for _, fn := range sexp.FindAllNodes(fieldsNode, "field") {
		name := sexp.ChildString(fn, "name")
		if name == "" {
			continue
		}
		// The text follows the (name ...) list; an empty field has none.
		text, _ := sexp.GetString(fn, 2)
		fields[name] = text
	}
	return fields
}
