package netlist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// XML shapes of the intermediate netlist handed to BOM plugins
type xmlExport struct {
	XMLName  xml.Name     `xml:"export"`
	Design   xmlDesign    `xml:"design"`
	Comps    []xmlComp    `xml:"components>comp"`
	LibParts []xmlLibPart `xml:"libparts>libpart"`
}

type xmlDesign struct {
	Source string `xml:"source"`
	Date   string `xml:"date"`
	Tool   string `xml:"tool"`
}

type xmlField struct {
	Name string `xml:"name,attr"`
	Text string `xml:",chardata"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlComp struct {
	Ref         string        `xml:"ref,attr"`
	Value       string        `xml:"value"`
	Footprint   string        `xml:"footprint"`
	Datasheet   string        `xml:"datasheet"`
	Description string        `xml:"description"`
	Fields      []xmlField    `xml:"fields>field"`
	LibSource   xmlLibSource  `xml:"libsource"`
	Properties  []xmlProperty `xml:"property"`
}

type xmlLibSource struct {
	Lib         string `xml:"lib,attr"`
	Part        string `xml:"part,attr"`
	Description string `xml:"description,attr"`
}

type xmlLibPart struct {
	Lib         string     `xml:"lib,attr"`
	Part        string     `xml:"part,attr"`
	Description string     `xml:"description"`
	Docs        string     `xml:"docs"`
	Fields      []xmlField `xml:"fields>field"`
}

// ParseXML reads the intermediate XML netlist ("%I" in the BOM dialog)
func ParseXML(r io.Reader) (*Netlist, error) {
	var doc xmlExport
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Format: FormatXML, Line: syn.Line, Err: errors.New(syn.Msg)}
		}
		return nil, &ParseError{Format: FormatXML, Err: fmt.Errorf("failed to decode: %w", err)}
	}

	net := &Netlist{
		Format: FormatXML,
		Source: doc.Design.Source,
		Date:   doc.Design.Date,
		Tool:   doc.Design.Tool,
	}

	for _, lp := range doc.LibParts {
		net.LibParts = append(net.LibParts, &LibPart{
			Lib:         lp.Lib,
			Part:        lp.Part,
			Description: lp.Description,
			Datasheet:   lp.Docs,
			Fields:      xmlFields(lp.Fields),
		})
	}

	for _, xc := range doc.Comps {
		c := &Component{
			Ref:         xc.Ref,
			Value:       xc.Value,
			Footprint:   xc.Footprint,
			Datasheet:   xc.Datasheet,
			Description: xc.Description,
			Lib:         xc.LibSource.Lib,
			Part:        xc.LibSource.Part,
			Fields:      xmlFields(xc.Fields),
		}
		if c.Description == "" {
			c.Description = xc.LibSource.Description
		}
		for _, p := range xc.Properties {
			switch p.Name {
			case "dnp":
				c.DNP = true
			case "exclude_from_bom":
				c.ExcludeFromBOM = true
			}
		}
		net.Components = append(net.Components, c)
	}

	net.linkLibParts()
	return net, nil
}

func xmlFields(in []xmlField) Fields {
	fields := make(Fields, len(in))
	for _, f := range in {
		if f.Name != "" {
			fields[f.Name] = f.Text
		}
	}
	return fields
}
