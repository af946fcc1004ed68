package netlist

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// OrcadLexer tokenizes the legacy OrcadPCB2 netlist:
//
//	( { EESchema Netlist Version 1.1 created  02/03/2020 }
//	 ( /5E7A1557 Resistor_SMD:R_0603 R1 10k {Lib=R}
//	  (    1 Net-(R1-Pad1) )
//	  (    2 GND )
//	 )
//	)
//	*
var OrcadLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Header", Pattern: `\{\s*EESchema[^}]*\}`},
	{Name: "LibTag", Pattern: `\{Lib=[^}]*\}`},
	// Footprint lists and other brace blocks after the terminating '*'
	{Name: "Comment", Pattern: `\{[^}]*\}`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Star", Pattern: `\*`},
	// Net names may embed balanced parentheses: Net-(R1-Pad1)
	{Name: "Word", Pattern: `(?:[^\s(){}]|\([^\s()]*\))+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
})

type orcadFile struct {
	Header     string        `"(" @Header?`
	Components []*orcadComp  `@@* ")"`
	Trailer    []string      `@( Star | Word | LParen | RParen )*`
}

type orcadComp struct {
	Stamp     string      `"(" @Word`
	Footprint string      `@Word`
	Ref       string      `@Word`
	Value     string      `@Word`
	Lib       string      `@LibTag?`
	Pins      []*orcadPin `@@* ")"`
}

type orcadPin struct {
	Number string `"(" @Word`
	Net    string `@Word? ")"`
}

var orcadParser = participle.MustBuild[orcadFile](
	participle.Lexer(OrcadLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseOrcad reads a legacy OrcadPCB2 netlist. The format carries no user
// fields, so components only have reference, value, footprint and part.
func ParseOrcad(r io.Reader) (*Netlist, error) {
	doc, err := orcadParser.Parse("", r)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &ParseError{Format: FormatOrcad, Line: perr.Position().Line, Err: errors.New(perr.Message())}
		}
		return nil, &ParseError{Format: FormatOrcad, Err: fmt.Errorf("parse error: %w", err)}
	}

	net := &Netlist{Format: FormatOrcad}
	net.Tool, net.Date = splitOrcadHeader(doc.Header)

	for _, oc := range doc.Components {
		c := &Component{
			Ref:    oc.Ref,
			Value:  oc.Value,
			Part:   strings.TrimSuffix(strings.TrimPrefix(oc.Lib, "{Lib="), "}"),
			Fields: Fields{},
		}
		if oc.Footprint != "$noname" {
			c.Footprint = oc.Footprint
		}
		net.Components = append(net.Components, c)
	}

	return net, nil
}

// splitOrcadHeader turns "{ EESchema Netlist Version 1.1 created  <date> }"
// into its tool and date parts.
func splitOrcadHeader(header string) (tool, date string) {
	header = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(header, "{"), "}"))
	tool, date, _ = strings.Cut(header, " created ")
	return strings.TrimSpace(tool), strings.TrimSpace(date)
}
