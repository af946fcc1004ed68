package netlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
)

// Properties that map onto Component attributes instead of user fields
var coreProperties = map[string]bool{
	"Reference": true,
	"Value":     true,
	"Footprint": true,
	"Datasheet": true,
}

// LoadSchematic reads a root .kicad_sch and every sheet below it and
// flattens the placed symbols into a netlist. Each sheet file is read once;
// multi-instance sheets are expanded through the symbols' instance data.
func LoadSchematic(path string) (*Netlist, error) {
	root, err := schematic.ParseFile(path)
	if err != nil {
		return nil, &ParseError{Format: FormatSchematic, Err: fmt.Errorf("%s: %w", path, err)}
	}

	net := &Netlist{
		Format: FormatSchematic,
		Source: path,
		Date:   root.TitleBlock.Date,
		Tool:   schematicTool(root),
	}

	b := &schematicBuilder{
		net:      net,
		visited:  map[string]bool{},
		seenRefs: map[string]bool{},
		libParts: map[string]*LibPart{},
	}
	if err := b.walk(path, root); err != nil {
		return nil, err
	}

	return net, nil
}

// FromSchematic flattens a single already-parsed sheet without following
// hierarchical sheet references.
func FromSchematic(sch *schematic.Schematic, source string) *Netlist {
	net := &Netlist{
		Format: FormatSchematic,
		Source: source,
		Date:   sch.TitleBlock.Date,
		Tool:   schematicTool(sch),
	}
	b := &schematicBuilder{
		net:      net,
		seenRefs: map[string]bool{},
		libParts: map[string]*LibPart{},
	}
	b.addSheet(sch)
	return net
}

type schematicBuilder struct {
	net      *Netlist
	visited  map[string]bool
	seenRefs map[string]bool
	libParts map[string]*LibPart
}

func (b *schematicBuilder) walk(path string, sch *schematic.Schematic) error {
	b.visited[filepath.Clean(path)] = true
	b.addSheet(sch)

	dir := filepath.Dir(path)
	for _, sheet := range sch.Sheets {
		if sheet.FileName == "" {
			continue
		}
		child := filepath.Clean(filepath.Join(dir, sheet.FileName))
		if b.visited[child] {
			continue
		}
		sub, err := schematic.ParseFile(child)
		if err != nil {
			return &ParseError{Format: FormatSchematic, Err: fmt.Errorf("sheet %q (%s): %w", sheet.Name, child, err)}
		}
		if err := b.walk(child, sub); err != nil {
			return err
		}
	}
	return nil
}

func (b *schematicBuilder) addSheet(sch *schematic.Schematic) {
	for i := range sch.Symbols {
		sym := &sch.Symbols[i]
		libPart := b.libPart(sch, sym.LibID)

		for _, ref := range symbolRefs(sym) {
			// Units of one package share a reference; the first unit wins
			if ref == "" || b.seenRefs[ref] {
				continue
			}
			b.seenRefs[ref] = true
			b.net.Components = append(b.net.Components, symbolComponent(sym, ref, libPart))
		}
	}
}

// symbolRefs lists the references a placed symbol stands for
func symbolRefs(sym *schematic.Symbol) []string {
	if len(sym.Instances) == 0 {
		return []string{sym.Properties.Get("Reference")}
	}
	refs := make([]string, 0, len(sym.Instances))
	for _, inst := range sym.Instances {
		refs = append(refs, inst.Reference)
	}
	return refs
}

func symbolComponent(sym *schematic.Symbol, ref string, libPart *LibPart) *Component {
	lib, part := splitLibID(sym.LibID)
	c := &Component{
		Ref:            ref,
		Value:          sym.Properties.Get("Value"),
		Footprint:      sym.Properties.Get("Footprint"),
		Datasheet:      sym.Properties.Get("Datasheet"),
		Lib:            lib,
		Part:           part,
		Fields:         Fields{},
		DNP:            sym.DNP,
		ExcludeFromBOM: !sym.InBom,
		LibPart:        libPart,
	}
	for _, p := range sym.Properties {
		if !coreProperties[p.Key] {
			c.Fields[p.Key] = p.Value
		}
	}
	return c
}

// libPart returns the shared library part for lib_id, creating it from the
// sheet's embedded lib_symbols on first use.
func (b *schematicBuilder) libPart(sch *schematic.Schematic, libID string) *LibPart {
	if lp, ok := b.libParts[libID]; ok {
		return lp
	}
	ls := sch.GetLibSymbol(libID)
	if ls == nil {
		return nil
	}

	lib, part := splitLibID(libID)
	lp := &LibPart{
		Lib:       lib,
		Part:      part,
		Datasheet: ls.Properties.Get("Datasheet"),
		Fields:    Fields{},
	}
	lp.Description = ls.Properties.Get("Description")
	if lp.Description == "" {
		lp.Description = ls.Properties.Get("ki_description")
	}
	for _, p := range ls.Properties {
		if !coreProperties[p.Key] && !strings.HasPrefix(p.Key, "ki_") {
			lp.Fields[p.Key] = p.Value
		}
	}

	b.libParts[libID] = lp
	b.net.LibParts = append(b.net.LibParts, lp)
	return lp
}

func splitLibID(libID string) (lib, part string) {
	lib, part, found := strings.Cut(libID, ":")
	if !found {
		return "", libID
	}
	return lib, part
}

func schematicTool(sch *schematic.Schematic) string {
	tool := sch.Generator
	if tool == "eeschema" {
		tool = "Eeschema"
	}
	if sch.GeneratorVer != "" {
		tool += " " + sch.GeneratorVer
	}
	return tool
}
