// Package schematic provides parsing for KiCad schematic files (.kicad_sch)
package schematic

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// Re-export shared types from sexp package for convenience
type UUID = sexp.UUID
type Property = sexp.Property
type Properties = sexp.Properties

// Schematic represents one KiCad schematic sheet file
type Schematic struct {
	Version      int         // File format version
	Generator    string      // Generator info (e.g., "eeschema")
	GeneratorVer string      // Generator version
	UUID         UUID        // Schematic UUID
	TitleBlock   TitleBlock  // Title block information
	LibSymbols   []LibSymbol // Embedded library symbols
	Symbols      []Symbol    // Symbol instances on the sheet
	Sheets       []Sheet     // Hierarchical sheet references
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
}

// LibSymbol represents an embedded library symbol definition
type LibSymbol struct {
	Name       string     // Symbol name (e.g., "Device:R")
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	Properties Properties // Symbol properties
}

// Symbol represents a symbol instance placed on the schematic
type Symbol struct {
	LibID      string     // Library identifier (e.g., "Device:R")
	Unit       int        // Unit number (for multi-unit symbols)
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	DNP        bool       // Do not populate
	UUID       UUID       // Instance UUID
	Properties Properties // Instance properties (Reference, Value, etc.)
	Instances  []Instance // Per-sheet-instance annotation (KiCad 7+)
}

// Instance is the annotation of a symbol for one hierarchical path.
// A sheet used twice lists every symbol under both paths.
type Instance struct {
	Project   string
	Path      string
	Reference string
	Unit      int
}

// Sheet represents a hierarchical sheet reference
type Sheet struct {
	Name     string // Sheetname property
	FileName string // Sheetfile property, relative to the parent sheet
	UUID     UUID
}

// GetSymbol returns the first symbol whose Reference matches ref, or nil
func (s *Schematic) GetSymbol(ref string) *Symbol {
	for i := range s.Symbols {
		if s.Symbols[i].Properties.Get("Reference") == ref {
			return &s.Symbols[i]
		}
		for _, inst := range s.Symbols[i].Instances {
			if inst.Reference == ref {
				return &s.Symbols[i]
			}
		}
	}
	return nil
}

// GetLibSymbol returns the embedded library symbol with the given lib_id, or nil
func (s *Schematic) GetLibSymbol(libID string) *LibSymbol {
	for i := range s.LibSymbols {
		if s.LibSymbols[i].Name == libID {
			return &s.LibSymbols[i]
		}
	}
	return nil
}
