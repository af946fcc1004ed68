package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version for schematics (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad schematic file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad schematic from an io.Reader
func Parse(r io.Reader) (*Schematic, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	// The root should be a (kicad_sch ...) expression
	root := sexps[0]

	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}

	if rootName != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic file: expected 'kicad_sch', got '%s'", rootName)
	}

	sch := &Schematic{}

	if err := parseHeader(root, sch); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	sch.UUID = UUID(sexp.ChildString(root, "uuid"))

	if titleBlockNode, found := sexp.FindNode(root, "title_block"); found {
		sch.TitleBlock = parseTitleBlock(titleBlockNode)
	}

	if libSymbolsNode, found := sexp.FindNode(root, "lib_symbols"); found {
		sch.LibSymbols = parseLibSymbols(libSymbolsNode)
	}

	sch.Symbols = parseSymbols(root)
	sch.Sheets = parseSheets(root)

	return sch, nil
}

// parseHeader extracts version and generator information
func parseHeader(root kicadsexp.Sexp, sch *Schematic) error {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}

	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	sch.Version = ver

	sch.Generator = sexp.ChildString(root, "generator")
	sch.GeneratorVer = sexp.ChildString(root, "generator_version")

	return nil
}

// parseTitleBlock extracts title block information
func parseTitleBlock(node kicadsexp.Sexp) TitleBlock {
	return TitleBlock{
		Title:    sexp.ChildString(node, "title"),
		Date:     sexp.ChildString(node, "date"),
		Revision: sexp.ChildString(node, "rev"),
		Company:  sexp.ChildString(node, "company"),
	}
}

// parseLibSymbols parses embedded library symbols
func parseLibSymbols(node kicadsexp.Sexp) []LibSymbol {
	symbolNodes := sexp.FindAllNodes(node, "symbol")
	symbols := make([]LibSymbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		name, _ := sexp.GetString(symNode, 1)
		symbols = append(symbols, LibSymbol{
			Name:       name,
			InBom:      sexp.GetYesNo(symNode, "in_bom", true),
			OnBoard:    sexp.GetYesNo(symNode, "on_board", true),
			Properties: sexp.GetProperties(symNode),
		})
	}

	return symbols
}

// parseSymbols parses the placed symbols of a sheet
func parseSymbols(root kicadsexp.Sexp) []Symbol {
	symbolNodes := sexp.FindAllNodes(root, "symbol")
	symbols := make([]Symbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		symbols = append(symbols, parseSymbol(symNode))
	}

	return symbols
}

// parseSymbol parses a single symbol instance
func parseSymbol(node kicadsexp.Sexp) Symbol {
	sym := Symbol{
		LibID:      sexp.ChildString(node, "lib_id"),
		Unit:       1,
		InBom:      sexp.GetYesNo(node, "in_bom", true),
		OnBoard:    sexp.GetYesNo(node, "on_board", true),
		DNP:        sexp.GetYesNo(node, "dnp", false),
		UUID:       UUID(sexp.ChildString(node, "uuid")),
		Properties: sexp.GetProperties(node),
	}

	if unitNode, found := sexp.FindNode(node, "unit"); found {
		if unit, err := sexp.GetInt(unitNode, 1); err == nil {
			sym.Unit = unit
		}
	}

	// (instances (project "name" (path "/uuid" (reference "R1") (unit 1))))
	if instNode, found := sexp.FindNode(node, "instances"); found {
		for _, projNode := range sexp.FindAllNodes(instNode, "project") {
			project, _ := sexp.GetString(projNode, 1)
			for _, pathNode := range sexp.FindAllNodes(projNode, "path") {
				inst := Instance{Project: project, Unit: sym.Unit}
				inst.Path, _ = sexp.GetString(pathNode, 1)
				inst.Reference = sexp.ChildString(pathNode, "reference")
				if unitNode, found := sexp.FindNode(pathNode, "unit"); found {
					if unit, err := sexp.GetInt(unitNode, 1); err == nil {
						inst.Unit = unit
					}
				}
				sym.Instances = append(sym.Instances, inst)
			}
		}
	}

	return sym
}

// parseSheets parses hierarchical sheet references
func parseSheets(root kicadsexp.Sexp) []Sheet {
	sheetNodes := sexp.FindAllNodes(root, "sheet")
	sheets := make([]Sheet, 0, len(sheetNodes))

	for _, sn := range sheetNodes {
		props := sexp.GetProperties(sn)
		sheet := Sheet{
			Name:     props.Get("Sheetname"),
			FileName: props.Get("Sheetfile"),
			UUID:     UUID(sexp.ChildString(sn, "uuid")),
		}
		// KiCad 6 used "Sheet name" / "Sheet file"
		if sheet.Name == "" {
			sheet.Name = props.Get("Sheet name")
		}
		if sheet.FileName == "" {
			sheet.FileName = props.Get("Sheet file")
		}
		sheets = append(sheets, sheet)
	}

	return sheets
}
