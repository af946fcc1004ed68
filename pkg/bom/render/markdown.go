package render

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
)

// Markdown renders a grouped BOM:
//
//	# amp.kicad_sch BOM
//
//	2024-05-01T10:00:00
//
//	Generated from schematic by Eeschema 8.0.2
//
//	**Component Count:** 12
//
//	| Ref | Qty | Value | Description | Vendor |
//	| --- | --- | ----- | ----------- | ------ |
//	| R1, R2 | 2 | 1k | Resistor | Mouser |
type Markdown struct{}

func (Markdown) Render(w io.Writer, report *bom.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s BOM\n\n", filepath.Base(report.Source))
	fmt.Fprintf(bw, "%s\n\n", report.Date)
	fmt.Fprintf(bw, "Generated from schematic by %s\n\n", report.Tool)
	fmt.Fprintf(bw, "**Component Count:** %d\n\n", report.ComponentCount)

	header := append([]string{"Ref", "Qty", "Value", "Description"}, report.Columns...)
	writeTableRow(bw, header)

	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", max(len(h), 3))
	}
	writeTableRow(bw, sep)

	for _, row := range report.Rows {
		cells := []string{
			escapeCell(row.RefList()),
			strconv.Itoa(row.Qty),
			escapeCell(row.Value),
			escapeCell(row.Description),
		}
		for _, col := range report.Columns {
			cells = append(cells, escapeCell(row.Fields[col]))
		}
		writeTableRow(bw, cells)
	}

	return bw.Flush()
}

func writeTableRow(w io.Writer, cells []string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

// escapeCell keeps field text from breaking the table layout
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
