package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
)

// Text renders one line per row: value, quantity and references separated
// by " \t ", the layout the resistor list has always used.
type Text struct{}

func (Text) Render(w io.Writer, report *bom.Report) error {
	bw := bufio.NewWriter(w)
	for _, row := range report.Rows {
		fmt.Fprintf(bw, "%s \t %d \t %s\n", row.Value, row.Qty, row.RefList())
	}
	return bw.Flush()
}
