// Package render writes bom.Report values as Markdown tables or the
// tab-separated resistor list.
package render

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
)

// Renderer writes a report to w
type Renderer interface {
	Render(w io.Writer, report *bom.Report) error
}

// ByName returns the renderer registered under name ("markdown", "md", "text")
func ByName(name string) (Renderer, error) {
	switch name {
	case "markdown", "md":
		return Markdown{}, nil
	case "text", "txt":
		return Text{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}
