package netlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
)

// LoadFile reads a netlist or schematic, picking the reader from the file
// extension and, failing that, from the first bytes of content.
func LoadFile(path string) (*Netlist, error) {
	if strings.EqualFold(filepath.Ext(path), ".kicad_sch") {
		return LoadSchematic(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	net, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if net.Source == "" {
		net.Source = path
	}
	return net, nil
}

// Load sniffs the format of r and parses it. Schematics need their file
// path to follow sheets, so only single-sheet schematics load from a reader.
func Load(r io.Reader) (*Netlist, error) {
	br := bufio.NewReader(r)
	format, err := Sniff(br)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXML:
		return ParseXML(br)
	case FormatSexp:
		return ParseSexp(br)
	case FormatOrcad:
		return ParseOrcad(br)
	case FormatSchematic:
		sch, err := schematic.Parse(br)
		if err != nil {
			return nil, &ParseError{Format: FormatSchematic, Err: err}
		}
		return FromSchematic(sch, ""), nil
	}
	return nil, ErrUnknownFormat
}

// Sniff peeks at the start of the input to tell the netlist formats apart
// without consuming anything.
func Sniff(br *bufio.Reader) (Format, error) {
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", err
	}
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(head) == 0 {
		return "", ErrEmptyInput
	}

	switch {
	case head[0] == '<':
		return FormatXML, nil
	case head[0] == '(':
		rest := bytes.TrimLeft(head[1:], " \t\r\n")
		switch {
		case bytes.HasPrefix(rest, []byte("export")):
			return FormatSexp, nil
		case bytes.HasPrefix(rest, []byte("kicad_sch")):
			return FormatSchematic, nil
		case bytes.HasPrefix(rest, []byte("{")):
			return FormatOrcad, nil
		}
	}
	return "", ErrUnknownFormat
}
