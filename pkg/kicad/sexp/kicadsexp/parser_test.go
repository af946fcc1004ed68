package kicadsexp

import (
	"errors"
	"strings"
	"testing"
)

func TestParseNested(t *testing.T) {
	sexps, err := ParseString(`(export (version "E")
  (design (source "/tmp/board.kicad_sch")))`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(sexps) != 1 {
		t.Fatalf("Expected 1 top-level expression, got %d", len(sexps))
	}

	root, ok := sexps[0].(*List)
	if !ok {
		t.Fatalf("Expected *List, got %T", sexps[0])
	}
	if root.Len() != 3 {
		t.Errorf("Expected 3 elements, got %d", root.Len())
	}
	if root.Head().String() != "export" {
		t.Errorf("Expected head 'export', got '%s'", root.Head())
	}

	design := root.Get(2).(*List)
	if design.Line() != 2 {
		t.Errorf("Expected design on line 2, got %d", design.Line())
	}
	source := design.Get(1).(*List)
	if source.Get(1) != Symbol("/tmp/board.kicad_sch") {
		t.Errorf("Unexpected source: %v", source.Get(1))
	}
}

func TestParseStringEscapes(t *testing.T) {
	sexps, err := ParseString(`(value "say \"hi\"\n")`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	got := sexps[0].(*List).Get(1)
	if got != Symbol("say \"hi\"\n") {
		t.Errorf("Unexpected unescaped value: %q", got)
	}
}

func TestParseHashInsideSymbol(t *testing.T) {
	sexps, err := ParseString(`(ref #PWR01)`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if got := sexps[0].(*List).Get(1); got != Symbol("#PWR01") {
		t.Errorf("Expected '#PWR01', got %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"unbalanced", "(export\n  (design", 2},
		{"stray close", ")", 1},
		{"unterminated string", "(value\n\"10k)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Expected error for %q", tt.input)
			}
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("Expected *SyntaxError, got %T: %v", err, err)
			}
			if syn.Line != tt.line {
				t.Errorf("Expected error on line %d, got %d", tt.line, syn.Line)
			}
		})
	}
}
