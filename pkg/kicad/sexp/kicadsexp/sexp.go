// Package kicadsexp provides a lightweight streaming S-expression parser
// for KiCad files. Netlists, schematics and boards all share this syntax.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// Len returns the number of elements in a list (0 for atoms)
	Len() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// String returns the string representation
	String() string
}

// Symbol represents an atom: a bare identifier, a number or a quoted string
// with its quotes removed.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) Len() int       { return 0 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) String() string { return string(s) }

// List represents a parenthesised list of S-expressions
type List struct {
	elements []Sexp
	line     int
}

// NewList builds a list from elements. Mostly useful in tests.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) Len() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index, or nil when out of range
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Elements returns the list items. The slice must not be modified.
func (l *List) Elements() []Sexp {
	return l.elements
}

// Line returns the 1-based source line of the opening parenthesis
func (l *List) Line() int {
	return l.line
}

// Parse parses all top-level S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses S-expressions from a string
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
