package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// Items returns the elements of a list node, or nil for atoms
func Items(s kicadsexp.Sexp) []kicadsexp.Sexp {
	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		return nil
	}
	return list.Elements()
}

// GetNodeName returns the leading symbol of a list: "comp" for (comp ...)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	items := Items(s)
	if len(items) == 0 {
		return "", fmt.Errorf("expected non-empty list")
	}
	sym, ok := items[0].(kicadsexp.Symbol)
	if !ok {
		return "", fmt.Errorf("expected symbol as node name, got %T", items[0])
	}
	return string(sym), nil
}

// FindNode searches for a direct child list with the given key (first symbol)
// Example: FindNode(comp, "value") finds (value "10k")
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range Items(s) {
		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all direct child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range Items(s) {
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetString extracts an atom at the given index in a list.
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	items := Items(s)
	if items == nil {
		return "", fmt.Errorf("expected list, got %T", s)
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	sym, ok := items[index].(kicadsexp.Symbol)
	if !ok {
		return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
	}
	return string(sym), nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// ChildString returns the first value of the child (key value), or "" when
// the child is missing or carries no atom.
func ChildString(s kicadsexp.Sexp, key string) string {
	node, found := FindNode(s, key)
	if !found {
		return ""
	}
	v, _ := GetString(node, 1)
	return v
}

// HasSymbol reports whether a list contains the bare atom symbol
// (e.g. "hide" in (pin_names hide))
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range Items(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetYesNo reads a (key yes|no) flag, returning def when the child is absent
func GetYesNo(s kicadsexp.Sexp, key string, def bool) bool {
	node, found := FindNode(s, key)
	if !found {
		return def
	}
	v, err := GetString(node, 1)
	if err != nil {
		// (dnp) without a value means set
		return true
	}
	return v == "yes"
}

// GetProperty parses (property "Key" "Value" ...)
func GetProperty(s kicadsexp.Sexp) (Property, error) {
	key, err := GetString(s, 1)
	if err != nil {
		return Property{}, fmt.Errorf("property key: %w", err)
	}
	value, err := GetString(s, 2)
	if err != nil {
		return Property{}, fmt.Errorf("property %q value: %w", key, err)
	}
	return Property{Key: key, Value: value}, nil
}

// GetProperties parses every (property ...) child of a node, skipping malformed ones
func GetProperties(s kicadsexp.Sexp) Properties {
	var props Properties
	for _, pn := range FindAllNodes(s, "property") {
		if prop, err := GetProperty(pn); err == nil {
			props = append(props, prop)
		}
	}
	return props
}
