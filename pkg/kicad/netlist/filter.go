package netlist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which components are of interest to a BOM, in the manner of
// KiCad's own netlist reader: power symbols, test points, mounting holes and
// components flagged "exclude from BOM" are dropped.
type Filter struct {
	SkipPower           bool     // Drop references starting with '#'
	HonorExcludeFromBOM bool     // Drop components flagged exclude_from_bom
	ExcludeRefs         []string // Regexes matched against the whole reference
	ExcludeValues       []string // Regexes matched against the whole value
	ExcludeFootprints   []string // doublestar globs matched against the footprint

	refRes   []*regexp.Regexp
	valueRes []*regexp.Regexp
}

// DefaultFilter returns the exclusion lists KiCad's BOM scripts ship with
func DefaultFilter() *Filter {
	return &Filter{
		SkipPower:           true,
		HonorExcludeFromBOM: true,
		ExcludeRefs:         []string{`TP[0-9]+`},
		ExcludeValues:       []string{`MOUNTHOLE`, `SCOPETEST`, `MOUNT_HOLE`, `SOLDER_BRIDGE.*`},
	}
}

// Validate compiles the regex lists and checks the glob syntax
func (f *Filter) Validate() error {
	var err error
	if f.refRes, err = compileAnchored(f.ExcludeRefs); err != nil {
		return fmt.Errorf("exclude_refs: %w", err)
	}
	if f.valueRes, err = compileAnchored(f.ExcludeValues); err != nil {
		return fmt.Errorf("exclude_values: %w", err)
	}
	for _, pattern := range f.ExcludeFootprints {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("exclude_footprints: invalid glob %q", pattern)
		}
	}
	return nil
}

// compileAnchored compiles patterns so they must match the whole string
func compileAnchored(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	return res, nil
}

// Interesting reports whether c belongs in a BOM.
// Validate must have been called first.
func (f *Filter) Interesting(c *Component) bool {
	if f.SkipPower && strings.HasPrefix(c.Ref, "#") {
		return false
	}
	if f.HonorExcludeFromBOM && c.ExcludeFromBOM {
		return false
	}
	for _, re := range f.refRes {
		if re.MatchString(c.Ref) {
			return false
		}
	}
	for _, re := range f.valueRes {
		if re.MatchString(c.Value) {
			return false
		}
	}
	for _, pattern := range f.ExcludeFootprints {
		if ok, _ := doublestar.Match(pattern, c.Footprint); ok {
			return false
		}
	}
	return true
}

// InterestingComponents returns the components that pass the filter,
// preserving netlist order. A nil filter keeps everything.
func (n *Netlist) InterestingComponents(f *Filter) []*Component {
	if f == nil {
		return n.Components
	}
	out := make([]*Component, 0, len(n.Components))
	for _, c := range n.Components {
		if f.Interesting(c) {
			out = append(out, c)
		}
	}
	return out
}
