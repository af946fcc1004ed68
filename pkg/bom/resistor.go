package bom

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// KeyMode selects how resistor rows are ranked
type KeyMode int

const (
	// NumericKey ranks by resistance (SortKey)
	NumericKey KeyMode = iota
	// CodeKey ranks by the three-character "xxy" code (CodeKeyOf): two
	// significant digits followed by the magnitude.
	CodeKey
)

const (
	// MalformedKey is the numeric key of values that cannot be read; it
	// sorts after every well-formed value.
	MalformedKey int64 = math.MaxInt64
	// MalformedCode is the code-mode counterpart of MalformedKey
	MalformedCode = "zzzzzzzz"

	// saturatedKey caps values too large for int64 below MalformedKey
	saturatedKey int64 = math.MaxInt64 - 1
)

// unitMagnitude maps the accepted unit letters to powers of ten
var unitMagnitude = map[byte]int{'R': 0, 'k': 3, 'M': 6}

// IsResistorRef reports whether ref is "R" followed by a digit: R1 and R22
// qualify, RV3 and C1 do not.
func IsResistorRef(ref string) bool {
	return len(ref) >= 2 && ref[0] == 'R' && isDigit(ref[1])
}

// resistance is a value decoded into two significant digits and the power
// of ten that scales them: "4.7k" is {47, 2}.
type resistance struct {
	digits    string
	magnitude int
}

// parseResistance decodes a resistor value. A trailing digit means ohms;
// otherwise the last character is the unit (R, k or M). The letter may also
// stand in for the decimal point ("4k7", "4R7"). ok is false for anything
// else, which ranks last.
func parseResistance(value string) (r resistance, ok bool) {
	if value == "" {
		return r, false
	}

	num := value
	unit := byte('R')
	explicitUnit := false
	if last := value[len(value)-1]; !isDigit(last) {
		num = value[:len(value)-1]
		unit = last
		explicitUnit = true
	}

	mag, known := unitMagnitude[unit]
	if !known {
		return r, false
	}

	num = strings.TrimLeft(num, "0")
	if num == "" || num[0] < '1' || num[0] > '9' {
		return r, false
	}

	var digits strings.Builder
	point := -1
	for i := 0; i < len(num); i++ {
		ch := num[i]
		switch {
		case isDigit(ch):
			digits.WriteByte(ch)
		case ch == '.':
			if point >= 0 {
				return r, false
			}
			point = digits.Len()
		default:
			infix, isUnit := unitMagnitude[ch]
			if !isUnit || explicitUnit || point >= 0 {
				return r, false
			}
			point = digits.Len()
			mag += infix
		}
	}

	sig := digits.String()
	if point < 0 {
		point = len(sig)
	}
	mag += point - 2

	switch {
	case len(sig) < 2:
		sig += "0"
	case len(sig) > 2:
		sig = sig[:2]
	}

	return resistance{digits: sig, magnitude: mag}, true
}

// SortKey maps a resistor value to an integer that grows with resistance:
// "220" < "1k" < "10k" < "4.7M". The key counts tenths of an ohm so that
// values below 10 ohms stay integral; equal resistances give equal keys
// ("100" and "100R"). Unreadable values return MalformedKey.
func SortKey(value string) int64 {
	r, ok := parseResistance(value)
	if !ok {
		return MalformedKey
	}

	key, _ := strconv.ParseInt(r.digits, 10, 64)
	// magnitude is never below -1: the first digit precedes any point
	for i := 0; i < r.magnitude+1; i++ {
		if key > saturatedKey/10 {
			return saturatedKey
		}
		key *= 10
	}
	return key
}

// CodeKeyOf returns the legacy "xxy" sort code: two significant digits
// (truncated, not rounded) followed by the magnitude, e.g. "4.7k" -> "472".
// Lexical order matches numeric order while the magnitude is one digit.
// Unreadable values return MalformedCode.
func CodeKeyOf(value string) string {
	r, ok := parseResistance(value)
	if !ok {
		return MalformedCode
	}
	return r.digits + strconv.Itoa(r.magnitude)
}

// BuildResistors produces the resistor-only report: within each group only
// fitted components with an R<digit> reference are listed and counted,
// empty groups are dropped, and rows are ordered by the value's key.
func BuildResistors(net *netlist.Netlist, comps []*netlist.Component, opts Options, mode KeyMode) *Report {
	report := newReport(net)

	for _, group := range GroupBy(comps, opts.Equivalence.Equal) {
		var members []*netlist.Component
		for _, c := range opts.DNF.Fitted(group) {
			if IsResistorRef(c.Ref) {
				members = append(members, c)
			}
		}
		if len(members) == 0 {
			continue
		}
		report.Rows = append(report.Rows, makeRow(members, nil))
	}

	if opts.SortRefs {
		for i := range report.Rows {
			slices.SortStableFunc(report.Rows[i].Refs, CompareRefs)
		}
	}
	SortResistorRows(report.Rows, mode)
	return report
}

// SortResistorRows stable-sorts rows ascending by the key of their value
func SortResistorRows(rows []Row, mode KeyMode) {
	if mode == CodeKey {
		slices.SortStableFunc(rows, func(a, b Row) int {
			return strings.Compare(CodeKeyOf(a.Value), CodeKeyOf(b.Value))
		})
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(SortKey(a.Value), SortKey(b.Value))
	})
}
