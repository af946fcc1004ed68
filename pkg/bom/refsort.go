package bom

import (
	"slices"
	"strings"
)

// CompareRefs orders references naturally: "R2" before "R10", "C9" before "R1".
// Digit runs compare by numeric value, everything else byte-wise.
func CompareRefs(a, b string) int {
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			if c := compareNumeric(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

// SortRows sorts the references of each row and then rows by first reference
func SortRows(rows []Row) {
	for i := range rows {
		slices.SortStableFunc(rows[i].Refs, CompareRefs)
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return CompareRefs(firstRef(a), firstRef(b))
	})
}

func firstRef(r Row) string {
	if len(r.Refs) == 0 {
		return ""
	}
	return r.Refs[0]
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares unsigned decimal strings of any length
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
