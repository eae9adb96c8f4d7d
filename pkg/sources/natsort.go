package sources

import (
	"sort"
	"strings"
)

// NaturalLess reports whether a sorts before b under natural ordering:
// digit runs compare as integers, text runs compare case-insensitively,
// so "page2.jpg" comes before "page10.jpg". Filenames that compare
// equal apart from digit padding or letter case fall back to a plain
// string comparison so the ordering stays total.
func NaturalLess(a, b string) bool {
	ra, rb := a, b
	for len(ra) > 0 && len(rb) > 0 {
		ta, da := nextRun(ra)
		tb, db := nextRun(rb)
		ra, rb = ra[len(ta):], rb[len(tb):]

		var cmp int
		switch {
		case da && db:
			cmp = compareDigits(ta, tb)
		case da != db:
			// Digit runs order before text runs, so "1x" sorts
			// ahead of "-x" and any other non-digit prefix.
			if da {
				return true
			}
			return false
		default:
			cmp = strings.Compare(strings.ToLower(ta), strings.ToLower(tb))
		}
		if cmp != 0 {
			return cmp < 0
		}
	}
	if len(ra) != len(rb) {
		return len(ra) < len(rb)
	}
	// Tiebreak on the original strings ("02" vs "2", "A" vs "a").
	return a < b
}

// SortNatural sorts names in place under natural ordering.
func SortNatural(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// nextRun returns the leading run of s, which is either all digits or
// digit-free, and whether it is a digit run.
func nextRun(s string) (string, bool) {
	digits := isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != digits {
			return s[:i], digits
		}
	}
	return s, digits
}

// compareDigits compares two digit runs by integer magnitude without
// parsing, so arbitrarily long page numbers cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
