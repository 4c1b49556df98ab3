package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// ParseScore parses a score cell. A lone comma is accepted as the decimal
// separator. Cells mixing comma and period, or holding several commas, are
// rejected since thousands separators are not supported.
func ParseScore(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}

	if commas := strings.Count(s, ","); commas > 0 {
		if commas > 1 || strings.Contains(s, ".") {
			return 0, false
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == 'e', r == 'E':
		case (r == '+' || r == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isInteger reports whether cell parses as a whole number.
func isInteger(cell string) bool {
	v, ok := ParseScore(cell)
	return ok && v == math.Trunc(v)
}

// hasFraction reports whether cell parses and has a non-zero fractional part.
func hasFraction(cell string) bool {
	v, ok := ParseScore(cell)
	return ok && v != math.Trunc(v)
}

// round rounds v to places decimals, half away from zero.
func round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
