// Package coerce implements best-effort parsing of numeric literals out of
// identifier strings, tolerating thousands separators, currency symbols, and
// surrounding whitespace.
package coerce

import (
	"math"
	"strconv"
	"strings"
)

// noise characters stripped before parsing. Thousands separators and
// currency-like prefixes show up in hand-edited extract identifiers.
const noise = ",$%"

// Number parses s as a numeric value. The second return is false when s does
// not contain a parseable numeric literal. Empty and all-whitespace strings
// coerce to NaN and are considered parseable, matching missing-value handling
// elsewhere in the library.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), true
	}
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(noise, r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Column coerces every value of a string column. It returns the coerced
// values plus the list of input values that failed to parse, in input order.
func Column(values []string) ([]float64, []string) {
	out := make([]float64, len(values))
	var failed []string
	for i, s := range values {
		v, ok := Number(s)
		if !ok {
			failed = append(failed, s)
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out, failed
}
