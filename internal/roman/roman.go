// Package roman converts between integers and Roman numerals.
package roman

import (
	"fmt"
	"strings"
)

var numerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"},
	{1, "I"},
}

// Format returns the Roman numeral for n using greedy subtraction.
// Callers must pass a positive integer; Format returns "" for n <= 0.
// There is no upper bound, values above 3999 simply repeat "M".
func Format(n int) string {
	if n <= 0 {
		return ""
	}

	var b strings.Builder
	for _, num := range numerals {
		for n >= num.value {
			b.WriteString(num.symbol)
			n -= num.value
		}
	}
	return b.String()
}

var symbolValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// Parse decodes a Roman numeral. Lowercase input is accepted.
func Parse(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}

	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := symbolValues[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral %q: unexpected %q", s, s[i])
		}
		if i+1 < len(s) && v < symbolValues[s[i+1]] {
			total -= v
			continue
		}
		total += v
	}

	// Reject non-canonical forms such as "IIII" or "VX".
	if Format(total) != s {
		return 0, fmt.Errorf("invalid roman numeral %q", s)
	}
	return total, nil
}
