// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"math"
	"strconv"
	"strings"
)

// ParseScore reads a single component score. Blank, non-numeric and
// non-finite input all read as 0.
func ParseScore(raw string) float64 {
	v, ok := parseLeadingFloat(strings.TrimSpace(raw))
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Total sums the three screening components (English, personality,
// experience). It never fails.
func Total(eng, pers, exp string) float64 {
	return ParseScore(eng) + ParseScore(pers) + ParseScore(exp)
}

// IsNumeric reports whether raw starts with a decimal number.
func IsNumeric(raw string) bool {
	_, ok := parseLeadingFloat(strings.TrimSpace(raw))
	return ok
}

// parseLeadingFloat accepts the longest numeric prefix of s, so "8.5pts"
// reads as 8.5 the same way an operator's spreadsheet cell would.
func parseLeadingFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case (r == '+' || r == '-') && i == 0:
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		default:
			break scan
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
