package client

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ParseCount converts a raw counter rendering into a non-negative int.
// Upstream counters arrive with locale grouping ("4,818", "12 345") or the
// occasional stray character, so parsing is layered: strip comma and
// whitespace separators and parse as integer; failing that, parse as float
// and truncate toward zero; failing that, take the longest run of decimal
// digits (leftmost on ties). Anything else, including negatives, is 0.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	stripped := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if n, err := strconv.Atoi(stripped); err == nil {
		return clampCount(n)
	}
	if f, err := strconv.ParseFloat(stripped, 64); err == nil {
		return clampCount(int(f))
	}
	if run := longestDigitRun(stripped); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return clampCount(n)
		}
	}
	return 0
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// longestDigitRun returns the longest contiguous run of ASCII digits in s,
// preferring the leftmost when runs tie. Empty when s has no digits.
func longestDigitRun(s string) string {
	best, bestLen := "", 0
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start > bestLen {
				best, bestLen = s[start:i], i-start
			}
			start = -1
		}
	}
	return best
}

// CountValue is the JSON carrier for the wire count field, which may arrive
// as a number, a grouped string, or null. Decoding never fails; unusable
// input decodes to 0.
type CountValue int

// Int returns the decoded count.
func (v CountValue) Int() int {
	return int(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *CountValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*v = 0
			return nil
		}
		*v = CountValue(ParseCount(str))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*v = CountValue(ParseCount(s))
		return nil
	}
	*v = CountValue(clampCount(int(f)))
	return nil
}
