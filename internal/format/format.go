package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCount formats an execution count with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		// s starts with "-"; strip it, insert commas, restore sign.
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatCompact renders a count in a handful of characters for narrow table
// cells. Example: 987 → "987", 1234 → "1.2k", 3400000 → "3.4M".
func FormatCompact(n int) string {
	switch {
	case n < 0:
		return "-" + FormatCompact(-n)
	case n < 1000:
		return strconv.Itoa(n)
	case n < 1000000:
		return trimZero(fmt.Sprintf("%.1fk", float64(n)/1000))
	default:
		return trimZero(fmt.Sprintf("%.1fM", float64(n)/1000000))
	}
}

// FormatAge renders how long ago something happened, coarsely.
// Example: 42s → "42s", 3m20s → "3m20s", under a second → "now".
func FormatAge(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Truncate shortens s to at most max runes, ellipsizing when it cuts.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// trimZero drops a trailing ".0" before a unit suffix: "2.0k" → "2k".
func trimZero(s string) string {
	if i := strings.Index(s, ".0"); i >= 0 && i+3 == len(s) {
		return s[:i] + s[i+2:]
	}
	return s
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
