package extract

import (
	"regexp"
	"strconv"
	"time"
)

var reNonDigit = regexp.MustCompile(`[^\d]`)

// ParseMoney strips everything but digits and parses the remainder as a
// whole-dollar amount. ok is false for empty or unparsable input.
func ParseMoney(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// moneyOr parses the matched amount and falls back to the industry-standard
// default when the certificate did not state it.
func moneyOr(s string, def int64) int64 {
	if n, ok := ParseMoney(s); ok {
		return n
	}
	return def
}

var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"2006-01-02",
}

// ParseDate accepts the slash/dash date shapes the patterns capture.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateOr(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}
