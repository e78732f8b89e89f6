// internal/app/system/viz/dates.go
package viz

import "time"

// Archive dates are ISO by convention, but sorting must use calendar
// semantics for any parseable format, so a few common layouts are
// tried before falling back to lexical order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// ParseDate parses a date string against the supported layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLess reports whether a sorts before b, comparing calendar dates
// when both parse and falling back to string order otherwise.
func DateLess(a, b string) bool {
	ta, oka := ParseDate(a)
	tb, okb := ParseDate(b)
	if oka && okb {
		return ta.Before(tb)
	}
	return a < b
}
