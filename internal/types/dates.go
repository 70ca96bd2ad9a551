package types

import "time"

// dateLayouts are the accepted spellings for user-entered dates, most
// specific first. The editor writes "2006-01" style values; imported
// documents may carry any of the others.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// ParseDate parses a user-entered date string. The boolean result is
// false when no accepted layout matches.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders a point in time as the ISO-8601 string form
// used everywhere outside the remote store backends.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
