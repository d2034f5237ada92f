package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// FormatSortable formats a time with nanosecond precision so that
// lexicographic order of the strings matches chronological order.
// Used for range-key construction in the turn store.
func FormatSortable(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// ParseRFC3339 parses a time string in RFC3339 format, accepting
// fractional seconds
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
