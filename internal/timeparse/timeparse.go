// Package timeparse turns timestamp strings found in log fields into
// time.Time values. Parsing is opportunistic: a fixed cascade of layouts is
// tried in order and the first match wins.
package timeparse

import (
	"time"
)

// stampLayout matches BSD syslog timestamps, e.g. "Jan 15 10:30:05".
const stampLayout = time.Stamp

// Nower abstracts the wall clock so tests can pin the assumed year for
// layouts that omit it.
type Nower interface {
	Now() time.Time
}

// RealNower returns the actual current time in UTC.
type RealNower struct{}

func (RealNower) Now() time.Time { return time.Now().UTC() }

// DefaultNower supplies the current time unless overridden.
var DefaultNower Nower = RealNower{}

// Now returns the current time according to DefaultNower.
func Now() time.Time { return DefaultNower.Now() }

// Parse attempts to interpret s as a timestamp. Layouts tried in order:
// RFC 3339 (fractional seconds optional, Z or numeric offset), then
// "YYYY-MM-DD HH:MM:SS[.fff]" assumed UTC, then the syslog stamp layout.
// RFC 3164 omits the year, so stamp timestamps are completed with the
// current year of DefaultNower; that is a documented approximation.
func Parse(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(stampLayout, s, time.UTC); err == nil {
		return t.AddDate(Now().Year(), 0, 0), true
	}
	return time.Time{}, false
}
