// Package status derives an event's temporal status from its scheduled
// date and time.
//
// The scheduled instant is built in UTC: the calendar date contributes
// year/month/day and the "HH:MM" wall-clock string contributes hour and
// minute. Status is never persisted; callers recompute it on every read
// so the value always reflects the current clock.
package status

import (
	"fmt"
	"time"
)

// The fixed status set. Derived only; never accepted as input.
const (
	Upcoming  = "upcoming"
	Ongoing   = "ongoing"
	Completed = "completed"
)

// Derive returns the status of an event scheduled for date+timeOfDay as
// observed at now.
//
//	now before the instant  -> upcoming
//	now after the instant   -> completed
//	otherwise               -> ongoing
//
// The ongoing branch only matches at exact instant equality, which keeps
// the three-way enumeration intact while being a zero-width window in
// practice.
func Derive(date time.Time, timeOfDay string, now time.Time) string {
	at := ScheduledInstant(date, timeOfDay)
	switch {
	case now.Before(at):
		return Upcoming
	case now.After(at):
		return Completed
	default:
		return Ongoing
	}
}

// ScheduledInstant combines a calendar date with an "HH:MM" wall-clock
// string into a single UTC instant. A malformed timeOfDay degrades to
// midnight; store validation keeps malformed values out of persistence.
func ScheduledInstant(date time.Time, timeOfDay string) time.Time {
	hour, min := 0, 0
	if h, m, err := ParseTimeOfDay(timeOfDay); err == nil {
		hour, min = h, m
	}
	y, mo, d := date.UTC().Date()
	return time.Date(y, mo, d, hour, min, 0, 0, time.UTC)
}

// ParseTimeOfDay parses a 24h "HH:MM" string.
func ParseTimeOfDay(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
