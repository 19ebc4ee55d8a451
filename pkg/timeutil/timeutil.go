// Package timeutil provides calendar-day math for activity analytics.
// All "day" boundaries are computed in an explicit time.Location because
// streaks are defined over calendar dates in the user's configured zone
// (default UTC). No external dependencies - uses only standard library.
package timeutil

import (
	"sort"
	"time"
)

// DefaultLocation is the fallback zone when a user has no configured timezone.
var DefaultLocation = time.UTC

// LoadLocation resolves a timezone name, falling back to DefaultLocation
// on an empty or unknown name. It never returns nil.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return DefaultLocation
	}
	return loc
}

// DayStart returns the start of the calendar day (00:00:00) containing t
// in the given location.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = DefaultLocation
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayStart(a, loc).Equal(DayStart(b, loc))
}

// IsConsecutiveDay reports whether b falls on the calendar day immediately
// after a in loc.
func IsConsecutiveDay(a, b time.Time, loc *time.Location) bool {
	return DayStart(a, loc).AddDate(0, 0, 1).Equal(DayStart(b, loc))
}

// DaysBetween returns the number of whole calendar days from a to b in loc.
// Negative when b is before a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := DayStart(a, loc)
	end := DayStart(b, loc)
	days := 0
	for start.Before(end) {
		start = start.AddDate(0, 0, 1)
		days++
	}
	for start.After(end) {
		start = start.AddDate(0, 0, -1)
		days--
	}
	return days
}

// ElapsedDays returns the elapsed time from a to b as fractional days.
// Never negative.
func ElapsedDays(a, b time.Time) float64 {
	d := b.Sub(a)
	if d < 0 {
		return 0
	}
	return d.Hours() / 24
}

// DistinctDays collapses timestamps to their day starts in loc, removes
// duplicates, and returns the days sorted ascending. Multiple events on the
// same calendar date collapse to one active day.
func DistinctDays(ts []time.Time, loc *time.Location) []time.Time {
	if len(ts) == 0 {
		return nil
	}
	seen := make(map[time.Time]struct{}, len(ts))
	days := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		day := DayStart(t, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// MergeDays merges multiple day sets into one distinct, ascending set in loc.
// Used for the cross-enrollment global streak.
func MergeDays(loc *time.Location, sets ...[]time.Time) []time.Time {
	var all []time.Time
	for _, s := range sets {
		all = append(all, s...)
	}
	if len(all) == 0 {
		return nil
	}
	return DistinctDays(all, loc)
}

// FormatDay formats a time as a date string (YYYY-MM-DD) in loc.
func FormatDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = DefaultLocation
	}
	return t.In(loc).Format("2006-01-02")
}
