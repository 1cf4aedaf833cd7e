package repository

import (
	"strings"
	"time"
)

// eventDateLayout is the only accepted spreadsheet date format: "24.12.2026".
const eventDateLayout = "02.01.2006"

// ParseEventDate parses a catalog event-date cell. Malformed or empty input
// is absence, never an error: the sheet is hand-edited and stray text in the
// date column must not break catalog listing.
func ParseEventDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(eventDateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateOf truncates t to a calendar date in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysUntil returns the calendar-day distance from today to the event date.
// Both sides are reduced to their own calendar date in UTC first, so a DST
// transition between them never shifts the count by an hour's worth.
func DaysUntil(event, today time.Time) int {
	return int(utcDate(event).Sub(utcDate(today)) / (24 * time.Hour))
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
