package repository

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		in   string
		ok   bool
		want time.Time
	}{
		{"valid", "24.12.2026", true, time.Date(2026, 12, 24, 0, 0, 0, 0, loc)},
		{"valid with spaces", "  05.01.2027 ", true, time.Date(2027, 1, 5, 0, 0, 0, 0, loc)},
		{"empty", "", false, time.Time{}},
		{"whitespace only", "   ", false, time.Time{}},
		{"iso format rejected", "2026-12-24", false, time.Time{}},
		{"stray text", "скоро", false, time.Time{}},
		{"impossible day", "32.01.2026", false, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseEventDate(tc.in, loc)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	loc := time.UTC
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	cases := []struct {
		name  string
		event time.Time
		want  int
	}{
		{"same day", today, 0},
		{"tomorrow", today.AddDate(0, 0, 1), 1},
		{"two weeks", today.AddDate(0, 0, 14), 14},
		{"yesterday", today.AddDate(0, 0, -1), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(tc.event, today); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDaysUntilAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cases := []struct {
		name         string
		today, event time.Time
		want         int
	}{
		// Spring forward (2026-03-29): local midnights are 335h apart, the
		// calendar distance is still 14 days.
		{
			"spring forward two weeks",
			time.Date(2026, 3, 20, 0, 0, 0, 0, loc),
			time.Date(2026, 4, 3, 0, 0, 0, 0, loc),
			14,
		},
		{
			"spring forward day before",
			time.Date(2026, 3, 28, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 29, 0, 0, 0, 0, loc),
			1,
		},
		// Fall back (2026-10-25): 337h between midnights.
		{
			"fall back two weeks",
			time.Date(2026, 10, 18, 0, 0, 0, 0, loc),
			time.Date(2026, 11, 1, 0, 0, 0, 0, loc),
			14,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(tc.event, tc.today); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDateOf(t *testing.T) {
	loc := time.UTC
	in := time.Date(2026, 7, 1, 23, 59, 58, 123, loc)
	got := dateOf(in, loc)
	want := time.Date(2026, 7, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
