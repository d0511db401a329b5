package domain

import "time"

// DayLayout is the storage format of a calendar day.
const DayLayout = "2006-01-02"

// Day truncates t to midnight UTC of its local calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders the calendar date of t.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a date stored with DayLayout.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}
