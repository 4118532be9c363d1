package models

import (
	"strings"
	"time"
)

// DateLayout is the only accepted date representation.
const DateLayout = "2006-01-02"

// weekdayLabels are indexed by time.Weekday (Sunday first).
var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// ParseDate parses a date-only YYYY-MM-DD value in UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayLabel returns the single-character label for w (0=Sun..6=Sat).
func WeekdayLabel(w int) string {
	if w < 0 || w > 6 {
		return ""
	}
	return weekdayLabels[w]
}

// ParseWeekdayLabel maps a label back to 0=Sun..6=Sat.
func ParseWeekdayLabel(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for i, l := range weekdayLabels {
		if l == label {
			return i, true
		}
	}
	return 0, false
}

// ClassWeekdayOf returns the Monday-based weekday of t, Sunday being 7.
func ClassWeekdayOf(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// ValidClassWeekday reports whether w is a Monday-based weekday (1..7).
func ValidClassWeekday(w int) bool {
	return w >= 1 && w <= 7
}

// NormalizeWeekday folds any integer onto 0=Sun..6=Sat, so a stored
// class weekday of 7 lands on Sunday.
func NormalizeWeekday(w int) int {
	return ((w % 7) + 7) % 7
}

// AssignedWeekday returns the weekday whose timetable governs the day: the
// override when present, else the date's own weekday. ok is false when
// neither can be determined.
func (d Day) AssignedWeekday() (weekday int, ok bool) {
	if d.ClassWeekday != nil {
		return NormalizeWeekday(*d.ClassWeekday), true
	}
	return d.ActualWeekday()
}

// ActualWeekday returns the date's true weekday (0=Sun..6=Sat).
func (d Day) ActualWeekday() (int, bool) {
	t, err := ParseDate(d.Date)
	if err != nil {
		return 0, false
	}
	return int(t.Weekday()), true
}
