package models

import (
	"strings"
	"time"
)

// DayType classifies a single calendar date. Any type may overwrite any other.
type DayType string

const (
	DayTypeUnspecified DayType = "UNSPECIFIED"
	DayTypeClass       DayType = "CLASS"
	DayTypeExam        DayType = "EXAM"
	DayTypeReserve     DayType = "RESERVE"
	DayTypeCancelled   DayType = "CANCELLED"
)

// ParseDayType normalises raw into a known day type.
func ParseDayType(raw string) (DayType, bool) {
	switch t := DayType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case DayTypeUnspecified, DayTypeClass, DayTypeExam, DayTypeReserve, DayTypeCancelled:
		return t, true
	default:
		return "", false
	}
}

// Day is the single classification record of one date in a calendar.
type Day struct {
	ID                  string    `json:"id"`
	CalendarID          string    `json:"calendar_id"`
	Date                string    `json:"date"`
	Type                DayType   `json:"type"`
	TermID              *string   `json:"term_id,omitempty"`
	Description         *string   `json:"description,omitempty"`
	ClassWeekday        *int      `json:"class_weekday,omitempty"`
	ClassOrder          *int      `json:"class_order,omitempty"`
	NotificationReasons []string  `json:"notification_reasons,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DayFilter narrows day listings to an inclusive date window.
type DayFilter struct {
	From string
	To   string
}
