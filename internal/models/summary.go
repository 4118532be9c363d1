package models

// Placeholder display names used by aggregations.
const (
	DisplayNameUnnamed      = "Unnamed"
	DisplayNameUnclassified = "Unclassified"
)

// WeekdaySlots counts Monday through Saturday. Sunday is never counted.
const WeekdaySlots = 6

// TermSummaryRow holds per-weekday class counts of one term bucket.
type TermSummaryRow struct {
	TermID        *string           `json:"term_id,omitempty"`
	DisplayName   string            `json:"display_name"`
	WeekdayCounts [WeekdaySlots]int `json:"weekday_counts"`
}

// Total sums the weekday counts.
func (r TermSummaryRow) Total() int {
	total := 0
	for _, c := range r.WeekdayCounts {
		total += c
	}
	return total
}

// VacationBucket keys.
const (
	VacationSpring = "springBreak"
	VacationSummer = "summerBreak"
	VacationWinter = "winterBreak"
)

// VacationSummaryRow counts cancelled days of one long break.
type VacationSummaryRow struct {
	BucketKey string `json:"bucket_key"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

// TermSummaryResult is the combined aggregation result for a calendar.
type TermSummaryResult struct {
	TermSummaries     []TermSummaryRow     `json:"term_summaries"`
	VacationSummaries []VacationSummaryRow `json:"vacation_summaries"`
}

// UniqueTerm is one distinct term referenced by the calendar's days.
type UniqueTerm struct {
	TermID      *string `json:"term_id,omitempty"`
	DisplayName string  `json:"display_name"`
}

// TermWeekdayDate is one class day matched by a term + weekday lookup.
type TermWeekdayDate struct {
	Date                 string   `json:"date"`
	Type                 DayType  `json:"type"`
	TermID               *string  `json:"term_id,omitempty"`
	DisplayName          *string  `json:"display_name,omitempty"`
	ActualWeekdayLabel   string   `json:"actual_weekday_label"`
	AssignedWeekdayLabel string   `json:"assigned_weekday_label"`
	ClassWeekday         *int     `json:"class_weekday,omitempty"`
	ClassOrder           *int     `json:"class_order,omitempty"`
	NotificationReasons  []string `json:"notification_reasons,omitempty"`
}
