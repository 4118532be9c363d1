package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// HolidayFlag marks a term as a teaching period or a vacation.
type HolidayFlag string

const (
	HolidayFlagTeaching HolidayFlag = "TEACHING"
	HolidayFlagVacation HolidayFlag = "VACATION"
)

// Store codes for the holiday_flag column. Code 3 is a legacy value that
// carries the same meaning as teaching and is never written.
const (
	holidayCodeVacation = 1
	holidayCodeTeaching = 2
	holidayCodeLegacy   = 3
)

// HolidayFlagFromCode maps a stored code onto the two-valued flag.
func HolidayFlagFromCode(code int64, valid bool) HolidayFlag {
	if valid && code == holidayCodeVacation {
		return HolidayFlagVacation
	}
	return HolidayFlagTeaching
}

// Code returns the stored representation of the flag.
func (f HolidayFlag) Code() int {
	if f == HolidayFlagVacation {
		return holidayCodeVacation
	}
	return holidayCodeTeaching
}

// ParseHolidayFlag accepts TEACHING / VACATION in any case as well as the
// numeric store codes.
func ParseHolidayFlag(raw string) (HolidayFlag, bool) {
	value := strings.TrimSpace(raw)
	switch strings.ToUpper(value) {
	case string(HolidayFlagTeaching):
		return HolidayFlagTeaching, true
	case string(HolidayFlagVacation):
		return HolidayFlagVacation, true
	}
	code, err := strconv.Atoi(value)
	if err != nil {
		return "", false
	}
	switch code {
	case holidayCodeVacation:
		return HolidayFlagVacation, true
	case holidayCodeTeaching, holidayCodeLegacy:
		return HolidayFlagTeaching, true
	}
	return "", false
}

// HolidayFlagInput is a holiday flag as sent by clients: a JSON string or a
// bare numeric store code.
type HolidayFlagInput string

// UnmarshalJSON keeps numbers in their literal decimal form.
func (in *HolidayFlagInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*in = HolidayFlagInput(text)
		return nil
	}
	var code json.Number
	if err := json.Unmarshal(data, &code); err != nil {
		return errors.New("holiday_flag must be a string or a number")
	}
	*in = HolidayFlagInput(code.String())
	return nil
}

// Term is a named period (semester, long break) within a calendar.
type Term struct {
	ID          string      `json:"id"`
	CalendarID  string      `json:"calendar_id"`
	Name        string      `json:"name"`
	ShortName   *string     `json:"short_name,omitempty"`
	Order       *float64    `json:"order,omitempty"`
	ClassCount  *float64    `json:"class_count,omitempty"`
	HolidayFlag HolidayFlag `json:"holiday_flag"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NormalizeTermName trims surrounding whitespace, including ideographic spaces.
func NormalizeTermName(raw string) string {
	return strings.TrimSpace(raw)
}

// TermPreset describes a canonical term to be seeded into a calendar.
type TermPreset struct {
	Name        string            `json:"name" validate:"required"`
	ShortName   *string           `json:"short_name"`
	HolidayFlag *HolidayFlagInput `json:"holiday_flag"`
}

// PresetResult reports how many presets were inserted and how many changed
// an existing term.
type PresetResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}
