package models

import "time"

// Calendar is one academic-year schedule. It owns terms and classified days.
type Calendar struct {
	ID                     string    `db:"id" json:"id"`
	FiscalYear             int       `db:"fiscal_year" json:"fiscal_year"`
	Name                   string    `db:"name" json:"name"`
	DisableSaturdayClasses bool      `db:"disable_saturday_classes" json:"disable_saturday_classes"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
