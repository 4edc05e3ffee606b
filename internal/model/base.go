package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CivilDateLayout is the wire and storage format for calendar dates.
// Dates carry no timezone; "today" is server-local, matching how the
// availability rows are keyed.
const CivilDateLayout = "2006-01-02"

// Today returns the current server-local calendar date.
func Today() string {
	return time.Now().Format(CivilDateLayout)
}

// NextDays returns n calendar dates starting from today.
func NextDays(n int) []string {
	now := time.Now()
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, now.AddDate(0, 0, i).Format(CivilDateLayout))
	}
	return days
}

// ValidCivilDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidCivilDate(s string) bool {
	_, err := time.Parse(CivilDateLayout, s)
	return err == nil
}
