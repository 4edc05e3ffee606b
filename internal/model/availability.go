package model

import (
	"github.com/google/uuid"
)

// DoctorAvailability is the per-doctor-per-day capacity row. It is the only
// meaningfully shared mutable resource in the system: bookings, counter
// corrections, stop toggles and total edits all hit it, and every write goes
// through an atomic conditional UPDATE.
type DoctorAvailability struct {
	ID                uuid.UUID `db:"id" json:"id"`
	DoctorID          uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date              string    `db:"date" json:"date"`
	TotalTokenCount   int       `db:"total_token_count" json:"total_token_count"`
	FilledTokenCount  int       `db:"filled_token_count" json:"filled_token_count"`
	ConsultationsDone int       `db:"consultations_done" json:"consultations_done"`
	IsStopped         bool      `db:"is_stopped" json:"is_stopped"`
}

// AvailableTokens is derived, never stored.
func (a *DoctorAvailability) AvailableTokens() int {
	return a.TotalTokenCount - a.FilledTokenCount
}

type availabilityJSON struct {
	ID                uuid.UUID `json:"id"`
	DoctorID          uuid.UUID `json:"doctor_id"`
	Date              string    `json:"date"`
	TotalTokenCount   int       `json:"total_token_count"`
	FilledTokenCount  int       `json:"filled_token_count"`
	ConsultationsDone int       `json:"consultations_done"`
	IsStopped         bool      `json:"is_stopped"`
	AvailableTokens   int       `json:"available_tokens"`
}

// View returns the wire shape with the derived available_tokens field.
func (a *DoctorAvailability) View() interface{} {
	if a == nil {
		return nil
	}
	return availabilityJSON{
		ID:                a.ID,
		DoctorID:          a.DoctorID,
		Date:              a.Date,
		TotalTokenCount:   a.TotalTokenCount,
		FilledTokenCount:  a.FilledTokenCount,
		ConsultationsDone: a.ConsultationsDone,
		IsStopped:         a.IsStopped,
		AvailableTokens:   a.AvailableTokens(),
	}
}

type UpsertAvailabilityRequest struct {
	DoctorID          uuid.UUID `json:"doctor_id" binding:"required"`
	Date              string    `json:"date" binding:"required,civildate"`
	TokenCount        int       `json:"token_count" binding:"gte=0"`
	IsStopped         *bool     `json:"is_stopped"`
	FilledTokenCount  *int      `json:"filled_token_count" binding:"omitempty,gte=0"`
	ConsultationsDone *int      `json:"consultations_done" binding:"omitempty,gte=0"`
}

// AdjustCountersRequest applies relative deltas to the counters. The UI's
// one-tap increments call this instead of writing absolute values computed
// from a stale read.
type AdjustCountersRequest struct {
	DoctorID           uuid.UUID `json:"doctor_id" binding:"required"`
	Date               string    `json:"date" binding:"required,civildate"`
	FilledDelta        int       `json:"filled_delta"`
	ConsultationsDelta int       `json:"consultations_delta"`
}

// DayAvailability pairs a calendar date with the availability row for that
// day, or nil when the doctor published nothing.
type DayAvailability struct {
	Date         string      `json:"date"`
	Availability interface{} `json:"availability"`
}
