package model

import (
	"github.com/google/uuid"
)

// Hospital images are persisted as one comma-delimited string of object
// storage URLs; reads convert them to signed URLs before they leave the API.
type Hospital struct {
	Base
	Name        string   `db:"name" json:"name"`
	Address     string   `db:"address" json:"address"`
	Description *string  `db:"description" json:"description,omitempty"`
	ImageURLs   *string  `db:"image_urls" json:"-"`
	Images      []string `db:"-" json:"images,omitempty"`
}

type HospitalEmployee struct {
	HospitalID  uuid.UUID   `db:"hospital_id" json:"hospital_id"`
	UserID      uuid.UUID   `db:"user_id" json:"user_id"`
	Designation Designation `db:"designation" json:"designation"`
}

type CreateHospitalRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Address     string     `json:"address" binding:"required,max=500"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	ImageURLs   []string   `json:"image_urls" binding:"omitempty,dive,url"`
	AdminID     *uuid.UUID `json:"admin_id"`
}

type UpdateHospitalRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Address     string     `json:"address" binding:"required,max=500"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	ImageURLs   []string   `json:"image_urls" binding:"omitempty,dive,url"`
	AdminID     *uuid.UUID `json:"admin_id"`
}

// HospitalDashboardDoctor is one row of the hospital admin dashboard:
// the doctor joined with today's availability, or the doctor's defaults
// when no availability row exists yet.
type HospitalDashboardDoctor struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ProfilePicURL     *string   `json:"profile_pic_url,omitempty"`
	Qualifications    *string   `json:"qualifications,omitempty"`
	ConsultationFee   int       `json:"consultation_fee"`
	TokensIssuedToday int       `json:"tokens_issued_today"`
	TotalTokenCount   int       `json:"total_token_count"`
	ConsultationsDone int       `json:"consultations_done"`
	IsAvailable       bool      `json:"is_available"`
	AvailableTokens   int       `json:"available_tokens"`
}

type HospitalDashboard struct {
	Hospital               *Hospital                 `json:"hospital"`
	Doctors                []HospitalDashboardDoctor `json:"doctors"`
	CurrentDate            string                    `json:"current_date"`
	TotalDoctors           int                       `json:"total_doctors"`
	TotalAppointmentsToday int                       `json:"total_appointments_today"`
	TotalConsultationsDone int                       `json:"total_consultations_done"`
}

// FeaturedHospital is a hospital annotated with its employee count for the
// public dashboard.
type FeaturedHospital struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Address       string    `db:"address" json:"address"`
	Description   *string   `db:"description" json:"description,omitempty"`
	EmployeeCount int       `db:"employee_count" json:"employee_count"`
}
