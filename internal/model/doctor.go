package model

import (
	"github.com/google/uuid"
)

// DoctorInfo is the one-per-doctor profile extension. Doctors are addressed
// by their user ID everywhere; doctor_info.user_id is unique.
type DoctorInfo struct {
	Base
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Qualifications  *string   `db:"qualifications" json:"qualifications,omitempty"`
	ConsultationFee int       `db:"consultation_fee" json:"consultation_fee"`
	DailyTokenCount int       `db:"daily_token_count" json:"daily_token_count"`
}

type UpsertDoctorInfoRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	Qualifications  *string   `json:"qualifications" binding:"omitempty,max=1000"`
	ConsultationFee int       `json:"consultation_fee" binding:"gte=0"`
	DailyTokenCount int       `json:"daily_token_count" binding:"gte=0"`
}

type DoctorSecretary struct {
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	SecretaryID uuid.UUID `db:"secretary_id" json:"secretary_id"`
}

// DoctorSummary is the thin doctor listing used by unassigned-doctors and
// my-doctors reads.
type DoctorSummary struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	ProfilePicURL   *string   `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
	Qualifications  *string   `db:"qualifications" json:"qualifications,omitempty"`
	ConsultationFee int       `db:"consultation_fee" json:"consultation_fee"`
	DailyTokenCount int       `db:"daily_token_count" json:"daily_token_count"`
}

// Responder is a secretary who may act on a doctor's behalf.
type Responder struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Mobile        string    `db:"mobile" json:"mobile"`
	ProfilePicURL *string   `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
}

type RespondersResponse struct {
	DoctorID   uuid.UUID   `json:"doctor_id"`
	DoctorName string      `json:"doctor_name"`
	Responders []Responder `json:"responders"`
	Count      int         `json:"count"`
}

// FeaturedDoctor annotates a doctor with specializations and hospital
// employment for the public dashboard.
type FeaturedDoctor struct {
	DoctorSummary
	Specializations []Specialization  `json:"specializations"`
	Hospital        *DoctorEmployment `json:"hospital"`
}

type DoctorEmployment struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Address     string      `db:"address" json:"address"`
	Designation Designation `db:"designation" json:"designation"`
}
