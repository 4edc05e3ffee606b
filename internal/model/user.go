package model

import (
	"github.com/google/uuid"
)

// User is a profile row. Roles are attached via user_roles and loaded
// alongside the row where callers need them.
type User struct {
	Base
	Name          string  `db:"name" json:"name"`
	Email         string  `db:"email" json:"email"`
	Mobile        string  `db:"mobile" json:"mobile"`
	PasswordHash  string  `db:"password_hash" json:"-"`
	JoinDate      string  `db:"join_date" json:"join_date"`
	Address       *string `db:"address" json:"address,omitempty"`
	ProfilePicURL *string `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
	Roles         []Role  `db:"-" json:"roles,omitempty"`
}

type SignupRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email"`
	Mobile   string  `json:"mobile" binding:"required,max=20"`
	Password string  `json:"password" binding:"required,min=8"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

type UpdateUserRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=255"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	ProfilePicURL *string `json:"profile_pic_url" binding:"omitempty,max=255"`
}

// BusinessUserRequest creates a staff-side account with explicit roles.
type BusinessUserRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email"`
	Mobile   string  `json:"mobile" binding:"required,max=20"`
	Password string  `json:"password" binding:"required,min=8"`
	Roles    []Role  `json:"roles" binding:"required,min=1,dive,oneof=admin doctor secretary patient staff hospital_admin"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

// Responsibilities summarizes what a user may act on: their roles, the
// hospitals they administer and the doctors they respond for.
type Responsibilities struct {
	UserID       uuid.UUID          `json:"user_id"`
	Roles        []Role             `json:"roles"`
	Capabilities Capabilities       `json:"capabilities"`
	Hospitals    []HospitalEmployee `json:"hospitals,omitempty"`
	DoctorIDs    []uuid.UUID        `json:"doctor_ids,omitempty"`
}
