package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is a booked queue slot, distinct from an authentication token.
// (doctor_id, token_date, queue_num) is unique.
type Token struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	TokenDate   string    `db:"token_date" json:"token_date"`
	QueueNum    int       `db:"queue_num" json:"queue_num"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type BookTokenRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	TokenDate   string    `json:"token_date" binding:"required,civildate"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
}

type BookTokenResponse struct {
	Token           *Token `json:"token"`
	RemainingTokens int    `json:"remaining_tokens"`
}
