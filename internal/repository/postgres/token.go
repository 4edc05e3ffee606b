package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
)

const tokenColumns = `
	id, doctor_id, user_id, to_char(token_date, 'YYYY-MM-DD') AS token_date,
	queue_num, description, created_at`

func (r *tokenRepository) Get(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM token_info
		WHERE id = $1
	`
	var token model.Token
	err := r.db.GetContext(ctx, &token, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

func (r *tokenRepository) ListForUser(ctx context.Context, userID uuid.UUID, fromDate string, upcoming bool) ([]*model.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM token_info
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	if upcoming {
		query += ` AND token_date >= $2`
		args = append(args, fromDate)
	}
	query += ` ORDER BY token_date ASC, queue_num ASC`

	var tokens []*model.Token
	if err := r.db.SelectContext(ctx, &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tokens for user: %w", err)
	}
	return tokens, nil
}

func (r *tokenRepository) ListForDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM token_info
		WHERE doctor_id = $1 AND token_date = $2
		ORDER BY queue_num ASC
	`
	var tokens []*model.Token
	if err := r.db.SelectContext(ctx, &tokens, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list tokens for doctor: %w", err)
	}
	return tokens, nil
}
