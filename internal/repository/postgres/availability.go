package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
)

// availabilityColumns is the canonical column list; date is rendered as a
// plain YYYY-MM-DD string.
const availabilityColumns = `
	id, doctor_id, to_char(date, 'YYYY-MM-DD') AS date,
	total_token_count, filled_token_count, consultations_done, is_stopped`

const uniqueViolation = "23505"

func (r *availabilityRepository) Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.DoctorAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM doctor_availability
		WHERE doctor_id = $1 AND date = $2
	`
	var avail model.DoctorAvailability
	err := r.db.GetContext(ctx, &avail, query, doctorID, date)
	if err == sql.ErrNoRows {
		return nil, repository.ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &avail, nil
}

func (r *availabilityRepository) GetDays(ctx context.Context, doctorID uuid.UUID, dates []string) (map[string]*model.DoctorAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM doctor_availability
		WHERE doctor_id = $1 AND date = ANY($2)
	`
	var rows []*model.DoctorAvailability
	if err := r.db.SelectContext(ctx, &rows, query, doctorID, pq.Array(dates)); err != nil {
		return nil, fmt.Errorf("failed to get availability days: %w", err)
	}

	byDate := make(map[string]*model.DoctorAvailability, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}
	return byDate, nil
}

func (r *availabilityRepository) GetForDoctorsOnDate(ctx context.Context, doctorIDs []uuid.UUID, date string) (map[uuid.UUID]*model.DoctorAvailability, error) {
	if len(doctorIDs) == 0 {
		return map[uuid.UUID]*model.DoctorAvailability{}, nil
	}

	ids := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ` + availabilityColumns + `
		FROM doctor_availability
		WHERE doctor_id = ANY($1::uuid[]) AND date = $2
	`
	var rows []*model.DoctorAvailability
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids), date); err != nil {
		return nil, fmt.Errorf("failed to get availability for doctors: %w", err)
	}

	byDoctor := make(map[uuid.UUID]*model.DoctorAvailability, len(rows))
	for _, row := range rows {
		byDoctor[row.DoctorID] = row
	}
	return byDoctor, nil
}

// BookToken claims the next queue number with a single conditional UPDATE,
// so the database is the only serialization point. The returned filled
// count is the booking's queue number; two concurrent calls can never
// observe the same value.
func (r *availabilityRepository) BookToken(ctx context.Context, token *model.Token, event *model.OutboxEvent) (*model.DoctorAvailability, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reserve := `
		UPDATE doctor_availability
		SET filled_token_count = filled_token_count + 1
		WHERE doctor_id = $1 AND date = $2
		  AND NOT is_stopped
		  AND filled_token_count < total_token_count
		RETURNING ` + availabilityColumns + `
	`
	var avail model.DoctorAvailability
	err = tx.GetContext(ctx, &avail, reserve, token.DoctorID, token.TokenDate)
	if err == sql.ErrNoRows {
		return nil, r.classifyReserveMiss(ctx, token.DoctorID, token.TokenDate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve token: %w", err)
	}

	token.ID = uuid.New()
	token.QueueNum = avail.FilledTokenCount
	token.CreatedAt = time.Now()

	insert := `
		INSERT INTO token_info (id, doctor_id, user_id, token_date, queue_num, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, insert,
		token.ID,
		token.DoctorID,
		token.UserID,
		token.TokenDate,
		token.QueueNum,
		token.Description,
		token.CreatedAt,
	)
	if err != nil {
		// Backstop only: the conditional UPDATE above already hands out
		// distinct queue numbers.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicateQueueNum
		}
		return nil, fmt.Errorf("failed to insert token: %w", err)
	}

	if event != nil {
		if err := createOutboxEventTx(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}
	return &avail, nil
}

// classifyReserveMiss decides why the conditional UPDATE matched nothing.
// The read happens after the miss, so a lost race reports the same way as
// an always-full day: no tokens left.
func (r *availabilityRepository) classifyReserveMiss(ctx context.Context, doctorID uuid.UUID, date string) error {
	avail, err := r.Get(ctx, doctorID, date)
	if err != nil {
		return err
	}
	if avail.IsStopped {
		return repository.ErrBookingStopped
	}
	return repository.ErrNoTokensLeft
}

func (r *availabilityRepository) Upsert(ctx context.Context, upsert *repository.AvailabilityUpsert, event *model.OutboxEvent) (*model.DoctorAvailability, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert-first avoids an exists-check race on fresh (doctor, date) rows.
	insert := `
		INSERT INTO doctor_availability (id, doctor_id, date, total_token_count, filled_token_count, consultations_done, is_stopped)
		VALUES ($1, $2, $3, $4, COALESCE($5, 0), COALESCE($6, 0), COALESCE($7, FALSE))
		ON CONFLICT (doctor_id, date) DO NOTHING
		RETURNING ` + availabilityColumns + `
	`
	var avail model.DoctorAvailability
	err = tx.GetContext(ctx, &avail, insert,
		uuid.New(),
		upsert.DoctorID,
		upsert.Date,
		upsert.TotalTokenCount,
		upsert.FilledTokenCount,
		upsert.ConsultationsDone,
		upsert.IsStopped,
	)
	if err == sql.ErrNoRows {
		// Row exists: apply the update, refusing to drop the total below
		// the filled count in the same statement that changes it.
		update := `
			UPDATE doctor_availability
			SET total_token_count = $3,
			    is_stopped = COALESCE($4, is_stopped),
			    filled_token_count = COALESCE($5, filled_token_count),
			    consultations_done = COALESCE($6, consultations_done)
			WHERE doctor_id = $1 AND date = $2
			  AND COALESCE($5, filled_token_count) <= $3
			RETURNING ` + availabilityColumns + `
		`
		err = tx.GetContext(ctx, &avail, update,
			upsert.DoctorID,
			upsert.Date,
			upsert.TotalTokenCount,
			upsert.IsStopped,
			upsert.FilledTokenCount,
			upsert.ConsultationsDone,
		)
		if err == sql.ErrNoRows {
			return nil, repository.ErrTokenBelowFilled
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert availability: %w", err)
	}

	if event != nil {
		if err := createOutboxEventTx(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit availability upsert: %w", err)
	}
	return &avail, nil
}

func (r *availabilityRepository) AdjustCounters(ctx context.Context, doctorID uuid.UUID, date string, filledDelta, consultationsDelta int) (*model.DoctorAvailability, error) {
	query := `
		UPDATE doctor_availability
		SET filled_token_count = LEAST(GREATEST(filled_token_count + $3, 0), total_token_count),
		    consultations_done = GREATEST(consultations_done + $4, 0)
		WHERE doctor_id = $1 AND date = $2
		RETURNING ` + availabilityColumns + `
	`
	var avail model.DoctorAvailability
	err := r.db.GetContext(ctx, &avail, query, doctorID, date, filledDelta, consultationsDelta)
	if err == sql.ErrNoRows {
		return nil, repository.ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust counters: %w", err)
	}
	return &avail, nil
}
