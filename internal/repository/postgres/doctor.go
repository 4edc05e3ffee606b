package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
)

const doctorSummaryColumns = `
	u.id, u.name, u.profile_pic_url,
	di.qualifications, di.consultation_fee, di.daily_token_count`

func (r *doctorRepository) UpsertInfo(ctx context.Context, info *model.DoctorInfo) error {
	query := `
		INSERT INTO doctor_info (id, user_id, qualifications, consultation_fee, daily_token_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET qualifications = EXCLUDED.qualifications,
		    consultation_fee = EXCLUDED.consultation_fee,
		    daily_token_count = EXCLUDED.daily_token_count,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	now := time.Now()
	info.UpdatedAt = now
	err := r.db.QueryRowxContext(ctx, query,
		uuid.New(),
		info.UserID,
		info.Qualifications,
		info.ConsultationFee,
		info.DailyTokenCount,
		now,
		now,
	).Scan(&info.ID, &info.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert doctor info: %w", err)
	}
	return nil
}

func (r *doctorRepository) GetInfoByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorInfo, error) {
	query := `
		SELECT id, user_id, qualifications, consultation_fee, daily_token_count, created_at, updated_at
		FROM doctor_info
		WHERE user_id = $1
	`
	var info model.DoctorInfo
	err := r.db.GetContext(ctx, &info, query, userID)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor info: %w", err)
	}
	return &info, nil
}

// ListUnassigned returns doctors employed by no hospital.
func (r *doctorRepository) ListUnassigned(ctx context.Context) ([]model.DoctorSummary, error) {
	query := `
		SELECT ` + doctorSummaryColumns + `
		FROM doctor_info di
		JOIN users u ON u.id = di.user_id
		WHERE di.user_id NOT IN (
			SELECT user_id FROM hospital_employee WHERE designation = $1
		)
		ORDER BY u.name
	`
	var doctors []model.DoctorSummary
	err := r.db.SelectContext(ctx, &doctors, query, model.DesignationDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListResponders(ctx context.Context, doctorID uuid.UUID) ([]model.Responder, error) {
	query := `
		SELECT u.id, u.name, u.email, u.mobile, u.profile_pic_url
		FROM doctor_secretary ds
		JOIN users u ON u.id = ds.secretary_id
		WHERE ds.doctor_id = $1
		ORDER BY u.name
	`
	var responders []model.Responder
	if err := r.db.SelectContext(ctx, &responders, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	return responders, nil
}

func (r *doctorRepository) ListForSecretary(ctx context.Context, secretaryID uuid.UUID) ([]model.DoctorSummary, error) {
	query := `
		SELECT ` + doctorSummaryColumns + `
		FROM doctor_secretary ds
		JOIN users u ON u.id = ds.doctor_id
		JOIN doctor_info di ON di.user_id = u.id
		WHERE ds.secretary_id = $1
		ORDER BY u.name
	`
	var doctors []model.DoctorSummary
	if err := r.db.SelectContext(ctx, &doctors, query, secretaryID); err != nil {
		return nil, fmt.Errorf("failed to list doctors for secretary: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListDoctorIDsForSecretary(ctx context.Context, secretaryID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT doctor_id
		FROM doctor_secretary
		WHERE secretary_id = $1
	`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, secretaryID); err != nil {
		return nil, fmt.Errorf("failed to list doctor ids for secretary: %w", err)
	}
	return ids, nil
}

func (r *doctorRepository) AssignSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error {
	query := `
		INSERT INTO doctor_secretary (doctor_id, secretary_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, secretaryID); err != nil {
		return fmt.Errorf("failed to assign secretary: %w", err)
	}
	return nil
}

func (r *doctorRepository) RemoveSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM doctor_secretary WHERE doctor_id = $1 AND secretary_id = $2`,
		doctorID, secretaryID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove secretary: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListFeatured orders by consultation fee descending, the same ranking the
// public dashboard has always shown.
func (r *doctorRepository) ListFeatured(ctx context.Context, limit int) ([]model.DoctorSummary, error) {
	query := `
		SELECT ` + doctorSummaryColumns + `
		FROM doctor_info di
		JOIN users u ON u.id = di.user_id
		ORDER BY di.consultation_fee DESC, u.name
		LIMIT $1
	`
	var doctors []model.DoctorSummary
	if err := r.db.SelectContext(ctx, &doctors, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list featured doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListSpecializations(ctx context.Context, doctorID uuid.UUID) ([]model.Specialization, error) {
	query := `
		SELECT s.id, s.name, s.description, s.created_at, s.updated_at
		FROM doctor_specialization dsp
		JOIN specializations s ON s.id = dsp.specialization_id
		WHERE dsp.doctor_id = $1
		ORDER BY s.name
	`
	var specializations []model.Specialization
	if err := r.db.SelectContext(ctx, &specializations, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor specializations: %w", err)
	}
	return specializations, nil
}

func (r *doctorRepository) GetEmployment(ctx context.Context, doctorID uuid.UUID) (*model.DoctorEmployment, error) {
	query := `
		SELECT h.id, h.name, h.address, he.designation
		FROM hospital_employee he
		JOIN hospitals h ON h.id = he.hospital_id
		WHERE he.user_id = $1 AND he.designation = $2
		LIMIT 1
	`
	var employment model.DoctorEmployment
	err := r.db.GetContext(ctx, &employment, query, doctorID, model.DesignationDoctor)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor employment: %w", err)
	}
	return &employment, nil
}
