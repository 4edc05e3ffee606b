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

func (r *specializationRepository) Create(ctx context.Context, sp *model.Specialization) error {
	query := `
		INSERT INTO specializations (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	sp.ID = uuid.New()
	sp.CreatedAt = time.Now()
	sp.UpdatedAt = sp.CreatedAt

	_, err := r.db.ExecContext(ctx, query, sp.ID, sp.Name, sp.Description, sp.CreatedAt, sp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create specialization: %w", err)
	}
	return nil
}

func (r *specializationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM specializations
		WHERE id = $1
	`
	var sp model.Specialization
	err := r.db.GetContext(ctx, &sp, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialization: %w", err)
	}
	return &sp, nil
}

func (r *specializationRepository) List(ctx context.Context) ([]*model.Specialization, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM specializations
		ORDER BY name
	`
	var specializations []*model.Specialization
	if err := r.db.SelectContext(ctx, &specializations, query); err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	return specializations, nil
}

func (r *specializationRepository) Update(ctx context.Context, sp *model.Specialization) error {
	query := `
		UPDATE specializations
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`
	sp.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, sp.ID, sp.Name, sp.Description, sp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update specialization: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *specializationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM specializations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete specialization: %w", err)
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

func (r *specializationRepository) AttachToDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error {
	query := `
		INSERT INTO doctor_specialization (doctor_id, specialization_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, specializationID); err != nil {
		return fmt.Errorf("failed to attach specialization to doctor: %w", err)
	}
	return nil
}

func (r *specializationRepository) DetachFromDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM doctor_specialization WHERE doctor_id = $1 AND specialization_id = $2`,
		doctorID, specializationID,
	)
	if err != nil {
		return fmt.Errorf("failed to detach specialization from doctor: %w", err)
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

func (r *specializationRepository) AttachToHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	query := `
		INSERT INTO hospital_specialization (hospital_id, specialization_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, hospitalID, specializationID); err != nil {
		return fmt.Errorf("failed to attach specialization to hospital: %w", err)
	}
	return nil
}

func (r *specializationRepository) DetachFromHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM hospital_specialization WHERE hospital_id = $1 AND specialization_id = $2`,
		hospitalID, specializationID,
	)
	if err != nil {
		return fmt.Errorf("failed to detach specialization from hospital: %w", err)
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

func (r *specializationRepository) ListForHospital(ctx context.Context, hospitalID uuid.UUID) ([]model.Specialization, error) {
	query := `
		SELECT s.id, s.name, s.description, s.created_at, s.updated_at
		FROM hospital_specialization hs
		JOIN specializations s ON s.id = hs.specialization_id
		WHERE hs.hospital_id = $1
		ORDER BY s.name
	`
	var specializations []model.Specialization
	if err := r.db.SelectContext(ctx, &specializations, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list hospital specializations: %w", err)
	}
	return specializations, nil
}
