package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
)

const hospitalColumns = `
	id, name, address, description, image_urls, created_at, updated_at`

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital, adminID *uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO hospitals (id, name, address, description, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	hospital.ID = uuid.New()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	_, err = tx.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.Description,
		hospital.ImageURLs,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}

	if adminID != nil {
		if err := setHospitalAdminTx(ctx, tx, hospital.ID, *adminID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hospital creation: %w", err)
	}
	return nil
}

// setHospitalAdminTx replaces the hospital's admin employment row. A
// hospital has at most one hospital_admin employee.
func setHospitalAdminTx(ctx context.Context, tx *sqlx.Tx, hospitalID, adminID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM hospital_employee WHERE hospital_id = $1 AND designation = $2`,
		hospitalID, model.DesignationHospitalAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to clear hospital admin: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO hospital_employee (hospital_id, user_id, designation) VALUES ($1, $2, $3)`,
		hospitalID, adminID, model.DesignationHospitalAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to set hospital admin: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `
		SELECT ` + hospitalColumns + `
		FROM hospitals
		WHERE id = $1
	`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `
		SELECT ` + hospitalColumns + `
		FROM hospitals
		ORDER BY name
	`
	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital, adminID *uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE hospitals
		SET name = $2, address = $3, description = $4, image_urls = $5, updated_at = $6
		WHERE id = $1
	`
	hospital.UpdatedAt = time.Now()
	result, err := tx.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.Description,
		hospital.ImageURLs,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if adminID != nil {
		if err := setHospitalAdminTx(ctx, tx, hospital.ID, *adminID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hospital update: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hospital: %w", err)
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

func (r *hospitalRepository) ListEmployees(ctx context.Context, hospitalID uuid.UUID) ([]model.HospitalEmployee, error) {
	query := `
		SELECT hospital_id, user_id, designation
		FROM hospital_employee
		WHERE hospital_id = $1
	`
	var employees []model.HospitalEmployee
	if err := r.db.SelectContext(ctx, &employees, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list hospital employees: %w", err)
	}
	return employees, nil
}

func (r *hospitalRepository) ListEmploymentsForUser(ctx context.Context, userID uuid.UUID) ([]model.HospitalEmployee, error) {
	query := `
		SELECT hospital_id, user_id, designation
		FROM hospital_employee
		WHERE user_id = $1
	`
	var employments []model.HospitalEmployee
	if err := r.db.SelectContext(ctx, &employments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list employments: %w", err)
	}
	return employments, nil
}

func (r *hospitalRepository) ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]model.DoctorSummary, error) {
	query := `
		SELECT u.id, u.name, u.profile_pic_url,
		       di.qualifications, di.consultation_fee, di.daily_token_count
		FROM hospital_employee he
		JOIN users u ON u.id = he.user_id
		JOIN doctor_info di ON di.user_id = u.id
		WHERE he.hospital_id = $1 AND he.designation = $2
		ORDER BY u.name
	`
	var doctors []model.DoctorSummary
	err := r.db.SelectContext(ctx, &doctors, query, hospitalID, model.DesignationDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospital doctors: %w", err)
	}
	return doctors, nil
}

func (r *hospitalRepository) ListFeatured(ctx context.Context, limit int) ([]model.FeaturedHospital, error) {
	query := `
		SELECT h.id, h.name, h.address, h.description,
		       COUNT(he.user_id) AS employee_count
		FROM hospitals h
		LEFT JOIN hospital_employee he ON he.hospital_id = h.id
		GROUP BY h.id, h.name, h.address, h.description
		ORDER BY employee_count DESC, h.name
		LIMIT $1
	`
	var hospitals []model.FeaturedHospital
	if err := r.db.SelectContext(ctx, &hospitals, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list featured hospitals: %w", err)
	}
	return hospitals, nil
}
