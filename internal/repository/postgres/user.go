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

const userColumns = `
	id, name, email, mobile, password_hash, to_char(join_date, 'YYYY-MM-DD') AS join_date,
	address, profile_pic_url, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *model.User, roles []model.Role) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (id, name, email, mobile, password_hash, join_date, address, profile_pic_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.JoinDate == "" {
		user.JoinDate = model.Today()
	}

	_, err = tx.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Mobile,
		user.PasswordHash,
		user.JoinDate,
		user.Address,
		user.ProfilePicURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			user.ID, role,
		); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}
	user.Roles = roles

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles, err := r.GetRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	roles, err := r.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $2, address = $3, profile_pic_url = $4, updated_at = $5
		WHERE id = $1
	`
	user.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Address,
		user.ProfilePicURL,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
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

func (r *userRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role
	`
	var roles []model.Role
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT user_id FROM user_roles WHERE role = $1)
		ORDER BY name
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return r.attachRoles(ctx, users)
}

// ListBusinessUsers returns every account holding at least one staff-side
// role. Patients never appear here.
func (r *userRepository) ListBusinessUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT user_id FROM user_roles WHERE role <> $1)
		ORDER BY name
	`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, model.RolePatient); err != nil {
		return nil, fmt.Errorf("failed to list business users: %w", err)
	}
	return r.attachRoles(ctx, users)
}

// ListPotentialHospitalAdmins returns hospital_admin accounts not yet
// attached to a hospital.
func (r *userRepository) ListPotentialHospitalAdmins(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT user_id FROM user_roles WHERE role = $1)
		  AND id NOT IN (SELECT user_id FROM hospital_employee WHERE designation = $2)
		ORDER BY name
	`
	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, model.RoleHospitalAdmin, model.DesignationHospitalAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list potential hospital admins: %w", err)
	}
	return r.attachRoles(ctx, users)
}

func (r *userRepository) attachRoles(ctx context.Context, users []*model.User) ([]*model.User, error) {
	if len(users) == 0 {
		return users, nil
	}

	ids := make([]string, len(users))
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i, u := range users {
		ids[i] = u.ID.String()
		byID[u.ID] = u
	}

	query := `
		SELECT user_id, role
		FROM user_roles
		WHERE user_id = ANY($1::uuid[])
		ORDER BY role
	`
	var rows []struct {
		UserID uuid.UUID  `db:"user_id"`
		Role   model.Role `db:"role"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	for _, row := range rows {
		if u, ok := byID[row.UserID]; ok {
			u.Roles = append(u.Roles, row.Role)
		}
	}
	return users, nil
}
