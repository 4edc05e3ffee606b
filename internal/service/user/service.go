package user

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Service struct {
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
	doctorRepo   repository.DoctorRepository
}

func NewService(userRepo repository.UserRepository, hospitalRepo repository.HospitalRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{userRepo: userRepo, hospitalRepo: hospitalRepo, doctorRepo: doctorRepo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.ProfilePicURL != nil {
		user.ProfilePicURL = req.ProfilePicURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// CreateBusinessUser registers a staff-side account with an explicit role
// set. Only admins reach this path.
func (s *Service) CreateBusinessUser(ctx context.Context, req *model.BusinessUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(hash),
		Address:      req.Address,
	}

	if err := s.userRepo.Create(ctx, user, req.Roles); err != nil {
		if err == repository.ErrDuplicateUser {
			return nil, apperrors.Conflict("email or mobile already registered", err)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) ListBusinessUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.ListBusinessUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *Service) ListPotentialHospitalAdmins(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.ListPotentialHospitalAdmins(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

// GetResponsibilities resolves what the user may act on: capabilities from
// their role set, the hospitals they are employed by, and the doctors a
// secretary responds for.
func (s *Service) GetResponsibilities(ctx context.Context, userID uuid.UUID) (*model.Responsibilities, error) {
	roles, err := s.userRepo.GetRoles(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	resp := &model.Responsibilities{
		UserID:       userID,
		Roles:        roles,
		Capabilities: model.ResolveCapabilities(roles),
	}

	if model.HasRole(roles, model.RoleHospitalAdmin) || model.HasRole(roles, model.RoleDoctor) {
		employments, err := s.hospitalRepo.ListEmploymentsForUser(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		resp.Hospitals = employments
	}

	if model.HasRole(roles, model.RoleSecretary) {
		doctorIDs, err := s.doctorRepo.ListDoctorIDsForSecretary(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		resp.DoctorIDs = doctorIDs
	}

	return resp, nil
}
