package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Service struct {
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
}

func NewService(doctorRepo repository.DoctorRepository, userRepo repository.UserRepository, hospitalRepo repository.HospitalRepository) *Service {
	return &Service{doctorRepo: doctorRepo, userRepo: userRepo, hospitalRepo: hospitalRepo}
}

// UpsertInfo creates or replaces the doctor's profile extension and makes
// sure the account carries the doctor role.
func (s *Service) UpsertInfo(ctx context.Context, req *model.UpsertDoctorInfoRequest) (*model.DoctorInfo, error) {
	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}

	info := &model.DoctorInfo{
		UserID:          req.UserID,
		Qualifications:  req.Qualifications,
		ConsultationFee: req.ConsultationFee,
		DailyTokenCount: req.DailyTokenCount,
	}

	if err := s.doctorRepo.UpsertInfo(ctx, info); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.userRepo.AssignRole(ctx, req.UserID, model.RoleDoctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	return info, nil
}

func (s *Service) GetInfo(ctx context.Context, userID uuid.UUID) (*model.DoctorInfo, error) {
	info, err := s.doctorRepo.GetInfoByUserID(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return info, nil
}

func (s *Service) ListUnassigned(ctx context.Context) ([]model.DoctorSummary, error) {
	doctors, err := s.doctorRepo.ListUnassigned(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

// Responders lists the secretaries who may act for the doctor.
func (s *Service) Responders(ctx context.Context, doctorID uuid.UUID) (*model.RespondersResponse, error) {
	doctor, err := s.userRepo.Get(ctx, doctorID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responders, err := s.doctorRepo.ListResponders(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.RespondersResponse{
		DoctorID:   doctorID,
		DoctorName: doctor.Name,
		Responders: responders,
		Count:      len(responders),
	}, nil
}

// MyDoctors lists every doctor the caller may act for: themselves if they
// are a doctor, their assigned doctors if a secretary, and all doctors of
// the hospitals they administer.
func (s *Service) MyDoctors(ctx context.Context, userID uuid.UUID, roles []model.Role) ([]model.DoctorSummary, error) {
	var doctors []model.DoctorSummary
	seen := make(map[uuid.UUID]bool)

	add := func(batch []model.DoctorSummary) {
		for _, d := range batch {
			if !seen[d.ID] {
				seen[d.ID] = true
				doctors = append(doctors, d)
			}
		}
	}

	if model.HasRole(roles, model.RoleDoctor) {
		self, err := s.selfSummary(ctx, userID)
		if err != nil {
			return nil, err
		}
		if self != nil {
			add([]model.DoctorSummary{*self})
		}
	}

	if model.HasRole(roles, model.RoleSecretary) {
		assigned, err := s.doctorRepo.ListForSecretary(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		add(assigned)
	}

	if model.HasRole(roles, model.RoleHospitalAdmin) {
		employments, err := s.hospitalRepo.ListEmploymentsForUser(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		for _, e := range employments {
			if e.Designation != model.DesignationHospitalAdmin {
				continue
			}
			hospitalDoctors, err := s.hospitalRepo.ListDoctors(ctx, e.HospitalID)
			if err != nil {
				return nil, apperrors.Internal(err)
			}
			add(hospitalDoctors)
		}
	}

	return doctors, nil
}

// selfSummary builds the caller's own listing entry, or nil when they have
// no doctor profile yet.
func (s *Service) selfSummary(ctx context.Context, userID uuid.UUID) (*model.DoctorSummary, error) {
	info, err := s.doctorRepo.GetInfoByUserID(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.DoctorSummary{
		ID:              userID,
		Name:            user.Name,
		ProfilePicURL:   user.ProfilePicURL,
		Qualifications:  info.Qualifications,
		ConsultationFee: info.ConsultationFee,
		DailyTokenCount: info.DailyTokenCount,
	}, nil
}

func (s *Service) AssignSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error {
	if err := s.doctorRepo.AssignSecretary(ctx, doctorID, secretaryID); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.userRepo.AssignRole(ctx, secretaryID, model.RoleSecretary); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) RemoveSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error {
	err := s.doctorRepo.RemoveSecretary(ctx, doctorID, secretaryID)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("responder", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
