package specialization

import (
	"context"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Service struct {
	repo repository.SpecializationRepository
}

func NewService(repo repository.SpecializationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateSpecializationRequest) (*model.Specialization, error) {
	sp := &model.Specialization{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, apperrors.Internal(err)
	}
	return sp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error) {
	sp, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return sp, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Specialization, error) {
	specializations, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return specializations, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSpecializationRequest) (*model.Specialization, error) {
	sp := &model.Specialization{
		Name:        req.Name,
		Description: req.Description,
	}
	sp.ID = id

	err := s.repo.Update(ctx, sp)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return sp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) AttachToDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error {
	if err := s.repo.AttachToDoctor(ctx, doctorID, specializationID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DetachFromDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error {
	err := s.repo.DetachFromDoctor(ctx, doctorID, specializationID)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) AttachToHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	if err := s.repo.AttachToHospital(ctx, hospitalID, specializationID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DetachFromHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	err := s.repo.DetachFromHospital(ctx, hospitalID, specializationID)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("specialization", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListForHospital(ctx context.Context, hospitalID uuid.UUID) ([]model.Specialization, error) {
	specializations, err := s.repo.ListForHospital(ctx, hospitalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return specializations, nil
}
