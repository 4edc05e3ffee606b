package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

// The public dashboard is read-heavy and tolerates slightly stale data, so
// responses are cached briefly in process.
const (
	cacheTTL     = 30 * time.Second
	DefaultLimit = 5
	MaxLimit     = 50
)

type Service struct {
	doctorRepo   repository.DoctorRepository
	hospitalRepo repository.HospitalRepository
	cache        *cache.Cache
}

func NewService(doctorRepo repository.DoctorRepository, hospitalRepo repository.HospitalRepository) *Service {
	return &Service{
		doctorRepo:   doctorRepo,
		hospitalRepo: hospitalRepo,
		cache:        cache.New(cacheTTL, 2*cacheTTL),
	}
}

// FeaturedDoctors returns the highest-fee doctors with their specializations
// and hospital employment attached.
func (s *Service) FeaturedDoctors(ctx context.Context, limit int) ([]model.FeaturedDoctor, error) {
	limit = clampLimit(limit)

	key := fmt.Sprintf("featured_doctors:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.FeaturedDoctor), nil
	}

	summaries, err := s.doctorRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	doctors := make([]model.FeaturedDoctor, 0, len(summaries))
	for _, summary := range summaries {
		specializations, err := s.doctorRepo.ListSpecializations(ctx, summary.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		employment, err := s.doctorRepo.GetEmployment(ctx, summary.ID)
		if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}

		doctors = append(doctors, model.FeaturedDoctor{
			DoctorSummary:   summary,
			Specializations: specializations,
			Hospital:        employment,
		})
	}

	s.cache.Set(key, doctors, cache.DefaultExpiration)
	return doctors, nil
}

// FeaturedHospitals returns hospitals ranked by employee count.
func (s *Service) FeaturedHospitals(ctx context.Context, limit int) ([]model.FeaturedHospital, error) {
	limit = clampLimit(limit)

	key := fmt.Sprintf("featured_hospitals:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.FeaturedHospital), nil
	}

	hospitals, err := s.hospitalRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Set(key, hospitals, cache.DefaultExpiration)
	return hospitals, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
