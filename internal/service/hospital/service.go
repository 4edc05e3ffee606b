package hospital

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/internal/storage"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Service struct {
	hospitalRepo     repository.HospitalRepository
	doctorRepo       repository.DoctorRepository
	availabilityRepo repository.AvailabilityRepository
	signer           *storage.Signer
}

func NewService(
	hospitalRepo repository.HospitalRepository,
	doctorRepo repository.DoctorRepository,
	availabilityRepo repository.AvailabilityRepository,
	signer *storage.Signer,
) *Service {
	return &Service{
		hospitalRepo:     hospitalRepo,
		doctorRepo:       doctorRepo,
		availabilityRepo: availabilityRepo,
		signer:           signer,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateHospitalRequest) (*model.Hospital, error) {
	hospital := &model.Hospital{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURLs:   joinImageURLs(req.ImageURLs),
	}

	if err := s.hospitalRepo.Create(ctx, hospital, req.AdminID); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.attachImages(hospital)
	return hospital, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital, err := s.hospitalRepo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.attachImages(hospital)
	return hospital, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	hospitals, err := s.hospitalRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	for _, h := range hospitals {
		s.attachImages(h)
	}
	return hospitals, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	hospital := &model.Hospital{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		ImageURLs:   joinImageURLs(req.ImageURLs),
	}
	hospital.ID = id

	err := s.hospitalRepo.Update(ctx, hospital, req.AdminID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.attachImages(hospital)
	return hospital, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.hospitalRepo.Delete(ctx, id)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]model.DoctorSummary, error) {
	doctors, err := s.hospitalRepo.ListDoctors(ctx, hospitalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

// AdminDashboard assembles the hospital admin's live view for today: every
// employed doctor joined with today's availability. Doctors with no row yet
// show their profile defaults and read as unavailable.
func (s *Service) AdminDashboard(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalDashboard, error) {
	hospital, err := s.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	doctors, err := s.hospitalRepo.ListDoctors(ctx, hospitalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	today := model.Today()
	doctorIDs := make([]uuid.UUID, len(doctors))
	for i, d := range doctors {
		doctorIDs[i] = d.ID
	}

	availByDoctor, err := s.availabilityRepo.GetForDoctorsOnDate(ctx, doctorIDs, today)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	dashboard := &model.HospitalDashboard{
		Hospital:     hospital,
		Doctors:      make([]model.HospitalDashboardDoctor, 0, len(doctors)),
		CurrentDate:  today,
		TotalDoctors: len(doctors),
	}

	for _, d := range doctors {
		row := model.HospitalDashboardDoctor{
			ID:              d.ID,
			Name:            d.Name,
			ProfilePicURL:   d.ProfilePicURL,
			Qualifications:  d.Qualifications,
			ConsultationFee: d.ConsultationFee,
			TotalTokenCount: d.DailyTokenCount,
			AvailableTokens: d.DailyTokenCount,
		}
		if avail, ok := availByDoctor[d.ID]; ok {
			row.TokensIssuedToday = avail.FilledTokenCount
			row.TotalTokenCount = avail.TotalTokenCount
			row.ConsultationsDone = avail.ConsultationsDone
			row.IsAvailable = !avail.IsStopped
			row.AvailableTokens = avail.AvailableTokens()

			dashboard.TotalAppointmentsToday += avail.FilledTokenCount
			dashboard.TotalConsultationsDone += avail.ConsultationsDone
		}
		dashboard.Doctors = append(dashboard.Doctors, row)
	}

	return dashboard, nil
}

func joinImageURLs(urls []string) *string {
	if len(urls) == 0 {
		return nil
	}
	joined := strings.Join(urls, ",")
	return &joined
}

// attachImages converts the stored comma-delimited raw URLs into signed
// URLs for the response.
func (s *Service) attachImages(hospital *model.Hospital) {
	if hospital.ImageURLs == nil || *hospital.ImageURLs == "" {
		return
	}
	hospital.Images = s.signer.SignAll(strings.Split(*hospital.ImageURLs, ","))
}
