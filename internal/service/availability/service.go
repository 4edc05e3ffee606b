package availability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/metrics"
)

const msgTokenBelowFilled = "cannot reduce token count below already filled tokens"

// NextDaysWindow is how far ahead the doctor's day list looks.
const NextDaysWindow = 3

type Service struct {
	repo    repository.AvailabilityRepository
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(repo repository.AvailabilityRepository, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{repo: repo, metrics: m, logger: l}
}

// Upsert publishes or edits a doctor's day. Lowering the total below the
// already filled count is rejected without changing the row.
func (s *Service) Upsert(ctx context.Context, req *model.UpsertAvailabilityRequest) (*model.DoctorAvailability, error) {
	if !model.ValidCivilDate(req.Date) {
		return nil, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", nil)
	}
	if req.FilledTokenCount != nil && *req.FilledTokenCount > req.TokenCount {
		return nil, apperrors.BadRequest(msgTokenBelowFilled, nil)
	}

	upsert := &repository.AvailabilityUpsert{
		DoctorID:          req.DoctorID,
		Date:              req.Date,
		TotalTokenCount:   req.TokenCount,
		IsStopped:         req.IsStopped,
		FilledTokenCount:  req.FilledTokenCount,
		ConsultationsDone: req.ConsultationsDone,
	}

	event, err := availabilityEvent(req.DoctorID, req.Date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	avail, err := s.repo.Upsert(ctx, upsert, event)
	if err == repository.ErrTokenBelowFilled {
		return nil, apperrors.BadRequest(msgTokenBelowFilled, err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.TokensRemaining.WithLabelValues(avail.DoctorID.String()).Set(float64(avail.AvailableTokens()))
	return avail, nil
}

// AdjustCounters applies relative deltas. The clamping happens in the
// UPDATE itself, so concurrent taps from two devices both land.
func (s *Service) AdjustCounters(ctx context.Context, req *model.AdjustCountersRequest) (*model.DoctorAvailability, error) {
	if !model.ValidCivilDate(req.Date) {
		return nil, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", nil)
	}
	if req.FilledDelta == 0 && req.ConsultationsDelta == 0 {
		return nil, apperrors.BadRequest("at least one delta must be non-zero", nil)
	}

	avail, err := s.repo.AdjustCounters(ctx, req.DoctorID, req.Date, req.FilledDelta, req.ConsultationsDelta)
	if err == repository.ErrAvailabilityNotFound {
		return nil, apperrors.NotFound("availability", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.TokensRemaining.WithLabelValues(avail.DoctorID.String()).Set(float64(avail.AvailableTokens()))
	return avail, nil
}

func (s *Service) Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.DoctorAvailability, error) {
	if !model.ValidCivilDate(date) {
		return nil, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", nil)
	}
	avail, err := s.repo.Get(ctx, doctorID, date)
	if err == repository.ErrAvailabilityNotFound {
		return nil, apperrors.NotFound("availability", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return avail, nil
}

// NextDays returns one entry per upcoming day starting today; days the
// doctor has not published come back with a nil availability.
func (s *Service) NextDays(ctx context.Context, doctorID uuid.UUID) ([]model.DayAvailability, error) {
	dates := model.NextDays(NextDaysWindow)
	byDate, err := s.repo.GetDays(ctx, doctorID, dates)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	days := make([]model.DayAvailability, len(dates))
	for i, date := range dates {
		days[i] = model.DayAvailability{
			Date:         date,
			Availability: byDate[date].View(),
		}
	}
	return days, nil
}

func availabilityEvent(doctorID uuid.UUID, date string) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"doctor_id": doctorID,
		"date":      date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal availability event: %w", err)
	}
	return &model.OutboxEvent{
		EventType: model.EventAvailabilityUpdated,
		Payload:   payload,
	}, nil
}
