package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/email"
	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/metrics"
)

// Client-visible booking failures. The wording is load-bearing: the mobile
// clients match on these messages.
const (
	msgDoctorNotAvailable = "doctor is not available for booking on this date"
	msgBookingStopped     = "doctor is not accepting appointments for this date"
	msgNoTokensLeft       = "no more appointments available for this date"
	msgQueueNumTaken      = "could not assign a queue number, please retry"
)

type Service struct {
	availabilityRepo repository.AvailabilityRepository
	tokenRepo        repository.TokenRepository
	userRepo         repository.UserRepository
	mailer           email.Sender
	metrics          *metrics.Metrics
	logger           *logger.Logger
}

func NewService(
	availabilityRepo repository.AvailabilityRepository,
	tokenRepo repository.TokenRepository,
	userRepo repository.UserRepository,
	mailer email.Sender,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		tokenRepo:        tokenRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		metrics:          m,
		logger:           l,
	}
}

// BookToken books the next queue number for the doctor's day. The queue
// number is assigned by the database inside a single conditional UPDATE;
// this method never reads the filled count before writing it.
func (s *Service) BookToken(ctx context.Context, req *model.BookTokenRequest) (*model.BookTokenResponse, error) {
	if !model.ValidCivilDate(req.TokenDate) {
		return nil, apperrors.BadRequest("invalid token_date, expected YYYY-MM-DD", nil)
	}
	if req.TokenDate < model.Today() {
		return nil, apperrors.BadRequest("cannot book a token for a past date", nil)
	}

	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !model.HasRole(doctor.Roles, model.RoleDoctor) {
		return nil, apperrors.BadRequest("user is not a registered doctor", nil)
	}

	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}

	token := &model.Token{
		DoctorID:    req.DoctorID,
		UserID:      req.UserID,
		TokenDate:   req.TokenDate,
		Description: req.Description,
	}

	event, err := bookingEvent(token)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	avail, err := s.availabilityRepo.BookToken(ctx, token, event)
	if err != nil {
		return nil, s.bookingError(err)
	}

	s.metrics.BookingsTotal.WithLabelValues("success").Inc()
	s.metrics.TokensRemaining.WithLabelValues(avail.DoctorID.String()).Set(float64(avail.AvailableTokens()))

	s.sendConfirmation(ctx, token)

	return &model.BookTokenResponse{
		Token:           token,
		RemainingTokens: avail.AvailableTokens(),
	}, nil
}

func (s *Service) bookingError(err error) error {
	switch err {
	case repository.ErrAvailabilityNotFound:
		s.metrics.BookingsTotal.WithLabelValues("not_available").Inc()
		return apperrors.BadRequest(msgDoctorNotAvailable, err)
	case repository.ErrBookingStopped:
		s.metrics.BookingsTotal.WithLabelValues("stopped").Inc()
		return apperrors.BadRequest(msgBookingStopped, err)
	case repository.ErrNoTokensLeft:
		s.metrics.BookingsTotal.WithLabelValues("full").Inc()
		return apperrors.BadRequest(msgNoTokensLeft, err)
	case repository.ErrDuplicateQueueNum:
		s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		s.metrics.BookingConflicts.Inc()
		return apperrors.Conflict(msgQueueNumTaken, err)
	default:
		s.metrics.BookingsTotal.WithLabelValues("error").Inc()
		return apperrors.Internal(err)
	}
}

// sendConfirmation is best-effort: mail failures are logged and never undo
// a committed booking.
func (s *Service) sendConfirmation(ctx context.Context, token *model.Token) {
	patient, err := s.userRepo.Get(ctx, token.UserID)
	if err != nil {
		s.logger.Error(err, "booking confirmation: failed to load patient")
		return
	}
	doctor, err := s.userRepo.Get(ctx, token.DoctorID)
	if err != nil {
		s.logger.Error(err, "booking confirmation: failed to load doctor")
		return
	}

	if err := s.mailer.SendBookingConfirmation(patient.Email, patient.Name, doctor.Name, token); err != nil {
		s.logger.Error(err, "booking confirmation: failed to send mail")
	}
}

func bookingEvent(token *model.Token) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking event: %w", err)
	}
	return &model.OutboxEvent{
		EventType: model.EventTokenBooked,
		Payload:   payload,
	}, nil
}

func (s *Service) GetToken(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	token, err := s.tokenRepo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("token", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return token, nil
}

// ListUserTokens returns the user's bookings, optionally limited to today
// and later.
func (s *Service) ListUserTokens(ctx context.Context, userID uuid.UUID, upcoming bool) ([]*model.Token, error) {
	tokens, err := s.tokenRepo.ListForUser(ctx, userID, model.Today(), upcoming)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tokens, nil
}

// ListDoctorTokens returns a doctor's bookings for one day in queue order.
func (s *Service) ListDoctorTokens(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Token, error) {
	if !model.ValidCivilDate(date) {
		return nil, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", nil)
	}
	tokens, err := s.tokenRepo.ListForDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tokens, nil
}
