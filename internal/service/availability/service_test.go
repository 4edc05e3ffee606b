package availability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("availability_svc_test", "test")

type fakeAvailabilityRepo struct {
	repository.AvailabilityRepository

	upsertErr   error
	adjustErr   error
	avail       *model.DoctorAvailability
	days        map[string]*model.DoctorAvailability
	lastUpsert  *repository.AvailabilityUpsert
	lastEvent   *model.OutboxEvent
	upsertCalls int
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, upsert *repository.AvailabilityUpsert, event *model.OutboxEvent) (*model.DoctorAvailability, error) {
	f.upsertCalls++
	f.lastUpsert = upsert
	f.lastEvent = event
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.avail, nil
}

func (f *fakeAvailabilityRepo) AdjustCounters(ctx context.Context, doctorID uuid.UUID, date string, filledDelta, consultationsDelta int) (*model.DoctorAvailability, error) {
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	return f.avail, nil
}

func (f *fakeAvailabilityRepo) GetDays(ctx context.Context, doctorID uuid.UUID, dates []string) (map[string]*model.DoctorAvailability, error) {
	return f.days, nil
}

func newTestService(repo *fakeAvailabilityRepo) *Service {
	return NewService(repo, testMetrics, logger.NewLogger(nil))
}

func TestUpsert_PublishesDayAndEmitsEvent(t *testing.T) {
	doctorID := uuid.New()
	repo := &fakeAvailabilityRepo{
		avail: &model.DoctorAvailability{
			ID:              uuid.New(),
			DoctorID:        doctorID,
			Date:            model.Today(),
			TotalTokenCount: 20,
		},
	}
	svc := newTestService(repo)

	avail, err := svc.Upsert(context.Background(), &model.UpsertAvailabilityRequest{
		DoctorID:   doctorID,
		Date:       model.Today(),
		TokenCount: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, avail.TotalTokenCount)
	assert.Equal(t, 20, repo.lastUpsert.TotalTokenCount)
	require.NotNil(t, repo.lastEvent)
	assert.Equal(t, model.EventAvailabilityUpdated, repo.lastEvent.EventType)
}

func TestUpsert_RejectsInvalidDate(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := newTestService(repo)

	_, err := svc.Upsert(context.Background(), &model.UpsertAvailabilityRequest{
		DoctorID:   uuid.New(),
		Date:       "31-12-2026",
		TokenCount: 10,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrBadRequest))
	assert.Zero(t, repo.upsertCalls)
}

func TestUpsert_RejectsFilledAboveTotal(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := newTestService(repo)

	filled := 15
	_, err := svc.Upsert(context.Background(), &model.UpsertAvailabilityRequest{
		DoctorID:         uuid.New(),
		Date:             model.Today(),
		TokenCount:       10,
		FilledTokenCount: &filled,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, msgTokenBelowFilled, appErr.Message)
	assert.Zero(t, repo.upsertCalls)
}

func TestUpsert_MapsTokenBelowFilledFromRepo(t *testing.T) {
	repo := &fakeAvailabilityRepo{upsertErr: repository.ErrTokenBelowFilled}
	svc := newTestService(repo)

	_, err := svc.Upsert(context.Background(), &model.UpsertAvailabilityRequest{
		DoctorID:   uuid.New(),
		Date:       model.Today(),
		TokenCount: 2,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, msgTokenBelowFilled, appErr.Message)
}

func TestAdjustCounters_RejectsZeroDeltas(t *testing.T) {
	svc := newTestService(&fakeAvailabilityRepo{})

	_, err := svc.AdjustCounters(context.Background(), &model.AdjustCountersRequest{
		DoctorID: uuid.New(),
		Date:     model.Today(),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrBadRequest))
}

func TestAdjustCounters_NotFoundWhenDayUnpublished(t *testing.T) {
	svc := newTestService(&fakeAvailabilityRepo{adjustErr: repository.ErrAvailabilityNotFound})

	_, err := svc.AdjustCounters(context.Background(), &model.AdjustCountersRequest{
		DoctorID:    uuid.New(),
		Date:        model.Today(),
		FilledDelta: 1,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.ErrNotFound))
}

func TestNextDays_FillsUnpublishedDaysWithNil(t *testing.T) {
	doctorID := uuid.New()
	dates := model.NextDays(NextDaysWindow)
	repo := &fakeAvailabilityRepo{
		days: map[string]*model.DoctorAvailability{
			dates[0]: {
				DoctorID:         doctorID,
				Date:             dates[0],
				TotalTokenCount:  10,
				FilledTokenCount: 3,
			},
		},
	}
	svc := newTestService(repo)

	days, err := svc.NextDays(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, days, NextDaysWindow)

	assert.Equal(t, dates[0], days[0].Date)
	assert.NotNil(t, days[0].Availability)
	for i := 1; i < NextDaysWindow; i++ {
		assert.Equal(t, dates[i], days[i].Date)
		assert.Nil(t, days[i].Availability)
	}
}
