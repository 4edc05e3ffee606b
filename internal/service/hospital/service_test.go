package hospital

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/internal/storage"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type fakeHospitalRepo struct {
	repository.HospitalRepository

	hospitals map[uuid.UUID]*model.Hospital
	doctors   []model.DoctorSummary
}

func (f *fakeHospitalRepo) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	if h, ok := f.hospitals[id]; ok {
		return h, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHospitalRepo) ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]model.DoctorSummary, error) {
	return f.doctors, nil
}

type fakeAvailabilityRepo struct {
	repository.AvailabilityRepository

	byDoctor map[uuid.UUID]*model.DoctorAvailability
}

func (f *fakeAvailabilityRepo) GetForDoctorsOnDate(ctx context.Context, doctorIDs []uuid.UUID, date string) (map[uuid.UUID]*model.DoctorAvailability, error) {
	return f.byDoctor, nil
}

type fakeDoctorRepo struct {
	repository.DoctorRepository
}

func testSigner() *storage.Signer {
	return storage.NewSigner("test-secret", time.Hour)
}

func TestAdminDashboard_JoinsDoctorsWithTodaysAvailability(t *testing.T) {
	hospitalID := uuid.New()
	publishedID, unpublishedID := uuid.New(), uuid.New()

	hospitalRepo := &fakeHospitalRepo{
		hospitals: map[uuid.UUID]*model.Hospital{
			hospitalID: {Base: model.Base{ID: hospitalID}, Name: "City Hospital"},
		},
		doctors: []model.DoctorSummary{
			{ID: publishedID, Name: "Dr. Asha", DailyTokenCount: 30},
			{ID: unpublishedID, Name: "Dr. Binu", DailyTokenCount: 20},
		},
	}
	availRepo := &fakeAvailabilityRepo{
		byDoctor: map[uuid.UUID]*model.DoctorAvailability{
			publishedID: {
				DoctorID:          publishedID,
				Date:              model.Today(),
				TotalTokenCount:   25,
				FilledTokenCount:  10,
				ConsultationsDone: 6,
			},
		},
	}

	svc := NewService(hospitalRepo, &fakeDoctorRepo{}, availRepo, testSigner())

	dashboard, err := svc.AdminDashboard(context.Background(), hospitalID)
	require.NoError(t, err)

	assert.Equal(t, model.Today(), dashboard.CurrentDate)
	assert.Equal(t, 2, dashboard.TotalDoctors)
	assert.Equal(t, 10, dashboard.TotalAppointmentsToday)
	assert.Equal(t, 6, dashboard.TotalConsultationsDone)
	require.Len(t, dashboard.Doctors, 2)

	published := dashboard.Doctors[0]
	assert.Equal(t, 25, published.TotalTokenCount)
	assert.Equal(t, 10, published.TokensIssuedToday)
	assert.Equal(t, 15, published.AvailableTokens)
	assert.True(t, published.IsAvailable)

	// No availability row yet: profile defaults, reads as unavailable.
	unpublished := dashboard.Doctors[1]
	assert.Equal(t, 20, unpublished.TotalTokenCount)
	assert.Equal(t, 20, unpublished.AvailableTokens)
	assert.Zero(t, unpublished.TokensIssuedToday)
	assert.False(t, unpublished.IsAvailable)
}

func TestAdminDashboard_UnknownHospital(t *testing.T) {
	svc := NewService(&fakeHospitalRepo{hospitals: map[uuid.UUID]*model.Hospital{}}, &fakeDoctorRepo{}, &fakeAvailabilityRepo{}, testSigner())

	_, err := svc.AdminDashboard(context.Background(), uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.ErrNotFound))
}

func TestGet_SignsStoredImages(t *testing.T) {
	hospitalID := uuid.New()
	raw := "https://cdn.example.com/a.jpg,https://cdn.example.com/b.jpg"
	hospitalRepo := &fakeHospitalRepo{
		hospitals: map[uuid.UUID]*model.Hospital{
			hospitalID: {Base: model.Base{ID: hospitalID}, Name: "City Hospital", ImageURLs: &raw},
		},
	}
	signer := testSigner()
	svc := NewService(hospitalRepo, &fakeDoctorRepo{}, &fakeAvailabilityRepo{}, signer)

	hospital, err := svc.Get(context.Background(), hospitalID)
	require.NoError(t, err)

	require.Len(t, hospital.Images, 2)
	for _, u := range hospital.Images {
		assert.NoError(t, signer.Verify(u))
	}
}
