package specialization

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/repository"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type fakeSpecializationRepo struct {
	repository.SpecializationRepository

	attachedHospital uuid.UUID
	detachedHospital uuid.UUID
	detachedDoctor   uuid.UUID
	lastSpec         uuid.UUID
	detachErr        error
}

func (f *fakeSpecializationRepo) AttachToHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	f.attachedHospital = hospitalID
	f.lastSpec = specializationID
	return nil
}

func (f *fakeSpecializationRepo) DetachFromHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error {
	if f.detachErr != nil {
		return f.detachErr
	}
	f.detachedHospital = hospitalID
	f.lastSpec = specializationID
	return nil
}

func (f *fakeSpecializationRepo) DetachFromDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error {
	if f.detachErr != nil {
		return f.detachErr
	}
	f.detachedDoctor = doctorID
	f.lastSpec = specializationID
	return nil
}

func TestDetachFromHospital_RemovesAttachment(t *testing.T) {
	repo := &fakeSpecializationRepo{}
	svc := NewService(repo)

	hospitalID := uuid.New()
	specID := uuid.New()
	require.NoError(t, svc.AttachToHospital(context.Background(), hospitalID, specID))
	require.NoError(t, svc.DetachFromHospital(context.Background(), hospitalID, specID))

	assert.Equal(t, hospitalID, repo.detachedHospital)
	assert.Equal(t, specID, repo.lastSpec)
}

func TestDetachFromHospital_UnknownAttachmentIsNotFound(t *testing.T) {
	repo := &fakeSpecializationRepo{detachErr: repository.ErrNotFound}
	svc := NewService(repo)

	err := svc.DetachFromHospital(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.ErrNotFound))
}

func TestDetachFromDoctor_UnknownAttachmentIsNotFound(t *testing.T) {
	repo := &fakeSpecializationRepo{detachErr: repository.ErrNotFound}
	svc := NewService(repo)

	err := svc.DetachFromDoctor(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.ErrNotFound))
}
