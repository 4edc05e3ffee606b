package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableTokens(t *testing.T) {
	a := &DoctorAvailability{TotalTokenCount: 30, FilledTokenCount: 12}
	assert.Equal(t, 18, a.AvailableTokens())

	full := &DoctorAvailability{TotalTokenCount: 10, FilledTokenCount: 10}
	assert.Zero(t, full.AvailableTokens())
}

func TestAvailabilityView(t *testing.T) {
	a := &DoctorAvailability{
		ID:               uuid.New(),
		DoctorID:         uuid.New(),
		Date:             "2026-09-01",
		TotalTokenCount:  25,
		FilledTokenCount: 10,
		IsStopped:        true,
	}

	raw, err := json.Marshal(a.View())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, float64(15), decoded["available_tokens"])
	assert.Equal(t, true, decoded["is_stopped"])
	assert.Equal(t, "2026-09-01", decoded["date"])
}

func TestAvailabilityViewNilReceiver(t *testing.T) {
	var a *DoctorAvailability
	assert.Nil(t, a.View())
}
